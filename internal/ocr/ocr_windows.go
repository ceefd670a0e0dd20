//go:build windows

package ocr

// Service is a stub, tesseract is not linked on Windows
type Service struct{}

// Result contains the OCR processing result
type Result struct {
	Text string
}

// Available reports whether OCR works on this platform.
func Available() bool { return false }

// New always fails on Windows, run the server in the Docker image instead
func New(language string) (*Service, error) {
	return nil, ErrUnavailable
}

func (s *Service) ProcessImage(image []byte) (*Result, error) {
	return nil, ErrUnavailable
}

func (s *Service) Close() error {
	return nil
}
