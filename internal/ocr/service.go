// Package ocr reads text from photos of handwritten or printed notes.
package ocr

import "errors"

var (
	ErrUnavailable = errors.New("OCR is not available on this platform")
	ErrEmptyImage  = errors.New("image is empty")
)

// ReadText returns only the recognized text
func (s *Service) ReadText(image []byte) (string, error) {
	result, err := s.ProcessImage(image)
	if err != nil {
		return "", err
	}
	return result.Text, nil
}
