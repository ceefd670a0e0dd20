//go:build !windows

package ocr

import (
	"fmt"
	"strings"
	"sync"

	"github.com/otiai10/gosseract/v2"
)

// Service handles optical character recognition. A tesseract client is not
// safe for concurrent use, so calls are serialized.
type Service struct {
	mu     sync.Mutex
	client *gosseract.Client
}

// Result contains the OCR processing result
type Result struct {
	Text string
}

// Available reports whether OCR works on this platform.
func Available() bool { return true }

// New creates an OCR service for the given tesseract languages, e.g. "rus+eng"
func New(language string) (*Service, error) {
	client := gosseract.NewClient()

	if err := client.SetLanguage(strings.Split(language, "+")...); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to set OCR language: %w", err)
	}

	// Ingredient notes are a single column of short lines
	if err := client.SetPageSegMode(gosseract.PSM_SINGLE_BLOCK); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to set page segmentation mode: %w", err)
	}

	return &Service{client: client}, nil
}

// ProcessImage extracts text from an encoded image
func (s *Service) ProcessImage(image []byte) (*Result, error) {
	if len(image) == 0 {
		return nil, ErrEmptyImage
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.client.SetImageFromBytes(image); err != nil {
		return nil, fmt.Errorf("failed to set image: %w", err)
	}

	text, err := s.client.Text()
	if err != nil {
		return nil, fmt.Errorf("failed to extract text: %w", err)
	}

	return &Result{Text: text}, nil
}

// Close releases OCR resources
func (s *Service) Close() error {
	if s.client != nil {
		return s.client.Close()
	}
	return nil
}
