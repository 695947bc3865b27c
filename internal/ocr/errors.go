package ocr

import (
	"errors"
	"fmt"
)

// Recipe scanning errors
var (
	// ErrInvalidImage is returned when the input path cannot be read or the
	// bytes are not a decodable image. It is the only error a Pipeline
	// returns to its callers; every other failure degrades the Result.
	ErrInvalidImage = errors.New("invalid or unreadable image")

	// ErrRecognition marks a failed engine call. A single failure only
	// empties that strategy's candidate.
	ErrRecognition = errors.New("text recognition failed")

	// ErrNoUsableText is reported when the best candidate has fewer than
	// MinUsableChars non-whitespace characters.
	ErrNoUsableText = errors.New("no usable text recognized")

	// ErrPipelinePanic is reported when processing panicked and was recovered.
	ErrPipelinePanic = errors.New("recipe scan aborted unexpectedly")

	// ErrOrientationUnsupported is returned by engines that cannot detect
	// page orientation.
	ErrOrientationUnsupported = errors.New("orientation detection not supported by engine")

	// ErrMissingCredentials is returned when neither GOOGLE_APPLICATION_CREDENTIALS
	// nor GOOGLE_CREDENTIALS environment variables are configured.
	ErrMissingCredentials = errors.New("missing Google Cloud credentials: set GOOGLE_APPLICATION_CREDENTIALS or GOOGLE_CREDENTIALS environment variable")

	// ErrInvalidConfiguration is returned when an engine is missing required settings.
	ErrInvalidConfiguration = errors.New("invalid OCR engine configuration")
)

// OCRError wraps errors with additional context about the failed step.
type OCRError struct {
	// Op is the operation that failed (e.g., "ProcessFile", "Recognize").
	Op string

	// Err is the underlying error.
	Err error

	// Details provides additional context about the failure.
	Details string
}

// Error implements the error interface.
func (e *OCRError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("ocr: %s failed: %s: %v", e.Op, e.Details, e.Err)
	}
	return fmt.Sprintf("ocr: %s failed: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error for error unwrapping.
func (e *OCRError) Unwrap() error {
	return e.Err
}

// Is implements error matching for Go 1.13+ error handling.
func (e *OCRError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// NewOCRError creates a new OCRError with the specified operation and underlying error.
func NewOCRError(op string, err error, details string) *OCRError {
	return &OCRError{
		Op:      op,
		Err:     err,
		Details: details,
	}
}

// WrapOCRError wraps an error as an OCRError if it isn't already one.
func WrapOCRError(op string, err error, details string) error {
	if err == nil {
		return nil
	}

	var ocrErr *OCRError
	if errors.As(err, &ocrErr) {
		return err // Already wrapped
	}

	return NewOCRError(op, err, details)
}

// recognitionError marks err as a recognition failure while keeping the
// engine's cause reachable through errors.Is / errors.As.
func recognitionError(op string, err error, details string) error {
	if errors.Is(err, ErrRecognition) {
		return err
	}
	return NewOCRError(op, fmt.Errorf("%w: %w", ErrRecognition, err), details)
}
