package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrResourceNotFound      = errors.New("resource not found")
	ErrRemoteFetchFailed     = errors.New("remote fetch failed")
	ErrCompression           = errors.New("compression error")
	ErrUnrecognizedReference = errors.New("unrecognized reference")
	ErrConfiguration         = errors.New("configuration error")
	ErrPublish               = errors.New("publish failed")
)

// Wrap builds an error message that includes component context while tagging it
// with the provided marker for later classification. The marker should be one of
// the exported sentinel errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrPublish
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// ResourceError reports a failure tied to a single asset path or URL.
type ResourceError struct {
	Marker error
	Path   string
	Err    error
}

// NewResourceError tags err with marker and the offending path.
func NewResourceError(marker error, path string, err error) *ResourceError {
	return &ResourceError{Marker: marker, Path: path, Err: err}
}

func (e *ResourceError) Error() string {
	marker := "resource error"
	if e.Marker != nil {
		marker = e.Marker.Error()
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", marker, e.Path, e.Err)
	}
	return fmt.Sprintf("%s: %s", marker, e.Path)
}

func (e *ResourceError) Unwrap() []error {
	errs := make([]error, 0, 2)
	if e.Marker != nil {
		errs = append(errs, e.Marker)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// FailedPath returns the path carried by the first ResourceError in err's chain.
func FailedPath(err error) (string, bool) {
	var resErr *ResourceError
	if errors.As(err, &resErr) {
		return resErr.Path, true
	}
	return "", false
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "pipeline failure"
	}
	return strings.Join(parts, ": ")
}
