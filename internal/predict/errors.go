package predict

import "fmt"

// ValidationError reports a request field outside its documented range.
// It is returned before any network call is made.
type ValidationError struct {
	Field    string
	Value    float64
	Min, Max float64
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s = %g outside [%g, %g]", e.Field, e.Value, e.Min, e.Max)
}

// ServiceError is returned when the service answered with a non-success status
// or with a body that could not be decoded.
type ServiceError struct {
	StatusCode int
	Body       string
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("prediction service returned %d: %s", e.StatusCode, e.Body)
}

// UnavailableError is returned when the call could not complete at all.
type UnavailableError struct {
	URL string
	Err error
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("cannot reach prediction service at %s: %v", e.URL, e.Err)
}

func (e *UnavailableError) Unwrap() error { return e.Err }
