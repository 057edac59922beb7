package docai

import "fmt"

// ServiceError reports a non-success response from the document-AI service.
type ServiceError struct {
	StatusCode int
	Body       string
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("document-AI service error (status %d): %s", e.StatusCode, e.Body)
}
