package datasource

import "fmt"

// Error codes reported by the odds feed
const (
	ErrCodeRateLimitExceeded    = "rate_limit_exceeded"
	ErrCodeAuthenticationFailed = "authentication_failed"
	ErrCodeInvalidData          = "invalid_data"
	ErrCodeNetworkError         = "network_error"
	ErrCodeServerError          = "server_error"
)

// FeedError represents a failed odds feed call
type FeedError struct {
	Source  string
	Code    string
	Message string
	Err     error
}

func (e *FeedError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %s (%v)", e.Source, e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s: %s", e.Source, e.Code, e.Message)
}

func (e *FeedError) Unwrap() error {
	return e.Err
}

func newFeedError(code, message string, err error) *FeedError {
	return &FeedError{Source: feedSource, Code: code, Message: message, Err: err}
}
