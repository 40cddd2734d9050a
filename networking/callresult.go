package networking

import (
	"net/http"
	"time"
)

type CallContent struct {
	Header http.Header
	Body   string
}

// CallResult records one exchange with the service.
type CallResult struct {
	RequestID       string
	RequestURL      string
	StatusCode      int
	RequestContent  CallContent
	ResponseContent CallContent
	InvokeAt        time.Time
	ReturnAt        time.Time
	DecodedAt       time.Time
}
