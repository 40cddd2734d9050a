package qanalytics

import (
	"fmt"
	"time"

	"github.com/neirolis/qanalytics-go/networking"
)

//Response of the reporting service to one call
type Response struct {
	// Code is the classified outcome.
	Code RespCode
	// HTTPCode is the raw HTTP status.
	HTTPCode int
	// Text is the token extracted from the body.
	Text string
	// FaultCode is the SOAP faultcode when Text came from a fault.
	FaultCode string
	// Trace describes the exchange.
	Trace *networking.CallResult
}

// OK reports whether the service accepted the request.
func (r *Response) OK() bool {
	return r != nil && r.Code == Correcto
}

func (r *Response) String() string {
	if r == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%s (HTTP %d): %s", r.Code, r.HTTPCode, r.Text)
}

// ParseError is returned when a response body cannot be classified.
// It matches ErrUnparseableResponse with errors.Is.
type ParseError struct {
	HTTPCode int
	Body     string
	Trace    *networking.CallResult
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("HTTP Status %d: %v", e.HTTPCode, ErrUnparseableResponse)
}

func (e *ParseError) Unwrap() error {
	return ErrUnparseableResponse
}

// classify builds the Response for a body received from method.
func classify(method string, status int, body []byte, trace *networking.CallResult) (*Response, error) {
	result, err := ExtractResult(string(body), method)
	if err != nil {
		return nil, &ParseError{HTTPCode: status, Body: string(body), Trace: trace}
	}

	resp := &Response{
		Code:     ParseRespCode(result.Text),
		HTTPCode: status,
		Text:     result.Text,
		Trace:    trace,
	}

	if result.Kind == FaultToken {
		if fault := decodeFault(body); fault != nil {
			resp.FaultCode = fault.Code
		}
	}

	if trace != nil {
		trace.DecodedAt = time.Now()
	}

	return resp, nil
}
