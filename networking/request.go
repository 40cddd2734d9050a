package networking

import (
	"context"
	"net/http"
	"time"

	"github.com/hooklift/gowsdl/soap"

	"github.com/neirolis/qanalytics-go/gosoap"
)

type Request struct {
	ctx        context.Context
	httpClient soap.HTTPClient
	endpoint   string
	host       string
	action     string
	message    gosoap.SoapMessage
	requestID  string
}

func NewRequest(endpoint string, message gosoap.SoapMessage) *Request {
	return &Request{
		endpoint: endpoint,
		message:  message,
	}
}

func (r *Request) WithContext(ctx context.Context) *Request {
	r.ctx = ctx
	return r
}

func (r *Request) WithHttpClient(httpClient soap.HTTPClient) *Request {
	r.httpClient = httpClient
	return r
}

// WithHost sets the Host header; the endpoint host is used when empty.
func (r *Request) WithHost(host string) *Request {
	r.host = host
	return r
}

func (r *Request) WithAction(action string) *Request {
	r.action = action
	return r
}

// WithRequestID tags the call trace.
func (r *Request) WithRequestID(id string) *Request {
	r.requestID = id
	return r
}

// Do sends the message once. The returned Response carries the body or
// the error; the CallResult describes the exchange either way.
func (r *Request) Do() (*Response, *CallResult) {
	resp := &Response{}

	if r.httpClient == nil {
		r.httpClient = new(http.Client)
	}
	ctx := r.ctx
	if ctx == nil {
		ctx = context.Background()
	}

	trace := &CallResult{
		RequestID:  r.requestID,
		RequestURL: r.endpoint,
		RequestContent: CallContent{
			Body: r.message.String(),
		},
	}

	trace.InvokeAt = time.Now()
	var response *http.Response
	response, resp.error = SendSoapWithCtx(ctx, r.httpClient, r.endpoint, r.host, r.action, r.message.String())
	resp.SetResponse(response)
	trace.ReturnAt = time.Now()

	if response != nil {
		trace.StatusCode = response.StatusCode
		if response.Request != nil {
			trace.RequestContent.Header = response.Request.Header.Clone()
		}
		trace.ResponseContent = CallContent{
			Header: response.Header.Clone(),
			Body:   string(resp.body),
		}
	}

	return resp, trace
}
