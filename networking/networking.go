package networking

import (
	"bytes"
	"context"
	"net/http"
	"strings"

	"github.com/hooklift/gowsdl/soap"
)

// Headers expected by the reporting service on every call.
const (
	ContentType     = "text/xml;charset=UTF-8"
	AcceptEncoding  = "gzip,deflate"
	Connection      = "Keep-Alive"
	UserAgent       = "Apache-HttpClient/4.5.2 (Java/1.8.0_181)"
	ActionNamespace = "http://tempuri.org"
)

// SOAPAction returns the SOAPAction header value for method.
func SOAPAction(method string) string {
	if !strings.HasPrefix(method, "/") {
		method = "/" + method
	}
	return ActionNamespace + method
}

// SetHeaders writes the fixed service headers on req.
// The SOAPAction key is stored verbatim, not canonicalized.
func SetHeaders(req *http.Request, host, action string) {
	req.Header.Set("Accept-Encoding", AcceptEncoding)
	req.Header.Set("Content-Type", ContentType)
	req.Header["SOAPAction"] = []string{action}
	req.Header.Set("Connection", Connection)
	req.Header.Set("User-Agent", UserAgent)
	if host != "" {
		req.Host = host
	}
}

// Action returns the SOAPAction value of h, stored either verbatim by
// SetHeaders or canonicalized by a server.
func Action(h http.Header) string {
	if v := h["SOAPAction"]; len(v) > 0 {
		return v[0]
	}
	return h.Get("SOAPAction")
}

// SendSoap send soap message
func SendSoap(httpClient soap.HTTPClient, endpoint, host, action, message string) (*http.Response, error) {
	return SendSoapWithCtx(context.Background(), httpClient, endpoint, host, action, message)
}

// SendSoapWithCtx send soap message with context
func SendSoapWithCtx(ctx context.Context, httpClient soap.HTTPClient, endpoint, host, action, message string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewBufferString(message))
	if err != nil {
		return nil, err
	}

	SetHeaders(req, host, action)

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{URL: endpoint, Err: err}
	}

	return resp, nil
}
