// Package qanalytics is a client for the QAnalytics SOAP reporting service.
//
// A Client holds the credentials and connection settings; each SendRequest
// builds one envelope, posts it and classifies the answer:
//
//	client, err := qanalytics.NewClient(qanalytics.ClientParams{User: "WS_test", Password: "$$WS17"})
//	...
//	resp, err := client.SendRequest(ctx, fields, "/gps_test/service.asmx", "WM_INS_REPORTE_PUNTO_A_PUNTO")
package qanalytics

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/gofrs/uuid"
	"github.com/hooklift/gowsdl/soap"

	"github.com/neirolis/qanalytics-go/gosoap"
	"github.com/neirolis/qanalytics-go/internal/logger"
	"github.com/neirolis/qanalytics-go/networking"
)

// Defaults applied by NewClient to empty ClientParams fields.
const (
	DefaultTimezone  = "Chile/Continental"
	DefaultHost      = "ww2.qanalytics.cl"
	DefaultProtocol  = "http"
	DefaultNamespace = "tem"
)

// ErrTransport matches errors raised when no response was obtained.
var ErrTransport = networking.ErrTransport

//ClientParams configures a Client. Zero fields take the defaults.
type ClientParams struct {
	User     string
	Password string
	// Timezone is an IANA zone name used to render timestamps.
	Timezone string
	Host     string
	Protocol string
	// Namespace is the prefix qualifying the method and field elements.
	Namespace  string
	HttpClient soap.HTTPClient
}

//Client for the reporting service.
//It holds no mutable state and may be shared between goroutines.
type Client struct {
	params   ClientParams
	location *time.Location
}

//NewClient function construct a Client, resolving the timezone
func NewClient(params ClientParams) (*Client, error) {
	if params.Timezone == "" {
		params.Timezone = DefaultTimezone
	}
	if params.Host == "" {
		params.Host = DefaultHost
	}
	if params.Protocol == "" {
		params.Protocol = DefaultProtocol
	}
	if params.Namespace == "" {
		params.Namespace = DefaultNamespace
	}
	if params.HttpClient == nil {
		params.HttpClient = new(http.Client)
	}

	location, err := time.LoadLocation(params.Timezone)
	if err != nil {
		return nil, fmt.Errorf("timezone %q: %w", params.Timezone, err)
	}

	return &Client{
		params:   params,
		location: location,
	}, nil
}

func (c *Client) GetHost() string {
	return c.params.Host
}

func (c *Client) GetProtocol() string {
	return c.params.Protocol
}

func (c *Client) GetNamespace() string {
	return c.params.Namespace
}

func (c *Client) GetUser() string {
	return c.params.User
}

// Location returns the timezone timestamps are rendered in.
func (c *Client) Location() *time.Location {
	return c.location
}

// BuildURL returns {protocol}://{host}{endpoint}.
func (c *Client) BuildURL(endpoint string) string {
	return c.params.Protocol + "://" + c.params.Host + endpoint
}

// BuildRequestSOAP returns the envelope SendRequestNS would post.
func (c *Client) BuildRequestSOAP(data gosoap.Fields, method, namespace string) (gosoap.SoapMessage, error) {
	if namespace == "" {
		namespace = c.params.Namespace
	}
	return gosoap.NewRequestSOAP(namespace, method, c.params.User, c.params.Password, data, c.location)
}

// SendRequest posts data to endpoint as a call of method, using the client namespace.
func (c *Client) SendRequest(ctx context.Context, data gosoap.Fields, endpoint, method string) (*Response, error) {
	return c.SendRequestNS(ctx, data, endpoint, method, c.params.Namespace)
}

// SendRequestNS posts data to endpoint as a call of method qualified by namespace.
//
// A *networking.TransportError (matching ErrTransport) is returned when the
// service could not be reached, and a *ParseError (matching
// ErrUnparseableResponse) when the body carries no result token. Tokens the
// client does not know are not errors: they yield Code == RequestError.
func (c *Client) SendRequestNS(ctx context.Context, data gosoap.Fields, endpoint, method, namespace string) (*Response, error) {
	method = strings.TrimPrefix(method, "/")

	soapMsg, err := c.BuildRequestSOAP(data, method, namespace)
	if err != nil {
		return nil, err
	}

	requestID := uuid.Must(uuid.NewV4()).String()
	url := c.BuildURL(endpoint)
	logger.Debug("---> request", requestID, url, soapMsg.Masked())

	resp, trace := networking.NewRequest(url, soapMsg).
		WithContext(ctx).
		WithHttpClient(c.params.HttpClient).
		WithHost(c.params.Host).
		WithAction(networking.SOAPAction(method)).
		WithRequestID(requestID).
		Do()

	body, err := resp.Body()
	if err != nil {
		logger.Debug("<--- request", requestID, "failed:", err.Error())
		return nil, err
	}
	logger.Debug("<--- request", requestID, fmt.Sprintf("HTTP %d", resp.StatusCode()), string(body))

	result, err := classify(method, resp.StatusCode(), body, trace)
	if err != nil {
		logger.Warning("Unparseable response for", method, "request", requestID, "HTTP", resp.StatusCode())
		return nil, err
	}

	return result, nil
}
