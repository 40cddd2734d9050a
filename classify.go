package qanalytics

import (
	"encoding/xml"
	"errors"
	"regexp"
	"strings"

	"github.com/hooklift/gowsdl/soap"
)

// ErrUnparseableResponse is returned when a body has neither a method
// result element nor a SOAP fault string.
var ErrUnparseableResponse = errors.New("response has neither a method result nor a fault string")

var faultStringRegexp = regexp.MustCompile(`(?s)<faultstring>(.+)</faultstring>`)

//ResultKind tells which element a result token came from
type ResultKind int

const (
	ResultToken ResultKind = iota + 1
	FaultToken
)

func (kind ResultKind) String() string {
	switch kind {
	case ResultToken:
		return "result"
	case FaultToken:
		return "fault"
	default:
		return "none"
	}
}

// Result is the token found in a response body.
type Result struct {
	Kind ResultKind
	Text string
}

func resultRegexp(method string) *regexp.Regexp {
	tag := regexp.QuoteMeta(strings.TrimPrefix(method, "/") + "Result")
	return regexp.MustCompile(`(?s)<` + tag + `>([A-Za-z_0-9 ]+)</` + tag + `>`)
}

// ExtractResult looks for <{method}Result>, then for <faultstring>.
func ExtractResult(body, method string) (Result, error) {
	if m := resultRegexp(method).FindStringSubmatch(body); m != nil {
		return Result{Kind: ResultToken, Text: m[1]}, nil
	}

	if m := faultStringRegexp.FindStringSubmatch(body); m != nil {
		return Result{Kind: FaultToken, Text: m[1]}, nil
	}

	return Result{}, ErrUnparseableResponse
}

// decodeFault reads the SOAP 1.1 fault of body, if body is a well-formed
// envelope carrying one.
func decodeFault(body []byte) *soap.SOAPFault {
	envelope := soap.SOAPEnvelopeResponse{
		Body: soap.SOAPBodyResponse{
			Content: &struct{}{},
			Fault:   &soap.SOAPFault{},
		},
	}

	if err := xml.Unmarshal(body, &envelope); err != nil {
		return nil
	}

	var fault *soap.SOAPFault
	if errors.As(envelope.Body.ErrorFromFault(), &fault) {
		return fault
	}
	return nil
}
