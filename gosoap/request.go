package gosoap

import (
	"time"
)

// NewRequestSOAP builds the full request envelope for a service method:
// the Authentication header with the credentials and a body holding the
// method element with one child per field.
func NewRequestSOAP(ns, method, user, password string, fields Fields, loc *time.Location) (SoapMessage, error) {
	element, err := NewMethodElement(ns, method, fields, loc)
	if err != nil {
		return "", err
	}

	soap := NewEmptySOAP()
	if err := soap.AddRootNamespaces(Xlmns(ns)); err != nil {
		return "", err
	}
	if err := soap.AddAuthentication(ns, user, password); err != nil {
		return "", err
	}
	if err := soap.AddBodyContent(element); err != nil {
		return "", err
	}

	return soap, nil
}
