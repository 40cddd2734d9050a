package gosoap

import (
	"encoding/xml"
	"errors"
	"strings"

	"github.com/beevik/etree"
	"github.com/ucarion/c14n"
)

//SoapMessage type from string
type SoapMessage string

var errBodyNotFound = errors.New("body element not found")

// NewEmptySOAP return new SoapMessage
func NewEmptySOAP() SoapMessage {
	doc := buildSoapRoot()

	res, _ := doc.WriteToString()

	return SoapMessage(res)
}

//NewSOAP Get a new soap message with the given header and body children
func NewSOAP(headContent []*etree.Element, bodyContent []*etree.Element, namespaces map[string]string) SoapMessage {
	doc := buildSoapRoot()
	root := doc.Root()

	for key, value := range namespaces {
		root.CreateAttr("xmlns:"+key, value)
	}

	header := root.SelectElement("Header")
	for _, j := range headContent {
		header.AddChild(j)
	}

	body := root.SelectElement("Body")
	for _, j := range bodyContent {
		body.AddChild(j)
	}

	res, _ := doc.WriteToString()

	return SoapMessage(res)
}

func (msg SoapMessage) String() string {
	return string(msg)
}

//StringIndent handle indent
func (msg SoapMessage) StringIndent() string {
	doc := etree.NewDocument()

	if err := doc.ReadFromString(msg.String()); err != nil {
		return msg.String()
	}

	doc.Indent(2)
	res, _ := doc.WriteToString()

	return res
}

//Body return body from Envelope
func (msg SoapMessage) Body() (string, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromString(msg.String()); err != nil {
		return "", err
	}

	root := doc.Root()
	if root == nil {
		return "", errors.New("root element not found")
	}

	body := root.SelectElement("Body")
	if body == nil {
		return "", errBodyNotFound
	}

	bodyChilds := body.ChildElements()
	if len(bodyChilds) == 0 {
		return "", errors.New("body childs not found")
	}

	doc.SetRoot(bodyChilds[0])
	doc.IndentTabs()
	res, _ := doc.WriteToString()

	return res, nil
}

// Canonical returns the envelope in exclusive canonical form, without the
// XML declaration. Two messages with the same infoset have equal forms.
func (msg SoapMessage) Canonical() ([]byte, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromString(msg.String()); err != nil {
		return nil, err
	}
	if doc.Root() == nil {
		return nil, errors.New("root element not found")
	}

	rootOnly := etree.NewDocument()
	rootOnly.SetRoot(doc.Root().Copy())
	res, err := rootOnly.WriteToString()
	if err != nil {
		return nil, err
	}

	return c14n.Canonicalize(xml.NewDecoder(strings.NewReader(res)))
}

//AddStringBodyContent for Envelope
func (msg *SoapMessage) AddStringBodyContent(data string) error {
	doc := etree.NewDocument()

	if err := doc.ReadFromString(data); err != nil {
		return err
	}
	if doc.Root() == nil {
		return errors.New("content has no root element")
	}

	return msg.AddBodyContent(doc.Root())
}

//AddBodyContent for Envelope
func (msg *SoapMessage) AddBodyContent(element *etree.Element) error {
	return msg.AddBodyContents([]*etree.Element{element})
}

//AddBodyContents for Envelope body
func (msg *SoapMessage) AddBodyContents(elements []*etree.Element) error {
	return msg.addContents("Body", elements)
}

//AddStringHeaderContent for Envelope header
func (msg *SoapMessage) AddStringHeaderContent(data string) error {
	doc := etree.NewDocument()

	if err := doc.ReadFromString(data); err != nil {
		return err
	}
	if doc.Root() == nil {
		return errors.New("content has no root element")
	}

	return msg.AddHeaderContent(doc.Root())
}

//AddHeaderContent for Envelope header
func (msg *SoapMessage) AddHeaderContent(element *etree.Element) error {
	return msg.AddHeaderContents([]*etree.Element{element})
}

//AddHeaderContents for Envelope header
func (msg *SoapMessage) AddHeaderContents(elements []*etree.Element) error {
	return msg.addContents("Header", elements)
}

func (msg *SoapMessage) addContents(tag string, elements []*etree.Element) error {
	doc := etree.NewDocument()
	if err := doc.ReadFromString(msg.String()); err != nil {
		return err
	}

	root := doc.Root()
	if root == nil {
		return errors.New("root element not found")
	}

	parent := root.SelectElement(tag)
	if parent == nil {
		return errors.New(strings.ToLower(tag) + " element not found")
	}

	for _, j := range elements {
		if j != nil {
			parent.AddChild(j)
		}
	}

	res, err := doc.WriteToString()
	if err != nil {
		return err
	}

	*msg = SoapMessage(res)
	return nil
}

//AddRootNamespace for Envelope
func (msg *SoapMessage) AddRootNamespace(key, value string) error {
	doc := etree.NewDocument()
	if err := doc.ReadFromString(msg.String()); err != nil {
		return err
	}
	doc.Root().CreateAttr("xmlns:"+key, value)
	res, err := doc.WriteToString()
	if err != nil {
		return err
	}

	*msg = SoapMessage(res)
	return nil
}

//AddRootNamespaces for Envelope
func (msg *SoapMessage) AddRootNamespaces(namespaces map[string]string) error {
	for key, value := range namespaces {
		if err := msg.AddRootNamespace(key, value); err != nil {
			return err
		}
	}
	return nil
}

func buildSoapRoot() *etree.Document {
	doc := etree.NewDocument()

	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	env := doc.CreateElement(EnvelopePrefix + ":Envelope")
	env.CreateAttr("xmlns:"+EnvelopePrefix, EnvelopeNamespace)

	env.CreateElement(EnvelopePrefix + ":Header")
	env.CreateElement(EnvelopePrefix + ":Body")

	return doc
}
