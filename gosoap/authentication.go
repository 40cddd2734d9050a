package gosoap

import (
	"github.com/beevik/etree"
)

// MaskedPassword replaces Clave in Masked output.
const MaskedPassword = "******"

// NewAuthentication builds the credentials header element expected by the
// reporting service:
//
//	<ns:Authentication>
//	  <ns:Usuario>user</ns:Usuario>
//	  <ns:Clave>password</ns:Clave>
//	</ns:Authentication>
//
// Both values are escaped on serialization.
func NewAuthentication(ns, user, password string) *etree.Element {
	auth := etree.NewElement(ns + ":Authentication")
	auth.CreateElement(ns + ":Usuario").SetText(user)
	auth.CreateElement(ns + ":Clave").SetText(password)

	return auth
}

//AddAuthentication Header for soapMessage
func (msg *SoapMessage) AddAuthentication(ns, user, password string) error {
	return msg.AddHeaderContent(NewAuthentication(ns, user, password))
}

// Masked returns the message with the Clave of its Authentication header
// replaced by MaskedPassword, for logging. A message that cannot be parsed
// is returned as MaskedPassword alone.
func (msg SoapMessage) Masked() string {
	doc := etree.NewDocument()
	if err := doc.ReadFromString(msg.String()); err != nil || doc.Root() == nil {
		return MaskedPassword
	}

	if header := doc.Root().SelectElement("Header"); header != nil {
		for _, auth := range header.SelectElements("Authentication") {
			for _, clave := range auth.SelectElements("Clave") {
				clave.SetText(MaskedPassword)
			}
		}
	}

	res, err := doc.WriteToString()
	if err != nil {
		return MaskedPassword
	}
	return res
}
