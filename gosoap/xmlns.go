package gosoap

const (
	// EnvelopeNamespace is the SOAP 1.1 envelope namespace.
	EnvelopeNamespace = "http://schemas.xmlsoap.org/soap/envelope/"
	// EnvelopePrefix qualifies Envelope, Header and Body.
	EnvelopePrefix = "soapenv"
	// ServiceNamespace is the namespace of the reporting service methods.
	ServiceNamespace = "http://tempuri.org/"
)

//Xlmns returns the namespaces declared on the request envelope for the given service prefix
func Xlmns(prefix string) map[string]string {
	return map[string]string{
		prefix: ServiceNamespace,
	}
}
