// Package mockservice imitates the QAnalytics reporting service: it checks
// the Authentication header, validates point reports and answers with the
// same result tokens and SOAP faults as the real .asmx endpoint.
package mockservice

import (
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/beevik/etree"
	"github.com/gin-gonic/gin"

	"github.com/neirolis/qanalytics-go/gosoap"
	"github.com/neirolis/qanalytics-go/internal/logger"
	"github.com/neirolis/qanalytics-go/networking"
)

const (
	PointReportMethod = "WM_INS_REPORTE_PUNTO_A_PUNTO"

	ResultOK             = "CORRECTO"
	ResultSessionError   = "ERROR DE SESION"
	ResultInsertionError = "ERROR INSERCION"

	responsePrefix = "soap"
	xmlContentType = "text/xml; charset=utf-8"
)

// PointReportFields are required by WM_INS_REPORTE_PUNTO_A_PUNTO.
var PointReportFields = []string{
	"ID_REG", "LATITUD", "LONGITUD", "VELOCIDAD", "SENTIDO", "FH_DATO", "PLACA",
	"CANT_SATELITES", "HDOP", "TEMP1", "TEMP2", "TEMP3", "SENSORA_1", "AP",
	"IGNICION", "PANICO", "SENSORD_1", "TRANS",
}

var numericPointFields = []string{
	"LATITUD", "LONGITUD", "VELOCIDAD", "SENTIDO", "CANT_SATELITES", "HDOP",
	"TEMP1", "TEMP2", "TEMP3", "SENSORA_1", "AP", "IGNICION", "PANICO", "SENSORD_1",
}

type (
	// Report is one accepted call.
	Report struct {
		Endpoint string
		Method   string
		Fields   map[string]string
	}

	Service struct {
		user     string
		password string

		mu       sync.Mutex
		received []Report
	}
)

func New(user, password string) *Service {
	return &Service{
		user:     user,
		password: password,
	}
}

// Router serves every POST path as a service endpoint.
func (s *Service) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.POST("/*endpoint", s.handle)
	return r
}

// Received returns the reports accepted so far.
func (s *Service) Received() []Report {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Report, len(s.received))
	copy(out, s.received)
	return out
}

func (s *Service) handle(c *gin.Context) {
	data, err := c.GetRawData()
	if err != nil {
		s.fault(c, "soap:Client", "Server was unable to read request.")
		return
	}

	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil || doc.Root() == nil {
		s.fault(c, "soap:Client", "Server was unable to read request. There is an error in XML document.")
		return
	}

	envelope := doc.Root()
	body := envelope.SelectElement("Body")
	if envelope.Tag != "Envelope" || body == nil || len(body.ChildElements()) == 0 {
		s.fault(c, "soap:Client", "Server was unable to read request. Envelope has no body.")
		return
	}

	call := body.ChildElements()[0]
	method := call.Tag
	if action := networking.Action(c.Request.Header); action != networking.SOAPAction(method) {
		s.fault(c, "soap:Client", "Server did not recognize the value of HTTP Header SOAPAction: "+action+".")
		return
	}

	if !s.authenticated(envelope) {
		logger.Event("mock:", method, "rejected credentials")
		s.result(c, method, ResultSessionError)
		return
	}

	fields := make(map[string]string, len(call.ChildElements()))
	for _, field := range call.ChildElements() {
		fields[field.Tag] = field.Text()
	}

	if method == PointReportMethod && !validPointReport(fields) {
		logger.Event("mock:", method, "rejected report")
		s.result(c, method, ResultInsertionError)
		return
	}

	s.mu.Lock()
	s.received = append(s.received, Report{
		Endpoint: c.Param("endpoint"),
		Method:   method,
		Fields:   fields,
	})
	s.mu.Unlock()

	logger.Event("mock:", method, "accepted", len(fields), "fields")
	s.result(c, method, ResultOK)
}

func (s *Service) authenticated(envelope *etree.Element) bool {
	header := envelope.SelectElement("Header")
	if header == nil {
		return false
	}
	auth := header.SelectElement("Authentication")
	if auth == nil {
		return false
	}
	user, password := auth.SelectElement("Usuario"), auth.SelectElement("Clave")
	if user == nil || password == nil {
		return false
	}
	return user.Text() == s.user && password.Text() == s.password
}

func validPointReport(fields map[string]string) bool {
	for _, name := range PointReportFields {
		if _, ok := fields[name]; !ok {
			return false
		}
	}
	for _, name := range numericPointFields {
		if _, err := strconv.ParseFloat(fields[name], 64); err != nil {
			return false
		}
	}
	if _, err := time.Parse(time.RFC3339Nano, fields["FH_DATO"]); err != nil {
		return false
	}
	return strings.TrimSpace(fields["PLACA"]) != ""
}

func (s *Service) result(c *gin.Context, method, token string) {
	doc, body := responseEnvelope()

	response := body.CreateElement(method + "Response")
	response.CreateAttr("xmlns", gosoap.ServiceNamespace)
	response.CreateElement(method + "Result").SetText(token)

	s.write(c, http.StatusOK, doc)
}

func (s *Service) fault(c *gin.Context, code, message string) {
	doc, body := responseEnvelope()

	fault := body.CreateElement(responsePrefix + ":Fault")
	fault.CreateElement("faultcode").SetText(code)
	fault.CreateElement("faultstring").SetText(message)
	fault.CreateElement("detail")

	s.write(c, http.StatusInternalServerError, doc)
}

func (s *Service) write(c *gin.Context, status int, doc *etree.Document) {
	res, err := doc.WriteToString()
	if err != nil {
		c.Status(http.StatusInternalServerError)
		return
	}
	c.Data(status, xmlContentType, []byte(res))
}

func responseEnvelope() (*etree.Document, *etree.Element) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="utf-8"`)

	env := doc.CreateElement(responsePrefix + ":Envelope")
	env.CreateAttr("xmlns:"+responsePrefix, gosoap.EnvelopeNamespace)
	env.CreateAttr("xmlns:xsi", "http://www.w3.org/2001/XMLSchema-instance")
	env.CreateAttr("xmlns:xsd", "http://www.w3.org/2001/XMLSchema")

	return doc, env.CreateElement(responsePrefix + ":Body")
}
