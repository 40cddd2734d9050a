package qanalytics

import (
	"bytes"
	"context"
	"errors"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neirolis/qanalytics-go/gosoap"
	"github.com/neirolis/qanalytics-go/internal/logger"
	"github.com/neirolis/qanalytics-go/internal/mockservice"
	"github.com/neirolis/qanalytics-go/networking"
)

const (
	testEndpoint = "/gps_test/service.asmx"
	testMethod   = "WM_INS_REPORTE_PUNTO_A_PUNTO"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func pointReport() gosoap.Fields {
	return gosoap.Fields{}.
		Add("ID_REG", "test").
		Add("LATITUD", -32.1212).
		Add("LONGITUD", -72.551).
		Add("VELOCIDAD", 0).
		Add("SENTIDO", 0).
		Add("FH_DATO", gosoap.NaiveTime(time.Date(2023, time.January, 15, 12, 0, 0, 0, time.UTC))).
		Add("PLACA", "TEST").
		Add("CANT_SATELITES", 1).
		Add("HDOP", 1).
		Add("TEMP1", 999).
		Add("TEMP2", 999).
		Add("TEMP3", 999).
		Add("SENSORA_1", -1).
		Add("AP", -1).
		Add("IGNICION", -1).
		Add("PANICO", -1).
		Add("SENSORD_1", -1).
		Add("TRANS", "TEST")
}

func newTestClient(t *testing.T, url, password string) *Client {
	t.Helper()
	client, err := NewClient(ClientParams{
		User:     "WS_test",
		Password: password,
		Protocol: "http",
		Host:     strings.TrimPrefix(url, "http://"),
	})
	require.NoError(t, err)
	return client
}

func TestNewClientDefaults(t *testing.T) {
	client, err := NewClient(ClientParams{User: "u", Password: "p"})
	require.NoError(t, err)

	assert.Equal(t, DefaultHost, client.GetHost())
	assert.Equal(t, DefaultProtocol, client.GetProtocol())
	assert.Equal(t, DefaultNamespace, client.GetNamespace())
	assert.Equal(t, "u", client.GetUser())
	assert.Equal(t, DefaultTimezone, client.Location().String())
	assert.Equal(t, "http://ww2.qanalytics.cl/gps_test/service.asmx", client.BuildURL(testEndpoint))
}

func TestNewClientInvalidTimezone(t *testing.T) {
	_, err := NewClient(ClientParams{Timezone: "Mars/Olympus_Mons"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Mars/Olympus_Mons")
}

func TestBuildRequestSOAPLocalizesNaiveTime(t *testing.T) {
	client, err := NewClient(ClientParams{User: "WS_test", Password: "$$WS17"})
	require.NoError(t, err)

	summer := gosoap.Fields{}.Add("FH_DATO", gosoap.NaiveTime(time.Date(2023, time.January, 15, 12, 0, 0, 0, time.UTC)))
	msg, err := client.BuildRequestSOAP(summer, testMethod, "")
	require.NoError(t, err)
	assert.Contains(t, msg.String(), "<tem:FH_DATO>2023-01-15T12:00:00-03:00</tem:FH_DATO>")

	winter := gosoap.Fields{}.Add("FH_DATO", gosoap.NaiveTime(time.Date(2023, time.July, 15, 12, 0, 0, 0, time.UTC)))
	msg, err = client.BuildRequestSOAP(winter, testMethod, "ws")
	require.NoError(t, err)
	assert.Contains(t, msg.String(), "<ws:FH_DATO>2023-07-15T12:00:00-04:00</ws:FH_DATO>")
}

func TestSendRequestAccepted(t *testing.T) {
	svc := mockservice.New("WS_test", "$$WS17")
	srv := httptest.NewServer(svc.Router())
	defer srv.Close()

	client := newTestClient(t, srv.URL, "$$WS17")

	resp, err := client.SendRequest(context.Background(), pointReport(), testEndpoint, testMethod)
	require.NoError(t, err)

	assert.Equal(t, Correcto, resp.Code)
	assert.Equal(t, http.StatusOK, resp.HTTPCode)
	assert.Equal(t, "CORRECTO", resp.Text)
	assert.True(t, resp.OK())

	require.NotNil(t, resp.Trace)
	assert.Equal(t, srv.URL+testEndpoint, resp.Trace.RequestURL)
	assert.NotEmpty(t, resp.Trace.RequestID)
	assert.Equal(t, http.StatusOK, resp.Trace.StatusCode)

	received := svc.Received()
	require.Len(t, received, 1)
	assert.Equal(t, testEndpoint, received[0].Endpoint)
	assert.Equal(t, "-32.1212", received[0].Fields["LATITUD"])
	assert.Equal(t, "-72.551", received[0].Fields["LONGITUD"])
	assert.Equal(t, "2023-01-15T12:00:00-03:00", received[0].Fields["FH_DATO"])
}

func TestSendRequestDebugLogHidesPassword(t *testing.T) {
	buf := new(bytes.Buffer)
	log.SetOutput(buf)
	logger.SetDebug(true)
	t.Cleanup(func() {
		log.SetOutput(os.Stderr)
		logger.SetDebug(false)
	})

	svc := mockservice.New("WS_test", "$$WS17")
	srv := httptest.NewServer(svc.Router())
	defer srv.Close()

	resp, err := newTestClient(t, srv.URL, "$$WS17").SendRequest(context.Background(), pointReport(), testEndpoint, testMethod)
	require.NoError(t, err)
	assert.True(t, resp.OK())

	assert.Contains(t, buf.String(), "---> request")
	assert.Contains(t, buf.String(), gosoap.MaskedPassword)
	assert.NotContains(t, buf.String(), "$$WS17")
}

func TestSendRequestOutcomes(t *testing.T) {
	svc := mockservice.New("WS_test", "$$WS17")
	srv := httptest.NewServer(svc.Router())
	defer srv.Close()

	t.Run("session error", func(t *testing.T) {
		client := newTestClient(t, srv.URL, "wrong")
		resp, err := client.SendRequest(context.Background(), pointReport(), testEndpoint, testMethod)
		require.NoError(t, err)
		assert.Equal(t, ErrorDeSesion, resp.Code)
		assert.Equal(t, http.StatusOK, resp.HTTPCode)
	})

	t.Run("insertion error", func(t *testing.T) {
		client := newTestClient(t, srv.URL, "$$WS17")
		resp, err := client.SendRequest(context.Background(), pointReport()[:3], testEndpoint, "/"+testMethod)
		require.NoError(t, err)
		assert.Equal(t, RequestError, resp.Code)
		assert.Equal(t, "ERROR INSERCION", resp.Text)
		assert.False(t, resp.OK())
	})

	t.Run("invalid field name", func(t *testing.T) {
		client := newTestClient(t, srv.URL, "$$WS17")
		_, err := client.SendRequest(context.Background(), gosoap.Fields{}.Add("BAD NAME", 1), testEndpoint, testMethod)
		assert.ErrorIs(t, err, gosoap.ErrInvalidFieldName)
	})

	assert.Empty(t, svc.Received())
}

func TestSendRequestFault(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/xml; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(faultBody))
	}))
	defer srv.Close()

	resp, err := newTestClient(t, srv.URL, "p").SendRequest(context.Background(), pointReport(), testEndpoint, testMethod)
	require.NoError(t, err)

	assert.Equal(t, RequestError, resp.Code)
	assert.Equal(t, http.StatusInternalServerError, resp.HTTPCode)
	assert.Equal(t, "Some error", resp.Text)
	assert.Equal(t, "soap:Client", resp.FaultCode)
}

func TestSendRequestUnparseable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>maintenance</html>"))
	}))
	defer srv.Close()

	_, err := newTestClient(t, srv.URL, "p").SendRequest(context.Background(), pointReport(), testEndpoint, testMethod)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnparseableResponse))
	assert.False(t, errors.Is(err, ErrTransport))

	var parseErr *ParseError
	require.True(t, errors.As(err, &parseErr))
	assert.Equal(t, http.StatusOK, parseErr.HTTPCode)
	require.NotNil(t, parseErr.Trace)
	assert.Equal(t, srv.URL+testEndpoint, parseErr.Trace.RequestURL)
}

func TestSendRequestTransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := newTestClient(t, url, "p").SendRequest(context.Background(), pointReport(), testEndpoint, testMethod)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTransport))

	var transportErr *networking.TransportError
	require.True(t, errors.As(err, &transportErr))
	assert.Equal(t, url+testEndpoint, transportErr.URL)
}

func TestSendRequestConcurrent(t *testing.T) {
	svc := mockservice.New("WS_test", "$$WS17")
	srv := httptest.NewServer(svc.Router())
	defer srv.Close()

	client := newTestClient(t, srv.URL, "$$WS17")

	const n = 8
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		go func() {
			resp, err := client.SendRequest(context.Background(), pointReport(), testEndpoint, testMethod)
			if err == nil && !resp.OK() {
				err = errors.New(resp.String())
			}
			errs <- err
		}()
	}
	for i := 0; i < n; i++ {
		assert.NoError(t, <-errs)
	}
	assert.Len(t, svc.Received(), n)
}
