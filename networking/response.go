package networking

import (
	"bytes"
	"compress/flate"
	"compress/gzip"
	"compress/zlib"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"

	"golang.org/x/net/html/charset"
)

var invalidResponse = errors.New("invalid response")

type Response struct {
	response *http.Response
	error    error
	body     []byte
}

func (r *Response) Error() error {
	return r.error
}

// SetResponse reads, decompresses and transcodes the body of response.
func (r *Response) SetResponse(response *http.Response) {
	if response == nil {
		return
	}
	r.response = response
	defer r.response.Body.Close()

	raw, err := io.ReadAll(r.response.Body)
	if err != nil {
		r.error = &TransportError{URL: requestURL(response), Err: err}
		return
	}

	r.body, r.error = decodeBody(raw, response.Header)
}

func (r *Response) StatusOK() bool {
	if r.error != nil || r.response == nil {
		return false
	}
	return r.response.StatusCode == http.StatusOK
}

func (r *Response) StatusCode() int {
	if r.response == nil {
		return 0
	}
	return r.response.StatusCode
}

func (r *Response) Header() http.Header {
	if r.response == nil {
		return nil
	}
	return r.response.Header
}

func (r *Response) Body() ([]byte, error) {
	if r.error != nil {
		return nil, r.error
	}
	if r.response == nil {
		return nil, invalidResponse
	}

	return r.body, nil
}

func requestURL(response *http.Response) string {
	if response.Request == nil || response.Request.URL == nil {
		return ""
	}
	return response.Request.URL.String()
}

// decodeBody undoes the Content-Encoding and converts the body to UTF-8
// when the Content-Type names another charset.
func decodeBody(raw []byte, header http.Header) ([]byte, error) {
	data, err := decompress(raw, header.Get("Content-Encoding"))
	if err != nil {
		return nil, fmt.Errorf("decompress response: %w", err)
	}

	_, params, err := mime.ParseMediaType(header.Get("Content-Type"))
	if err != nil {
		return data, nil
	}

	label := strings.ToLower(strings.TrimSpace(params["charset"]))
	if label == "" || label == "utf-8" || label == "utf8" {
		return data, nil
	}

	reader, err := charset.NewReaderLabel(label, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("response charset %q: %w", label, err)
	}

	return io.ReadAll(reader)
}

func decompress(raw []byte, encoding string) ([]byte, error) {
	switch strings.ToLower(strings.TrimSpace(encoding)) {
	case "", "identity":
		return raw, nil
	case "gzip", "x-gzip":
		gz, err := gzip.NewReader(bytes.NewReader(raw))
		if err != nil {
			return nil, err
		}
		defer gz.Close()
		return io.ReadAll(gz)
	case "deflate":
		// Servers send either zlib-wrapped or raw deflate streams.
		if zr, err := zlib.NewReader(bytes.NewReader(raw)); err == nil {
			defer zr.Close()
			return io.ReadAll(zr)
		}
		fr := flate.NewReader(bytes.NewReader(raw))
		defer fr.Close()
		return io.ReadAll(fr)
	default:
		return nil, fmt.Errorf("unsupported content encoding %q", encoding)
	}
}
