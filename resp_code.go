package qanalytics

import (
	"strconv"
	"strings"
)

//RespCode is the classified outcome of a service call
type RespCode int

// Service outcomes
const (
	Unknown RespCode = iota
	ErrorDeSesion
	ErrorDeInsercion
	Correcto
	// RequestError is the client-side fallback for tokens the service is
	// not known to send.
	RequestError
)

var respCodeNames = []string{
	"UNKNOWN",
	"ERROR_DE_SESION",
	"ERROR_DE_INSERCION",
	"CORRECTO",
	"REQUEST_ERROR",
}

var respCodeTexts = []string{
	"UNKNOWN",
	"ERROR DE SESION",
	"ERROR INSERCION",
	"CORRECTO",
	"REQUEST_ERROR",
}

var respCodeByName = func() map[string]RespCode {
	m := make(map[string]RespCode, len(respCodeNames))
	for i, name := range respCodeNames {
		m[name] = RespCode(i)
	}
	return m
}()

func (code RespCode) String() string {
	if code < Unknown || code > RequestError {
		return strconv.Itoa(int(code))
	}
	return respCodeNames[code]
}

// Text returns the token the service sends for code.
func (code RespCode) Text() string {
	if code < Unknown || code > RequestError {
		return strconv.Itoa(int(code))
	}
	return respCodeTexts[code]
}

// ParseRespCode maps a result token to its code. Spaces become
// underscores, then the code name must match exactly; anything else,
// including service texts such as "ERROR INSERCION", gives RequestError.
func ParseRespCode(token string) RespCode {
	if code, ok := respCodeByName[normalizeToken(token)]; ok {
		return code
	}
	return RequestError
}

func normalizeToken(token string) string {
	return strings.ReplaceAll(token, " ", "_")
}
