package gosoap

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/beevik/etree"
)

var (
	// ErrInvalidFieldName is returned when a field name is not a valid XML local name.
	ErrInvalidFieldName = errors.New("invalid field name")
	// ErrUnsupportedValue is returned for field values that have no text form.
	ErrUnsupportedValue = errors.New("unsupported field value")
)

const (
	isoLayout      = "2006-01-02T15:04:05-07:00"
	isoMicroLayout = "2006-01-02T15:04:05.000000-07:00"
)

// NaiveTime is a timestamp whose wall clock is meant in the client's
// timezone. Its own location is ignored.
type NaiveTime time.Time

// Field is one element of the request body.
type Field struct {
	Name  string
	Value interface{}
}

// Fields is an ordered request payload. Elements are written in slice order.
type Fields []Field

// FieldsFromMap converts m to Fields sorted by name.
func FieldsFromMap(m map[string]interface{}) Fields {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)

	fields := make(Fields, 0, len(m))
	for _, name := range names {
		fields = append(fields, Field{Name: name, Value: m[name]})
	}
	return fields
}

// Add appends a field and returns the extended payload.
func (f Fields) Add(name string, value interface{}) Fields {
	return append(f, Field{Name: name, Value: value})
}

// Get returns the value of the first field named name, compared case-insensitively.
func (f Fields) Get(name string) (interface{}, bool) {
	for _, field := range f {
		if strings.EqualFold(field.Name, name) {
			return field.Value, true
		}
	}
	return nil, false
}

// NewMethodElement builds <ns:METHOD> with one <ns:KEY>value</ns:KEY> child per field.
// Keys are uppercased, values rendered with FormatValue in loc.
func NewMethodElement(ns, method string, fields Fields, loc *time.Location) (*etree.Element, error) {
	method = strings.TrimPrefix(method, "/")
	if !validName(method) {
		return nil, fmt.Errorf("%w: method %q", ErrInvalidFieldName, method)
	}

	element := etree.NewElement(ns + ":" + method)
	for _, field := range fields {
		key := strings.ToUpper(field.Name)
		if !validName(key) {
			return nil, fmt.Errorf("%w: %q", ErrInvalidFieldName, field.Name)
		}

		value, err := FormatValue(field.Value, loc)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", key, err)
		}

		element.CreateElement(ns + ":" + key).SetText(value)
	}

	return element, nil
}

// FormatValue renders a field value as element text.
// Timestamps are shown in loc as ISO-8601 with a UTC offset; microseconds
// are written only when non-zero.
func FormatValue(value interface{}, loc *time.Location) (string, error) {
	if loc == nil {
		loc = time.UTC
	}

	switch v := value.(type) {
	case string:
		return v, nil
	case NaiveTime:
		return isoFormat(localize(time.Time(v), loc)), nil
	case *NaiveTime:
		if v == nil {
			break
		}
		return isoFormat(localize(time.Time(*v), loc)), nil
	case time.Time:
		return isoFormat(v.In(loc)), nil
	case *time.Time:
		if v == nil {
			break
		}
		return isoFormat(v.In(loc)), nil
	case bool:
		return strconv.FormatBool(v), nil
	case int:
		return strconv.FormatInt(int64(v), 10), nil
	case int8:
		return strconv.FormatInt(int64(v), 10), nil
	case int16:
		return strconv.FormatInt(int64(v), 10), nil
	case int32:
		return strconv.FormatInt(int64(v), 10), nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	case uint:
		return strconv.FormatUint(uint64(v), 10), nil
	case uint8:
		return strconv.FormatUint(uint64(v), 10), nil
	case uint16:
		return strconv.FormatUint(uint64(v), 10), nil
	case uint32:
		return strconv.FormatUint(uint64(v), 10), nil
	case uint64:
		return strconv.FormatUint(v, 10), nil
	case float32:
		return formatFloat(float64(v), 32), nil
	case float64:
		return formatFloat(v, 64), nil
	case fmt.Stringer:
		return v.String(), nil
	}

	return "", fmt.Errorf("%w: %T", ErrUnsupportedValue, value)
}

// localize keeps the wall clock of t and places it in loc.
func localize(t time.Time, loc *time.Location) time.Time {
	year, month, day := t.Date()
	hour, minute, sec := t.Clock()
	return time.Date(year, month, day, hour, minute, sec, t.Nanosecond(), loc)
}

func isoFormat(t time.Time) string {
	if t.Nanosecond()/int(time.Microsecond) != 0 {
		return t.Format(isoMicroLayout)
	}
	return t.Format(isoLayout)
}

// formatFloat writes the shortest representation, keeping a ".0" on
// integral values and switching to exponent form outside [1e-4, 1e16).
func formatFloat(v float64, bitSize int) string {
	switch {
	case math.IsNaN(v):
		return "nan"
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	}

	abs := math.Abs(v)
	if abs != 0 && (abs < 1e-4 || abs >= 1e16) {
		return strconv.FormatFloat(v, 'e', -1, bitSize)
	}

	s := strconv.FormatFloat(v, 'f', -1, bitSize)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// validName reports whether name can be used as an XML local name.
func validName(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		switch {
		case r == '_' || unicode.IsLetter(r):
		case i > 0 && (r == '-' || r == '.' || unicode.IsDigit(r)):
		default:
			return false
		}
	}
	return true
}
