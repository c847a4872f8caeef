// Package validation holds the per-route request rules for the product API.
//
// A rule inspects a Request and reports zero or more violations. Rules never
// modify the request and every configured rule runs, so a single field may
// collect more than one message.
package validation

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Violation is a single failed field rule.
type Violation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ErrInvalidBody is returned by ParseBody when the payload is not a JSON object.
var ErrInvalidBody = errors.New("request body must be a JSON object")

// Body is a decoded JSON object whose values are kept raw until a rule reads them.
type Body map[string]json.RawMessage

// Request is the part of an HTTP request the rules look at.
type Request struct {
	Params map[string]string
	Body   Body
}

// Rule checks one aspect of a request.
type Rule func(req *Request) []Violation

// Check runs every rule in order and returns all violations found.
func Check(req *Request, rules ...Rule) []Violation {
	var violations []Violation
	for _, rule := range rules {
		violations = append(violations, rule(req)...)
	}
	return violations
}

// ParseBody decodes a request payload. An empty payload yields an empty Body.
func ParseBody(raw []byte) (Body, error) {
	body := Body{}
	if len(bytes.TrimSpace(raw)) == 0 {
		return body, nil
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBody, err)
	}
	if body == nil {
		// a literal null
		return Body{}, nil
	}
	return body, nil
}

// String returns the textual form of a scalar field. JSON numbers are
// rendered in plain decimal notation. Missing, null and non-scalar values
// yield "".
func (b Body) String(field string) string {
	raw, ok := b[field]
	if !ok || isNull(raw) {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		// 1e3 and 1000.0 read as "1000"
		if f, err := n.Float64(); err == nil {
			return strconv.FormatFloat(f, 'f', -1, 64)
		}
		return n.String()
	}
	trimmed := strings.TrimSpace(string(raw))
	if strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[") {
		return ""
	}
	return trimmed
}

// Float returns the numeric value of a field given either as a JSON number or
// as a numeric string.
func (b Body) Float(field string) (float64, bool) {
	s := b.String(field)
	if !isDecimal(s) {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// Bool returns the boolean value of a field given as a JSON boolean or as one
// of "true", "false", "1", "0".
func (b Body) Bool(field string) (bool, bool) {
	raw, ok := b[field]
	if !ok || isNull(raw) {
		return false, false
	}
	var v bool
	if err := json.Unmarshal(raw, &v); err == nil {
		return v, true
	}
	switch b.String(field) {
	case "true", "1":
		return true, true
	case "false", "0":
		return false, true
	}
	return false, false
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}
