// Package utils holds tolerant JSON field types used for incoming payloads.
//
// Each Flex type accepts the shapes clients actually send (numbers as strings,
// strings as numbers, null) and degrades to "not valid" instead of failing the
// whole request body when a value cannot be resolved.
package utils

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/Dosada05/tournament-recorder/models"
)

var jsonNull = []byte("null")

// FlexInt is an integer that may arrive as a JSON number or a numeric string.
type FlexInt struct {
	Value int64
	Valid bool
}

func (f *FlexInt) UnmarshalJSON(data []byte) error {
	*f = FlexInt{}
	raw, ok := scalarText(data)
	if !ok {
		return nil
	}
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		*f = FlexInt{Value: n, Valid: true}
		return nil
	}
	// Accept integral floats such as 3 or "3.0".
	if fl, err := strconv.ParseFloat(raw, 64); err == nil && isFinite(fl) && fl == math.Trunc(fl) &&
		fl >= math.MinInt64 && fl < math.MaxInt64 {
		*f = FlexInt{Value: int64(fl), Valid: true}
	}
	return nil
}

func (f FlexInt) MarshalJSON() ([]byte, error) {
	if !f.Valid {
		return jsonNull, nil
	}
	return json.Marshal(f.Value)
}

// Or returns the value, or def when the field was absent or unresolvable.
func (f FlexInt) Or(def int64) int64 {
	if !f.Valid {
		return def
	}
	return f.Value
}

// NewFlexInt returns a valid FlexInt.
func NewFlexInt(v int64) FlexInt {
	return FlexInt{Value: v, Valid: true}
}

// FlexFloat is a finite number that may arrive as a JSON number or a numeric string.
type FlexFloat struct {
	Value float64
	Valid bool
}

func (f *FlexFloat) UnmarshalJSON(data []byte) error {
	*f = FlexFloat{}
	raw, ok := scalarText(data)
	if !ok {
		return nil
	}
	if fl, err := strconv.ParseFloat(raw, 64); err == nil && isFinite(fl) {
		*f = FlexFloat{Value: fl, Valid: true}
	}
	return nil
}

func (f FlexFloat) MarshalJSON() ([]byte, error) {
	if !f.Valid {
		return jsonNull, nil
	}
	return json.Marshal(f.Value)
}

// Ptr returns nil for an absent value.
func (f FlexFloat) Ptr() *float64 {
	if !f.Valid {
		return nil
	}
	v := f.Value
	return &v
}

// NewFlexFloat returns a valid FlexFloat.
func NewFlexFloat(v float64) FlexFloat {
	return FlexFloat{Value: v, Valid: true}
}

// FlexString is text that may arrive as a JSON string, number or boolean.
type FlexString struct {
	Value string
	Valid bool
}

func (f *FlexString) UnmarshalJSON(data []byte) error {
	*f = FlexString{}
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, jsonNull) {
		return nil
	}
	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return nil
		}
		*f = FlexString{Value: s, Valid: true}
	case '{', '[':
		// Objects and arrays have no sensible text form.
	default:
		*f = FlexString{Value: string(trimmed), Valid: true}
	}
	return nil
}

func (f FlexString) MarshalJSON() ([]byte, error) {
	if !f.Valid {
		return jsonNull, nil
	}
	return json.Marshal(f.Value)
}

// Or returns the value, or def when the field was absent.
func (f FlexString) Or(def string) string {
	if !f.Valid {
		return def
	}
	return f.Value
}

// Trimmed returns the value with surrounding whitespace removed ("" when absent).
func (f FlexString) Trimmed() string {
	return strings.TrimSpace(f.Value)
}

// NewFlexString returns a valid FlexString.
func NewFlexString(v string) FlexString {
	return FlexString{Value: v, Valid: true}
}

// FlexDate is a calendar date sent as "YYYY-MM-DD" or as an RFC 3339 timestamp.
type FlexDate struct {
	Value models.Date
	Valid bool
}

func (f *FlexDate) UnmarshalJSON(data []byte) error {
	*f = FlexDate{}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return nil
	}
	if d, ok := ParseLooseDate(s); ok {
		*f = FlexDate{Value: d, Valid: true}
	}
	return nil
}

func (f FlexDate) MarshalJSON() ([]byte, error) {
	if !f.Valid {
		return jsonNull, nil
	}
	return json.Marshal(f.Value)
}

// Ptr returns nil for an absent date.
func (f FlexDate) Ptr() *models.Date {
	if !f.Valid {
		return nil
	}
	d := f.Value
	return &d
}

// NewFlexDate returns a valid FlexDate.
func NewFlexDate(d models.Date) FlexDate {
	return FlexDate{Value: d, Valid: true}
}

// ParseLooseDate accepts YYYY-MM-DD or an RFC 3339 timestamp and keeps the calendar day.
func ParseLooseDate(s string) (models.Date, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return models.Date{}, false
	}
	if d, err := models.ParseDate(s); err == nil {
		return d, true
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return models.NewDate(t.Year(), t.Month(), t.Day()), true
	}
	return models.Date{}, false
}

// scalarText returns the text of a JSON number or string, unquoted and trimmed.
func scalarText(data []byte) (string, bool) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, jsonNull) {
		return "", false
	}
	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return "", false
		}
		s = strings.TrimSpace(s)
		return s, s != ""
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		return string(trimmed), true
	default:
		return "", false
	}
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
