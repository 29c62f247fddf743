package models

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// RegistrationRecord is a beneficiary profile keyed by field name. Numbers are
// decoded as json.Number so identifiers and phone numbers keep their digits.
type RegistrationRecord map[string]any

// Field renders one attribute as text; missing and null values are "".
func (r RegistrationRecord) Field(key string) string {
	return stringify(r[key])
}

// FormSubmission is one record of the form-data API.
type FormSubmission struct {
	ID          FlexID           `json:"_id"`
	UUID        string           `json:"_uuid"`
	Attachments []FormAttachment `json:"_attachments"`

	Fields map[string]any `json:"-"`
}

// FormAttachment describes one file uploaded with a submission.
type FormAttachment struct {
	UID         string `json:"uid"`
	Filename    string `json:"filename"`
	Mimetype    string `json:"mimetype,omitempty"`
	DownloadURL string `json:"download_url,omitempty"`
}

func (s *FormSubmission) UnmarshalJSON(b []byte) error {
	type plain FormSubmission
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	var fields map[string]any
	if err := json.Unmarshal(b, &fields); err != nil {
		return err
	}
	*s = FormSubmission(p)
	s.Fields = fields
	return nil
}

// StringField renders a top-level submission field as text.
func (s FormSubmission) StringField(name string) string {
	return stringify(s.Fields[name])
}

// stringify renders a decoded JSON value the way the offline clients expect
// field text: integers keep their digits, floats always carry a fraction or
// an exponent ("1.0", "1e+16") and booleans are "True"/"False".
func stringify(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case json.Number:
		if _, err := val.Int64(); err == nil || !strings.ContainsAny(val.String(), ".eE") {
			return val.String()
		}
		f, err := val.Float64()
		if err != nil {
			return val.String()
		}
		return formatFloat(f)
	case float64:
		return formatFloat(val)
	case bool:
		if val {
			return "True"
		}
		return "False"
	default:
		b, err := json.Marshal(val)
		if err != nil {
			return ""
		}
		return string(b)
	}
}

func formatFloat(f float64) string {
	abs := math.Abs(f)
	if abs >= 1e16 || (abs != 0 && abs < 1e-4) {
		return strconv.FormatFloat(f, 'e', -1, 64)
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
