package models

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistrationRecord_Field(t *testing.T) {
	dec := json.NewDecoder(bytes.NewReader([]byte(`{
		"phone": 254700000001,
		"name": "Amina",
		"consent": true,
		"declined": false,
		"score": 1.0,
		"ratio": 0.25,
		"big": 1e16,
		"tiny": 0.00001,
		"note": null,
		"tags": ["a","b"]
	}`)))
	dec.UseNumber()
	var reg RegistrationRecord
	require.NoError(t, dec.Decode(&reg))

	tests := []struct {
		key  string
		want string
	}{
		{"phone", "254700000001"},
		{"name", "Amina"},
		{"consent", "True"},
		{"declined", "False"},
		{"score", "1.0"},
		{"ratio", "0.25"},
		{"big", "1e+16"},
		{"tiny", "1e-05"},
		{"note", ""},
		{"missing", ""},
		{"tags", `["a","b"]`},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			assert.Equal(t, tt.want, reg.Field(tt.key))
		})
	}
}

func TestFormatFloat(t *testing.T) {
	assert.Equal(t, "3.0", formatFloat(3))
	assert.Equal(t, "-2.5", formatFloat(-2.5))
	assert.Equal(t, "0.0", formatFloat(0))
}
