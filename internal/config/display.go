package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"offline-payment-sync/internal/errs"
)

// DisplayConfig lists the registration fields surfaced to offline clients
// and names the photo field.
type DisplayConfig struct {
	Fields []DisplayField `yaml:"fields"`
	Photo  struct {
		FieldName string `yaml:"field_name"`
	} `yaml:"photo"`
}

type DisplayField struct {
	Key    string            `yaml:"key"`
	Labels map[string]string `yaml:"labels"`
}

// LoadDisplay reads a display configuration file.
func LoadDisplay(path string) (*DisplayConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errs.New(errs.KindConfig, fmt.Sprintf("read display config %s", path), err)
	}

	var display DisplayConfig
	if err := yaml.Unmarshal(data, &display); err != nil {
		return nil, errs.New(errs.KindConfig, fmt.Sprintf("parse display config %s", path), err)
	}

	for i, f := range display.Fields {
		if f.Key == "" {
			return nil, errs.Newf(errs.KindConfig, "display field %d has no key", i)
		}
	}
	return &display, nil
}

// FieldKeys returns the configured keys in order.
func (d DisplayConfig) FieldKeys() []string {
	keys := make([]string, 0, len(d.Fields))
	for _, f := range d.Fields {
		keys = append(keys, f.Key)
	}
	return keys
}

func (d DisplayConfig) PhotoField() string {
	if d.Photo.FieldName == "" {
		return "photo"
	}
	return d.Photo.FieldName
}
