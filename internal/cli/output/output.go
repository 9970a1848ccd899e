// Package output renders command results as text, JSON or YAML.
package output

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

var ErrUnknownFormat = errors.New("unknown output format")

// Formatter writes data to w.
type Formatter interface {
	Format(w io.Writer, data any) error
}

// Texter is implemented by results with a human readable form.
type Texter interface {
	Text() string
}

// New returns the formatter for name. An empty name means text.
func New(name string) (Formatter, error) {
	switch Format(strings.ToLower(strings.TrimSpace(name))) {
	case "", FormatText:
		return TextFormatter{}, nil
	case FormatJSON:
		return JSONFormatter{}, nil
	case FormatYAML, "yml":
		return YAMLFormatter{}, nil
	}
	return nil, fmt.Errorf("%w %q: want text, json or yaml", ErrUnknownFormat, name)
}

// TextFormatter prints Texter and string results as is and falls back to
// indented JSON for everything else.
type TextFormatter struct{}

func (TextFormatter) Format(w io.Writer, data any) error {
	switch v := data.(type) {
	case Texter:
		_, err := fmt.Fprintln(w, v.Text())
		return err
	case string:
		_, err := fmt.Fprintln(w, v)
		return err
	}
	return JSONFormatter{}.Format(w, data)
}

type JSONFormatter struct{}

func (JSONFormatter) Format(w io.Writer, data any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

// YAMLFormatter writes YAML whose keys follow the values' json tags.
type YAMLFormatter struct{}

func (YAMLFormatter) Format(w io.Writer, data any) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return err
	}
	var generic any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return err
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(generic); err != nil {
		return err
	}
	return enc.Close()
}
