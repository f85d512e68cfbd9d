package config

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Format is a settings file encoding.
type Format int

// Supported formats.
const (
	TOML Format = iota
	YAML
)

func (f Format) String() string {
	if f == YAML {
		return "yaml"
	}
	return "toml"
}

// ParseFormat reads a format name as given on the command line.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "toml":
		return TOML, nil
	case "yaml", "yml":
		return YAML, nil
	}
	return TOML, fmt.Errorf("config: unknown format %q", s)
}

// FormatFor picks the format from a file extension.
func FormatFor(filename string) (Format, error) {
	ext := strings.TrimPrefix(filepath.Ext(filename), ".")
	if ext == "" {
		return TOML, fmt.Errorf("config: %s: no file extension", filename)
	}
	return ParseFormat(ext)
}

// Decoder is implemented by the toml and yaml decoders.
type Decoder interface {
	Decode(v any) error
}

// DecoderFunc creates a strict decoder for a format.
type DecoderFunc func(r io.Reader) Decoder

var decoders = map[Format]DecoderFunc{
	TOML: func(r io.Reader) Decoder {
		return toml.NewDecoder(r).DisallowUnknownFields()
	},
	YAML: func(r io.Reader) Decoder {
		d := yaml.NewDecoder(r)
		d.KnownFields(true)
		return d
	},
}

// Load reads a settings file; the format follows the extension. Only the
// fields named in the file are set.
func Load(filename string) (*Config, error) {
	format, err := FormatFor(filename)
	if err != nil {
		return nil, err
	}
	fp, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer fp.Close()

	c, err := Decode(bufio.NewReader(fp), format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return c, nil
}

// Decode reads settings from r.
func Decode(r io.Reader, format Format) (*Config, error) {
	c := &Config{}
	if err := decoders[format](r).Decode(c); err != nil && err != io.EOF {
		return nil, fmt.Errorf("config: decode %s: %w", format, err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Encode writes c in the given format.
func Encode(w io.Writer, c *Config, format Format) error {
	var (
		b   []byte
		err error
	)
	switch format {
	case YAML:
		b, err = yaml.Marshal(c)
	default:
		var buf bytes.Buffer
		enc := toml.NewEncoder(&buf)
		enc.SetIndentTables(true)
		err = enc.Encode(c)
		b = buf.Bytes()
	}
	if err != nil {
		return fmt.Errorf("config: encode %s: %w", format, err)
	}
	_, err = w.Write(b)
	return err
}
