package storage

import (
	"bytes"
	"encoding/json"
	"reflect"
	"strings"

	"github.com/arthur-debert/asprules/pkg/errors"
	"github.com/fxamacker/cbor/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/tidwall/gjson"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// Codec converts generic values to and from bytes.
type Codec interface {
	// Name is the format name used in configuration, e.g. "json".
	Name() string
	// Ext is the file extension including the dot.
	Ext() string
	Encode(v any) ([]byte, error)
	Decode(data []byte) (any, error)
}

// Formats lists the supported codec names.
var Formats = []string{"json", "yaml", "toml", "cbor"}

// CodecFor returns the codec for a format name. Matching is case-insensitive
// and "yml" / "jsonc" are accepted as aliases.
func CodecFor(format string) (Codec, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "json", "jsonc":
		return JSONCodec{}, nil
	case "yaml", "yml":
		return YAMLCodec{}, nil
	case "toml":
		return TOMLCodec{}, nil
	case "cbor":
		return newCBORCodec(), nil
	}
	return nil, errors.Newf(errors.ErrInvalidInput, "unsupported storage format %q", format).
		WithDetail("supported", Formats)
}

// JSONCodec writes indented JSON and reads JSON with comments and trailing
// commas.
type JSONCodec struct{}

func (JSONCodec) Name() string { return "json" }
func (JSONCodec) Ext() string  { return ".json" }

func (JSONCodec) Encode(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (JSONCodec) Decode(data []byte) (any, error) {
	clean := jsonc.ToJSON(data)
	if !gjson.ValidBytes(clean) {
		return nil, errors.New(errors.ErrStorageCodec, "invalid json payload")
	}
	return gjson.ParseBytes(clean).Value(), nil
}

// YAMLCodec encodes values as YAML documents.
type YAMLCodec struct{}

func (YAMLCodec) Name() string { return "yaml" }
func (YAMLCodec) Ext() string  { return ".yaml" }

func (YAMLCodec) Encode(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (YAMLCodec) Decode(data []byte) (any, error) {
	var v any
	if err := yaml.Unmarshal(data, &v); err != nil {
		return nil, err
	}
	return v, nil
}

// tomlValueKey wraps the stored value, since a TOML document must be a table.
const tomlValueKey = "value"

// TOMLCodec encodes values under a top-level "value" key.
type TOMLCodec struct{}

func (TOMLCodec) Name() string { return "toml" }
func (TOMLCodec) Ext() string  { return ".toml" }

func (TOMLCodec) Encode(v any) ([]byte, error) {
	return toml.Marshal(map[string]any{tomlValueKey: v})
}

func (TOMLCodec) Decode(data []byte) (any, error) {
	var doc map[string]any
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return doc[tomlValueKey], nil
}

// CBORCodec encodes values as CBOR. Maps decode with string keys.
type CBORCodec struct {
	dec cbor.DecMode
}

func newCBORCodec() CBORCodec {
	dm, err := cbor.DecOptions{
		DefaultMapType: reflect.TypeOf(map[string]any(nil)),
	}.DecMode()
	if err != nil {
		// Static options; only fails on programming errors.
		panic(err)
	}
	return CBORCodec{dec: dm}
}

func (CBORCodec) Name() string { return "cbor" }
func (CBORCodec) Ext() string  { return ".cbor" }

func (CBORCodec) Encode(v any) ([]byte, error) {
	return cbor.Marshal(v)
}

func (c CBORCodec) Decode(data []byte) (any, error) {
	dec := c.dec
	if dec == nil {
		dec = newCBORCodec().dec
	}
	var v any
	if err := dec.Unmarshal(data, &v); err != nil {
		return nil, err
	}
	return v, nil
}
