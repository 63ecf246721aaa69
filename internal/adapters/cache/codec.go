// Package cache persists the view cache: codecs turn it into text and stores keep the text.
package cache

import (
	"bytes"
	"encoding/json"

	"go.trai.ch/montauk/internal/core/domain"
	"go.trai.ch/montauk/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

var (
	_ ports.CacheCodec = (*JSONCodec)(nil)
	_ ports.CacheCodec = (*YAMLCodec)(nil)
)

// NewCodec returns the codec for a configured format.
func NewCodec(format string) (ports.CacheCodec, error) {
	switch format {
	case "", domain.CacheFormatJSON:
		return NewJSONCodec(), nil
	case domain.CacheFormatYAML:
		return NewYAMLCodec(), nil
	default:
		return nil, zerr.With(zerr.Wrap(domain.ErrInvalidCacheFormat, "cannot select cache codec"), "format", format)
	}
}

// JSONCodec encodes the view cache as indented JSON with markup left unescaped.
type JSONCodec struct{}

// NewJSONCodec creates a JSONCodec.
func NewJSONCodec() *JSONCodec { return &JSONCodec{} }

// Format implements ports.CacheCodec.
func (*JSONCodec) Format() string { return domain.CacheFormatJSON }

// Encode implements ports.CacheCodec.
func (*JSONCodec) Encode(c domain.ViewCache) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(c.Normalized()); err != nil {
		return nil, zerr.Wrap(err, domain.ErrCacheMarshalFailed.Error())
	}
	return buf.Bytes(), nil
}

// Decode implements ports.CacheCodec.
func (*JSONCodec) Decode(data []byte) (domain.ViewCache, error) {
	var c domain.ViewCache
	if err := json.Unmarshal(data, &c); err != nil {
		return domain.ViewCache{}, corrupt(err, domain.CacheFormatJSON)
	}
	return validate(c, domain.CacheFormatJSON)
}

// YAMLCodec encodes the view cache as YAML.
type YAMLCodec struct{}

// NewYAMLCodec creates a YAMLCodec.
func NewYAMLCodec() *YAMLCodec { return &YAMLCodec{} }

// Format implements ports.CacheCodec.
func (*YAMLCodec) Format() string { return domain.CacheFormatYAML }

// Encode implements ports.CacheCodec.
func (*YAMLCodec) Encode(c domain.ViewCache) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(c.Normalized()); err != nil {
		return nil, zerr.Wrap(err, domain.ErrCacheMarshalFailed.Error())
	}
	if err := enc.Close(); err != nil {
		return nil, zerr.Wrap(err, domain.ErrCacheMarshalFailed.Error())
	}
	return buf.Bytes(), nil
}

// Decode implements ports.CacheCodec.
func (*YAMLCodec) Decode(data []byte) (domain.ViewCache, error) {
	var c domain.ViewCache
	if err := yaml.Unmarshal(data, &c); err != nil {
		return domain.ViewCache{}, corrupt(err, domain.CacheFormatYAML)
	}
	return validate(c, domain.CacheFormatYAML)
}

func validate(c domain.ViewCache, format string) (domain.ViewCache, error) {
	if len(c.ViewTemplates) == 0 {
		return domain.ViewCache{}, zerr.With(zerr.Wrap(domain.ErrCacheCorrupt, "cache holds no templates"), "format", format)
	}
	return c.Normalized(), nil
}

func corrupt(err error, format string) error {
	return zerr.With(zerr.Wrap(domain.ErrCacheCorrupt, err.Error()), "format", format)
}
