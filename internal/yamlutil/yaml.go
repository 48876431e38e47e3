// Package yamlutil wraps the YAML codec used for configuration files so the
// rest of the tree never imports the library directly.
package yamlutil

import (
	"errors"
	"fmt"

	"github.com/goccy/go-yaml"
)

// MaxInputSize caps the size of YAML input accepted by the Unmarshal
// functions. Config files are tiny; anything larger is a mistake, not
// configuration.
var MaxInputSize = 1 << 20

// Sentinel errors for input validation.
var (
	ErrNoData        = errors.New("yamlutil: no data to decode")
	ErrNilTarget     = errors.New("yamlutil: decode target is nil")
	ErrInputTooLarge = errors.New("yamlutil: input exceeds maximum size")
)

// Unmarshal decodes data into v, tolerating unknown fields.
func Unmarshal(data []byte, v any) error {
	return unmarshal(data, v)
}

// UnmarshalStrict decodes data into v and rejects fields the target type
// does not declare. Config loading uses this so typos surface as errors
// instead of silently ignored keys.
func UnmarshalStrict(data []byte, v any) error {
	return unmarshal(data, v, yaml.Strict())
}

func unmarshal(data []byte, v any, opts ...yaml.DecodeOption) error {
	if len(data) == 0 {
		return ErrNoData
	}
	if len(data) > MaxInputSize {
		return fmt.Errorf("%w: %d bytes (max %d)", ErrInputTooLarge, len(data), MaxInputSize)
	}
	if v == nil {
		return ErrNilTarget
	}
	if err := yaml.UnmarshalWithOptions(data, v, opts...); err != nil {
		return fmt.Errorf("yamlutil: %w", err)
	}
	return nil
}

// Marshal encodes v as YAML.
func Marshal(v any) ([]byte, error) {
	out, err := yaml.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("yamlutil: %w", err)
	}
	return out, nil
}
