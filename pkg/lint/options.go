package lint

import (
	"fmt"

	"github.com/go-viper/mapstructure/v2"
	"github.com/leapstack-labs/leapprose/pkg/core"
)

// rawConfig mirrors the loosely structured configuration object accepted
// from hosts, HTTP clients, and config files.
type rawConfig struct {
	Checks      map[string]bool          `mapstructure:"checks"`
	Meta        map[string]bool          `mapstructure:"meta"`
	CheckQuotes *bool                    `mapstructure:"check_quotes"`
	MaxErrors   int                      `mapstructure:"max_errors"`
	Severity    map[string]core.Severity `mapstructure:"severity"`
}

// ConfigFromMap decodes a loosely structured configuration object.
//
// Recognized keys are checks, meta, check_quotes, max_errors, and severity.
// Unknown keys are ignored. Scalars are weakly typed, so "false" and 0 decode
// as booleans and JSON numbers decode as integers. An unknown severity name
// or a negative max_errors is an error.
func ConfigFromMap(raw map[string]any) (*Config, error) {
	cfg := NewConfig()
	if len(raw) == 0 {
		return cfg, nil
	}

	var rc rawConfig
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       mapstructure.TextUnmarshallerHookFunc(),
		WeaklyTypedInput: true,
		Result:           &rc,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create config decoder: %w", err)
	}
	if err := dec.Decode(raw); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if rc.MaxErrors < 0 {
		return nil, fmt.Errorf("invalid config: max_errors must be >= 0, got %d", rc.MaxErrors)
	}

	for k, v := range rc.Checks {
		cfg.Checks[k] = v
	}
	for k, v := range rc.Meta {
		cfg.Meta[k] = v
	}
	for k, v := range rc.Severity {
		cfg.SeverityOverrides[k] = v
	}
	cfg.CheckQuotes = rc.CheckQuotes
	cfg.MaxErrors = rc.MaxErrors
	return cfg, nil
}
