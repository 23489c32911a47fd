package config

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Dump renders the configuration as YAML in the config file format.
// Dotted check keys are written flat, the way users write them.
func Dump(c *ProjectConfig) ([]byte, error) {
	out := ProjectConfig{}
	if c != nil {
		out = *c
	}
	if out.Lint != nil {
		lc := *out.Lint
		lc.Checks = joinKeys(lc.Checks)
		lc.Severity = joinKeys(lc.Severity)
		out.Lint = &lc
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(out); err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}
	return buf.Bytes(), nil
}
