package config

import (
	"fmt"
	"slices"
)

var validOutputs = []string{"", "auto", "text", "markdown", "json"}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if !slices.Contains(validOutputs, c.OutputFormat) {
		return fmt.Errorf("invalid output format %q (want auto, text, markdown, or json)", c.OutputFormat)
	}
	if c.Serve != nil && c.Serve.Concurrency < 0 {
		return fmt.Errorf("serve.concurrency must be >= 0, got %d", c.Serve.Concurrency)
	}
	return c.Project().Validate()
}
