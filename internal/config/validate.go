// internal/config/validate.go
package config

import (
	"fmt"
	"strings"

	"github.com/vmunix/submux/internal/matcher"
)

var validLogLevels = map[string]bool{
	"debug": true, "info": true, "warn": true, "error": true, "": true,
}

var validLogFormats = map[string]bool{
	"text": true, "json": true, "": true,
}

// Validate checks the configuration for errors.
// Returns a slice of error messages (empty if valid).
func (c *Config) Validate() []string {
	var errs []string

	if err := c.MatchOptions().Validate(); err != nil {
		// "invalid matcher options: language: ..." -> "match.language: ..."
		errs = append(errs, "match."+strings.TrimPrefix(err.Error(), matcher.ErrInvalidOptions.Error()+": "))
	}

	if c.Mux.Workers < 0 {
		errs = append(errs, fmt.Sprintf("mux.workers: must be positive, got %d", c.Mux.Workers))
	}
	if strings.ContainsAny(c.Mux.ReleaseTag, `/\[]`) {
		errs = append(errs, fmt.Sprintf("mux.release_tag: must not contain slashes or brackets, got %q", c.Mux.ReleaseTag))
	}

	if !validLogLevels[c.Log.Level] {
		errs = append(errs, fmt.Sprintf("log.level: must be one of debug, info, warn, error; got %q", c.Log.Level))
	}
	if !validLogFormats[c.Log.Format] {
		errs = append(errs, fmt.Sprintf("log.format: must be one of text, json; got %q", c.Log.Format))
	}

	return errs
}
