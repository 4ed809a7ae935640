// Package config handles TOML configuration loading with environment variable substitution.
package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/vmunix/submux/internal/matcher"
	"github.com/vmunix/submux/internal/mux"
)

// Config is the root configuration structure.
type Config struct {
	Match   MatchConfig   `toml:"match"`
	Mux     MuxConfig     `toml:"mux"`
	Log     LogConfig     `toml:"log"`
	History HistoryConfig `toml:"history"`
}

type MatchConfig struct {
	Strict              bool     `toml:"strict"`
	ForceAll            bool     `toml:"force_all"`
	AllMatch            bool     `toml:"all_match"`
	ConfidenceThreshold float64  `toml:"confidence_threshold"`
	Language            string   `toml:"language"`
	CompanionDirs       []string `toml:"companion_dirs"`
	Similarity          string   `toml:"similarity"`
}

type MuxConfig struct {
	ReleaseTag     string `toml:"release_tag"`
	OutputDir      string `toml:"output_dir"`
	Workers        int    `toml:"workers"`
	VideoTrackName string `toml:"video_track_name"`
	SubTrackName   string `toml:"sub_track_name"`
	Mkvmerge       string `toml:"mkvmerge"`
	FFprobe        string `toml:"ffprobe"`
}

type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// HistoryConfig enables the sqlite run history. An empty Path disables it.
type HistoryConfig struct {
	Path string `toml:"path"`
}

// Default returns the configuration used when no file is found.
func Default() *Config {
	opts := matcher.DefaultOptions()
	return &Config{
		Match: MatchConfig{
			ConfidenceThreshold: opts.ConfidenceThreshold,
			CompanionDirs:       opts.CompanionDirs,
			Similarity:          opts.Similarity,
		},
		Mux: MuxConfig{
			ReleaseTag: mux.DefaultReleaseTag,
			Workers:    mux.DefaultWorkers,
			Mkvmerge:   "mkvmerge",
			FFprobe:    "ffprobe",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads, parses and validates the configuration file.
func Load(path string) (*Config, error) {
	cfg, err := LoadWithoutValidation(path)
	if err != nil {
		return nil, err
	}
	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, &ConfigError{Path: path, Errors: errs}
	}
	return cfg, nil
}

// LoadWithoutValidation reads and parses the configuration file, applying
// defaults, without validating values. Unresolved environment variables are
// still an error.
func LoadWithoutValidation(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	content, missing := substituteEnvVars(string(data))
	if len(missing) > 0 {
		return nil, &ConfigError{Path: path, Missing: missing}
	}

	// Keys absent from the file keep their default values.
	cfg := Default()
	if _, err := toml.Decode(content, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	cfg.applyDefaults()
	return cfg, nil
}

// LoadOrDefault loads path when it is set, otherwise the discovered config
// file, falling back to Default when none exists.
func LoadOrDefault(path string) (*Config, string, error) {
	if path == "" {
		found, err := Discover()
		if errors.Is(err, ErrNotFound) {
			return Default(), "", nil
		}
		if err != nil {
			return nil, "", err
		}
		path = found
	}
	cfg, err := Load(path)
	if err != nil {
		return nil, path, err
	}
	return cfg, path, nil
}

func (c *Config) applyDefaults() {
	def := Default()
	if c.Match.CompanionDirs == nil {
		c.Match.CompanionDirs = def.Match.CompanionDirs
	}
	if c.Match.Similarity == "" {
		c.Match.Similarity = def.Match.Similarity
	}
	if strings.TrimSpace(c.Mux.ReleaseTag) == "" {
		c.Mux.ReleaseTag = def.Mux.ReleaseTag
	}
	if c.Mux.Workers == 0 {
		c.Mux.Workers = def.Mux.Workers
	}
	if c.Mux.Mkvmerge == "" {
		c.Mux.Mkvmerge = def.Mux.Mkvmerge
	}
	if c.Mux.FFprobe == "" {
		c.Mux.FFprobe = def.Mux.FFprobe
	}
	if c.Log.Level == "" {
		c.Log.Level = def.Log.Level
	}
	if c.Log.Format == "" {
		c.Log.Format = def.Log.Format
	}
}

// MatchOptions converts the [match] section into matcher options.
func (c *Config) MatchOptions() matcher.Options {
	return matcher.Options{
		Strict:              c.Match.Strict,
		ForceAll:            c.Match.ForceAll,
		AllMatch:            c.Match.AllMatch,
		ConfidenceThreshold: c.Match.ConfidenceThreshold,
		Language:            c.Match.Language,
		CompanionDirs:       append([]string(nil), c.Match.CompanionDirs...),
		Similarity:          c.Match.Similarity,
	}
}

// envVarPattern matches ${VAR}, ${VAR:-default} and ${VAR:?message}.
var envVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(?::([-?])([^}]*))?\}`)

// substituteEnvVars replaces environment variable references in content.
// Unresolved references are left in place and reported in missing; a
// ${VAR:?message} reference reports "VAR: message". Comments are copied
// unchanged.
func substituteEnvVars(content string) (string, []string) {
	var missing []string
	lines := strings.SplitAfter(content, "\n")
	for i, line := range lines {
		cut := commentStart(line)
		value, m := substituteLine(line[:cut])
		lines[i] = value + line[cut:]
		missing = append(missing, m...)
	}
	return strings.Join(lines, ""), missing
}

// commentStart returns the offset of the first # outside a quoted string,
// or len(line).
func commentStart(line string) int {
	var quote byte
	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case quote == '"' && c == '\\':
			i++
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '"' || c == '\'':
			quote = c
		case c == '#':
			return i
		}
	}
	return len(line)
}

func substituteLine(content string) (string, []string) {
	var missing []string
	out := envVarPattern.ReplaceAllStringFunc(content, func(match string) string {
		m := envVarPattern.FindStringSubmatch(match)
		name, op, arg := m[1], m[2], m[3]
		value, ok := os.LookupEnv(name)
		switch op {
		case "-":
			if !ok || value == "" {
				return arg
			}
			return value
		case "?":
			if !ok || value == "" {
				missing = append(missing, fmt.Sprintf("%s: %s", name, arg))
				return match
			}
			return value
		}
		if !ok {
			missing = append(missing, name)
			return match
		}
		return value
	})
	return out, missing
}
