// Package config loads Cedro's optional run-time configuration file, the
// same small ini.Parse-over-a-Handler shape tools/llvmbuildtobzl uses to
// load LLVMBuild.txt, adapted from a build-rule description to Cedro's own
// settings: the unparser's line-directive/UCN/right-margin behavior, the
// #include search path, and the defer feature's introducer word.
package config

import (
	"io"
	"strconv"
	"strings"

	"github.com/creachadair/ini"

	"github.com/sentido-labs/cedro/path"
)

// Config holds the settings a .cedrorc file may override. Every field has a
// sensible zero value so a missing file, or a missing key within one, just
// falls back to Cedro's defaults.
type Config struct {
	InsertLineDirectives      bool
	EscapeUCN                 bool
	PassSelfToMemberFunctions bool
	DeferKeyword              string
	RightMargin               int
	IncludeDirs               []path.Path
}

// Default returns the configuration Cedro runs with when no .cedrorc is
// present or a key is left unset.
func Default() Config {
	return Config{
		InsertLineDirectives: true,
		EscapeUCN:            true,
		DeferKeyword:         "auto",
		RightMargin:          78,
	}
}

// Load reads a .cedrorc-style ini file from r, starting from Default() and
// overriding whichever keys the "cedro" section, or the part of the file
// before any section header, sets. Other sections and unrecognized keys
// are ignored, the same forward-compatible stance
// pragma.Activation takes toward unknown feature words.
func Load(r io.Reader) (Config, error) {
	cfg := Default()
	var section string
	err := ini.Parse(r, ini.Handler{
		Section: func(_ ini.Location, name string) error {
			section = name
			return nil
		},
		KeyValue: func(_ ini.Location, key string, values []string) error {
			if section != "" && section != "cedro" {
				return nil
			}
			return cfg.apply(key, values)
		},
	})
	return cfg, err
}

func (c *Config) apply(key string, values []string) error {
	joined := strings.Join(values, " ")
	switch key {
	case "insert_line_directives":
		c.InsertLineDirectives = parseBool(joined, c.InsertLineDirectives)
	case "escape_ucn":
		c.EscapeUCN = parseBool(joined, c.EscapeUCN)
	case "pass_self_to_member_functions":
		c.PassSelfToMemberFunctions = parseBool(joined, c.PassSelfToMemberFunctions)
	case "defer_keyword":
		if joined != "" {
			c.DeferKeyword = joined
		}
	case "right_margin":
		if n, err := strconv.Atoi(joined); err == nil && n > 0 {
			c.RightMargin = n
		}
	case "include_dirs":
		for _, v := range values {
			c.IncludeDirs = append(c.IncludeDirs, path.New(v))
		}
	}
	return nil
}

func parseBool(s string, fallback bool) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "yes", "1", "on":
		return true
	case "false", "no", "0", "off":
		return false
	}
	return fallback
}
