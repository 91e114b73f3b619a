// Package pragma parses and validates the Cedro activation pragma:
//
//	#pragma Cedro <major>.<minor> <feature>...
//
// lexer.FindPrelude does the cheap substring search that locates the line;
// this package parses the isolated line text with a small participle
// grammar, the way cmakelib/ast parses CMakeLists.txt commands, to validate
// its shape and extract the feature words in one pass instead of hand-
// rolled field splitting.
package pragma

import (
	"fmt"

	"github.com/alecthomas/participle"

	"bitbucket.org/creachadair/stringset"
)

// Activation is the parsed form of one activation pragma line.
type Activation struct {
	Major    int      `"#" "pragma" "Cedro" @Int`
	Minor    int      `"." @Int`
	Features []string `@Ident*`
}

// knownFeatures lists the feature words spec.md §6 recognizes. An unknown
// word is not a parse error (forward compatibility with future pragma
// words a given Cedro build does not understand), only ignored.
var knownFeatures = stringset.New("defer", "backstitch", "self", "fallthrough")

var parser = participle.MustBuild(&Activation{})

// Parse parses line (the isolated pragma line's text, without its
// terminating newline) into an Activation.
func Parse(line string) (*Activation, error) {
	act := &Activation{}
	if err := parser.ParseString(line, act); err != nil {
		return nil, fmt.Errorf("pragma: %w", err)
	}
	return act, nil
}

// SupportedVersion reports whether a's major.minor version is one this
// package knows how to honor: major must be 1, minor must not exceed the
// highest minor version this build implements.
const maxSupportedMinor = 0

func (a *Activation) SupportedVersion() bool {
	return a.Major == 1 && a.Minor <= maxSupportedMinor
}

// EnabledFeatures returns the subset of a.Features this build recognizes,
// preserving source order but dropping duplicates and unknown words.
func (a *Activation) EnabledFeatures() []string {
	seen := stringset.New()
	var out []string
	for _, f := range a.Features {
		if !knownFeatures.Contains(f) || seen.Contains(f) {
			continue
		}
		seen.Add(f)
		out = append(out, f)
	}
	return out
}

// HasFeature reports whether a names feature among its (known or unknown)
// feature words; unlike EnabledFeatures this does not filter by
// knownFeatures, since callers sometimes need to detect and reject a
// feature word this build does not yet implement.
func (a *Activation) HasFeature(feature string) bool {
	for _, f := range a.Features {
		if f == feature {
			return true
		}
	}
	return false
}
