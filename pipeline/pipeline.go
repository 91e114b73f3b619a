// Package pipeline wires the lexer, the transform passes and the unparser
// into the single Run call cmd/cedro drives, mirroring how
// tools/llvmbuildtobzl's main strings together load -> visit -> write
// rather than leaving that sequencing to the caller.
package pipeline

import (
	"bytes"

	"github.com/sentido-labs/cedro/buffer"
	"github.com/sentido-labs/cedro/diag"
	"github.com/sentido-labs/cedro/lexer"
	"github.com/sentido-labs/cedro/marker"
	"github.com/sentido-labs/cedro/pass/backstitch"
	deferpass "github.com/sentido-labs/cedro/pass/defer"
	"github.com/sentido-labs/cedro/pass/self"
	"github.com/sentido-labs/cedro/pass/slice"
	"github.com/sentido-labs/cedro/path"
	"github.com/sentido-labs/cedro/token"
	"github.com/sentido-labs/cedro/unparse"
)

// Options configures one source-to-source run, combining the activation
// pragma's feature words (once read) with the caller's I/O and formatting
// preferences.
type Options struct {
	// SourceFile names the input, for #line directives and for resolving
	// #include {path} and #include "path" relative to its directory.
	SourceFile string

	InsertLineDirectives bool
	EscapeUCN            bool
	RightMargin          int
	IncludeDirs          []path.Path
	ReadFile             func(name string) ([]byte, error)
	ResolveInclude       func(req unparse.IncludeRequest) ([]byte, bool, error)
	Warn                 func(msg string)
}

// Run transforms src and writes the result to the returned bytes. It always
// runs the lexer and the prelude search; when an activation pragma is
// found, it additionally runs backstitch, defer and slice, and self when the
// pragma names the "self" feature word; the "defer" feature word makes
// "defer" the defer introducer in place of "auto" (spec.md §6). It then
// unparses the result.
// A file with no activation pragma round-trips unchanged (spec.md §4.1.1).
func Run(src []byte, opts Options) ([]byte, *diag.Error) {
	buf := buffer.NewFromBytes(src)
	preludeEnd, pragma := lexer.FindPrelude(buf)

	arr := &marker.Array{}
	if preludeEnd > 0 {
		arr.Push(marker.New(0, preludeEnd, token.None))
	}

	lexOpts := lexer.DefaultOptions()
	if pragma.Found && hasFeature(pragma, "defer") {
		lexOpts.DeferKeyword = "defer"
	}
	if err := lexer.Lex(buf, preludeEnd, buf.Len(), arr, lexOpts); err != nil {
		return nil, err
	}

	if pragma.Found {
		if err := runPasses(arr, buf, pragma); err != nil {
			return nil, err
		}
	}

	var out bytes.Buffer
	uopts := unparse.Options{
		InsertLineDirectives: opts.InsertLineDirectives,
		EscapeUCN:            opts.EscapeUCN,
		RightMargin:          opts.RightMargin,
		SourceFile:           opts.SourceFile,
		IncludeDirs:          opts.IncludeDirs,
		ReadFile:             opts.ReadFile,
		ResolveInclude:       opts.ResolveInclude,
		Warn:                 opts.Warn,
	}
	if err := unparse.Write(&out, arr, buf, uopts); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

func runPasses(arr *marker.Array, buf *buffer.Buffer, pragma lexer.Pragma) *diag.Error {
	if err := backstitch.Run(arr, buf); err != nil {
		return err
	}
	if err := deferpass.Run(arr, buf); err != nil {
		return err
	}
	if err := slice.Run(arr, buf); err != nil {
		return err
	}
	if err := self.Run(arr, buf, self.Options{Enabled: hasFeature(pragma, "self")}); err != nil {
		return err
	}
	return nil
}

// hasFeature reports whether pragma names feature among its feature words.
func hasFeature(pragma lexer.Pragma, feature string) bool {
	for _, f := range pragma.Features {
		if f == feature {
			return true
		}
	}
	return false
}
