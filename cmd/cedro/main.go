// Command cedro reads a C translation unit and writes its Cedro-expanded
// form to stdout, the same thin flag.Parse-then-run shape
// tools/llvmbuildtobzl and tools/cmaketobzl use: the real work lives in
// package pipeline, main only wires stdin/argv to it.
package main

import (
	"flag"
	"io"
	"log"
	"os"

	"github.com/sentido-labs/cedro/config"
	"github.com/sentido-labs/cedro/path"
	"github.com/sentido-labs/cedro/pipeline"
)

var (
	configPath  = flag.String("config", "", "path to a .cedrorc-style configuration file")
	includePath = flag.String("I", "", "additional #include search directory")
)

func main() {
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		f, err := os.Open(*configPath)
		if err != nil {
			log.Fatal(err)
		}
		cfg, err = config.Load(f)
		_ = f.Close()
		if err != nil {
			log.Fatal(err)
		}
	}
	if *includePath != "" {
		cfg.IncludeDirs = append(cfg.IncludeDirs, path.New(*includePath))
	}

	var (
		src        []byte
		sourceFile string
		err        error
	)
	if args := flag.Args(); len(args) > 0 {
		sourceFile = args[0]
		src, err = os.ReadFile(sourceFile)
	} else {
		sourceFile = "<stdin>"
		src, err = io.ReadAll(os.Stdin)
	}
	if err != nil {
		log.Fatal(err)
	}

	out, diagErr := pipeline.Run(src, pipeline.Options{
		SourceFile:           sourceFile,
		InsertLineDirectives: cfg.InsertLineDirectives,
		EscapeUCN:            cfg.EscapeUCN,
		RightMargin:          cfg.RightMargin,
		IncludeDirs:          cfg.IncludeDirs,
		ReadFile: os.ReadFile,
		Warn: func(msg string) {
			log.Print(msg)
		},
	})
	if diagErr != nil {
		log.Fatal(diagErr.Error())
	}
	if _, err := os.Stdout.Write(out); err != nil {
		log.Fatal(err)
	}
}
