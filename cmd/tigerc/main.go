// Command tigerc is a thin, explicitly out-of-scope driver. There is no
// lexer or parser in this repository, so instead of reading source text it
// builds one fixed AST fixture in memory, runs it through the pipeline
// (analyze, translate, canonicalize, tile), and prints the result. Its only
// purpose is to exercise the pipeline wiring and YAML config loading
// end-to-end; it is not meant to stand in for a real compiler frontend.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/tigerlang/tigerc/internal/config"
	"github.com/tigerlang/tigerc/internal/pipeline"
	"github.com/tigerlang/tigerc/internal/prettyprinter"
)

func main() {
	configPath := flag.String("config", "", "path to a tigerc.yaml options file (optional)")
	verbose := flag.Bool("v", false, "dump asm listing to stdout")
	flag.Parse()

	opts, err := loadOptions(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "tigerc:", err)
		os.Exit(1)
	}

	ctx := pipeline.NewContext(fixtureProgram())
	pipeline.New(pipeline.Standard()...).Run(ctx)

	if !ctx.OK() {
		for _, e := range ctx.Errors {
			fmt.Fprintln(os.Stderr, "tigerc:", e)
		}
		os.Exit(1)
	}

	if *verbose || opts.DebugDump {
		p := prettyprinter.NewForWriter(os.Stdout)
		for _, u := range ctx.Asm {
			p.PrintAsm(u)
		}
		fmt.Print(p.String())
	}
}

func loadOptions(path string) (*config.CompilerOptions, error) {
	if path == "" {
		found, err := config.FindOptions(".")
		if err != nil {
			return nil, err
		}
		path = found
	}
	if path == "" {
		opts := &config.CompilerOptions{Target: "x86_64"}
		return opts, nil
	}
	return config.LoadOptions(path)
}
