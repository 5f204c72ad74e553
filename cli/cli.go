// Package cli wires ttpc's command-line surface: flag parsing and
// dependency validation, the compile/dump/tree/analyze pipeline, and the
// file/stdout output paths. It knows nothing about lexing, parsing or
// execution beyond calling into the packages that do.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/jcamarena/ttpc/asmerr"
	"github.com/jcamarena/ttpc/compiler"
	"github.com/jcamarena/ttpc/config"
	"github.com/jcamarena/ttpc/loader"
	"github.com/jcamarena/ttpc/parser"
	"github.com/jcamarena/ttpc/traceui"
	"github.com/jcamarena/ttpc/vm"
)

// Version is the ttpc release version, overridable at build time with
// -ldflags "-X github.com/jcamarena/ttpc/cli.Version=1.2.3".
var Version = "dev"

type options struct {
	compile string
	output  string
	binary  bool
	dump    bool
	tree    bool
	strict  bool
	analyze bool
	tui     bool
}

// NewRootCommand builds the ttpc cobra command.
func NewRootCommand() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:     "ttpc",
		Short:   "ttpc is a two-pass assembler and trace VM for the ttp instruction set",
		Version: Version,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.SetVersionTemplate("[ttpc] by ttpc contributors - version {{.Version}}\n")

	flags := cmd.Flags()
	flags.StringVarP(&opts.compile, "compile", "c", "", "assemble the given ttpasm source file")
	flags.StringVarP(&opts.output, "output", "o", "", "write the assembled image to this path (requires -c)")
	flags.BoolVarP(&opts.binary, "binary", "b", false, "emit a header-less image (requires -c)")
	flags.BoolVarP(&opts.dump, "dump", "d", false, "print the token stream (requires -c)")
	flags.BoolVarP(&opts.tree, "tree", "t", false, "print the parsed statement/expression tree (requires -c)")
	flags.BoolVarP(&opts.strict, "strict", "s", false, "enable strict mode: case-sensitive labels, no register-letter identifiers (requires -c)")
	flags.BoolVarP(&opts.analyze, "analyze", "a", false, "load the assembled image into the VM and run it to completion (requires -c)")
	flags.BoolVar(&opts.tui, "tui", false, "with -a, open the interactive trace viewer instead of printing the trace")

	return cmd
}

// dependents lists every flag that requires -c/--compile, paired with the
// flag name used in the "Dependency missing" error, matching spec.md §6's
// dependency table.
func dependents(opts *options, flags *pflag.FlagSet) []struct {
	name string
	set  bool
} {
	return []struct {
		name string
		set  bool
	}{
		{"output", flags.Changed("output")},
		{"binary", opts.binary},
		{"dump", opts.dump},
		{"tree", opts.tree},
		{"strict", opts.strict},
		{"analyze", opts.analyze},
	}
}

func run(cmd *cobra.Command, opts *options) error {
	flags := cmd.Flags()

	if opts.compile == "" {
		for _, d := range dependents(opts, flags) {
			if d.set {
				return asmerr.NewWithoutPos(asmerr.KindCLI, "dependency missing for %s command. required: -c.", d.name)
			}
		}
		return cmd.Help()
	}

	cfg, err := config.Load()
	if err != nil {
		return asmerr.NewWithoutPos(asmerr.KindCLI, "loading config: %v", err)
	}
	strict := opts.strict || cfg.Assemble.Strict

	src, err := os.ReadFile(opts.compile) // #nosec G304 -- user-specified source path
	if err != nil {
		return asmerr.NewWithoutPos(asmerr.KindIO, "reading %s: %v", opts.compile, err)
	}

	lex := parser.NewLexer(string(src), opts.compile, strict)
	tokens, err := lex.Tokenize()
	if err != nil {
		return err
	}
	if opts.dump {
		for _, tok := range tokens {
			fmt.Fprintln(cmd.OutOrStdout(), tok.Dump())
		}
	}

	root, err := parser.NewParser(tokens, opts.compile).Parse()
	if err != nil {
		return err
	}
	if opts.tree {
		fmt.Fprint(cmd.OutOrStdout(), root.Dump())
	}

	prog, err := compiler.NewCompiler(opts.compile, strict).Compile(root)
	if err != nil {
		return err
	}

	image, err := loader.Image(prog, loader.EmitOptions{Binary: opts.binary})
	if err != nil {
		return err
	}

	if opts.output != "" {
		if err := os.WriteFile(opts.output, []byte(image), 0644); err != nil { // #nosec G306 -- assembled image is not sensitive
			return asmerr.NewWithoutPos(asmerr.KindIO, "writing %s: %v", opts.output, err)
		}
	} else if !opts.analyze {
		fmt.Fprint(cmd.OutOrStdout(), image)
	}

	if opts.analyze {
		m, err := loader.Load(prog)
		if err != nil {
			return err
		}
		m.InterruptAfter = cfg.Trace.InterruptAfter
		if cfg.Trace.CheckerMode {
			m.Mode |= vm.ModeChecker
		}
		if cfg.Trace.ColorFlags {
			m.Mode |= vm.ModeColor
		}

		if opts.tui {
			return traceui.Run(m)
		}

		for _, line := range m.RunTraced() {
			fmt.Fprintln(cmd.OutOrStdout(), line)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "\nRegisters[A:%03d,B:%03d,C:%03d,D:%03d] \nFlags[C:%t, L:%t, Z:%t, O:%t, S:%t]\n",
			m.A, m.B, m.C, m.D,
			m.Flags.Carry, m.Flags.LessThan, m.Flags.Zero, m.Flags.Overflow, m.Flags.Sign)
	}

	return nil
}

// Execute runs the CLI to completion, printing errors in the
// "Error:\n<message>" shape and returning the process exit code.
func Execute() int {
	cmd := NewRootCommand()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error:\n%s\n", err)
		return 1
	}
	return 0
}
