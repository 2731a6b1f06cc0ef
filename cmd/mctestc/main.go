package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"

	"mctestc/internal/compiler"
	"mctestc/internal/datapack"
	"mctestc/internal/errors"
)

func main() {
	var (
		configPath string
		watch      bool
		trace      bool
		noColor    bool
	)

	compileCmd := &cobra.Command{
		Use:           "compile <input> <output>",
		Short:         "Compile an MCML test file into a Minecraft data pack",
		Args:          cobra.ExactArgs(2),
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if trace {
				commonlog.Configure(1, nil)
			}
			color.NoColor = noColor

			cfg, err := loadPackConfig(configPath)
			if err != nil {
				return err
			}

			input, output := args[0], args[1]

			if !watch {
				return runCompile(input, output, cfg)
			}
			return runWatch(input, output, cfg)
		},
	}

	compileCmd.Flags().StringVar(&configPath, "config", "", "path to an .mctestc.toml config file")
	compileCmd.Flags().BoolVar(&watch, "watch", false, "recompile whenever the input file changes")
	compileCmd.Flags().BoolVar(&trace, "trace", false, "enable debug-level pipeline logging")
	compileCmd.Flags().BoolVar(&noColor, "no-color", false, "disable colored diagnostic output")

	rootCmd := &cobra.Command{
		Use:   "mctestc",
		Short: "mctestc compiles MCML test files into Minecraft data packs",
	}
	rootCmd.AddCommand(compileCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// runCompile runs the pipeline once and writes the resulting data pack to
// output, reporting any diagnostics through the colored ErrorReporter.
func runCompile(input, output string, cfg packConfig) error {
	result, errs := compiler.CompileFile(input)
	reportDiagnostics(input, errs)

	if result == nil {
		return fmt.Errorf("compilation failed with %d error(s)", countErrors(errs))
	}

	pack := datapack.Datapack{
		Description: cfg.Description,
		PackFormat:  cfg.PackFormat,
		Functions:   result.Functions,
	}

	bytes, err := pack.Bytes()
	if err != nil {
		return fmt.Errorf("building data pack: %w", err)
	}

	if err := os.WriteFile(output, bytes, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", output, err)
	}

	color.Green("compiled %s -> %s", input, output)
	return nil
}

// runWatch recompiles input on every write event, printing errors to stderr
// rather than aborting the watch loop — a failed compile leaves the last
// successful output pack in place.
func runWatch(input, output string, cfg packConfig) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("starting watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(input); err != nil {
		return fmt.Errorf("watching %s: %w", input, err)
	}

	if err := runCompile(input, output, cfg); err != nil {
		fmt.Fprintln(os.Stderr, err)
	}

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if err := runCompile(input, output, cfg); err != nil {
				fmt.Fprintln(os.Stderr, err)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintln(os.Stderr, "watch error:", err)
		}
	}
}

func reportDiagnostics(path string, errs []errors.CompilerError) {
	if len(errs) == 0 {
		return
	}

	source, err := os.ReadFile(path)
	if err != nil {
		for _, e := range errs {
			fmt.Fprintln(os.Stderr, e.Message)
		}
		return
	}

	reporter := errors.NewErrorReporter(path, string(source))
	for _, e := range errs {
		fmt.Fprint(os.Stderr, reporter.FormatError(e))
	}
}

func countErrors(errs []errors.CompilerError) int {
	n := 0
	for _, e := range errs {
		if e.Level == errors.Error {
			n++
		}
	}
	return n
}
