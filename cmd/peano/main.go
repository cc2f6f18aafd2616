// Command peano type-checks proof scripts. On success it prints the accepted
// global context; on the first error it reports the failing phase with a
// source snippet and exits nonzero.
package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/peano-lang/peano/pkgs/core"
	"github.com/peano-lang/peano/pkgs/diag"
	"github.com/peano-lang/peano/pkgs/kernel"
	"github.com/peano-lang/peano/pkgs/parser"
)

func main() {
	var (
		noColor bool
		debug   bool
		trace   bool
		watch   bool
	)

	rootCmd := &cobra.Command{
		Use:           "peano",
		Short:         "A type checker for the calculus of constructions",
		SilenceErrors: true,
	}

	checkCmd := &cobra.Command{
		Use:   "check FILE...",
		Short: "Type-check one or more source files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if debug {
				os.Setenv("PEANO_DEBUG_LEXER", "1")
				os.Setenv("PEANO_DEBUG_PARSER", "1")
			}
			useColor := ShouldUseColor(noColor)
			if watch {
				return watchFiles(args, trace, useColor)
			}
			failed := false
			for _, path := range args {
				if !checkFile(path, trace, useColor) {
					failed = true
				}
			}
			if failed {
				return fmt.Errorf("check failed")
			}
			return nil
		},
	}

	checkCmd.Flags().BoolVar(&trace, "trace", false, "Print the parser's production trace")
	checkCmd.Flags().BoolVar(&watch, "watch", false, "Re-check whenever a file changes")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug output")

	rootCmd.AddCommand(checkCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, Colorize("error: ", ColorRed, ShouldUseColor(noColor))+err.Error())
		os.Exit(1)
	}
}

// checkFile runs the kernel over one file and reports the result. It returns
// true when the file checks.
func checkFile(path string, trace, useColor bool) bool {
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s%s: %v\n", Colorize("error: ", ColorRed, useColor), path, err)
		return false
	}
	source := string(data)

	if trace {
		printTrace(source)
	}

	ctx, d := kernel.Check(source)
	if d != nil {
		printDiagnostic(path, source, d, useColor)
		return false
	}

	fmt.Printf("%s %s\n", Colorize("ok", ColorGreen, useColor), path)
	for _, e := range ctx.Globals {
		marker := "var"
		if e.IsDef() {
			marker = "def"
		}
		fmt.Printf("  %s %s : %s\n", Colorize(marker, ColorGray, useColor), e.Name, prettyType(e.Type))
	}
	return true
}

func prettyType(t core.Term) string {
	return t.String()
}

// printTrace runs the parser alone with tracing enabled and dumps the
// production tree. The traced parse is separate from the kernel run and
// cannot influence it.
func printTrace(source string) {
	p := parser.New(source, parser.WithTrace())
	_, _ = p.Parse()
	for _, n := range p.Trace() {
		fmt.Fprint(os.Stderr, n.Dump())
	}
}

func printDiagnostic(path, source string, d *kernel.Diagnostic, useColor bool) {
	where := path
	if span, ok := d.Span(); ok {
		where = fmt.Sprintf("%s:%s", path, span.Start)
	}
	fmt.Fprintf(os.Stderr, "%s%s: %s error: %s\n",
		Colorize("error: ", ColorRed, useColor),
		where,
		d.Phase,
		d.Err)

	// Parse errors already embed their snippet; add one for the other
	// positioned phases.
	if d.Phase != kernel.PhaseParse {
		if span, ok := d.Span(); ok {
			if snippet := diag.Snippet(source, span); snippet != "" {
				fmt.Fprintln(os.Stderr, Colorize(snippet, ColorCyan, useColor))
			}
		}
	}
}

// watchFiles re-checks the given files whenever one of them is written.
func watchFiles(paths []string, trace, useColor bool) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() { _ = watcher.Close() }()

	watched := make(map[string]bool, len(paths))
	for _, path := range paths {
		abs, aerr := filepath.Abs(path)
		if aerr != nil {
			return aerr
		}
		watched[abs] = true
		// Watch the directory: editors often replace files on save.
		if werr := watcher.Add(filepath.Dir(abs)); werr != nil {
			return werr
		}
	}

	runAll := func() {
		for _, path := range paths {
			checkFile(path, trace, useColor)
		}
	}
	runAll()

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			abs, aerr := filepath.Abs(event.Name)
			if aerr != nil || !watched[abs] {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				fmt.Println()
				runAll()
			}
		case werr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			if werr != nil && !errors.Is(werr, fsnotify.ErrEventOverflow) {
				return werr
			}
		}
	}
}
