// Command idzeykl runs .idzey scripts, either to the terminal (classic
// mode) or redirected into a file (redirected mode), and also offers a
// line-editing REPL. The original shipped these as two separate
// binaries (mainClassicBuffer / mainRedirectedBuffer); here a single
// binary dispatches on argument count instead.
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/peterh/liner"

	idzeykl "github.com/idzeykl/idzeykl-src"
)

const scriptExt = ".idzey"

func main() {
	args := os.Args[1:]

	if len(args) == 1 && args[0] == "repl" {
		runRepl()
		return
	}

	switch len(args) {
	case 1:
		runFile(args[0], os.Stdout)
	case 2:
		runRedirected(args[0], args[1])
	default:
		fmt.Fprintln(os.Stderr, "Usage: idzeykl <script.idzey> [output-file] | idzeykl repl")
		os.Exit(1)
	}
}

func checkExtension(path string) error {
	if filepath.Ext(path) != scriptExt {
		return fmt.Errorf("Expected a %s file, got: %s", scriptExt, path)
	}
	return nil
}

func readScript(path string) (string, error) {
	if err := checkExtension(path); err != nil {
		return "", err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("Could not read file: %s", path)
	}
	if strings.TrimSpace(string(data)) == "" {
		return "", fmt.Errorf("Empty source file: %s", path)
	}
	return string(data), nil
}

func runFile(path string, out io.Writer) {
	src, err := readScript(path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if err := execute(src, out); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// runRedirected truncates outPath before writing, matching the
// original's redirectCoutStreamToFile: a prior run's output never
// leaks into a shorter new run's output.
func runRedirected(scriptPath, outPath string) {
	src, err := readScript(scriptPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	f, err := os.Create(outPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Could not open output file: %s\n", outPath)
		os.Exit(1)
	}
	defer f.Close()

	if err := execute(src, f); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func execute(src string, out io.Writer) error {
	stmts, err := idzeykl.ParseProgram(src)
	if err != nil {
		return formatDiagnostic(src, err)
	}
	ip := idzeykl.NewInterpreter(out)
	if err := ip.Run(stmts); err != nil {
		return err
	}
	return nil
}

// formatDiagnostic attaches a caret-pointing source snippet to a Lex
// or Parse error, the only two error kinds that carry a position.
func formatDiagnostic(src string, err error) error {
	var line, col int
	switch e := err.(type) {
	case *idzeykl.LexError:
		line, col = e.Line, e.Col
	case *idzeykl.ParseError:
		line, col = e.Line, e.Col
	default:
		return err
	}
	snippet := idzeykl.SourceSnippet(src, line, col)
	if snippet == "" {
		return err
	}
	return fmt.Errorf("%s\n%s", err.Error(), snippet)
}

// runRepl is a supplement to the original, which only ever ran whole
// files. It reuses one interpreter and environment across lines so
// variables and functions persist between inputs, colorizes the prompt
// and error output, and keeps line history in the user's home
// directory between sessions. The value of an entered expression is not
// echoed; only print/println produce output.
func runRepl() {
	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	historyPath := replHistoryPath()
	if f, err := os.Open(historyPath); err == nil {
		line.ReadHistory(f)
		f.Close()
	}

	out := os.Stdout
	ip := idzeykl.NewInterpreter(out)
	prompt := color.New(color.FgCyan).Sprint("idzeykl> ")
	errColor := color.New(color.FgRed)

	for {
		text, err := line.Prompt(prompt)
		if err != nil { // EOF or Ctrl-C/Ctrl-D
			break
		}
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		line.AppendHistory(text)

		if err := evalReplLine(ip, out, text); err != nil {
			errColor.Fprintln(os.Stderr, err)
		}
	}

	if f, err := os.Create(historyPath); err == nil {
		line.WriteHistory(f)
		f.Close()
	}
}

func evalReplLine(ip *idzeykl.Interpreter, out io.Writer, text string) error {
	stmts, err := idzeykl.ParseProgram(text)
	if err != nil {
		return err
	}
	return ip.Run(stmts)
}

func replHistoryPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".idzeykl_history"
	}
	return filepath.Join(home, ".idzeykl_history")
}
