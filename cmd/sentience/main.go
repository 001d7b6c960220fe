package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/oarkflow/log"
	"github.com/peterh/liner"

	sentience "github.com/simplyadil/Sentience"
)

const (
	appName     = "sentience"
	historyFile = ".sentience_history"
	promptMain  = "sn> "
	promptCont  = "... "
)

var banner = fmt.Sprintf("Sentience %s REPL\nCtrl+C cancels input, Ctrl+D exits. Type :quit to exit.", sentience.Version)

func red(s string) string  { return "\x1b[31m" + s + "\x1b[0m" }
func blue(s string) string { return "\x1b[94m" + s + "\x1b[0m" }

func main() {
	if len(os.Args) < 2 {
		os.Exit(cmdRepl(nil))
	}

	cmd := os.Args[1]
	switch cmd {
	case "run":
		os.Exit(cmdRun(os.Args[2:]))
	case "repl":
		os.Exit(cmdRepl(os.Args[2:]))
	case "fmt":
		os.Exit(cmdFmt(os.Args[2:]))
	case "version":
		fmt.Println(sentience.Version)
		return
	case "-h", "--help", "help":
		usage()
		os.Exit(0)
	default:
		// Bare file argument is shorthand for run.
		if strings.HasSuffix(cmd, ".sn") {
			os.Exit(cmdRun(os.Args[1:]))
		}
		fmt.Fprintf(os.Stderr, "%s: unknown command %q\n", appName, cmd)
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Printf(`Sentience %s

Usage:
  %s run <file.sn> [--trace]    Run a script.
  %s <file.sn>                  Shorthand for run.
  %s repl                       Start the REPL.
  %s fmt <file.sn>              Reprint a script in normalized form.
  %s version                    Print the version.

Configuration is read from %s in the working directory when present.
`, sentience.Version, appName, appName, appName, appName, appName, sentience.DefaultConfigFile)
}

// newInterpreter builds the interpreter from the optional config file.
func newInterpreter(logger *log.Logger) (*sentience.Interpreter, error) {
	cfg, err := sentience.LoadConfigIfPresent(sentience.DefaultConfigFile)
	if err != nil {
		return nil, err
	}
	return sentience.NewInterpreter(cfg.Options(logger)...), nil
}

func cmdRun(args []string) int {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	trace := fs.Bool("trace", false, "log per-phase timings")
	_ = fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "usage: %s run <file.sn> [--trace]\n", appName)
		return 2
	}
	file := fs.Arg(0)

	logger := &log.Logger{Level: log.InfoLevel, Writer: &log.ConsoleWriter{ColorOutput: true}}
	if *trace {
		logger.Level = log.DebugLevel
	}

	src, err := os.ReadFile(file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: cannot read %s: %v\n", appName, file, err)
		return 1
	}

	ip, err := newInterpreter(logger)
	if err != nil {
		fmt.Fprintln(os.Stderr, red(err.Error()))
		return 1
	}

	started := time.Now()
	v, rerr := ip.Run(file, string(src))
	if *trace {
		logger.Debug().Str("file", file).Dur("elapsed", time.Since(started)).Msg("script finished")
	}
	if rerr != nil {
		fmt.Fprintln(os.Stderr, red(sentience.Pretty(rerr)))
		return 1
	}
	printProgramResult(v)
	return 0
}

// printProgramResult prints a program's value: a single-statement program
// prints that statement's value, anything else prints the whole list.
func printProgramResult(v sentience.Value) {
	if v.Tag == sentience.VTList {
		items := v.ListItems()
		if len(items) == 1 {
			fmt.Println(sentience.FormatValue(items[0]))
			return
		}
	}
	fmt.Println(sentience.FormatValue(v))
}

func cmdFmt(args []string) int {
	if len(args) < 1 {
		fmt.Fprintf(os.Stderr, "usage: %s fmt <file.sn>\n", appName)
		return 2
	}
	file := args[0]

	src, err := os.ReadFile(file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: cannot read %s: %v\n", appName, file, err)
		return 1
	}
	tokens, err := sentience.Tokenize(file, string(src))
	if err != nil {
		fmt.Fprintln(os.Stderr, red(sentience.Pretty(err)))
		return 1
	}
	node, err := sentience.Parse(tokens)
	if err != nil {
		fmt.Fprintln(os.Stderr, red(sentience.Pretty(err)))
		return 1
	}
	fmt.Println(sentience.FormatProgram(node))
	return 0
}

func cmdRepl(_ []string) int {
	fmt.Println(banner)

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigc)
	go func() {
		<-sigc
		ln.Close()
		os.Exit(130)
	}()

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}

	logger := &log.Logger{Level: log.InfoLevel, Writer: &log.ConsoleWriter{ColorOutput: true}}
	ip, err := newInterpreter(logger)
	if err != nil {
		fmt.Fprintln(os.Stderr, red(err.Error()))
		return 1
	}
	ctx := sentience.NewProgramContext()

	for {
		code, ok := readByParseProbe(ln, promptMain, promptCont)
		if !ok {
			fmt.Println()
			break
		}

		trimmed := strings.TrimSpace(code)
		if strings.HasPrefix(trimmed, ":") {
			if strings.ToLower(trimmed) == ":quit" {
				return 0
			}
			fmt.Println("unknown command. Type :quit to exit.")
			continue
		}
		if trimmed == "" {
			continue
		}

		v, rerr := ip.RunInContext("<stdin>", code, ctx)
		if rerr != nil {
			fmt.Fprintln(os.Stderr, red(sentience.Pretty(rerr)))
			continue
		}
		printReplResult(v)
		ln.AppendHistory(strings.ReplaceAll(code, "\n", " "))
	}

	return 0
}

func printReplResult(v sentience.Value) {
	if v.Tag == sentience.VTList {
		items := v.ListItems()
		if len(items) == 1 {
			fmt.Println(blue(sentience.FormatValue(items[0])))
			return
		}
	}
	fmt.Println(blue(sentience.FormatValue(v)))
}

// readByParseProbe collects lines until the accumulated input no longer looks
// like an unfinished block form.
func readByParseProbe(ln *liner.State, prompt, cont string) (string, bool) {
	var b strings.Builder

	for {
		var line string
		var err error
		if b.Len() == 0 {
			line, err = ln.Prompt(prompt)
		} else {
			line, err = ln.Prompt(cont)
		}
		if errors.Is(err, io.EOF) {
			return "", false
		}
		if err != nil {
			return "", true
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		src := b.String()
		if sentience.NeedsMoreInput(src) {
			continue
		}
		return src, true
	}
}
