package main

import (
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/muesli/termenv"
)

// version is set by ldflags during build
var version = "dev"

// Globals are flags shared by every command.
type Globals struct {
	LogLevel string `help:"Log level (debug, info, warn, error)" placeholder:"LEVEL"`
	NoColor  bool   `help:"Disable coloured output"`
}

// Logger builds the process logger. An empty level means info.
func (g *Globals) Logger(w io.Writer) (*log.Logger, error) {
	logger := log.New(w)
	if g.LogLevel == "" {
		logger.SetLevel(log.InfoLevel)
		return logger, nil
	}
	level, err := log.ParseLevel(g.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q", g.LogLevel)
	}
	logger.SetLevel(level)
	return logger, nil
}

type CLI struct {
	Globals

	Version     kong.VersionFlag `short:"v" help:"Show version"`
	Eval        EvalCmd          `cmd:"" help:"Evaluate one or more hands"`
	Compare     CompareCmd       `cmd:"" help:"Compare two hands"`
	Sort        SortCmd          `cmd:"" help:"Sort hands from weakest to strongest"`
	Check       CheckCmd         `cmd:"" help:"Run a regression suite against the evaluator"`
	Serve       ServeCmd         `cmd:"" help:"Run the evaluation server"`
	Interactive InteractiveCmd   `cmd:"" help:"Evaluate hands in an interactive terminal UI"`
	Deal        DealCmd          `cmd:"" help:"Deal random hands from a shuffled deck"`
}

func newParser(cli *CLI, stdout io.Writer, options ...kong.Option) (*kong.Kong, error) {
	options = append([]kong.Option{
		kong.Name("handeval"),
		kong.Description("Five-card poker hand evaluator"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
		kong.BindTo(stdout, (*io.Writer)(nil)),
	}, options...)
	return kong.New(cli, options...)
}

func main() {
	var cli CLI
	parser, err := newParser(&cli, os.Stdout)
	if err != nil {
		panic(err)
	}

	ctx, err := parser.Parse(os.Args[1:])
	parser.FatalIfErrorf(err)

	if cli.NoColor {
		lipgloss.SetColorProfile(termenv.Ascii)
	}

	logger, err := cli.Logger(os.Stderr)
	ctx.FatalIfErrorf(err)

	err = ctx.Run(&cli.Globals, logger)
	ctx.FatalIfErrorf(err)
}
