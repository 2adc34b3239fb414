package main

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/lox/handeval/internal/fileutil"
	"github.com/lox/handeval/internal/regression"
)

// CheckCmd runs a regression suite and reports the outcome.
type CheckCmd struct {
	File   string `arg:"" optional:"" type:"existingfile" help:"HCL suite file (defaults to the built-in canonical suite)"`
	Format string `enum:"summary,json" default:"summary" help:"Report format (summary, json)"`
	Output string `short:"o" type:"path" help:"Write the report to a file instead of stdout"`
}

func (c *CheckCmd) Run(out io.Writer, logger *log.Logger) error {
	suite, err := c.loadSuite()
	if err != nil {
		return err
	}

	logger.Debug("Loaded suite", "name", suite.Name, "cases", suite.CaseCount())

	report, err := regression.NewRunner(logger, quartz.NewReal()).Run(context.Background(), suite)
	if err != nil {
		return err
	}

	if err := c.writeReport(out, report); err != nil {
		return err
	}

	if !report.OK() {
		return fmt.Errorf("%d of %d cases failed", report.Failed, len(report.Cases))
	}
	return nil
}

func (c *CheckCmd) loadSuite() (*regression.Suite, error) {
	if c.File == "" {
		return regression.DefaultSuite()
	}
	return regression.LoadSuite(c.File)
}

func (c *CheckCmd) writeReport(out io.Writer, report *regression.Report) error {
	if c.Output == "" {
		return regression.NewReporter(out).Write(report, c.Format)
	}
	return fileutil.WriteAtomic(c.Output, 0o644, func(w io.Writer) error {
		return regression.NewReporter(w).Write(report, c.Format)
	})
}
