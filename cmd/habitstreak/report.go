package main

import (
	"fmt"
	"os"
	"path/filepath"

	"habitstreak/internal/fsutil"
	"habitstreak/internal/reports"
)

// ReportCmd renders the monthly report as Markdown or JSON.
type ReportCmd struct {
	Month  string `short:"m" help:"Month to report (YYYY-MM). Defaults to the current month."`
	Format string `short:"f" default:"markdown" help:"Output format: markdown (md) or json."`
	Output string `short:"o" type:"path" help:"Write to file instead of stdout."`
}

func (c *ReportCmd) Run(ctx *Context) error {
	format, err := reports.ParseFormat(c.Format)
	if err != nil {
		return err
	}

	s, err := ctx.Store()
	if err != nil {
		return err
	}
	month, err := parseMonth(s, c.Month)
	if err != nil {
		return err
	}

	report := reports.NewGenerator(s).GenerateMonthly(month)
	data, err := reports.Render(report, format)
	if err != nil {
		return fmt.Errorf("render report: %w", err)
	}

	if c.Output == "" {
		_, err := ctx.Out.Write(data)
		return err
	}

	if dir := filepath.Dir(c.Output); dir != "." {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}
	if err := fsutil.WriteFileAtomic(c.Output, data, 0600); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	fmt.Fprintf(ctx.Out, "Report written to %s\n", c.Output)
	return nil
}
