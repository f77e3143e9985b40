// Package main is the entry point for the habitstreak application.
// It parses the command line, loads configuration and runs the selected
// command. Without a command the terminal UI starts.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kong"

	"habitstreak/internal/config"
	"habitstreak/internal/logger"
)

// Version information - set by GoReleaser during build
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// CLI is the kong command tree.
type CLI struct {
	Debug bool `help:"Log at debug level and mirror logs to stderr."`

	Tui      TuiCmd      `cmd:"" default:"1" help:"Launch the interactive TUI."`
	Add      AddCmd      `cmd:"" help:"Add a habit."`
	List     ListCmd     `cmd:"" aliases:"ls" help:"List habits with today's status and streaks."`
	Toggle   ToggleCmd   `cmd:"" help:"Toggle a habit's completion for today or a given day."`
	Edit     EditCmd     `cmd:"" help:"Rename a habit or change its emoji."`
	Rm       RmCmd       `cmd:"" help:"Delete a habit and its history."`
	Move     MoveCmd     `cmd:"" help:"Move a habit to another position."`
	Stats    StatsCmd    `cmd:"" help:"Show month statistics."`
	Calendar CalendarCmd `cmd:"" help:"Print the month calendar."`
	Report   ReportCmd   `cmd:"" help:"Generate a monthly report."`
	Backup   struct {
		Create  BackupCreateCmd  `cmd:"" default:"1" help:"Create a backup of all data."`
		List    BackupListCmd    `cmd:"" help:"List available backups."`
		Restore BackupRestoreCmd `cmd:"" help:"Restore data from a backup."`
		Delete  BackupDeleteCmd  `cmd:"" help:"Delete a backup."`
		Prune   BackupPruneCmd   `cmd:"" help:"Delete all but the newest backups."`
	} `cmd:"" help:"Create and manage backups."`
	Remind  RemindCmd  `cmd:"" help:"Send a reminder notification for unfinished habits."`
	Version VersionCmd `cmd:"" help:"Show version information."`
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// run executes one invocation and returns the process exit code.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer, options ...kong.Option) int {
	var cli CLI
	options = append([]kong.Option{
		kong.Name("habitstreak"),
		kong.Description("Build daily habits and keep your streaks alive."),
		kong.UsageOnError(),
		kong.Writers(stdout, stderr),
	}, options...)

	parser, err := kong.New(&cli, options...)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	kctx, err := parser.Parse(args)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(stderr, "Error loading config: %v\n", err)
		return 1
	}
	if cli.Debug {
		cfg.Log.Debug = true
	}

	if err := logger.Init(logger.Config{Debug: cfg.Log.Debug, Dir: cfg.ResolvedDataDir()}); err != nil {
		// Logging is optional; keep going without a log file.
		fmt.Fprintf(stderr, "Warning: %v\n", err)
	}
	defer logger.Close()

	app := &Context{
		Config: cfg,
		In:     stdin,
		Out:    stdout,
	}
	defer app.Close()

	if err := kctx.Run(app); err != nil {
		logger.Error("command failed", "command", kctx.Command(), "err", err)
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// VersionCmd prints build information.
type VersionCmd struct{}

func (c *VersionCmd) Run(ctx *Context) error {
	fmt.Fprintf(ctx.Out, "habitstreak version %s\n", version)
	fmt.Fprintf(ctx.Out, "  commit: %s\n", commit)
	fmt.Fprintf(ctx.Out, "  built:  %s\n", date)
	return nil
}
