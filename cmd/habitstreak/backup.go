package main

import (
	"bufio"
	"errors"
	"fmt"
	"strings"
	"time"

	"habitstreak/internal/backup"
)

func (c *Context) backupManager() *backup.Manager {
	m := backup.NewManager(c.DataDir(), version)
	m.SetNowFunc(c.Now)
	return m
}

// BackupCreateCmd creates a timestamped backup of the data directory.
type BackupCreateCmd struct{}

func (c *BackupCreateCmd) Run(ctx *Context) error {
	manager := ctx.backupManager()
	name, err := manager.Create()
	if err != nil {
		return fmt.Errorf("create backup: %w", err)
	}

	info, err := manager.Get(name)
	if err != nil {
		return fmt.Errorf("read backup info: %w", err)
	}

	fmt.Fprintf(ctx.Out, "✓ Backup created: %s\n", name)
	fmt.Fprintf(ctx.Out, "  Habits: %d, Completions: %d\n", info.Stats["habits"], info.Stats["completions"])
	fmt.Fprintf(ctx.Out, "  Location: %s\n", info.Path)
	return nil
}

// BackupListCmd lists backups newest first.
type BackupListCmd struct{}

func (c *BackupListCmd) Run(ctx *Context) error {
	backups, err := ctx.backupManager().List()
	if err != nil {
		return fmt.Errorf("list backups: %w", err)
	}

	if len(backups) == 0 {
		fmt.Fprintln(ctx.Out, "No backups available.")
		fmt.Fprintln(ctx.Out, "Run 'habitstreak backup create' to create one.")
		return nil
	}

	fmt.Fprintln(ctx.Out, "Available backups:")
	for _, b := range backups {
		fmt.Fprintf(ctx.Out, "  %s  (%s)   Habits: %d, Completions: %d\n",
			b.Name, formatAge(ctx.now().Sub(b.CreatedAt)), b.Stats["habits"], b.Stats["completions"])
	}
	return nil
}

// BackupRestoreCmd replaces the current data with a backup. A safety backup
// is taken first.
type BackupRestoreCmd struct {
	Name   string `arg:"" optional:"" help:"Backup to restore (see 'backup list')."`
	Latest bool   `help:"Restore the most recent backup."`
	Force  bool   `short:"f" help:"Skip the confirmation prompt."`
}

func (c *BackupRestoreCmd) Run(ctx *Context) error {
	manager := ctx.backupManager()

	name := c.Name
	switch {
	case c.Latest:
		backups, err := manager.List()
		if err != nil {
			return fmt.Errorf("list backups: %w", err)
		}
		if len(backups) == 0 {
			return errors.New("no backups available")
		}
		name = backups[0].Name
	case name == "":
		return errors.New("no backup specified, pass a name or --latest")
	}

	info, err := manager.Get(name)
	if err != nil {
		return err
	}

	fmt.Fprintf(ctx.Out, "Restoring from backup: %s\n", info.Name)
	fmt.Fprintf(ctx.Out, "  Created: %s\n", info.CreatedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(ctx.Out, "  Habits: %d, Completions: %d\n\n", info.Stats["habits"], info.Stats["completions"])

	if !c.Force {
		fmt.Fprintln(ctx.Out, "⚠ This will overwrite your current data.")
		fmt.Fprint(ctx.Out, "Continue? [y/N] ")

		response, err := bufio.NewReader(ctx.In).ReadString('\n')
		if err != nil && response == "" {
			return fmt.Errorf("read input: %w", err)
		}
		response = strings.TrimSpace(strings.ToLower(response))
		if response != "y" && response != "yes" {
			fmt.Fprintln(ctx.Out, "Restore cancelled.")
			return nil
		}
	}

	fmt.Fprintln(ctx.Out, "✓ Creating safety backup first...")
	if err := manager.Restore(name); err != nil {
		return fmt.Errorf("restore backup: %w", err)
	}
	fmt.Fprintf(ctx.Out, "✓ Restored successfully from %s\n", name)
	return nil
}

// BackupDeleteCmd removes one backup.
type BackupDeleteCmd struct {
	Name string `arg:"" help:"Backup to delete."`
}

func (c *BackupDeleteCmd) Run(ctx *Context) error {
	if err := ctx.backupManager().Delete(c.Name); err != nil {
		return err
	}
	fmt.Fprintf(ctx.Out, "✓ Deleted backup %s\n", c.Name)
	return nil
}

// BackupPruneCmd keeps only the newest backups.
type BackupPruneCmd struct {
	Keep int `short:"k" default:"10" help:"Number of backups to keep."`
}

func (c *BackupPruneCmd) Run(ctx *Context) error {
	if c.Keep < 0 {
		return errors.New("--keep must not be negative")
	}
	removed, err := ctx.backupManager().Prune(c.Keep)
	if err != nil {
		return fmt.Errorf("prune backups: %w", err)
	}
	fmt.Fprintf(ctx.Out, "✓ Removed %d backup(s)\n", removed)
	return nil
}

// formatAge returns a human-readable age string.
func formatAge(d time.Duration) string {
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		mins := int(d.Minutes())
		if mins == 1 {
			return "1 minute ago"
		}
		return fmt.Sprintf("%d minutes ago", mins)
	case d < 24*time.Hour:
		hours := int(d.Hours())
		if hours == 1 {
			return "1 hour ago"
		}
		return fmt.Sprintf("%d hours ago", hours)
	case d < 7*24*time.Hour:
		days := int(d.Hours() / 24)
		if days == 1 {
			return "1 day ago"
		}
		return fmt.Sprintf("%d days ago", days)
	default:
		weeks := int(d.Hours() / 24 / 7)
		if weeks == 1 {
			return "1 week ago"
		}
		return fmt.Sprintf("%d weeks ago", weeks)
	}
}
