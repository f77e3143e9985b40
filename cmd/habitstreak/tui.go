package main

import (
	"fmt"

	"habitstreak/internal/logger"
	"habitstreak/internal/ui"
)

// TuiCmd starts the terminal UI.
type TuiCmd struct{}

func (c *TuiCmd) Run(ctx *Context) error {
	s, err := ctx.Store()
	if err != nil {
		return err
	}

	if prev, ok, err := s.TouchLastOpened(); err != nil {
		logger.Warn("record last opened", "err", err)
	} else if ok {
		logger.Debug("welcome back", "last_opened", prev)
	}

	cfg := ctx.Config
	styles := ui.NewStylesFromTheme(&cfg.Theme)
	appCfg := &ui.AppConfig{
		Keys:             &cfg.Keys,
		ConfirmDeletions: cfg.UX.ConfirmDeletions,
		ShowWelcome:      cfg.UX.ShowWelcome,
	}

	if err := ui.Run(s, styles, appCfg); err != nil {
		return fmt.Errorf("run app: %w", err)
	}
	return nil
}
