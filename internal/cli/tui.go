package cli

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nhle/mailbuckets/internal/app"
	appsync "github.com/nhle/mailbuckets/internal/sync"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Open the interactive inbox (default)",
	Args:  cobra.NoArgs,
	RunE:  runTUI,
}

func runTUI(cmd *cobra.Command, _ []string) error {
	e, cleanup, err := setup(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, cancel := signalContext(cmd.Context())
	defer cancel()

	s, err := e.openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	engine, err := e.newEngine(ctx)
	if err != nil {
		return err
	}

	client, err := e.newMailClient()
	if err != nil {
		return err
	}

	e.serveMetrics(ctx)

	poller := appsync.New(client, engine, s, appsync.Config{
		Limit:    e.cfg.Mail.FetchLimit,
		Interval: time.Duration(e.cfg.Display.PollIntervalSec) * time.Second,
	}, e.logger)
	defer poller.Stop()

	root := app.New(app.Deps{
		Store:     s,
		Poller:    poller,
		Account:   e.cfg.Mail.Address,
		ModelName: e.cfg.Ollama.Model,
		Logger:    e.logger,
	})

	e.logger.Info("starting inbox", zap.String("account", e.cfg.Mail.Address))

	p := tea.NewProgram(root, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running inbox: %w", err)
	}
	return nil
}
