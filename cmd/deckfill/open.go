package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/sant0-9/deckfill/internal/bridge"
	"github.com/sant0-9/deckfill/internal/config"
	"github.com/sant0-9/deckfill/internal/document"
	"github.com/sant0-9/deckfill/internal/llm"
	"github.com/sant0-9/deckfill/internal/mapper"
	"github.com/sant0-9/deckfill/internal/panel"
	"github.com/sant0-9/deckfill/internal/shell"
	"github.com/sant0-9/deckfill/internal/slides"
	"github.com/sant0-9/deckfill/internal/slidesapi"
	"github.com/sant0-9/deckfill/internal/tui"
)

var openCmd = &cobra.Command{
	Use:   "open <presentation-url>",
	Short: "Open the panel on a Google Slides presentation",
	Args:  cobra.ExactArgs(1),
	RunE:  runOpen,
}

var contentPath string

func init() {
	rootCmd.AddCommand(openCmd)
	openCmd.Flags().StringVarP(&contentPath, "content", "c", "", "prefill the panel with a .txt or .md file")
}

func runOpen(cmd *cobra.Command, args []string) error {
	presentationID, err := shell.Resolve(args[0])
	if err != nil {
		return err
	}
	if presentationID == "" {
		return &slides.NotFoundError{}
	}

	var doc *document.Document
	if contentPath != "" {
		if doc, err = document.Load(contentPath); err != nil {
			return err
		}
	}

	log, closer, err := shell.NewLogger(logLevel)
	if err != nil {
		return fmt.Errorf("failed to open log: %w", err)
	}
	defer closer.Close()

	cfg, needsSetup, err := shell.Install(log)
	if err != nil {
		return err
	}
	if logLevel == "" {
		if lvl, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
			log.SetLevel(lvl)
		}
	}
	plog := log.WithField("presentation", presentationID)
	plog.Info("opening panel")

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()
	g, ctx := errgroup.WithContext(ctx)

	store := config.NewCredentialStore(cfg)
	host, connected, err := buildHost(ctx, g, cfg, store, log)
	if err != nil {
		return err
	}

	ctrl := panel.New(panel.Settings{
		PresentationID:  presentationID,
		Credential:      store.Get(),
		NeedsCredential: cfg.NeedsAPIKey(),
		SessionTTL:      cfg.SessionTTL,
	}, slides.NewReader(host, log), mapperFactory(cfg, log), slides.NewWriter(host, log), log)

	updates, unsubscribe := store.Subscribe()
	defer unsubscribe()
	g.Go(func() error {
		ctrl.WatchCredentials(ctx, updates)
		return nil
	})

	app := tui.NewApp(tui.Options{
		Context:    ctx,
		Config:     cfg,
		Store:      store,
		Controller: ctrl,
		NeedsSetup: needsSetup,
		Document:   doc,
		Connected:  connected,
		Log:        log,
	})

	g.Go(func() error {
		defer stop()
		p := tea.NewProgram(
			app,
			tea.WithAltScreen(),
			tea.WithMouseCellMotion(),
			tea.WithContext(ctx),
		)
		if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
			return err
		}
		return nil
	})

	err = g.Wait()
	plog.WithError(err).Info("panel closed")
	return err
}

// buildHost picks the presentation host and starts the local server on g.
// In bridge mode the server carries the page connection and connected reports
// whether a page is attached. In both modes it accepts keys from `key set`.
func buildHost(ctx context.Context, g *errgroup.Group, cfg *config.Config, store *config.CredentialStore, log logrus.FieldLogger) (slides.HostClient, func() bool, error) {
	var (
		b         *bridge.Bridge
		host      slides.HostClient
		connected func() bool
	)
	switch cfg.Host.Mode {
	case config.HostAPI:
		client, err := slidesapi.New(ctx, cfg.Host.CredentialsFile)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create Slides API client: %w", err)
		}
		host = client

	case config.HostBridge:
		b = bridge.New(cfg.Host.Timeout, log)
		host, connected = bridge.NewHostClient(b), b.Connected

	default:
		return nil, nil, fmt.Errorf("unknown host mode: %s", cfg.Host.Mode)
	}

	srv := bridge.NewServer(b, log)
	srv.OnCredential(store.Set)
	g.Go(func() error {
		err := srv.ListenAndServe(ctx, cfg.Host.ListenAddr)
		if err != nil && b == nil {
			// API mode works without the server; only key pushes are lost.
			log.WithError(err).Warn("credential listener unavailable")
			return nil
		}
		return err
	})
	return host, connected, nil
}

// mapperFactory builds a mapper per generate so key and model changes from
// settings take effect without reopening the panel. All of them share one
// request pacer.
func mapperFactory(cfg *config.Config, log logrus.FieldLogger) panel.MapperFactory {
	newProvider := llm.WithKey(cfg)
	return func(apiKey string) (panel.ContentMapper, error) {
		provider, err := newProvider(apiKey)
		if err != nil {
			return nil, err
		}
		return mapper.New(provider, cfg, log), nil
	}
}
