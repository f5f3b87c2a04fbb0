package main

import (
	"fmt"
	"io"
	"log"

	"github.com/fentz26/pagent/internal/audit"
	"github.com/fentz26/pagent/internal/chat"
	"github.com/fentz26/pagent/internal/config"
	"github.com/fentz26/pagent/internal/gateway"
	"github.com/fentz26/pagent/internal/history"
	"github.com/fentz26/pagent/internal/ingest"
	"github.com/fentz26/pagent/internal/llm"
	"github.com/fentz26/pagent/internal/route"
	"github.com/fentz26/pagent/internal/tui"
	"github.com/spf13/cobra"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Launch the interactive chat",
	RunE:  runChat,
}

func runChat(cmd *cobra.Command, args []string) error {
	service, hist, _, err := buildService()
	if err != nil {
		return err
	}
	defer hist.Close()

	// Keep stray log output off the TUI screen.
	log.SetOutput(io.Discard)

	app := tui.New(service)
	if err := app.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}

// buildService wires the full pipeline: backend client → router →
// orchestrator, plus the stores around it.
func buildService() (*gateway.Service, *history.Store, *config.Config, error) {
	cfg, err := config.LoadFromHome()
	if err != nil {
		return nil, nil, nil, err
	}

	hist, err := history.New(cfg.DBPath)
	if err != nil {
		return nil, nil, nil, err
	}

	trail := audit.NewTrail(hist)
	store := ingest.NewStore()
	ingestor := ingest.NewIngestor(store, trail)

	var client llm.Client
	if cfg.LLM.UseMock || cfg.LLM.APIKey == "" {
		log.Println("No OPENAI_API_KEY configured; using the offline mock backend")
		client = llm.NewMock()
	} else {
		client = llm.NewHTTPClient(llm.Config{
			BaseURL: cfg.LLM.BaseURL,
			APIKey:  cfg.LLM.APIKey,
			Model:   cfg.LLM.Model,
		})
	}

	router := route.New(route.DefaultRoutes(ingestor), route.WithFallback(cfg.FallbackTag()))
	orch := chat.New(client, router)

	return gateway.NewService(orch, store, hist, trail), hist, cfg, nil
}
