package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tu-usuario/taller-tickets/internal/application/session"
	"github.com/tu-usuario/taller-tickets/internal/infrastructure/api"
	"github.com/tu-usuario/taller-tickets/internal/infrastructure/storage"
	"github.com/tu-usuario/taller-tickets/internal/interfaces/tui"
	"github.com/tu-usuario/taller-tickets/pkg/config"
	"github.com/tu-usuario/taller-tickets/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "cargar configuración:", err)
		os.Exit(1)
	}

	// El TUI es dueño de stdout; el log va a archivo o a ningún lado.
	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
		File:  cfg.App.LogFile,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("api", cfg.API.BaseURL).
		Msg("iniciando cliente")

	tokens := storage.NewTokenFile(cfg.API.TokenPath)
	cliente := api.New(cfg.API.BaseURL, tokens, log)
	store := session.NewStore(cliente, tokens, log)

	app := tui.NewApp(store, cliente, log)
	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		log.Error().Err(err).Msg("programa TUI finalizado con error")
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
