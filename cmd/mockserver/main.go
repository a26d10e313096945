package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tu-usuario/taller-tickets/internal/infrastructure/pdf"
	"github.com/tu-usuario/taller-tickets/internal/mockserver"
	"github.com/tu-usuario/taller-tickets/pkg/config"
	"github.com/tu-usuario/taller-tickets/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("addr", cfg.HTTP.Addr()).
		Msg("iniciando servidor mock")

	secret := cfg.JWT.Secret
	if secret == "" {
		// Servidor de desarrollo: un secreto fijo permite reusar tokens
		// entre reinicios sin configurar nada.
		secret = "taller-dev-secret"
		log.Warn().Msg("JWT_SECRET vacío, usando secreto de desarrollo")
	}

	store := mockserver.NewStore()
	srv := mockserver.New(store, pdf.NewMarotoReportGenerator(), log, mockserver.Config{
		JWTSecret:     secret,
		JWTIssuer:     cfg.JWT.Issuer,
		JWTExpMinutes: cfg.JWT.Expiration,
	})
	if err := srv.Seed(); err != nil {
		log.Fatal().Err(err).Msg("sembrar datos iniciales")
	}

	app := srv.App()
	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("servidor detenido")
}
