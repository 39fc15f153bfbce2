package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/jrsteele09/ironrent/catalog"
	"github.com/jrsteele09/ironrent/company"
	"github.com/jrsteele09/ironrent/internal/config"
	"github.com/jrsteele09/ironrent/internal/database"
	"github.com/jrsteele09/ironrent/leads"
	"github.com/jrsteele09/ironrent/server"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	c := config.New()
	setupLogging(c)

	if err := run(c); err != nil {
		log.Fatal().Err(err).Msg("Error running server")
	}
	log.Info().Msg("Server stopped")
}

func run(c config.Config) (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Bytes("stack", debug.Stack()).Msg("Recovered from panic")
			returnError = errors.New("panic recovered")
		}
	}()

	displayAppname(c.GetAppName())

	secrets, err := config.LoadSecrets(c)
	if err != nil {
		return fmt.Errorf("config.LoadSecrets: %w", err)
	}

	repos, closeRepos, err := newRepos(c)
	if err != nil {
		return err
	}
	defer closeRepos()

	handler, err := server.New(c, secrets, repos, server.WithNotifier(newNotifier(c)))
	if err != nil {
		return fmt.Errorf("server.New: %w", err)
	}

	httpServer := &http.Server{
		Addr:              c.GetPort(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}

	serveErr := make(chan error, 1)
	go func() { serveErr <- listenAndServe(httpServer) }()

	if err := waitForStopSignal(serveErr); err != nil {
		return err
	}
	return shutdown(httpServer)
}

// newRepos uses PostgreSQL when DATABASE_URL is set and memory otherwise
func newRepos(c config.Config) (server.Repos, func(), error) {
	dsn := c.GetDatabaseURL()
	if dsn == "" {
		log.Warn().Msg("DATABASE_URL not set, data is kept in memory")
		return server.Repos{
			Leads:   leads.NewInMemoryRepo(),
			Catalog: catalog.NewInMemoryRepo(),
			Company: company.NewInMemoryRepo(),
		}, func() {}, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	pool, err := database.Connect(ctx, dsn)
	if err != nil {
		return server.Repos{}, nil, fmt.Errorf("database.Connect: %w", err)
	}

	leadRepo, err := leads.NewPostgresRepo(ctx, pool)
	if err != nil {
		pool.Close()
		return server.Repos{}, nil, fmt.Errorf("leads.NewPostgresRepo: %w", err)
	}
	catalogRepo, err := catalog.NewPostgresRepo(ctx, pool)
	if err != nil {
		pool.Close()
		return server.Repos{}, nil, fmt.Errorf("catalog.NewPostgresRepo: %w", err)
	}
	companyRepo, err := company.NewPostgresRepo(ctx, pool)
	if err != nil {
		pool.Close()
		return server.Repos{}, nil, fmt.Errorf("company.NewPostgresRepo: %w", err)
	}
	return server.Repos{Leads: leadRepo, Catalog: catalogRepo, Company: companyRepo}, pool.Close, nil
}

// newNotifier announces new leads on Telegram when both settings are present
func newNotifier(c config.Config) leads.Notifier {
	token, chatID := c.GetTelegramBotToken(), c.GetTelegramChatID()
	if token == "" || chatID == "" {
		log.Warn().Msg("TG_BOT_TOKEN or TG_CHAT_ID not set, lead notifications are off")
		return leads.NopNotifier{}
	}
	notifier, err := leads.NewTelegramNotifier(token, chatID)
	if err != nil {
		log.Err(err).Msg("Lead notifications are off")
		return leads.NopNotifier{}
	}
	return notifier
}

func setupLogging(c config.Config) {
	zerolog.TimeFieldFormat = time.RFC3339
	if c.IsProduction() {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
		return
	}
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
}

func listenAndServe(server *http.Server) error {
	log.Info().Msgf("Server listening on %s", server.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server.ListenAndServe %w", err)
	}
	return nil
}

func waitForStopSignal(serveErr <-chan error) error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	select {
	case <-stop:
		return nil
	case err := <-serveErr:
		return err
	}
}

func shutdown(server *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	return nil
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
