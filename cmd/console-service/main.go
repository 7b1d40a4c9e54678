package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/vasiliy-maslov/ecommerce-console/internal/cart"
	"github.com/vasiliy-maslov/ecommerce-console/internal/config"
	"github.com/vasiliy-maslov/ecommerce-console/internal/gateway"
	consoleHttp "github.com/vasiliy-maslov/ecommerce-console/internal/handler/http"
	"github.com/vasiliy-maslov/ecommerce-console/internal/logger"
	"github.com/vasiliy-maslov/ecommerce-console/internal/metrics"
	"github.com/vasiliy-maslov/ecommerce-console/internal/notify"
	"github.com/vasiliy-maslov/ecommerce-console/internal/owner"
	"github.com/vasiliy-maslov/ecommerce-console/internal/product"
	"github.com/vasiliy-maslov/ecommerce-console/internal/session"
	"github.com/vasiliy-maslov/ecommerce-console/internal/transport"
	"github.com/vasiliy-maslov/ecommerce-console/internal/unit"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the YAML config file")
	envPath := flag.String("env", ".env", "path to the .env file")
	flag.Parse()

	cfg, err := config.Load(*configPath, *envPath)
	if err != nil {
		logger.Setup("info", true, "console-service")
		log.Fatal().Err(err).Msg("Failed to load config")
	}
	logger.Setup(cfg.Log.Level, cfg.Log.Pretty, cfg.App.Name)
	log.Info().Msg("Console service starting...")

	loc := cfg.Location()
	reg := metrics.NewRegistry()
	gw := gateway.NewClient(cfg.Gateway.BaseURL, cfg.Gateway.Prefix,
		gateway.WithTimeout(cfg.Gateway.Timeout),
		gateway.WithObserver(reg),
	)

	listing := unit.NewListing(gw)
	cartSessions := session.NewRegistry[*cart.Session]("cart", cfg.Session.TTL, session.WithEvictHook(reg.SessionEvicted))
	ownerSessions := session.NewRegistry[*owner.Form]("owner", cfg.Session.TTL, session.WithEvictHook(reg.SessionEvicted))

	newCart := func() *cart.Session {
		return cart.NewSession(gw, gw, cart.WithRefresher(listing), cart.WithLocation(loc))
	}
	composer := notify.NewComposer(gw, gw, cfg.WhatsApp.PixKey, cfg.WhatsApp.CountryCode)

	router := transport.NewRouter(gw, reg.Handler(),
		consoleHttp.NewUnitHandler(listing),
		consoleHttp.NewCartHandler(cartSessions, newCart, loc, reg),
		consoleHttp.NewOwnerHandler(ownerSessions, gw, listing, reg),
		consoleHttp.NewMessageHandler(listing, cartSessions, composer, reg),
		consoleHttp.NewProductHandler(product.NewService(gw), reg),
		consoleHttp.NewDashboardHandler(gw),
	)

	server := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.Gateway.Timeout + 10*time.Second,
		IdleTimeout:  120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("port", cfg.App.Port).Str("gateway", cfg.Gateway.BaseURL).Msg("Starting HTTP server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error { return cartSessions.Run(gctx, cfg.Session.SweepInterval) })
	g.Go(func() error { return ownerSessions.Run(gctx, cfg.Session.SweepInterval) })
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("Shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("Console service stopped with error")
	}
	cartSessions.CloseAll()
	ownerSessions.CloseAll()
	log.Info().Msg("Console service stopped gracefully.")
}
