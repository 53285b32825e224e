package main

import (
	"context"
	"net"
	"net/http"
	"os"
	"os/signal"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/jonboulle/clockwork"
	"github.com/sirupsen/logrus"

	"github.com/courtside-app/courtside/internal/auth"
	"github.com/courtside-app/courtside/internal/cache"
	"github.com/courtside-app/courtside/internal/config"
	"github.com/courtside-app/courtside/internal/gateway"
	"github.com/courtside-app/courtside/internal/handlers"
	"github.com/courtside-app/courtside/internal/lobby"
	"github.com/courtside-app/courtside/internal/middleware"
	"github.com/courtside-app/courtside/internal/session"
	"github.com/courtside-app/courtside/internal/workflow"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg := config.Load()

	if cfg.AuthPrivateKeyPath != "" && cfg.AuthPublicKeyPath != "" {
		if err := auth.InitFromPath(cfg.AuthPrivateKeyPath, cfg.AuthPublicKeyPath); err != nil {
			logger.Fatalf("failed to load auth keys: %v", err)
		}
	} else {
		if err := auth.Init(); err != nil {
			logger.Fatalf("failed to init auth keys: %v", err)
		}
		logger.Warn("using ephemeral auth keys; credentials from an external issuer will not verify")
	}

	rdb, err := cache.Connect(cfg.RedisAddr, cfg.RedisDB)
	if err != nil {
		logger.Fatalf("redis: %v", err)
	}
	defer rdb.Close()

	gw := gateway.NewClient(gateway.ClientConfig{
		BaseURL: cfg.GatewayBaseURL,
		Timeout: cfg.GatewayTimeout,
	})

	store := lobby.NewStore()
	lobbies := lobby.NewManager(gw, store)
	sessions := session.NewManager(cache.NewSessionStore(rdb, cfg.SessionTTL), clockwork.NewRealClock())
	results := workflow.New(gw, lobbies, sessions)
	poller := lobby.NewPoller(lobbies, store, cfg.PollInterval)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go poller.Run(ctx)

	srv := handlers.NewSessionServer(lobbies, sessions, results, poller)
	server := &http.Server{
		Handler:      middleware.LogMiddleware(logger)(srv.Routes()),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	l, err := net.Listen("tcp", cfg.ListenAddr)
	if err != nil {
		logger.Fatalf("failed to listen: %v", err)
	}
	logger.Infof("listening on %s", l.Addr())

	errc := make(chan error, 1)
	go func() {
		errc <- server.Serve(l)
	}()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt)
	select {
	case err := <-errc:
		logger.Errorf("failed to serve: %v", err)
	case sig := <-sigs:
		logger.Infof("terminating: %v", sig)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("shutdown: %v", err)
	}
}
