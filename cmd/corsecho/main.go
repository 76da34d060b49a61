// Command corsecho serves an echo contract over HTTP,
// with CORS support provided by package rpccors.
//
// Configuration is read from config.yaml (in the working directory or
// in the directory named by CORSECHO_CONFIG_DIR) and from environment
// variables prefixed with CORSECHO_, which win over the file; an optional
// .env file (or the file named by ENV_FILE) is loaded first.
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/jub0bs/rpccors"
	"github.com/jub0bs/rpccors/cfgerrors"
	"github.com/jub0bs/rpccors/dispatch"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

func main() {
	envFile := os.Getenv("ENV_FILE")
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil {
		log.Println("no .env file found, using system environment variables")
	}

	cfg, err := loadConfig(os.Getenv("CORSECHO_CONFIG_DIR"))
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	logger := newLogger(cfg.LogLevel)

	if err := cfg.CORS.Validate(); err != nil {
		for err := range cfgerrors.All(err) {
			logger.WithError(err).Error("unacceptable CORS policy")
		}
		os.Exit(1)
	}

	ep := newEchoEndpoint(cfg.Path)
	rpccors.NewBehavior(cfg.CORS).Attach(ep)
	d, err := dispatch.NewDispatcher(ep, dispatch.WithLogger(logger))
	if err != nil {
		logger.Fatalf("failed to assemble dispatcher: %v", err)
	}

	mux := http.NewServeMux()
	mux.Handle(cfg.Path+"/", dispatch.NewHandler(d))
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := run(ctx, srv, cfg.ShutdownTimeout, logger); err != nil {
		logger.Fatalf("server failed: %v", err)
	}
	logger.Info("server gracefully stopped")
}

// run serves srv until ctx is done, then shuts it down.
func run(ctx context.Context, srv *http.Server, timeout time.Duration, logger logrus.FieldLogger) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.WithField("addr", srv.Addr).Info("listening")
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		logger.Info("shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func newLogger(level string) *logrus.Logger {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: time.RFC3339,
		FieldMap: logrus.FieldMap{
			logrus.FieldKeyTime: "time",
			logrus.FieldKeyMsg:  "msg",
		},
	})
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	logger.SetLevel(lvl)
	return logger
}
