package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpadapter "svw.info/seating/internal/adapters/http"
	"svw.info/seating/internal/adapters/ws"
	"svw.info/seating/internal/config"
	"svw.info/seating/internal/hint"
	"svw.info/seating/internal/i18n"
	"svw.info/seating/internal/infrastructure/storage"
	"svw.info/seating/internal/levels"
	"svw.info/seating/internal/ports"
	"svw.info/seating/internal/usecase"
	"svw.info/seating/internal/validator"
)

// statusWriter captures HTTP status and bytes written.
type statusWriter struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	n, err := w.ResponseWriter.Write(b)
	w.bytes += n
	return n, err
}

// Hijack lets the websocket upgrade through the logger.
func (w *statusWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := w.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("hijack not supported")
	}
	w.status = http.StatusSwitchingProtocols
	return h.Hijack()
}

func (w *statusWriter) Unwrap() http.ResponseWriter { return w.ResponseWriter }

// requestLogger logs method, path, status, bytes, and duration in a human-readable format.
func requestLogger(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w}
		next.ServeHTTP(sw, r)
		dur := time.Since(start)
		logger.Info("http",
			"method", r.Method,
			"path", r.URL.Path,
			"status", sw.status,
			"bytes", sw.bytes,
			"dur", dur.Round(time.Millisecond),
		)
	})
}

func loadCatalog(path string) (*levels.Catalog, error) {
	if path == "" {
		return levels.LoadEmbedded()
	}
	return levels.LoadFile(path)
}

var openStoreFn = openStore

func openStore(cfg config.Config) (ports.ProgressStore, func() error, error) {
	if cfg.Store == "sqlite" {
		db, err := storage.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return db, db.Close, nil
	}
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, nil, err
	}
	return storage.NewFS(cfg.DataDir), func() error { return nil }, nil
}

func main() {
	if err := run(os.Args[0], os.Args[1:]); err != nil {
		slog.Error("seating-web", "err", err)
		os.Exit(1)
	}
}

func run(name string, args []string) error {
	cfg, err := config.Load(name, args)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(logger)

	cat, err := loadCatalog(cfg.LevelsFile)
	if err != nil {
		return fmt.Errorf("load levels: %w", err)
	}
	msgs, err := i18n.LoadEmbedded()
	if err != nil {
		return fmt.Errorf("load messages: %w", err)
	}
	st, closeStore, err := openStoreFn(cfg)
	if err != nil {
		return fmt.Errorf("open %s store: %w", cfg.Store, err)
	}
	defer func() {
		if err := closeStore(); err != nil {
			logger.Error("close store", "err", err)
		}
	}()

	// Wire providers → use cases → adapters
	explainer := hint.NewExplainer(msgs)
	explainer.DefaultLocale = cfg.Locale
	uc := usecase.NewService(validator.New(), cat, st, explainer, msgs, logger)
	h := httpadapter.New(uc)

	mux := http.NewServeMux()
	h.Register(mux)
	mux.Handle("/ws", ws.NewServer(uc, logger).Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           requestLogger(logger, mux),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdown)
	}()

	logger.Info("listening", "addr", cfg.Addr, "store", cfg.Store, "levels", cat.Len(), "locales", msgs.Locales())
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server: %w", err)
	}
	return nil
}
