package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/desertthunder/songdeck/internal/server"
	"github.com/desertthunder/songdeck/internal/shared"
	"github.com/urfave/cli/v3"
)

// Serve runs the card scanner backend until interrupted.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	cfg := r.config.Server
	if host := cmd.String("host"); host != "" {
		cfg.Host = host
	}
	if port := cmd.Int("port"); port > 0 {
		cfg.Port = port
	}

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r.router(cmd.String("origin")),
		ReadHeaderTimeout: 5 * time.Second,
	}

	r.logger.Info("serving collection", "addr", srv.Addr, "collection", r.config.Collection.Path)
	r.writePlain("Card scanner backend listening on http://%s\n", srv.Addr)

	if err := server.Serve(ctx, srv); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	r.logger.Info("server stopped")
	return nil
}

func (r *Runner) router(origin string) *server.BasicRouter {
	router := server.NewBasicRouter()
	router.Use(server.Logging(r.logger), server.CORS(origin))
	router.Handler(server.NewSongsHandler(r.config.Collection.Path, r.config.Cards.BaseURL, shared.WithLogger(r.logger, "component", "server")))
	return router
}
