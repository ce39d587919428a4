package auth_test

import (
	"io"
	"log/slog"

	"github.com/go-chi/chi/v5"

	"github.com/Josecau2/njfinish-sub001/internal/auth"
	_ "github.com/Josecau2/njfinish-sub001/testing"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestRouter(handler *auth.Handler) chi.Router {
	r := chi.NewRouter()
	r.Route("/auth", handler.MountRoutes)
	return r
}
