package http

import (
	"context"
	"errors"
	"net"
	"net/http"

	"github.com/DRSN-tech/shop-backend/internal/cfg"
)

// Server обслуживает REST API. Остановка ждёт активные запросы до дедлайна контекста,
// после чего обрывает оставшиеся соединения.
type Server struct {
	httpServer *http.Server
}

func NewServer(handler http.Handler, cfg *cfg.HTTPConfig) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:              net.JoinHostPort("", cfg.Port),
			Handler:           handler,
			ReadTimeout:       cfg.ReadTimeout,
			ReadHeaderTimeout: cfg.ReadHeaderTimeout,
			WriteTimeout:      cfg.WriteTimeout,
			IdleTimeout:       cfg.IdleTimeout,
			MaxHeaderBytes:    cfg.MaxHeaderBytes,
		},
	}
}

// Run слушает настроенный порт. Штатная остановка через Stop возвращает nil.
func (s *Server) Run() error {
	return ignoreClosed(s.httpServer.ListenAndServe())
}

// Serve обслуживает уже открытый листенер.
func (s *Server) Serve(lis net.Listener) error {
	return ignoreClosed(s.httpServer.Serve(lis))
}

func (s *Server) Stop(ctx context.Context) error {
	err := s.httpServer.Shutdown(ctx)
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return errors.Join(err, s.httpServer.Close())
	}

	return err
}

func ignoreClosed(err error) error {
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}
