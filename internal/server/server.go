// Package server exposes the corpus hand-off over HTTP: GET /corpus is the
// single call the report-generation consumer makes.
package server

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mnhthng/marketpulse/config"
	"github.com/mnhthng/marketpulse/corpus"
)

type Server struct {
	echo      *echo.Echo
	assembler *corpus.Assembler
	addr      string
}

func New(cfg config.ServerConfig, assembler *corpus.Assembler, metricsEnabled bool) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	s := &Server{echo: e, assembler: assembler, addr: cfg.Address}
	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	e.GET("/corpus", s.handleCorpus)
	if metricsEnabled {
		e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	}
	return s
}

func (s *Server) handleCorpus(c echo.Context) error {
	return c.String(http.StatusOK, s.assembler.Build(c.Request().Context()))
}

// Handler exposes the routing for tests.
func (s *Server) Handler() http.Handler { return s.echo }

func (s *Server) Start() error { return s.echo.Start(s.addr) }

func (s *Server) Shutdown(ctx context.Context) error { return s.echo.Shutdown(ctx) }
