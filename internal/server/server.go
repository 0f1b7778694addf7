package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/rezonia/zugferd/internal/codec"
	"github.com/rezonia/zugferd/internal/model"
	"github.com/rezonia/zugferd/internal/parser/pdf"
	"github.com/rezonia/zugferd/internal/processor"
)

// Config holds server configuration
type Config struct {
	Address        string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	RequestTimeout time.Duration
	MaxBodySize    int64
	Debug          bool

	// Target used by save and convert when the request names none
	DefaultVersion model.Version
	DefaultProfile model.Profile
	TaxTypePolicy  codec.TaxTypePolicy
	Indent         int

	Logger *zerolog.Logger
}

// Server represents the HTTP API server
type Server struct {
	config    *Config
	router    *gin.Engine
	extractor *pdf.Extractor
	pipeline  *processor.Pipeline
	log       zerolog.Logger
}

// NewServer creates a new API server
func NewServer(config *Config) *Server {
	if !config.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	if config.DefaultVersion == "" {
		config.DefaultVersion = model.Version21
	}
	if config.RequestTimeout <= 0 {
		config.RequestTimeout = 30 * time.Second
	}
	if config.MaxBodySize <= 0 {
		config.MaxBodySize = 20 << 20
	}

	log := zerolog.Nop()
	if config.Logger != nil {
		log = config.Logger.With().Str("component", "server").Logger()
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestID())
	router.Use(requestLogger(log))
	router.Use(limitBody(config.MaxBodySize))

	extractor := pdf.NewExtractor()
	s := &Server{
		config:    config,
		router:    router,
		extractor: extractor,
		pipeline: processor.NewPipeline(
			processor.WithExtractor(extractor),
			processor.WithTaxTypePolicy(config.TaxTypePolicy),
		),
		log: log,
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	// Health check
	s.router.GET("/health", s.handleHealth)

	// API v1
	v1 := s.router.Group("/api/v1")
	{
		v1.GET("/profiles", s.handleProfiles)

		v1.POST("/load", s.handleLoad)
		v1.POST("/save", s.handleSave)
		v1.POST("/convert", s.handleConvert)
		v1.POST("/validate", s.handleValidate)
		v1.POST("/info", s.handleInfo)
	}
}

// Run serves until ctx is canceled, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.config.Address,
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", srv.Addr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.log.Info().Msg("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// Handler returns the http.Handler for use with custom servers
func (s *Server) Handler() http.Handler {
	return s.router
}

// pipelineFor returns the shared pipeline, or a copy using another tax type policy
func (s *Server) pipelineFor(policy codec.TaxTypePolicy) *processor.Pipeline {
	if policy == s.pipeline.TaxTypePolicy() {
		return s.pipeline
	}
	return processor.NewPipeline(
		processor.WithExtractor(s.extractor),
		processor.WithTaxTypePolicy(policy),
	)
}
