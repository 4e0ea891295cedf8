package server

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/rajarajendra1103/InnoLink/internal/core"
	"github.com/rajarajendra1103/InnoLink/internal/core/model"
	"github.com/rajarajendra1103/InnoLink/internal/core/novelty"
)

// IdeaService is the part of core.InnoLink the HTTP layer uses.
type IdeaService interface {
	CheckIdea(ctx context.Context, sub model.IdeaSubmission) (model.NoveltyVerdict, error)
	AddCorpusItem(ctx context.Context, item model.CorpusItem) (model.CorpusItem, error)
	RecentCorpus(ctx context.Context, limit int) ([]model.CorpusItem, error)
	RegisterIdea(ctx context.Context, req model.RegistrationRequest) (model.IdeaRegistration, error)
	GetRegistration(ctx context.Context, id string) (model.IdeaRegistration, error)
	ListRegistrations(ctx context.Context, authorID string) ([]model.IdeaRegistration, error)
}

type Server struct {
	Service  IdeaService
	Provider string
	logger   zerolog.Logger
}

func NewServer(svc IdeaService, provider string, logger zerolog.Logger) *Server {
	return &Server{
		Service:  svc,
		Provider: provider,
		logger:   logger.With().Str("component", "http").Logger(),
	}
}

func (s *Server) SetupRouter() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(s.logger))

	r.GET("/healthz", s.Health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	api.POST("/ideas/check", s.CheckIdea)
	api.POST("/ideas/register", s.RegisterIdea)
	api.GET("/ideas/registrations", s.ListRegistrations)
	api.GET("/ideas/registrations/:id", s.GetRegistration)
	api.GET("/corpus", s.ListCorpus)
	api.POST("/corpus", s.AddCorpusItem)

	return r
}

func (s *Server) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "oracle": s.Provider})
}

func (s *Server) CheckIdea(c *gin.Context) {
	var req model.IdeaSubmission
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	verdict, err := s.Service.CheckIdea(c.Request.Context(), req)
	if err != nil {
		s.fail(c, err, "Failed to check idea")
		return
	}

	c.JSON(http.StatusOK, verdict)
}

func (s *Server) RegisterIdea(c *gin.Context) {
	var req model.RegistrationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	reg, err := s.Service.RegisterIdea(c.Request.Context(), req)
	if err != nil {
		s.fail(c, err, "Failed to register idea")
		return
	}

	c.JSON(http.StatusCreated, reg)
}

func (s *Server) GetRegistration(c *gin.Context) {
	reg, err := s.Service.GetRegistration(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.fail(c, err, "Failed to load registration")
		return
	}

	c.JSON(http.StatusOK, reg)
}

func (s *Server) ListRegistrations(c *gin.Context) {
	regs, err := s.Service.ListRegistrations(c.Request.Context(), c.Query("author_id"))
	if err != nil {
		s.fail(c, err, "Failed to list registrations")
		return
	}

	c.JSON(http.StatusOK, gin.H{"registrations": regs})
}

func (s *Server) ListCorpus(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a non-negative integer"})
			return
		}
		limit = n
	}

	items, err := s.Service.RecentCorpus(c.Request.Context(), limit)
	if err != nil {
		s.fail(c, err, "Failed to load corpus")
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (s *Server) AddCorpusItem(c *gin.Context) {
	var req model.CorpusItem
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	item, err := s.Service.AddCorpusItem(c.Request.Context(), req)
	if err != nil {
		s.fail(c, err, "Failed to save corpus item")
		return
	}

	c.JSON(http.StatusCreated, item)
}

// fail maps service errors onto status codes. Client errors echo the message;
// everything else is logged and answered with the generic text.
func (s *Server) fail(c *gin.Context, err error, msg string) {
	switch {
	case errors.Is(err, core.ErrValidation), errors.Is(err, novelty.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, core.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, core.ErrCollaborationRequired):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "classification": "Collaborate"})
	case errors.Is(err, novelty.ErrOracleUnavailable):
		s.logger.Warn().Err(err).Str("path", c.FullPath()).Msg(msg)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Novelty analysis is temporarily unavailable"})
	default:
		s.logger.Error().Err(err).Str("path", c.FullPath()).Msg(msg)
		c.JSON(http.StatusInternalServerError, gin.H{"error": msg})
	}
}
