package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"test-rol/internal/service"
)

// TestHandler expone el cuestionario del postulante autenticado.
type TestHandler struct {
	logger *zap.Logger
	tests  *service.TestService
}

func NewTestHandler(logger *zap.Logger, tests *service.TestService) *TestHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TestHandler{logger: logger, tests: tests}
}

// Questions maneja GET /test/questions.
func (h *TestHandler) Questions(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"questions": h.tests.Questions()})
}

// Start maneja POST /test/start.
func (h *TestHandler) Start(c *gin.Context) {
	p, ok := currentPostulante(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
		return
	}
	progress, err := h.tests.Start(c.Request.Context(), p.ID)
	if err != nil {
		respondError(c, h.logger, "start test", err)
		return
	}
	c.JSON(http.StatusCreated, progress)
}

// Get maneja GET /test.
func (h *TestHandler) Get(c *gin.Context) {
	p, ok := currentPostulante(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
		return
	}
	progress, err := h.tests.Get(c.Request.Context(), p.ID)
	if err != nil {
		respondError(c, h.logger, "get test", err)
		return
	}
	c.JSON(http.StatusOK, progress)
}

// Answer maneja PUT /test/answers/:index con {"value": n}.
func (h *TestHandler) Answer(c *gin.Context) {
	p, ok := currentPostulante(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
		return
	}
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid question index"})
		return
	}
	var req struct {
		Value *int `json:"value" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	progress, err := h.tests.Answer(c.Request.Context(), p.ID, index, *req.Value)
	if err != nil {
		respondError(c, h.logger, "answer", err)
		return
	}
	c.JSON(http.StatusOK, progress)
}

func (h *TestHandler) Next(c *gin.Context) {
	h.move(c, service.DirectionNext)
}

func (h *TestHandler) Previous(c *gin.Context) {
	h.move(c, service.DirectionPrevious)
}

func (h *TestHandler) move(c *gin.Context, dir service.Direction) {
	p, ok := currentPostulante(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
		return
	}
	progress, err := h.tests.Move(c.Request.Context(), p.ID, dir)
	if err != nil {
		respondError(c, h.logger, "move", err)
		return
	}
	c.JSON(http.StatusOK, progress)
}

// Submit maneja POST /test/submit.
func (h *TestHandler) Submit(c *gin.Context) {
	p, ok := currentPostulante(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
		return
	}
	res, err := h.tests.Submit(c.Request.Context(), p)
	if err != nil {
		respondError(c, h.logger, "submit", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"result": res})
}
