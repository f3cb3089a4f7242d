package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"test-rol/internal/service"
)

type AdminHandler struct {
	logger *zap.Logger
	admin  *service.AdminService
}

func NewAdminHandler(logger *zap.Logger, admin *service.AdminService) *AdminHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AdminHandler{logger: logger, admin: admin}
}

// ListTests maneja GET /admin/tests.
func (h *AdminHandler) ListTests(c *gin.Context) {
	p, ok := currentPostulante(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
		return
	}
	results, err := h.admin.ListResults(c.Request.Context(), p)
	if err != nil {
		respondError(c, h.logger, "list tests", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"resultados": results, "stats": service.Stats(results)})
}
