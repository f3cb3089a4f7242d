package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"test-rol/internal/service"
)

type AuthHandler struct {
	logger *zap.Logger
	auth   *service.AuthService
}

func NewAuthHandler(logger *zap.Logger, auth *service.AuthService) *AuthHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthHandler{logger: logger, auth: auth}
}

// Register maneja POST /auth/register.
func (h *AuthHandler) Register(c *gin.Context) {
	var req struct {
		NombreCompleto string `json:"nombre_completo" binding:"required"`
		Correo         string `json:"correo" binding:"required,email"`
		Documento      string `json:"documento" binding:"required"`
		Contrasena     string `json:"contrasena" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid register request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	sess, err := h.auth.Register(c.Request.Context(), service.RegisterInput{
		Nombre:     req.NombreCompleto,
		Correo:     req.Correo,
		Documento:  req.Documento,
		Contrasena: req.Contrasena,
	})
	if err != nil {
		respondError(c, h.logger, "register", err)
		return
	}
	c.JSON(http.StatusCreated, sess)
}

// Login maneja POST /auth/login. Admin usa contrasena; postulante, id_usuario.
func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Nombre     string `json:"nombre" binding:"required"`
		EsAdmin    bool   `json:"es_admin"`
		Contrasena string `json:"contrasena"`
		IDUsuario  string `json:"id_usuario"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid login request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	sess, err := h.auth.Login(c.Request.Context(), service.LoginInput{
		Nombre:     req.Nombre,
		EsAdmin:    req.EsAdmin,
		Contrasena: req.Contrasena,
		IDUsuario:  req.IDUsuario,
	})
	if err != nil {
		respondError(c, h.logger, "login", err)
		return
	}
	c.JSON(http.StatusOK, sess)
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// Refresh maneja POST /auth/refresh.
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	tokens, err := h.auth.Refresh(req.RefreshToken)
	if err != nil {
		respondError(c, h.logger, "refresh", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tokens": tokens})
}

// Logout maneja POST /auth/logout.
func (h *AuthHandler) Logout(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	if err := h.auth.Logout(req.RefreshToken); err != nil {
		respondError(c, h.logger, "logout", err)
		return
	}
	c.Status(http.StatusNoContent)
}
