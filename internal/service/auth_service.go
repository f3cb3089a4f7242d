package service

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"test-rol/internal/domain"
	"test-rol/internal/rolapi"
	"test-rol/internal/session"
)

// IdentityProvider resuelve registro y login contra la API remota.
type IdentityProvider interface {
	Register(ctx context.Context, in rolapi.RegisterInput) (domain.Postulante, error)
	Login(ctx context.Context, in rolapi.LoginInput) (domain.Postulante, error)
}

var (
	ErrAuthInvalidInput   = errors.New("auth invalid input")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrRateLimited        = errors.New("rate limited")
	ErrAuthNotConfigured  = errors.New("auth service not configured")
)

// AuthService coordina registro, login y logout del postulante.
type AuthService struct {
	logger   *zap.Logger
	identity IdentityProvider
	jwt      *JWTService
	limiter  LoginRateLimiter
	hub      *session.Hub
}

func NewAuthService(logger *zap.Logger, identity IdentityProvider, jwtSvc *JWTService, limiter LoginRateLimiter, hub *session.Hub) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if limiter == nil {
		limiter = NewLoginRateLimiter(loginWindow, loginMaxAttempts)
	}
	return &AuthService{
		logger:   logger,
		identity: identity,
		jwt:      jwtSvc,
		limiter:  limiter,
		hub:      hub,
	}
}

const (
	loginWindow      = 10 * time.Minute
	loginMaxAttempts = 5
)

// Session es lo que recibe el cliente al autenticarse.
type Session struct {
	Postulante domain.Postulante `json:"user"`
	Tokens     TokenPair         `json:"tokens"`
}

type RegisterInput struct {
	Nombre     string
	Correo     string
	Documento  string
	Contrasena string
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (Session, error) {
	if s == nil || s.identity == nil || s.jwt == nil {
		return Session{}, ErrAuthNotConfigured
	}
	req := rolapi.RegisterInput{
		NombreCompleto: strings.TrimSpace(in.Nombre),
		Correo:         strings.ToLower(strings.TrimSpace(in.Correo)),
		Documento:      strings.TrimSpace(in.Documento),
		Contrasena:     in.Contrasena,
	}
	if req.NombreCompleto == "" || req.Correo == "" || req.Documento == "" || strings.TrimSpace(req.Contrasena) == "" {
		return Session{}, ErrAuthInvalidInput
	}

	p, err := s.identity.Register(ctx, req)
	if err != nil {
		return Session{}, err
	}
	s.logger.Info("postulante registered", zap.String("postulante_id", p.ID))
	return s.open(p)
}

type LoginInput struct {
	Nombre     string
	EsAdmin    bool
	Contrasena string
	IDUsuario  string
}

func (s *AuthService) Login(ctx context.Context, in LoginInput) (Session, error) {
	if s == nil || s.identity == nil || s.jwt == nil {
		return Session{}, ErrAuthNotConfigured
	}
	nombre := strings.TrimSpace(in.Nombre)
	if nombre == "" {
		return Session{}, ErrAuthInvalidInput
	}
	req := rolapi.LoginInput{Nombre: nombre, EsAdmin: in.EsAdmin}
	if in.EsAdmin {
		req.Contrasena = in.Contrasena
		if strings.TrimSpace(req.Contrasena) == "" {
			return Session{}, ErrAuthInvalidInput
		}
	} else {
		req.IDUsuario = strings.TrimSpace(in.IDUsuario)
		if req.IDUsuario == "" {
			return Session{}, ErrAuthInvalidInput
		}
	}

	if !s.limiter.Allow(nombre) {
		return Session{}, ErrRateLimited
	}

	p, err := s.identity.Login(ctx, req)
	if err != nil {
		var apiErr *rolapi.APIError
		if errors.As(err, &apiErr) {
			switch apiErr.Status {
			case http.StatusBadRequest, http.StatusUnauthorized, http.StatusForbidden, http.StatusNotFound:
				return Session{}, ErrInvalidCredentials
			}
		}
		return Session{}, err
	}
	if in.EsAdmin && !p.EsAdmin {
		return Session{}, ErrInvalidCredentials
	}
	s.logger.Info("postulante logged in", zap.String("postulante_id", p.ID), zap.Bool("es_admin", p.EsAdmin))
	return s.open(p)
}

// Refresh rota el par de tokens.
func (s *AuthService) Refresh(refreshToken string) (TokenPair, error) {
	if s == nil || s.jwt == nil {
		return TokenPair{}, ErrAuthNotConfigured
	}
	return s.jwt.RefreshPair(refreshToken)
}

// Logout revoca el refresh token y avisa a los suscriptores.
func (s *AuthService) Logout(refreshToken string) error {
	if s == nil || s.jwt == nil {
		return ErrAuthNotConfigured
	}
	p, err := s.jwt.RevokeRefresh(refreshToken)
	if err != nil {
		return err
	}
	s.hub.Publish(session.Event{Kind: session.LoggedOut, Postulante: p})
	return nil
}

func (s *AuthService) open(p domain.Postulante) (Session, error) {
	tokens, err := s.jwt.GeneratePair(p)
	if err != nil {
		return Session{}, err
	}
	s.hub.Publish(session.Event{Kind: session.LoggedIn, Postulante: p})
	return Session{Postulante: p, Tokens: tokens}, nil
}
