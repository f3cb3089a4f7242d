// Package rolapi es el cliente de la API remota de postulantes del Test de Rol.
package rolapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"test-rol/internal/domain"
)

const DefaultBaseURL = "https://test-rol.onrender.com/api/postulantes"

// APIError es una respuesta con status >= 400 de la API remota.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("rol api http error: status=%d", e.Status)
	}
	return fmt.Sprintf("rol api http error: status=%d: %s", e.Status, e.Message)
}

var ErrEmptyResponse = errors.New("rol api empty response")

// Client habla con la API remota por HTTP.
type Client struct {
	baseURL string
	client  *http.Client
	logger  *zap.Logger
}

// NewClient construye un cliente contra baseURL. httpClient nil usa un timeout de 15s.
func NewClient(baseURL string, httpClient *http.Client, logger *zap.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  httpClient,
		logger:  logger,
	}
}

// RegisterInput son los datos del formulario de registro.
type RegisterInput struct {
	NombreCompleto string `json:"nombre_completo"`
	Correo         string `json:"correo"`
	Documento      string `json:"documento"`
	Contrasena     string `json:"contrasena"`
}

// LoginInput identifica al postulante (id_usuario) o al admin (contrasena).
type LoginInput struct {
	Nombre     string `json:"nombre"`
	EsAdmin    bool   `json:"es_admin"`
	Contrasena string `json:"contrasena,omitempty"`
	IDUsuario  string `json:"id_usuario,omitempty"`
}

// Register crea el postulante y devuelve su identidad.
func (c *Client) Register(ctx context.Context, in RegisterInput) (domain.Postulante, error) {
	var out struct {
		PostulanteID flexibleID `json:"postulante_id"`
		ID           flexibleID `json:"id"`
	}
	if err := c.do(ctx, http.MethodPost, "/registro/", nil, in, &out); err != nil {
		return domain.Postulante{}, err
	}
	id := string(out.PostulanteID)
	if id == "" {
		id = string(out.ID)
	}
	if id == "" {
		return domain.Postulante{}, ErrEmptyResponse
	}
	return domain.Postulante{ID: id, Nombre: in.NombreCompleto}, nil
}

func (c *Client) Login(ctx context.Context, in LoginInput) (domain.Postulante, error) {
	if in.EsAdmin {
		in.IDUsuario = ""
	} else {
		in.Contrasena = ""
	}
	var out struct {
		PostulanteID flexibleID `json:"postulante_id"`
		Nombre       string     `json:"nombre"`
		EsAdmin      bool       `json:"es_admin"`
	}
	if err := c.do(ctx, http.MethodPost, "/login/", nil, in, &out); err != nil {
		return domain.Postulante{}, err
	}
	if out.PostulanteID == "" {
		return domain.Postulante{}, ErrEmptyResponse
	}
	nombre := out.Nombre
	if nombre == "" {
		nombre = in.Nombre
	}
	return domain.Postulante{ID: string(out.PostulanteID), Nombre: nombre, EsAdmin: out.EsAdmin}, nil
}

// Forward envía el resultado a guardar-test. Implementa sink.Sink.
func (c *Client) Forward(ctx context.Context, sub domain.Submission) error {
	return c.do(ctx, http.MethodPost, "/guardar-test/", nil, sub, nil)
}

// ListResults devuelve los tests enviados; requiere el id de un admin.
func (c *Client) ListResults(ctx context.Context, adminID string) ([]domain.TestSummary, error) {
	var out struct {
		Resultados []struct {
			ID               flexibleID `json:"id"`
			PostulanteNombre string     `json:"postulante_nombre"`
			PuntajeTotal     float64    `json:"puntaje_total"`
			RolPrincipal     string     `json:"rol_principal"`
			FechaPrueba      string     `json:"fecha_prueba"`
		} `json:"resultados"`
	}
	headers := map[string]string{"X-Admin-ID": adminID}
	if err := c.do(ctx, http.MethodGet, "/admin/tests/", headers, nil, &out); err != nil {
		return nil, err
	}

	results := make([]domain.TestSummary, 0, len(out.Resultados))
	for _, r := range out.Resultados {
		results = append(results, domain.TestSummary{
			ID:               string(r.ID),
			PostulanteNombre: r.PostulanteNombre,
			PuntajeTotal:     int(math.Round(r.PuntajeTotal)),
			RolPrincipal:     domain.Category(r.RolPrincipal),
			FechaPrueba:      parseFecha(r.FechaPrueba),
		})
	}
	return results, nil
}

func (c *Client) do(ctx context.Context, method, path string, headers map[string]string, in, out any) error {
	var body io.Reader
	if in != nil {
		bodyBytes, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(bodyBytes)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		c.logger.Warn("rol api error",
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", respBody),
		)
		var apiErr struct {
			Error string `json:"error"`
		}
		_ = json.Unmarshal(respBody, &apiErr)
		return &APIError{Status: resp.StatusCode, Message: apiErr.Error}
	}

	if out == nil || len(bytes.TrimSpace(respBody)) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("unmarshal response: %w", err)
	}
	return nil
}

// flexibleID acepta ids numéricos o de texto.
type flexibleID string

func (f *flexibleID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		*f = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexibleID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	if i, err := n.Int64(); err == nil {
		*f = flexibleID(strconv.FormatInt(i, 10))
		return nil
	}
	*f = flexibleID(n.String())
	return nil
}

var fechaLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func parseFecha(s string) time.Time {
	s = strings.TrimSpace(s)
	for _, layout := range fechaLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}
