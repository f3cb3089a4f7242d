package domain

import "time"

// Postulante es la identidad que entrega la API remota.
type Postulante struct {
	ID      string `json:"postulante_id"`
	Nombre  string `json:"nombre"`
	EsAdmin bool   `json:"es_admin"`
}

// Submission es el payload que se envía a los sinks de resultados.
type Submission struct {
	ID           string         `json:"-"`
	PostulanteID string         `json:"postulante_id"`
	Nombre       string         `json:"-"`
	Respuestas   ResponseSet    `json:"respuestas"`
	Scores       CategoryScores `json:"scores"`
	RolPrincipal Category       `json:"rol_principal"`
	SubmittedAt  time.Time      `json:"-"`
}

// TestSummary es una fila del listado de administración.
type TestSummary struct {
	ID               string    `json:"id"`
	PostulanteNombre string    `json:"postulante_nombre"`
	PuntajeTotal     int       `json:"puntaje_total"`
	RolPrincipal     Category  `json:"rol_principal,omitempty"`
	FechaPrueba      time.Time `json:"fecha_prueba"`
}

// AdminStats resume los tests enviados.
type AdminStats struct {
	Total   int     `json:"total"`
	Average float64 `json:"average"`
	Max     int     `json:"max"`
}
