package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"test-rol/internal/domain"
)

// ResultRepository define la persistencia local de tests enviados.
type ResultRepository interface {
	Forward(ctx context.Context, sub domain.Submission) error
	ListResults(ctx context.Context, adminID string) ([]domain.TestSummary, error)
}

// PgResultRepository implementa ResultRepository usando pgxpool.
type PgResultRepository struct {
	pool *pgxpool.Pool
}

func NewPgResultRepository(pool *pgxpool.Pool) *PgResultRepository {
	return &PgResultRepository{pool: pool}
}

// Forward guarda el envío; implementa sink.Sink.
func (r *PgResultRepository) Forward(ctx context.Context, sub domain.Submission) error {
	const query = `
		INSERT INTO test_results (id, postulante_id, postulante_nombre, respuestas, scores, rol_principal, puntaje_total, fecha_prueba)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO NOTHING
	`
	id := sub.ID
	if id == "" {
		id = uuid.NewString()
	}
	submittedAt := sub.SubmittedAt
	if submittedAt.IsZero() {
		submittedAt = time.Now().UTC()
	}
	respuestas, err := json.Marshal(sub.Respuestas)
	if err != nil {
		return fmt.Errorf("marshal respuestas: %w", err)
	}
	scores, err := json.Marshal(sub.Scores)
	if err != nil {
		return fmt.Errorf("marshal scores: %w", err)
	}
	_, err = r.pool.Exec(ctx, query,
		id,
		sub.PostulanteID,
		sub.Nombre,
		respuestas,
		scores,
		string(sub.RolPrincipal),
		sub.Scores.Total(),
		submittedAt,
	)
	return err
}

// ListResults devuelve los tests del más reciente al más antiguo.
// adminID no se usa; el control de acceso lo hace la capa HTTP.
func (r *PgResultRepository) ListResults(ctx context.Context, _ string) ([]domain.TestSummary, error) {
	const query = `
		SELECT id, postulante_nombre, puntaje_total, rol_principal, fecha_prueba
		FROM test_results
		ORDER BY fecha_prueba DESC
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.TestSummary
	for rows.Next() {
		var (
			s   domain.TestSummary
			rol string
		)
		if err := rows.Scan(&s.ID, &s.PostulanteNombre, &s.PuntajeTotal, &rol, &s.FechaPrueba); err != nil {
			return nil, err
		}
		s.RolPrincipal = domain.Category(rol)
		results = append(results, s)
	}
	return results, rows.Err()
}
