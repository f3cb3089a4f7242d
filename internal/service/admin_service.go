package service

import (
	"context"
	"errors"
	"math"

	"go.uber.org/zap"

	"test-rol/internal/domain"
)

var ErrAdminRequired = errors.New("admin required")

// ResultsSource lista los tests enviados (repositorio local o API remota).
type ResultsSource interface {
	ListResults(ctx context.Context, adminID string) ([]domain.TestSummary, error)
}

type AdminService struct {
	logger *zap.Logger
	source ResultsSource
}

func NewAdminService(logger *zap.Logger, source ResultsSource) *AdminService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AdminService{logger: logger, source: source}
}

func (s *AdminService) ListResults(ctx context.Context, admin domain.Postulante) ([]domain.TestSummary, error) {
	if !admin.EsAdmin {
		return nil, ErrAdminRequired
	}
	if s == nil || s.source == nil {
		return nil, errors.New("admin service not configured")
	}
	results, err := s.source.ListResults(ctx, admin.ID)
	if err != nil {
		s.logger.Warn("list results failed", zap.String("admin_id", admin.ID), zap.Error(err))
		return nil, err
	}
	if results == nil {
		results = []domain.TestSummary{}
	}
	return results, nil
}

// Stats calcula total, promedio (un decimal) y máximo del puntaje total.
func Stats(results []domain.TestSummary) domain.AdminStats {
	stats := domain.AdminStats{Total: len(results)}
	if len(results) == 0 {
		return stats
	}
	sum := 0
	for i, r := range results {
		sum += r.PuntajeTotal
		if i == 0 || r.PuntajeTotal > stats.Max {
			stats.Max = r.PuntajeTotal
		}
	}
	stats.Average = math.Round(float64(sum)/float64(len(results))*10) / 10
	return stats
}
