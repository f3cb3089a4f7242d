package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"test-rol/internal/domain"
	"test-rol/internal/questionnaire"
	"test-rol/internal/repository"
	"test-rol/internal/session"
)

var (
	ErrNoTestInProgress     = errors.New("no test in progress")
	ErrTestNotConfigured    = errors.New("test service not configured")
	ErrPostulanteIDRequired = errors.New("postulante id required")
)

// Enqueuer recibe los envíos ya puntuados para reenviarlos.
type Enqueuer interface {
	Enqueue(sub domain.Submission) error
}

type Direction string

const (
	DirectionNext     Direction = "next"
	DirectionPrevious Direction = "previous"
)

// Progress es la vista del cuestionario que se devuelve al cliente.
type Progress struct {
	State      questionnaire.State `json:"state"`
	Current    int                 `json:"current"`
	Question   domain.Question     `json:"question"`
	Answered   int                 `json:"answered"`
	Total      int                 `json:"total"`
	Responses  domain.ResponseSet  `json:"responses"`
	Unanswered []int               `json:"unanswered"`
	Result     *Result             `json:"result,omitempty"`
}

// CategoryResult es el puntaje de una categoría con el nombre de su rol.
type CategoryResult struct {
	Category domain.Category `json:"category"`
	Role     string          `json:"role"`
	Points   int             `json:"points"`
	Dominant bool            `json:"dominant"`
}

// Result es el resultado final del test.
type Result struct {
	Role      domain.Role      `json:"role"`
	Verdict   domain.Verdict   `json:"verdict"`
	Breakdown []CategoryResult `json:"breakdown"`
	Total     int              `json:"total"`
}

// NewResult arma el resultado presentable de un veredicto.
func NewResult(v domain.Verdict) Result {
	role, _ := domain.RoleFor(v.Dominant)
	res := Result{Role: role, Verdict: v, Total: v.Total()}
	for _, c := range domain.Categories() {
		r, _ := domain.RoleFor(c)
		res.Breakdown = append(res.Breakdown, CategoryResult{
			Category: c,
			Role:     r.Name,
			Points:   v.Scores[c],
			Dominant: c == v.Dominant,
		})
	}
	return res
}

// TestService orquesta el cuestionario de cada postulante.
type TestService struct {
	logger   *zap.Logger
	catalog  *questionnaire.Catalog
	progress repository.ProgressStore
	sink     Enqueuer
	now      func() time.Time
	locks    postulanteLocks
}

// postulanteLocks serializa las operaciones de un mismo postulante; postulantes
// distintos no se bloquean entre sí.
type postulanteLocks struct {
	mu    sync.Mutex
	locks map[string]*postulanteLock
}

type postulanteLock struct {
	mu   sync.Mutex
	refs int
}

func (l *postulanteLocks) lock(postulanteID string) (unlock func()) {
	l.mu.Lock()
	if l.locks == nil {
		l.locks = make(map[string]*postulanteLock)
	}
	pl, ok := l.locks[postulanteID]
	if !ok {
		pl = &postulanteLock{}
		l.locks[postulanteID] = pl
	}
	pl.refs++
	l.mu.Unlock()

	pl.mu.Lock()
	return func() {
		pl.mu.Unlock()
		l.mu.Lock()
		pl.refs--
		if pl.refs == 0 {
			delete(l.locks, postulanteID)
		}
		l.mu.Unlock()
	}
}

func NewTestService(logger *zap.Logger, catalog *questionnaire.Catalog, progress repository.ProgressStore, sink Enqueuer) *TestService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if catalog == nil {
		catalog = questionnaire.DefaultCatalog()
	}
	if progress == nil {
		progress = repository.NewMemoryProgressStore(0)
	}
	return &TestService{
		logger:   logger,
		catalog:  catalog,
		progress: progress,
		sink:     sink,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Watch suscribe el servicio al hub: al cerrar sesión se descarta el test en curso.
func (s *TestService) Watch(hub *session.Hub) (unsubscribe func()) {
	return hub.Subscribe(func(ev session.Event) {
		if ev.Kind != session.LoggedOut || ev.Postulante.ID == "" {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := s.Discard(ctx, ev.Postulante.ID); err != nil {
			s.logger.Warn("discard progress failed", zap.String("postulante_id", ev.Postulante.ID), zap.Error(err))
		}
	})
}

func (s *TestService) Questions() []domain.Question {
	return s.catalog.Questions()
}

// Start abre un cuestionario nuevo, descartando cualquier progreso anterior.
func (s *TestService) Start(ctx context.Context, postulanteID string) (Progress, error) {
	if err := s.check(postulanteID); err != nil {
		return Progress{}, err
	}
	defer s.locks.lock(postulanteID)()

	w := questionnaire.NewWizard(s.catalog)
	if err := s.progress.Save(ctx, postulanteID, w.Snapshot()); err != nil {
		return Progress{}, fmt.Errorf("save progress: %w", err)
	}
	return s.view(w), nil
}

func (s *TestService) Get(ctx context.Context, postulanteID string) (Progress, error) {
	if err := s.check(postulanteID); err != nil {
		return Progress{}, err
	}
	defer s.locks.lock(postulanteID)()

	w, err := s.load(ctx, postulanteID)
	if err != nil {
		return Progress{}, err
	}
	return s.view(w), nil
}

func (s *TestService) Answer(ctx context.Context, postulanteID string, index, value int) (Progress, error) {
	return s.update(ctx, postulanteID, func(w *questionnaire.Wizard) error {
		return w.Answer(index, value)
	})
}

func (s *TestService) Move(ctx context.Context, postulanteID string, dir Direction) (Progress, error) {
	return s.update(ctx, postulanteID, func(w *questionnaire.Wizard) error {
		switch dir {
		case DirectionNext:
			return w.Next()
		case DirectionPrevious:
			return w.Previous()
		default:
			return fmt.Errorf("%w: direction %q", questionnaire.ErrQuestionIndex, dir)
		}
	})
}

// Submit puntúa el cuestionario y encola el envío. Solo se encola si el estado
// completo quedó guardado; un fallo al encolar no invalida el veredicto.
func (s *TestService) Submit(ctx context.Context, p domain.Postulante) (Result, error) {
	if err := s.check(p.ID); err != nil {
		return Result{}, err
	}
	defer s.locks.lock(p.ID)()

	w, err := s.load(ctx, p.ID)
	if err != nil {
		return Result{}, err
	}
	verdict, err := w.Submit()
	if err != nil {
		return Result{}, err
	}
	if err := s.progress.Save(ctx, p.ID, w.Snapshot()); err != nil {
		return Result{}, fmt.Errorf("save completed progress: %w", err)
	}

	sub := domain.Submission{
		ID:           uuid.NewString(),
		PostulanteID: p.ID,
		Nombre:       p.Nombre,
		Respuestas:   w.Responses(),
		Scores:       verdict.Scores.Clone(),
		RolPrincipal: verdict.Dominant,
		SubmittedAt:  s.now(),
	}
	if s.sink != nil {
		if err := s.sink.Enqueue(sub); err != nil {
			s.logger.Error("enqueue submission failed", zap.String("postulante_id", p.ID), zap.String("submission_id", sub.ID), zap.Error(err))
		}
	}
	s.logger.Info("test submitted",
		zap.String("postulante_id", p.ID),
		zap.String("rol_principal", string(verdict.Dominant)),
		zap.Int("total", verdict.Total()),
	)
	return NewResult(verdict), nil
}

// Discard borra el progreso del postulante si todavía no envío el test.
func (s *TestService) Discard(ctx context.Context, postulanteID string) error {
	defer s.locks.lock(postulanteID)()

	snap, err := s.progress.Load(ctx, postulanteID)
	if err != nil {
		if errors.Is(err, repository.ErrProgressNotFound) {
			return nil
		}
		return err
	}
	if snap.State == questionnaire.StateCompleted {
		return nil
	}
	return s.progress.Delete(ctx, postulanteID)
}

func (s *TestService) update(ctx context.Context, postulanteID string, fn func(*questionnaire.Wizard) error) (Progress, error) {
	if err := s.check(postulanteID); err != nil {
		return Progress{}, err
	}
	defer s.locks.lock(postulanteID)()

	w, err := s.load(ctx, postulanteID)
	if err != nil {
		return Progress{}, err
	}
	if err := fn(w); err != nil {
		return Progress{}, err
	}
	if err := s.progress.Save(ctx, postulanteID, w.Snapshot()); err != nil {
		return Progress{}, fmt.Errorf("save progress: %w", err)
	}
	return s.view(w), nil
}

func (s *TestService) load(ctx context.Context, postulanteID string) (*questionnaire.Wizard, error) {
	snap, err := s.progress.Load(ctx, postulanteID)
	if err != nil {
		if errors.Is(err, repository.ErrProgressNotFound) {
			return nil, ErrNoTestInProgress
		}
		return nil, fmt.Errorf("load progress: %w", err)
	}
	return questionnaire.RestoreWizard(s.catalog, snap)
}

func (s *TestService) view(w *questionnaire.Wizard) Progress {
	answered, total := w.Progress()
	p := Progress{
		State:      w.State(),
		Current:    w.Current(),
		Question:   w.CurrentQuestion(),
		Answered:   answered,
		Total:      total,
		Responses:  w.Responses(),
		Unanswered: w.Unanswered(),
	}
	if v, ok := w.Verdict(); ok {
		res := NewResult(v)
		p.Result = &res
	}
	return p
}

func (s *TestService) check(postulanteID string) error {
	if s == nil || s.catalog == nil || s.progress == nil {
		return ErrTestNotConfigured
	}
	if postulanteID == "" {
		return ErrPostulanteIDRequired
	}
	return nil
}
