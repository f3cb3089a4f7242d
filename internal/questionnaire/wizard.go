package questionnaire

import (
	"errors"
	"fmt"

	"test-rol/internal/domain"
	"test-rol/internal/scoring"
)

var (
	ErrWizardCompleted = errors.New("questionnaire already completed")
	ErrQuestionIndex   = errors.New("question index out of range")
)

// State es la etapa del cuestionario.
type State string

const (
	StateInProgress State = "in_progress"
	StateCompleted  State = "completed"
)

// Wizard recorre el cuestionario una pregunta a la vez.
// No es seguro para uso concurrente; cada postulante tiene el suyo.
type Wizard struct {
	catalog   *Catalog
	current   int
	responses domain.ResponseSet
	verdict   *domain.Verdict
}

// Snapshot es la forma serializable de un Wizard.
type Snapshot struct {
	State     State              `json:"state"`
	Current   int                `json:"current"`
	Responses domain.ResponseSet `json:"responses"`
	Verdict   *domain.Verdict    `json:"verdict,omitempty"`
}

func NewWizard(catalog *Catalog) *Wizard {
	return &Wizard{
		catalog:   catalog,
		responses: domain.NewResponseSet(catalog.Len()),
	}
}

// RestoreWizard reconstruye un Wizard a partir de un Snapshot guardado.
func RestoreWizard(catalog *Catalog, snap Snapshot) (*Wizard, error) {
	if len(snap.Responses) != catalog.Len() {
		return nil, fmt.Errorf("%w: snapshot has %d responses for %d questions", scoring.ErrMalformedInput, len(snap.Responses), catalog.Len())
	}
	if snap.Current < 0 || snap.Current >= catalog.Len() {
		return nil, fmt.Errorf("%w: %d", ErrQuestionIndex, snap.Current)
	}
	w := &Wizard{
		catalog:   catalog,
		current:   snap.Current,
		responses: snap.Responses.Clone(),
	}
	if snap.State == StateCompleted {
		if snap.Verdict == nil {
			return nil, fmt.Errorf("%w: completed snapshot without verdict", scoring.ErrMalformedInput)
		}
		v := domain.Verdict{Dominant: snap.Verdict.Dominant, Scores: snap.Verdict.Scores.Clone()}
		w.verdict = &v
	}
	return w, nil
}

func (w *Wizard) Snapshot() Snapshot {
	snap := Snapshot{
		State:     w.State(),
		Current:   w.current,
		Responses: w.responses.Clone(),
	}
	if w.verdict != nil {
		v := *w.verdict
		v.Scores = v.Scores.Clone()
		snap.Verdict = &v
	}
	return snap
}

func (w *Wizard) State() State {
	if w.verdict != nil {
		return StateCompleted
	}
	return StateInProgress
}

func (w *Wizard) Current() int {
	return w.current
}

// CurrentQuestion devuelve la pregunta en la que está parado el wizard.
func (w *Wizard) CurrentQuestion() domain.Question {
	q, _ := w.catalog.Question(w.current)
	return q
}

func (w *Wizard) Responses() domain.ResponseSet {
	return w.responses.Clone()
}

// Answer fija la respuesta de la pregunta index. No mueve la pregunta actual.
func (w *Wizard) Answer(index, value int) error {
	if w.verdict != nil {
		return ErrWizardCompleted
	}
	if index < 0 || index >= len(w.responses) {
		return fmt.Errorf("%w: %d", ErrQuestionIndex, index)
	}
	if value < domain.MinAnswer || value > domain.MaxAnswer {
		return fmt.Errorf("%w: %d", scoring.ErrAnswerOutOfRange, value)
	}
	w.responses[index] = value
	return nil
}

// Next avanza a la siguiente pregunta; en la última no hace nada.
func (w *Wizard) Next() error {
	if w.verdict != nil {
		return ErrWizardCompleted
	}
	if w.current < len(w.responses)-1 {
		w.current++
	}
	return nil
}

// Previous vuelve a la pregunta anterior; en la primera no hace nada.
func (w *Wizard) Previous() error {
	if w.verdict != nil {
		return ErrWizardCompleted
	}
	if w.current > 0 {
		w.current--
	}
	return nil
}

func (w *Wizard) Unanswered() []int {
	return w.responses.Missing()
}

// Progress devuelve cuántas preguntas ya tienen respuesta y el total.
func (w *Wizard) Progress() (answered, total int) {
	total = len(w.responses)
	return total - len(w.responses.Missing()), total
}

// Submit puntúa el cuestionario y lo marca como completo.
func (w *Wizard) Submit() (domain.Verdict, error) {
	if w.verdict != nil {
		return domain.Verdict{}, ErrWizardCompleted
	}
	verdict, err := scoring.Score(w.responses, w.catalog.Tags())
	if err != nil {
		return domain.Verdict{}, err
	}
	w.verdict = &verdict
	return verdict, nil
}

// Verdict devuelve el veredicto si el cuestionario está completo.
func (w *Wizard) Verdict() (domain.Verdict, bool) {
	if w.verdict == nil {
		return domain.Verdict{}, false
	}
	return *w.verdict, true
}
