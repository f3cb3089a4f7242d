// Package scoring convierte las respuestas del Test de Rol en puntajes por
// categoría y en el rol dominante. Todas las funciones son puras.
package scoring

import (
	"errors"
	"fmt"

	"test-rol/internal/domain"
)

var (
	// ErrIncompleteResponses indica que quedan preguntas sin responder.
	ErrIncompleteResponses = errors.New("incomplete responses")
	// ErrMalformedInput indica largos o categorías inválidas; es un error de programación.
	ErrMalformedInput = errors.New("malformed input")
	// ErrAnswerOutOfRange indica una respuesta fuera de [1,10].
	ErrAnswerOutOfRange = errors.New("answer out of range")
)

// MapAnswerToPoints convierte una respuesta 1-10 en 1-5 puntos.
// Valores fuera de rango se rechazan, no se recortan.
func MapAnswerToPoints(answer int) (int, error) {
	if answer < domain.MinAnswer || answer > domain.MaxAnswer {
		return 0, fmt.Errorf("%w: %d", ErrAnswerOutOfRange, answer)
	}
	return (answer + 1) / 2, nil
}

// ComputeCategoryScores suma los puntos de cada respuesta en la categoría de su posición.
func ComputeCategoryScores(responses domain.ResponseSet, catalog []domain.Category) (domain.CategoryScores, error) {
	if len(responses) != len(catalog) {
		return nil, fmt.Errorf("%w: %d responses for %d questions", ErrMalformedInput, len(responses), len(catalog))
	}

	scores := domain.NewCategoryScores()
	for i, answer := range responses {
		category := catalog[i]
		if !category.Valid() {
			return nil, fmt.Errorf("%w: question %d has category %q", ErrMalformedInput, i+1, category)
		}
		points, err := MapAnswerToPoints(answer)
		if err != nil {
			return nil, fmt.Errorf("question %d: %w", i+1, err)
		}
		scores[category] += points
	}
	return scores, nil
}

// DetermineDominantCategory elige la categoría con mayor puntaje.
// Recorre A, B, C, D y solo reemplaza con un puntaje estrictamente mayor,
// así que en un empate gana la categoría anterior.
func DetermineDominantCategory(scores domain.CategoryScores) domain.Category {
	maxScore := 0
	dominant := domain.CategoryA
	for _, c := range domain.Categories() {
		if scores[c] > maxScore {
			maxScore = scores[c]
			dominant = c
		}
	}
	return dominant
}

// Score valida un set completo y produce el veredicto.
func Score(responses domain.ResponseSet, catalog []domain.Category) (domain.Verdict, error) {
	if len(catalog) != domain.QuestionCount {
		return domain.Verdict{}, fmt.Errorf("%w: catalog has %d questions, want %d", ErrMalformedInput, len(catalog), domain.QuestionCount)
	}
	if len(responses) != len(catalog) {
		return domain.Verdict{}, fmt.Errorf("%w: %d responses for %d questions", ErrMalformedInput, len(responses), len(catalog))
	}
	if missing := responses.Missing(); len(missing) > 0 {
		return domain.Verdict{}, &IncompleteError{Missing: missing}
	}

	scores, err := ComputeCategoryScores(responses, catalog)
	if err != nil {
		return domain.Verdict{}, err
	}
	return domain.Verdict{
		Dominant: DetermineDominantCategory(scores),
		Scores:   scores,
	}, nil
}
