package domain

// CategoryScores acumula puntos por categoría.
type CategoryScores map[Category]int

// NewCategoryScores inicializa las cuatro categorías en cero.
func NewCategoryScores() CategoryScores {
	scores := make(CategoryScores, 4)
	for _, c := range Categories() {
		scores[c] = 0
	}
	return scores
}

func (s CategoryScores) Total() int {
	total := 0
	for _, v := range s {
		total += v
	}
	return total
}

func (s CategoryScores) Clone() CategoryScores {
	out := make(CategoryScores, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// Verdict es el resultado final de un cuestionario completo.
type Verdict struct {
	Dominant Category       `json:"dominant_category"`
	Scores   CategoryScores `json:"scores"`
}

func (v Verdict) Total() int {
	return v.Scores.Total()
}
