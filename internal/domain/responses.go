package domain

const (
	// QuestionCount es la cantidad de preguntas del cuestionario.
	QuestionCount = 37

	// Unanswered marca una pregunta sin respuesta. Nunca es una respuesta válida.
	Unanswered = 0

	MinAnswer = 1
	MaxAnswer = 10
)

// Question es una pregunta del catálogo junto con su categoría.
type Question struct {
	Index    int      `json:"index"`
	Text     string   `json:"text"`
	Category Category `json:"category"`
}

// ResponseSet guarda las respuestas crudas (1-10) por posición.
type ResponseSet []int

// NewResponseSet crea un set de n respuestas vacías.
func NewResponseSet(n int) ResponseSet {
	return make(ResponseSet, n)
}

// Missing devuelve los índices (base 0) que siguen sin respuesta.
func (r ResponseSet) Missing() []int {
	var missing []int
	for i, v := range r {
		if v == Unanswered {
			missing = append(missing, i)
		}
	}
	return missing
}

func (r ResponseSet) Clone() ResponseSet {
	out := make(ResponseSet, len(r))
	copy(out, r)
	return out
}
