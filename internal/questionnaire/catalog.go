package questionnaire

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"test-rol/internal/domain"
)

var ErrInvalidCatalog = errors.New("invalid catalog")

// Catalog es la lista ordenada e inmutable de preguntas.
type Catalog struct {
	questions []domain.Question
}

type entry struct {
	Text     string          `yaml:"text"`
	Category domain.Category `yaml:"category"`
}

type catalogFile struct {
	Questions []entry `yaml:"questions"`
}

var defaultEntries = []entry{
	{"Generalmente no me acerco a los problemas en forma creativa", domain.CategoryC},
	{"Me gusta probar y luego revisar mis ideas antes de generar la solución o el producto final", domain.CategoryC},
	{"Me gusta tomarme el tiempo para clarificar la naturaleza exacta del problema", domain.CategoryA},
	{"Disfruto de tomar los pasos necesarios para poner mis ideas en acción.", domain.CategoryD},
	{"Me gusta separar un problema amplio en partes para examinarlo desde todos los ángulos", domain.CategoryC},
	{"Tengo dificultad en tener ideas inusuales para resolver un problema", domain.CategoryB},
	{"Me gusta identificar los hechos mas relevantes relativos al problema", domain.CategoryA},
	{"No tengo el temperamento para tratar de aislar las causas especificas de un problema", domain.CategoryA},
	{"Disfruto de generar formas únicas de mirar un problema", domain.CategoryB},
	{"Me gusta generar todos los pros y los contras de una solución potencial", domain.CategoryC},
	{"Antes de implementar una solución me gusta separarla en pasos.", domain.CategoryC},
	{"Transformar ideas en acción no es lo que disfruto más", domain.CategoryD},
	{"Me gusta superar el criterio que puede usarse para identificar la mejor opción o solución", domain.CategoryC},
	{"Disfruto de pasar tiempo profundizando el analisis inicial del problema", domain.CategoryB},
	{"Por naturaleza no paso mucho tiempo emocionandome en definir el problema exacto a resolver", domain.CategoryA},
	{"Me gusta entender una situación al mirar el panorama general", domain.CategoryB},
	{"Disfruto de trabajar en problemas mal definidos y novedosos", domain.CategoryB},
	{"Cuando trabajo en un problema me gusta encontrar la mejor forma de enunciarlo", domain.CategoryA},
	{"Disfruto de hacer que las cosas se concreten", domain.CategoryD},
	{"Me gusta enfocarme en enunciar un problema en forma precisa", domain.CategoryA},
	{"Disfruto de usar mi imaginación para producir muchas ideas", domain.CategoryB},
	{"Me gusta enfocarme en la información clave de una situación desafiante", domain.CategoryA},
	{"Disfruto de tomarme el tiempo para perfeccionar una idea", domain.CategoryC},
	{"Me resulta difícil implementar mis ideas", domain.CategoryD},
	{"Disfruto de transformar ideas en bruto en soluciones concretas", domain.CategoryD},
	{"No paso el tiempo en todas las cosas que necesito hacer para implementar una idea", domain.CategoryD},
	{"Realmente disfruto de implementar una idea", domain.CategoryD},
	{"Antes de avanzar me gusta tener una clara comprensión del problema", domain.CategoryA},
	{"Me gusta trabajar con ideas únicas", domain.CategoryB},
	{"Disfruto de poner mis ideas en acción", domain.CategoryD},
	{"Me gusta explorar las fortalezas y debilidades de una solución potencial", domain.CategoryC},
	{"Disfruto de reunir información para identificar el origen de un problema particular", domain.CategoryA},
	{"Disfruto el análisis y el esfuerzo que lleva a transformar un concepto preliminar en una idea factible", domain.CategoryC},
	{"Mi tendencia natural no es generar muchas ideas para los problemas", domain.CategoryB},
	{"Encuentro que tengo poca paciencia para el esfuerzo que lleva pulir o refinar una idea", domain.CategoryB},
	{"Tiendo a buscar una solución rápida y luego implementarla", domain.CategoryC},
	{"Disfruto de usar metáforas y analogías para generar nuevas ideas para los problemas.", domain.CategoryD},
}

var defaultCatalog = mustBuild(defaultEntries)

// DefaultCatalog devuelve el cuestionario incorporado de 37 preguntas.
func DefaultCatalog() *Catalog {
	return defaultCatalog
}

func mustBuild(entries []entry) *Catalog {
	c, err := build(entries)
	if err != nil {
		panic(err)
	}
	return c
}

func build(entries []entry) (*Catalog, error) {
	if len(entries) != domain.QuestionCount {
		return nil, fmt.Errorf("%w: %d questions, want %d", ErrInvalidCatalog, len(entries), domain.QuestionCount)
	}
	questions := make([]domain.Question, 0, len(entries))
	for i, e := range entries {
		text := strings.TrimSpace(e.Text)
		if text == "" {
			return nil, fmt.Errorf("%w: question %d has no text", ErrInvalidCatalog, i+1)
		}
		category := domain.Category(strings.ToUpper(strings.TrimSpace(string(e.Category))))
		if !category.Valid() {
			return nil, fmt.Errorf("%w: question %d has category %q", ErrInvalidCatalog, i+1, e.Category)
		}
		questions = append(questions, domain.Question{Index: i, Text: text, Category: category})
	}
	return &Catalog{questions: questions}, nil
}

// LoadCatalog lee un catálogo YAML con la forma `questions: [{text, category}]`.
func LoadCatalog(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()
	return ReadCatalog(f)
}

func ReadCatalog(r io.Reader) (*Catalog, error) {
	var file catalogFile
	if err := yaml.NewDecoder(r).Decode(&file); err != nil {
		return nil, fmt.Errorf("%w: decode yaml: %v", ErrInvalidCatalog, err)
	}
	return build(file.Questions)
}

// WriteYAML exporta el catálogo en el mismo formato que acepta LoadCatalog.
func (c *Catalog) WriteYAML(w io.Writer) error {
	file := catalogFile{Questions: make([]entry, 0, len(c.questions))}
	for _, q := range c.questions {
		file.Questions = append(file.Questions, entry{Text: q.Text, Category: q.Category})
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(file); err != nil {
		return err
	}
	return enc.Close()
}

func (c *Catalog) Len() int {
	return len(c.questions)
}

// Question devuelve la pregunta en la posición i (base 0).
func (c *Catalog) Question(i int) (domain.Question, bool) {
	if i < 0 || i >= len(c.questions) {
		return domain.Question{}, false
	}
	return c.questions[i], true
}

// Questions devuelve una copia de las preguntas.
func (c *Catalog) Questions() []domain.Question {
	out := make([]domain.Question, len(c.questions))
	copy(out, c.questions)
	return out
}

// Tags devuelve la categoría de cada pregunta en orden.
func (c *Catalog) Tags() []domain.Category {
	tags := make([]domain.Category, len(c.questions))
	for i, q := range c.questions {
		tags[i] = q.Category
	}
	return tags
}

// Counts cuenta cuántas preguntas aporta cada categoría.
func (c *Catalog) Counts() map[domain.Category]int {
	counts := make(map[domain.Category]int, 4)
	for _, cat := range domain.Categories() {
		counts[cat] = 0
	}
	for _, q := range c.questions {
		counts[q.Category]++
	}
	return counts
}
