package domain

// Category identifica uno de los cuatro roles del test.
type Category string

const (
	CategoryA Category = "A"
	CategoryB Category = "B"
	CategoryC Category = "C"
	CategoryD Category = "D"
)

// Categories devuelve las categorías en orden canónico (A, B, C, D).
// El desempate del rol dominante depende de este orden.
func Categories() []Category {
	return []Category{CategoryA, CategoryB, CategoryC, CategoryD}
}

func (c Category) Valid() bool {
	switch c {
	case CategoryA, CategoryB, CategoryC, CategoryD:
		return true
	}
	return false
}

// Role describe el arquetipo asociado a una categoría.
type Role struct {
	Category    Category `json:"category"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
}

var roles = map[Category]Role{
	CategoryA: {Category: CategoryA, Name: "Clarificador", Description: "Especialista en identificar problemas y definir soluciones"},
	CategoryB: {Category: CategoryB, Name: "Ideador", Description: "Experto en generar ideas creativas e innovadoras"},
	CategoryC: {Category: CategoryC, Name: "Desarrollador", Description: "Profesional en transformar ideas en planes concretos"},
	CategoryD: {Category: CategoryD, Name: "Implementador", Description: "Especialista en ejecutar y concretar proyectos"},
}

// RoleFor devuelve el rol de la categoría; ok es false para letras desconocidas.
func RoleFor(c Category) (Role, bool) {
	r, ok := roles[c]
	return r, ok
}
