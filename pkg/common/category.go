package common

import "strings"

// Category classifies a node. The set is closed; CategoryOther absorbs any
// value an external source makes up.
type Category string

const (
	CategoryConcept  Category = "concept"
	CategoryPerson   Category = "person"
	CategoryTopic    Category = "topic"
	CategoryResource Category = "resource"
	CategorySkill    Category = "skill"
	CategoryProject  Category = "project"
	CategoryOther    Category = "other"
)

// Categories lists every known category.
var Categories = []Category{
	CategoryConcept,
	CategoryPerson,
	CategoryTopic,
	CategoryResource,
	CategorySkill,
	CategoryProject,
	CategoryOther,
}

// ParseCategory matches s case-insensitively against the known categories.
// Unknown values return CategoryOther and false.
func ParseCategory(s string) (Category, bool) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	if c.Valid() {
		return c, true
	}
	return CategoryOther, false
}

// NormalizeCategory is ParseCategory without the flag.
func NormalizeCategory(s string) Category {
	c, _ := ParseCategory(s)
	return c
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryConcept, CategoryPerson, CategoryTopic, CategoryResource,
		CategorySkill, CategoryProject, CategoryOther:
		return true
	}
	return false
}
