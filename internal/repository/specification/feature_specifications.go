package specification

import (
	"gorm.io/gorm"
)

// ByNaturalKey filters by the (nature, family, type, name) tuple used to
// reconcile candidates that carry no identifier.
type ByNaturalKey struct {
	Nature string
	Family string
	Type   string
	Name   string
}

func (s ByNaturalKey) Apply(db *gorm.DB) *gorm.DB {
	return db.Where(
		"nature = ? AND family = ? AND type = ? AND name = ?",
		s.Nature, s.Family, s.Type, s.Name,
	)
}

// NameLike matches names by case-insensitive substring.
type NameLike struct {
	Name string
}

func (s NameLike) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("name ILIKE ?", "%"+s.Name+"%")
}
