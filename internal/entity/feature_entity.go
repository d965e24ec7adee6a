package entity

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/paulmach/orb/geojson"
)

// Feature is a mapped physical element of the landscape with its
// descriptive attributes: administrative boundaries, roads, buildings etc,
// both natural and man made.
type Feature struct {
	Id       uuid.UUID
	Nature   string
	Family   string
	Type     string
	Name     string
	Nickname string
	About    string

	// Geometry is the GeoJSON shape of the feature. Centroid is derived
	// from it and never user supplied.
	Geometry *geojson.Geometry
	Centroid *geojson.Geometry

	Properties map[string]string
	Place      map[string]string
	Tags       []string

	CreatedAt time.Time
	UpdatedAt *time.Time
	DeletedAt *time.Time
	IsDeleted bool
}

// NaturalKey identifies a feature when no id is supplied: the
// (nature, family, type, name) tuple.
type NaturalKey struct {
	Nature string
	Family string
	Type   string
	Name   string
}

func (k NaturalKey) String() string {
	return fmt.Sprintf("%s/%s/%s/%s", k.Nature, k.Family, k.Type, k.Name)
}

func (f *Feature) NaturalKey() NaturalKey {
	return NaturalKey{
		Nature: f.Nature,
		Family: f.Family,
		Type:   f.Type,
		Name:   f.Name,
	}
}

// MergeTags folds extra tags into the feature's tag set, case normalized
// and de-duplicated. Tags already present are never removed.
func (f *Feature) MergeTags(extra ...string) {
	seen := make(map[string]bool, len(f.Tags)+len(extra))
	merged := make([]string, 0, len(f.Tags)+len(extra))
	for _, t := range append(append([]string{}, f.Tags...), extra...) {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		merged = append(merged, t)
	}
	f.Tags = merged
}

// HasTag reports membership in the normalized tag set.
func (f *Feature) HasTag(tag string) bool {
	tag = strings.ToLower(strings.TrimSpace(tag))
	for _, t := range f.Tags {
		if t == tag {
			return true
		}
	}
	return false
}
