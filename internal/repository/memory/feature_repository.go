// Package memory provides an in-memory FeatureRepository used by service
// tests and local experiments. It mirrors the storage-layer behavior the
// services rely on: soft-delete scoping, natural-key uniqueness (reported
// as gorm.ErrDuplicatedKey, like the translated postgres unique violation)
// and specification-based lookups.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/CodeTanzania/emis-feature/internal/entity"
	"github.com/CodeTanzania/emis-feature/internal/repository/contract"
	"github.com/CodeTanzania/emis-feature/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type FeatureRepository struct {
	mu       sync.RWMutex
	features map[uuid.UUID]*entity.Feature
}

func NewFeatureRepository() contract.FeatureRepository {
	return &FeatureRepository{
		features: make(map[uuid.UUID]*entity.Feature),
	}
}

func (r *FeatureRepository) Create(ctx context.Context, feature *entity.Feature) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if feature.Id == uuid.Nil {
		feature.Id = uuid.New()
	}
	for _, existing := range r.features {
		if existing.NaturalKey() == feature.NaturalKey() {
			return gorm.ErrDuplicatedKey
		}
	}
	if feature.CreatedAt.IsZero() {
		feature.CreatedAt = time.Now()
	}
	now := time.Now()
	feature.UpdatedAt = &now

	stored := *feature
	r.features[feature.Id] = &stored
	return nil
}

func (r *FeatureRepository) Save(ctx context.Context, feature *entity.Feature) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, existing := range r.features {
		if id != feature.Id && existing.NaturalKey() == feature.NaturalKey() {
			return gorm.ErrDuplicatedKey
		}
	}
	now := time.Now()
	feature.UpdatedAt = &now

	stored := *feature
	r.features[feature.Id] = &stored
	return nil
}

func (r *FeatureRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.features[id]; ok {
		now := time.Now()
		existing.DeletedAt = &now
		existing.IsDeleted = true
	}
	return nil
}

func (r *FeatureRepository) Purge(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.features, id)
	return nil
}

func (r *FeatureRepository) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Feature, error) {
	matches := r.match(specs...)
	if len(matches) == 0 {
		return nil, nil
	}
	found := *matches[0]
	return &found, nil
}

func (r *FeatureRepository) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Feature, error) {
	matches := r.match(specs...)
	results := make([]*entity.Feature, len(matches))
	for i, m := range matches {
		found := *m
		results[i] = &found
	}
	return results, nil
}

func (r *FeatureRepository) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	return int64(len(r.match(stripPagination(specs)...))), nil
}

func (r *FeatureRepository) LastModified(ctx context.Context, specs ...specification.Specification) (*time.Time, error) {
	var last *time.Time
	for _, f := range r.match(stripPagination(specs)...) {
		if f.UpdatedAt != nil && (last == nil || f.UpdatedAt.After(*last)) {
			t := *f.UpdatedAt
			last = &t
		}
	}
	return last, nil
}

// match evaluates the subset of specifications the services use against the
// in-memory set, honoring the default soft-delete scope.
func (r *FeatureRepository) match(specs ...specification.Specification) []*entity.Feature {
	r.mu.RLock()
	defer r.mu.RUnlock()

	includeDeleted := false
	for _, spec := range specs {
		if _, ok := spec.(specification.WithDeleted); ok {
			includeDeleted = true
		}
	}

	var matches []*entity.Feature
	for _, f := range r.features {
		if f.IsDeleted && !includeDeleted {
			continue
		}
		if r.satisfies(f, specs) {
			matches = append(matches, f)
		}
	}

	sort.Slice(matches, func(i, j int) bool {
		return matches[i].CreatedAt.Before(matches[j].CreatedAt)
	})

	for _, spec := range specs {
		if p, ok := spec.(specification.Pagination); ok {
			if p.Offset >= len(matches) {
				return nil
			}
			end := p.Offset + p.Limit
			if end > len(matches) {
				end = len(matches)
			}
			matches = matches[p.Offset:end]
		}
	}
	return matches
}

func (r *FeatureRepository) satisfies(f *entity.Feature, specs []specification.Specification) bool {
	for _, spec := range specs {
		switch s := spec.(type) {
		case specification.ById:
			if f.Id != s.Id {
				return false
			}
		case specification.ByNaturalKey:
			key := entity.NaturalKey{Nature: s.Nature, Family: s.Family, Type: s.Type, Name: s.Name}
			if f.NaturalKey() != key {
				return false
			}
		case specification.NameLike:
			if !strings.Contains(strings.ToLower(f.Name), strings.ToLower(s.Name)) {
				return false
			}
		case specification.FilterBy:
			if !filterMatches(f, s) {
				return false
			}
		}
	}
	return true
}

func filterMatches(f *entity.Feature, s specification.FilterBy) bool {
	value, _ := s.Value.(string)
	switch s.Field {
	case "nature":
		return f.Nature == value
	case "family":
		return f.Family == value
	case "type":
		return f.Type == value
	case "name":
		return f.Name == value
	default:
		return true
	}
}

func stripPagination(specs []specification.Specification) []specification.Specification {
	kept := make([]specification.Specification, 0, len(specs))
	for _, spec := range specs {
		if _, ok := spec.(specification.Pagination); ok {
			continue
		}
		kept = append(kept, spec)
	}
	return kept
}
