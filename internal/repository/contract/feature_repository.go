package contract

import (
	"context"
	"time"

	"github.com/CodeTanzania/emis-feature/internal/entity"
	"github.com/CodeTanzania/emis-feature/internal/repository/specification"

	"github.com/google/uuid"
)

type FeatureRepository interface {
	Create(ctx context.Context, feature *entity.Feature) error
	// Save commits a full-content replace of an existing record.
	Save(ctx context.Context, feature *entity.Feature) error
	// Delete stamps the deletion timestamp (soft delete).
	Delete(ctx context.Context, id uuid.UUID) error
	// Purge removes a record outright, soft-deleted or not.
	Purge(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Feature, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Feature, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	// LastModified returns the newest updated_at among matching records,
	// or nil when nothing matches.
	LastModified(ctx context.Context, specs ...specification.Specification) (*time.Time, error)
}
