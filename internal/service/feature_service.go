package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/CodeTanzania/emis-feature/internal/apperror"
	"github.com/CodeTanzania/emis-feature/internal/dto"
	"github.com/CodeTanzania/emis-feature/internal/entity"
	"github.com/CodeTanzania/emis-feature/internal/pkg/logger"
	"github.com/CodeTanzania/emis-feature/internal/repository/specification"
	"github.com/CodeTanzania/emis-feature/internal/repository/unitofwork"
	"github.com/CodeTanzania/emis-feature/pkg/lock"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	defaultPageLimit = 10
	maxPageLimit     = 100
)

type IFeatureService interface {
	List(ctx context.Context, query *dto.ListFeaturesQuery) (*dto.FeatureListResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.FeatureResponse, error)
	Create(ctx context.Context, req *dto.CreateFeatureRequest) (*dto.FeatureResponse, error)
	Patch(ctx context.Context, id uuid.UUID, req *dto.PatchFeatureRequest) (*dto.FeatureResponse, error)
	Replace(ctx context.Context, id uuid.UUID, req *dto.ReplaceFeatureRequest) (*dto.FeatureResponse, error)
	Delete(ctx context.Context, id uuid.UUID) (*dto.FeatureResponse, error)
	Upsert(ctx context.Context, candidate *dto.FeatureCandidate) (*dto.FeatureResponse, error)
}

type featureService struct {
	uowFactory unitofwork.RepositoryFactory
	normalizer *FeatureNormalizer
	locker     lock.Locker
	publisher  IPublisherService
	log        logger.ILogger
}

func NewFeatureService(
	uowFactory unitofwork.RepositoryFactory,
	normalizer *FeatureNormalizer,
	locker lock.Locker,
	publisher IPublisherService,
	log logger.ILogger,
) IFeatureService {
	return &featureService{
		uowFactory: uowFactory,
		normalizer: normalizer,
		locker:     locker,
		publisher:  publisher,
		log:        log,
	}
}

func (s *featureService) List(ctx context.Context, query *dto.ListFeaturesQuery) (*dto.FeatureListResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	repo := uow.FeatureRepository()

	page := query.Page
	if page < 1 {
		page = 1
	}
	limit := query.Limit
	if limit < 1 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	skip := (page - 1) * limit

	filters := listFilters(query)

	total, err := repo.Count(ctx, filters...)
	if err != nil {
		return nil, apperror.Store(err)
	}

	lastModified, err := repo.LastModified(ctx, filters...)
	if err != nil {
		return nil, apperror.Store(err)
	}

	pageSpecs := append(append([]specification.Specification{}, filters...),
		specification.OrderBy{Field: "updated_at", Desc: true},
		specification.Pagination{Limit: limit, Offset: skip},
	)
	features, err := repo.FindAll(ctx, pageSpecs...)
	if err != nil {
		return nil, apperror.Store(err)
	}

	data := make([]*dto.FeatureResponse, len(features))
	for i, f := range features {
		data[i] = toFeatureResponse(f)
	}

	pages := int(total) / limit
	if int(total)%limit != 0 || pages == 0 {
		pages++
	}

	return &dto.FeatureListResponse{
		Data:         data,
		Total:        total,
		Size:         len(data),
		Limit:        limit,
		Skip:         skip,
		Page:         page,
		Pages:        pages,
		LastModified: lastModified,
	}, nil
}

func listFilters(query *dto.ListFeaturesQuery) []specification.Specification {
	var filters []specification.Specification
	if query.Nature != "" {
		filters = append(filters, specification.Filter("nature", query.Nature))
	}
	if query.Family != "" {
		filters = append(filters, specification.Filter("family", query.Family))
	}
	if query.Type != "" {
		filters = append(filters, specification.Filter("type", query.Type))
	}
	if query.Name != "" {
		filters = append(filters, specification.NameLike{Name: query.Name})
	}
	return filters
}

func (s *featureService) Get(ctx context.Context, id uuid.UUID) (*dto.FeatureResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	feature, err := uow.FeatureRepository().FindOne(ctx, specification.ById{Id: id})
	if err != nil {
		return nil, apperror.Store(err)
	}
	if feature == nil {
		return nil, apperror.NotFound(fmt.Sprintf("id=%s", id))
	}
	return toFeatureResponse(feature), nil
}

func (s *featureService) Create(ctx context.Context, req *dto.CreateFeatureRequest) (*dto.FeatureResponse, error) {
	feature := &entity.Feature{
		Id:         uuid.New(),
		Nature:     req.Nature,
		Family:     req.Family,
		Type:       req.Type,
		Name:       req.Name,
		Nickname:   req.Nickname,
		About:      req.About,
		Geometry:   req.Geometry,
		Properties: req.Properties,
		Place:      req.Place,
		Tags:       req.Tags,
		CreatedAt:  time.Now(),
	}

	if err := s.normalizer.Normalize(feature); err != nil {
		return nil, err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.FeatureRepository().Create(ctx, feature); err != nil {
		return nil, apperror.Store(err)
	}

	s.publish(ctx, FeatureCreated, feature)
	return toFeatureResponse(feature), nil
}

func (s *featureService) Patch(ctx context.Context, id uuid.UUID, req *dto.PatchFeatureRequest) (*dto.FeatureResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	repo := uow.FeatureRepository()

	feature, err := repo.FindOne(ctx, specification.ById{Id: id})
	if err != nil {
		return nil, apperror.Store(err)
	}
	if feature == nil {
		return nil, apperror.NotFound(fmt.Sprintf("id=%s", id))
	}

	applyPatch(feature, req)
	now := time.Now()
	feature.UpdatedAt = &now

	if err := s.normalizer.Normalize(feature); err != nil {
		return nil, err
	}
	if err := repo.Save(ctx, feature); err != nil {
		return nil, apperror.Store(err)
	}

	s.publish(ctx, FeatureUpdated, feature)
	return toFeatureResponse(feature), nil
}

func (s *featureService) Replace(ctx context.Context, id uuid.UUID, req *dto.ReplaceFeatureRequest) (*dto.FeatureResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	repo := uow.FeatureRepository()

	existing, err := repo.FindOne(ctx, specification.ById{Id: id})
	if err != nil {
		return nil, apperror.Store(err)
	}
	if existing == nil {
		return nil, apperror.NotFound(fmt.Sprintf("id=%s", id))
	}

	now := time.Now()
	feature := &entity.Feature{
		Id:         existing.Id,
		Nature:     req.Nature,
		Family:     req.Family,
		Type:       req.Type,
		Name:       req.Name,
		Nickname:   req.Nickname,
		About:      req.About,
		Geometry:   req.Geometry,
		Properties: req.Properties,
		Place:      req.Place,
		Tags:       req.Tags,
		CreatedAt:  existing.CreatedAt,
		UpdatedAt:  &now,
	}

	if err := s.normalizer.Normalize(feature); err != nil {
		return nil, err
	}
	if err := repo.Save(ctx, feature); err != nil {
		return nil, apperror.Store(err)
	}

	s.publish(ctx, FeatureUpdated, feature)
	return toFeatureResponse(feature), nil
}

// Delete stamps the deletion timestamp; removal is never physical here.
// Soft-deleted records remain eligible for upsert reconciliation.
func (s *featureService) Delete(ctx context.Context, id uuid.UUID) (*dto.FeatureResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	repo := uow.FeatureRepository()

	feature, err := repo.FindOne(ctx, specification.ById{Id: id})
	if err != nil {
		return nil, apperror.Store(err)
	}
	if feature == nil {
		return nil, apperror.NotFound(fmt.Sprintf("id=%s", id))
	}

	if err := repo.Delete(ctx, id); err != nil {
		return nil, apperror.Store(err)
	}

	now := time.Now()
	feature.DeletedAt = &now
	feature.IsDeleted = true

	s.publish(ctx, FeatureDeleted, feature)
	return toFeatureResponse(feature), nil
}

// Upsert resolves a candidate to an existing record by identifier or by
// natural key, merges with candidate-wins precedence and commits through
// the normalizer. Lookups are unscoped: a soft-deleted record with a
// matching key is merged and revived, never duplicated.
func (s *featureService) Upsert(ctx context.Context, candidate *dto.FeatureCandidate) (*dto.FeatureResponse, error) {
	criterion, lockKey, err := s.resolveCriterion(candidate)
	if err != nil {
		return nil, err
	}

	release, err := s.locker.Acquire(ctx, lockKey)
	if err != nil {
		return nil, apperror.Store(err)
	}
	defer release()

	uow := s.uowFactory.NewUnitOfWork(ctx)
	repo := uow.FeatureRepository()

	existing, err := repo.FindOne(ctx, specification.WithDeleted{}, criterion)
	if err != nil {
		return nil, apperror.Store(err)
	}

	if existing == nil {
		created, err := s.upsertCreate(ctx, repo, candidate)
		if err == nil {
			return created, nil
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, err
		}
		// Lost the insert race on the natural-key unique index; the
		// winner's row exists now, so retry as a merge.
		existing, err = repo.FindOne(ctx, specification.WithDeleted{}, criterion)
		if err != nil {
			return nil, apperror.Store(err)
		}
		if existing == nil {
			return nil, apperror.Store(gorm.ErrDuplicatedKey)
		}
	}

	return s.upsertMerge(ctx, repo, existing, candidate)
}

// resolveCriterion builds the lookup specification: identifier when
// supplied, natural key otherwise. Tier defaults are applied before the
// key is formed, so only a missing name under-specifies the criterion.
func (s *featureService) resolveCriterion(candidate *dto.FeatureCandidate) (specification.Specification, string, error) {
	if candidate.Id != nil && *candidate.Id != uuid.Nil {
		return specification.ById{Id: *candidate.Id}, "feature:id:" + candidate.Id.String(), nil
	}

	probe := entity.Feature{
		Nature: stringValue(candidate.Nature),
		Family: stringValue(candidate.Family),
		Type:   stringValue(candidate.Type),
		Name:   stringValue(candidate.Name),
	}
	s.normalizer.ApplyTierDefaults(&probe)

	if probe.Name == "" {
		return nil, "", apperror.MissingRequiredField("name")
	}

	key := probe.NaturalKey()
	criterion := specification.ByNaturalKey{
		Nature: key.Nature,
		Family: key.Family,
		Type:   key.Type,
		Name:   key.Name,
	}
	return criterion, "feature:key:" + key.String(), nil
}

func (s *featureService) upsertCreate(ctx context.Context, repo featureRepo, candidate *dto.FeatureCandidate) (*dto.FeatureResponse, error) {
	feature := &entity.Feature{
		Id:         uuid.New(),
		Nature:     stringValue(candidate.Nature),
		Family:     stringValue(candidate.Family),
		Type:       stringValue(candidate.Type),
		Name:       stringValue(candidate.Name),
		Nickname:   stringValue(candidate.Nickname),
		About:      stringValue(candidate.About),
		Geometry:   candidate.Geometry,
		Properties: candidate.Properties,
		Place:      candidate.Place,
		Tags:       candidate.Tags,
		CreatedAt:  time.Now(),
	}
	if candidate.Id != nil && *candidate.Id != uuid.Nil {
		feature.Id = *candidate.Id
	}

	if err := s.normalizer.Normalize(feature); err != nil {
		return nil, err
	}
	if err := repo.Create(ctx, feature); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, err
		}
		return nil, apperror.Store(err)
	}

	s.publish(ctx, FeatureCreated, feature)
	return toFeatureResponse(feature), nil
}

func (s *featureService) upsertMerge(ctx context.Context, repo featureRepo, existing *entity.Feature, candidate *dto.FeatureCandidate) (*dto.FeatureResponse, error) {
	// Candidate wins on fields it explicitly sets; identifier and
	// createdAt always survive from the matched record.
	mergeCandidate(existing, candidate)

	now := time.Now()
	existing.UpdatedAt = &now
	existing.DeletedAt = nil
	existing.IsDeleted = false

	if err := s.normalizer.Normalize(existing); err != nil {
		return nil, err
	}
	if err := repo.Save(ctx, existing); err != nil {
		return nil, apperror.Store(err)
	}

	s.publish(ctx, FeatureUpdated, existing)
	return toFeatureResponse(existing), nil
}

func (s *featureService) publish(ctx context.Context, action string, feature *entity.Feature) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishFeatureEvent(ctx, action, feature); err != nil && s.log != nil {
		s.log.Warn("feature", "Failed to publish lifecycle event", map[string]interface{}{
			"action": action,
			"id":     feature.Id.String(),
			"error":  err.Error(),
		})
	}
}

// featureRepo is the subset of the repository contract the upsert path
// uses; it keeps the helpers testable against any implementation.
type featureRepo interface {
	Create(ctx context.Context, feature *entity.Feature) error
	Save(ctx context.Context, feature *entity.Feature) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Feature, error)
}

func applyPatch(feature *entity.Feature, req *dto.PatchFeatureRequest) {
	if req.Nature != nil {
		feature.Nature = *req.Nature
	}
	if req.Family != nil {
		feature.Family = *req.Family
	}
	if req.Type != nil {
		feature.Type = *req.Type
	}
	if req.Name != nil {
		feature.Name = *req.Name
	}
	if req.Nickname != nil {
		feature.Nickname = *req.Nickname
	}
	if req.About != nil {
		feature.About = *req.About
	}
	if req.Geometry != nil {
		feature.Geometry = req.Geometry
	}
	if req.Properties != nil {
		feature.Properties = req.Properties
	}
	if req.Place != nil {
		feature.Place = req.Place
	}
	if req.Tags != nil {
		feature.Tags = req.Tags
	}
}

func mergeCandidate(feature *entity.Feature, candidate *dto.FeatureCandidate) {
	if candidate.Nature != nil && *candidate.Nature != "" {
		feature.Nature = *candidate.Nature
	}
	if candidate.Family != nil && *candidate.Family != "" {
		feature.Family = *candidate.Family
	}
	if candidate.Type != nil && *candidate.Type != "" {
		feature.Type = *candidate.Type
	}
	if candidate.Name != nil && *candidate.Name != "" {
		feature.Name = *candidate.Name
	}
	if candidate.Nickname != nil {
		feature.Nickname = *candidate.Nickname
	}
	if candidate.About != nil {
		feature.About = *candidate.About
	}
	if candidate.Geometry != nil {
		feature.Geometry = candidate.Geometry
	}
	if candidate.Properties != nil {
		feature.Properties = candidate.Properties
	}
	if candidate.Place != nil {
		feature.Place = candidate.Place
	}
	if candidate.Tags != nil {
		feature.Tags = candidate.Tags
	}
}

func stringValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func toFeatureResponse(f *entity.Feature) *dto.FeatureResponse {
	return &dto.FeatureResponse{
		Id:         f.Id,
		Nature:     f.Nature,
		Family:     f.Family,
		Type:       f.Type,
		Name:       f.Name,
		Nickname:   f.Nickname,
		About:      f.About,
		Geometry:   f.Geometry,
		Centroid:   f.Centroid,
		Properties: f.Properties,
		Place:      f.Place,
		Tags:       f.Tags,
		CreatedAt:  f.CreatedAt,
		UpdatedAt:  f.UpdatedAt,
		DeletedAt:  f.DeletedAt,
	}
}
