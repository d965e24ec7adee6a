package mapper

import (
	"encoding/json"
	"time"

	"github.com/CodeTanzania/emis-feature/internal/entity"
	"github.com/CodeTanzania/emis-feature/internal/model"

	"github.com/paulmach/orb/geojson"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type FeatureMapper struct{}

func NewFeatureMapper() *FeatureMapper {
	return &FeatureMapper{}
}

func (m *FeatureMapper) ToEntity(f *model.Feature) *entity.Feature {
	if f == nil {
		return nil
	}

	var deletedAt *time.Time
	if f.DeletedAt.Valid {
		t := f.DeletedAt.Time
		deletedAt = &t
	}

	var updatedAt *time.Time
	if !f.UpdatedAt.IsZero() {
		t := f.UpdatedAt
		updatedAt = &t
	}

	return &entity.Feature{
		Id:         f.Id,
		Nature:     f.Nature,
		Family:     f.Family,
		Type:       f.Type,
		Name:       f.Name,
		Nickname:   f.Nickname,
		About:      f.About,
		Geometry:   decodeGeometry(f.Geometry),
		Centroid:   decodeGeometry(f.Centroid),
		Properties: decodeStringMap(f.Properties),
		Place:      decodeStringMap(f.Place),
		Tags:       decodeStrings(f.Tags),
		CreatedAt:  f.CreatedAt,
		UpdatedAt:  updatedAt,
		DeletedAt:  deletedAt,
		IsDeleted:  f.DeletedAt.Valid,
	}
}

func (m *FeatureMapper) ToModel(f *entity.Feature) *model.Feature {
	if f == nil {
		return nil
	}

	var deletedAt gorm.DeletedAt
	if f.DeletedAt != nil {
		deletedAt = gorm.DeletedAt{Time: *f.DeletedAt, Valid: true}
	} else if f.IsDeleted {
		deletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	}

	var updatedAt time.Time
	if f.UpdatedAt != nil {
		updatedAt = *f.UpdatedAt
	}

	return &model.Feature{
		Id:         f.Id,
		Nature:     f.Nature,
		Family:     f.Family,
		Type:       f.Type,
		Name:       f.Name,
		Nickname:   f.Nickname,
		About:      f.About,
		Geometry:   encodeJSON(f.Geometry),
		Centroid:   encodeJSON(f.Centroid),
		Properties: encodeJSON(f.Properties),
		Place:      encodeJSON(f.Place),
		Tags:       encodeJSON(f.Tags),
		CreatedAt:  f.CreatedAt,
		UpdatedAt:  updatedAt,
		DeletedAt:  deletedAt,
	}
}

func (m *FeatureMapper) ToEntities(features []*model.Feature) []*entity.Feature {
	entities := make([]*entity.Feature, len(features))
	for i, f := range features {
		entities[i] = m.ToEntity(f)
	}
	return entities
}

func encodeJSON(v any) datatypes.JSON {
	switch value := v.(type) {
	case *geojson.Geometry:
		if value == nil {
			return nil
		}
	case map[string]string:
		if len(value) == 0 {
			return nil
		}
	case []string:
		if len(value) == 0 {
			return nil
		}
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return datatypes.JSON(raw)
}

func decodeGeometry(raw datatypes.JSON) *geojson.Geometry {
	if len(raw) == 0 {
		return nil
	}
	var g geojson.Geometry
	if err := json.Unmarshal(raw, &g); err != nil {
		return nil
	}
	return &g
}

func decodeStringMap(raw datatypes.JSON) map[string]string {
	if len(raw) == 0 {
		return nil
	}
	var m map[string]string
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil
	}
	return m
}

func decodeStrings(raw datatypes.JSON) []string {
	if len(raw) == 0 {
		return nil
	}
	var s []string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil
	}
	return s
}
