package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/paulmach/orb/geojson"
)

// FeatureCandidate is a partially populated feature submitted to the
// upsert resolver or the seed pipeline. Pointer fields distinguish
// "explicitly set" from "omitted": set fields win over the stored record,
// omitted fields keep the stored value.
type FeatureCandidate struct {
	Id         *uuid.UUID        `json:"id,omitempty"`
	Nature     *string           `json:"nature,omitempty"`
	Family     *string           `json:"family,omitempty"`
	Type       *string           `json:"type,omitempty"`
	Name       *string           `json:"name,omitempty"`
	Nickname   *string           `json:"nickname,omitempty"`
	About      *string           `json:"about,omitempty"`
	Geometry   *geojson.Geometry `json:"geometry,omitempty"`
	Properties map[string]string `json:"properties,omitempty"`
	Place      map[string]string `json:"place,omitempty"`
	Tags       []string          `json:"tags,omitempty"`
}

type CreateFeatureRequest struct {
	Nature     string            `json:"nature"`
	Family     string            `json:"family"`
	Type       string            `json:"type"`
	Name       string            `json:"name" validate:"required"`
	Nickname   string            `json:"nickname"`
	About      string            `json:"about"`
	Geometry   *geojson.Geometry `json:"geometry" validate:"required"`
	Properties map[string]string `json:"properties"`
	Place      map[string]string `json:"place"`
	Tags       []string          `json:"tags"`
}

// ReplaceFeatureRequest is the PUT body: a full-content update.
type ReplaceFeatureRequest struct {
	Nature     string            `json:"nature"`
	Family     string            `json:"family"`
	Type       string            `json:"type"`
	Name       string            `json:"name" validate:"required"`
	Nickname   string            `json:"nickname"`
	About      string            `json:"about"`
	Geometry   *geojson.Geometry `json:"geometry" validate:"required"`
	Properties map[string]string `json:"properties"`
	Place      map[string]string `json:"place"`
	Tags       []string          `json:"tags"`
}

// PatchFeatureRequest is the PATCH body: supplied fields are merged onto
// the stored record.
type PatchFeatureRequest struct {
	Nature     *string           `json:"nature,omitempty"`
	Family     *string           `json:"family,omitempty"`
	Type       *string           `json:"type,omitempty"`
	Name       *string           `json:"name,omitempty"`
	Nickname   *string           `json:"nickname,omitempty"`
	About      *string           `json:"about,omitempty"`
	Geometry   *geojson.Geometry `json:"geometry,omitempty"`
	Properties map[string]string `json:"properties,omitempty"`
	Place      map[string]string `json:"place,omitempty"`
	Tags       []string          `json:"tags,omitempty"`
}

type FeatureResponse struct {
	Id         uuid.UUID         `json:"id"`
	Nature     string            `json:"nature"`
	Family     string            `json:"family"`
	Type       string            `json:"type"`
	Name       string            `json:"name"`
	Nickname   string            `json:"nickname,omitempty"`
	About      string            `json:"about,omitempty"`
	Geometry   *geojson.Geometry `json:"geometry"`
	Centroid   *geojson.Geometry `json:"centroid,omitempty"`
	Properties map[string]string `json:"properties,omitempty"`
	Place      map[string]string `json:"place,omitempty"`
	Tags       []string          `json:"tags,omitempty"`
	CreatedAt  time.Time         `json:"createdAt"`
	UpdatedAt  *time.Time        `json:"updatedAt,omitempty"`
	DeletedAt  *time.Time        `json:"deletedAt,omitempty"`
}

type ListFeaturesQuery struct {
	Page   int    `query:"page"`
	Limit  int    `query:"limit"`
	Nature string `query:"nature"`
	Family string `query:"family"`
	Type   string `query:"type"`
	Name   string `query:"name"`
}

// FeatureListResponse is the paginated list envelope.
type FeatureListResponse struct {
	Data         []*FeatureResponse `json:"data"`
	Total        int64              `json:"total"`
	Size         int                `json:"size"`
	Limit        int                `json:"limit"`
	Skip         int                `json:"skip"`
	Page         int                `json:"page"`
	Pages        int                `json:"pages"`
	LastModified *time.Time         `json:"lastModified,omitempty"`
}
