package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Feature is the persistence shape of a geographic feature. Geometry,
// centroid, properties, place and tags are stored as JSONB documents;
// the natural key carries a composite unique index so concurrent upserts
// cannot create duplicates (the service retries as merge on conflict).
type Feature struct {
	Id       uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nature   string    `gorm:"type:varchar(100);not null;index;uniqueIndex:idx_features_natural_key"`
	Family   string    `gorm:"type:varchar(100);not null;index;uniqueIndex:idx_features_natural_key"`
	Type     string    `gorm:"type:varchar(100);not null;index;uniqueIndex:idx_features_natural_key"`
	Name     string    `gorm:"type:varchar(255);not null;index;uniqueIndex:idx_features_natural_key"`
	Nickname string    `gorm:"type:varchar(255)"`
	About    string    `gorm:"type:text"`

	Geometry datatypes.JSON `gorm:"type:jsonb;not null"`
	Centroid datatypes.JSON `gorm:"type:jsonb"`

	Properties datatypes.JSON `gorm:"type:jsonb"`
	Place      datatypes.JSON `gorm:"type:jsonb"`
	Tags       datatypes.JSON `gorm:"type:jsonb"`

	CreatedAt time.Time      `gorm:"autoCreateTime"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (Feature) TableName() string {
	return "features"
}
