package schema

import (
	"time"

	"github.com/CodeTanzania/emis-feature/internal/config"

	"github.com/patrickmn/go-cache"
)

const cacheKey = "feature-schema"

// Provider serves the JSON-Schema shaped description of the Feature
// resource. The document only changes with configuration, so it is built
// once and cached.
type Provider struct {
	cfg   config.FeatureConfig
	cache *cache.Cache
}

func NewProvider(cfg config.FeatureConfig) *Provider {
	return &Provider{
		cfg:   cfg,
		cache: cache.New(5*time.Minute, 10*time.Minute),
	}
}

func (p *Provider) Schema() map[string]interface{} {
	if cached, ok := p.cache.Get(cacheKey); ok {
		return cached.(map[string]interface{})
	}
	doc := p.build()
	p.cache.Set(cacheKey, doc, cache.DefaultExpiration)
	return doc
}

func (p *Provider) build() map[string]interface{} {
	geometry := map[string]interface{}{
		"type":        "object",
		"description": "A GeoJSON geometry describing the shape of the feature",
		"properties": map[string]interface{}{
			"type": map[string]interface{}{
				"type": "string",
				"enum": []string{"Point", "MultiPoint", "LineString", "MultiLineString", "Polygon", "MultiPolygon", "GeometryCollection"},
			},
			"coordinates": map[string]interface{}{"type": "array"},
		},
		"required": []string{"type", "coordinates"},
	}

	return map[string]interface{}{
		"$schema":     "http://json-schema.org/draft-07/schema#",
		"title":       p.cfg.ModelName,
		"type":        "object",
		"description": "A representation of geographical feature of interest",
		"properties": map[string]interface{}{
			"id": map[string]interface{}{
				"type":        "string",
				"format":      "uuid",
				"description": "Unique identifier of the feature",
			},
			"nature": map[string]interface{}{
				"type":        "string",
				"enum":        p.cfg.Natures,
				"default":     p.cfg.DefaultNature,
				"description": "Human readable nature of the feature",
			},
			"family": map[string]interface{}{
				"type":        "string",
				"enum":        p.cfg.Families,
				"default":     p.cfg.DefaultFamily,
				"description": "Human readable family of the feature",
			},
			"type": map[string]interface{}{
				"type":        "string",
				"enum":        p.cfg.Types,
				"default":     p.cfg.DefaultType,
				"description": "Human readable type of the feature",
			},
			"name": map[string]interface{}{
				"type":        "string",
				"description": "Human readable name of the feature",
			},
			"nickname": map[string]interface{}{
				"type":        "string",
				"description": "Human readable alternative or well known name of the feature",
			},
			"about": map[string]interface{}{
				"type":        "string",
				"description": "A brief summary about the feature",
			},
			"centroid": geometry,
			"geometry": geometry,
			"properties": map[string]interface{}{
				"type":        "object",
				"description": "A map of key value pairs describing the feature",
			},
			"place": map[string]interface{}{
				"type":        "object",
				"description": "Administrative levels the feature belongs to",
			},
			"tags": map[string]interface{}{
				"type":        "array",
				"items":       map[string]interface{}{"type": "string"},
				"description": "Derived and supplied keywords for searching the feature",
			},
			"createdAt": map[string]interface{}{"type": "string", "format": "date-time"},
			"updatedAt": map[string]interface{}{"type": "string", "format": "date-time"},
			"deletedAt": map[string]interface{}{"type": "string", "format": "date-time"},
		},
		"required": []string{"name", "nature", "family", "geometry"},
	}
}
