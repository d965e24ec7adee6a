package service

import (
	"github.com/CodeTanzania/emis-feature/internal/apperror"
	"github.com/CodeTanzania/emis-feature/internal/config"
	"github.com/CodeTanzania/emis-feature/internal/entity"
	"github.com/CodeTanzania/emis-feature/pkg/geo"
	"github.com/CodeTanzania/emis-feature/pkg/keywords"
)

// FeatureNormalizer is the pre-commit validation step. Every create and
// full-content update passes through Normalize before it reaches the
// repository; a failure aborts the commit with nothing written.
type FeatureNormalizer struct {
	cfg       config.FeatureConfig
	extractor *keywords.Extractor
}

func NewFeatureNormalizer(cfg config.FeatureConfig) *FeatureNormalizer {
	return &FeatureNormalizer{
		cfg: cfg,
		extractor: keywords.NewExtractor(keywords.Config{
			Language: cfg.TaggingLanguage,
		}),
	}
}

// ApplyTierDefaults fills absent taxonomy tiers with the configured
// defaults. The upsert resolver calls this before building a natural-key
// criterion so a candidate omitting a tier still reconciles predictably.
func (n *FeatureNormalizer) ApplyTierDefaults(f *entity.Feature) {
	if f.Nature == "" {
		f.Nature = n.cfg.DefaultNature
	}
	if f.Family == "" {
		f.Family = n.cfg.DefaultFamily
	}
	if f.Type == "" {
		f.Type = n.cfg.DefaultType
	}
}

// Normalize defaults, validates and derives before commit:
// taxonomy defaulting and enum enforcement, place defaulting, centroid
// derivation, tag derivation, then required-field presence.
func (n *FeatureNormalizer) Normalize(f *entity.Feature) error {
	n.ApplyTierDefaults(f)

	if !n.cfg.HasNature(f.Nature) {
		return apperror.InvalidEnumValue("nature", f.Nature)
	}
	if !n.cfg.HasFamily(f.Family) {
		return apperror.InvalidEnumValue("family", f.Family)
	}
	if !n.cfg.HasType(f.Type) {
		return apperror.InvalidEnumValue("type", f.Type)
	}

	n.applyPlaceDefaults(f)

	// A degenerate geometry yields no centroid; keep whatever was
	// derived before rather than clearing it.
	if f.Geometry != nil {
		if centroid := geo.Centroid(f.Geometry); centroid != nil {
			f.Centroid = centroid
		}
	}

	if n.cfg.TaggingEnabled {
		f.MergeTags(n.deriveTags(f)...)
	} else {
		// Still normalize and de-duplicate whatever was supplied.
		f.MergeTags()
	}

	return n.checkRequired(f)
}

func (n *FeatureNormalizer) applyPlaceDefaults(f *entity.Feature) {
	if f.Place == nil {
		f.Place = make(map[string]string)
	}
	if f.Place["continent"] == "" {
		f.Place["continent"] = n.cfg.DefaultContinent
	}
	if f.Place["country"] == "" {
		f.Place["country"] = n.cfg.DefaultCountry
	}
}

// deriveTags collects keywords from every textual attribute of the
// feature: taxonomy tiers, names, free text, place values and the string
// leaves of properties.
func (n *FeatureNormalizer) deriveTags(f *entity.Feature) []string {
	texts := []string{f.Nature, f.Family, f.Name, f.Nickname, f.About}
	for _, v := range f.Place {
		texts = append(texts, v)
	}
	for _, v := range f.Properties {
		texts = append(texts, v)
	}
	return n.extractor.Extract(texts...)
}

func (n *FeatureNormalizer) checkRequired(f *entity.Feature) error {
	if f.Name == "" {
		return apperror.MissingRequiredField("name")
	}
	if f.Nature == "" {
		return apperror.MissingRequiredField("nature")
	}
	if f.Family == "" {
		return apperror.MissingRequiredField("family")
	}
	if f.Geometry == nil {
		return apperror.MissingRequiredField("geometry")
	}
	return nil
}
