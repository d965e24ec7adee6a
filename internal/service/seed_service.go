package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/CodeTanzania/emis-feature/internal/dto"
	"github.com/CodeTanzania/emis-feature/internal/pkg/logger"
)

const seedWorkers = 4

// ISeedService loads feature candidates from the configured seed source,
// combines them with any candidates supplied by the caller and pushes
// each one through the upsert resolver. Seeding is idempotent: running it
// twice leaves one record per natural key.
type ISeedService interface {
	Seed(ctx context.Context, candidates ...*dto.FeatureCandidate) ([]*dto.FeatureResponse, error)
}

type seedService struct {
	features  IFeatureService
	seedsPath string
	log       logger.ILogger
}

func NewSeedService(features IFeatureService, seedsPath string, log logger.ILogger) ISeedService {
	return &seedService{
		features:  features,
		seedsPath: seedsPath,
		log:       log,
	}
}

func (s *seedService) Seed(ctx context.Context, candidates ...*dto.FeatureCandidate) ([]*dto.FeatureResponse, error) {
	fromDisk, err := s.loadSeedFile()
	if err != nil {
		return nil, err
	}

	merged := dedupeCandidates(append(fromDisk, candidates...))
	if len(merged) == 0 {
		return nil, nil
	}

	// Each candidate seeds independently; one bad record never blocks
	// the rest. Failures are collected and reported together.
	results := make([]*dto.FeatureResponse, len(merged))
	errs := make([]error, len(merged))
	sem := make(chan struct{}, seedWorkers)
	var wg sync.WaitGroup

	for i, candidate := range merged {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, candidate *dto.FeatureCandidate) {
			defer wg.Done()
			defer func() { <-sem }()

			res, err := s.features.Upsert(ctx, candidate)
			if err != nil {
				errs[i] = fmt.Errorf("seed candidate %d: %w", i, err)
				if s.log != nil {
					s.log.Warn("seed", "Failed to seed feature candidate", map[string]interface{}{
						"index": i,
						"error": err.Error(),
					})
				}
				return
			}
			results[i] = res
		}(i, candidate)
	}
	wg.Wait()

	seeded := make([]*dto.FeatureResponse, 0, len(results))
	for _, res := range results {
		if res != nil {
			seeded = append(seeded, res)
		}
	}
	return seeded, errors.Join(errs...)
}

// loadSeedFile reads <seedsPath>/features.json. A missing file is not an
// error: environments without seed data simply seed whatever the caller
// passed in.
func (s *seedService) loadSeedFile() ([]*dto.FeatureCandidate, error) {
	path := filepath.Join(s.seedsPath, "features.json")
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read seed file %s: %w", path, err)
	}

	var candidates []*dto.FeatureCandidate
	if err := json.Unmarshal(data, &candidates); err != nil {
		return nil, fmt.Errorf("parse seed file %s: %w", path, err)
	}
	return candidates, nil
}

// dedupeCandidates drops structurally identical candidates so a record
// present both on disk and in the caller's arguments seeds once.
func dedupeCandidates(candidates []*dto.FeatureCandidate) []*dto.FeatureCandidate {
	seen := make(map[string]struct{}, len(candidates))
	unique := make([]*dto.FeatureCandidate, 0, len(candidates))
	for _, c := range candidates {
		if c == nil {
			continue
		}
		key, err := json.Marshal(c)
		if err != nil {
			unique = append(unique, c)
			continue
		}
		if _, ok := seen[string(key)]; ok {
			continue
		}
		seen[string(key)] = struct{}{}
		unique = append(unique, c)
	}
	return unique
}
