package model

import (
	"errors"
	"os"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

// #region store

// Store hands out the gait model shared by every walker in a process. The
// first successful Load wins; later calls return the same model.
type Store struct {
	mu    sync.RWMutex
	model *GaitModel
	group singleflight.Group
	log   zerolog.Logger
}

// NewStore returns an empty store.
func NewStore(log zerolog.Logger) *Store {
	return &Store{log: log.With().Str("component", "model_store").Logger()}
}

// Load reads and validates the artifact at path unless a model is already
// loaded. Concurrent first calls for the same path share a single read. A
// failed load leaves the store empty; the first successful load wins.
func (s *Store) Load(path string) (*GaitModel, error) {
	if m := s.Model(); m != nil {
		return m, nil
	}

	v, err, _ := s.group.Do(path, func() (interface{}, error) {
		// Another caller may have finished while we waited for the group.
		if m := s.Model(); m != nil {
			return m, nil
		}
		m, err := loadFile(path)
		if err != nil {
			return nil, err
		}

		s.mu.Lock()
		defer s.mu.Unlock()
		if s.model == nil {
			s.model = m
			s.log.Info().
				Str("path", path).
				Int("landmarks", m.Landmarks()).
				Int("rows", m.Len()).
				Msg("gait model loaded")
		}
		return s.model, nil
	})
	if err != nil {
		s.log.Error().Err(err).Str("path", path).Msg("gait model load failed")
		return nil, err
	}
	return v.(*GaitModel), nil
}

// Model returns the loaded model, or nil before the first successful Load.
func (s *Store) Model() *GaitModel {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.model
}

// readFile is swapped in tests to hold a load in flight.
var readFile = os.ReadFile

func loadFile(path string) (*GaitModel, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, &LoadError{Path: path, Reason: "read artifact", Err: err}
	}
	m, err := Parse(data, FormatFromPath(path))
	if err != nil {
		var le *LoadError
		if errors.As(err, &le) {
			le.Path = path
			return nil, le
		}
		return nil, &LoadError{Path: path, Err: err}
	}
	return m, nil
}

// #endregion store
