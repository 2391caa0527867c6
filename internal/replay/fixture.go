package replay

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/danielpatrickdp/walk-cycle/go-walker/internal/gait"
)

// #region fixture-types

// Fixture is the top-level JSON structure of a golden pose fixture.
type Fixture struct {
	Description string        `json:"description"`
	Evaluator   string        `json:"evaluator"`
	Cases       []FixtureCase `json:"cases"`
}

// FixtureCase is one trait configuration with its expected frames.
type FixtureCase struct {
	Name      string         `json:"name"`
	Traits    gait.Traits    `json:"traits"`
	Phase     float64        `json:"phase"`
	InitPhase float64        `json:"init_phase"`
	Frequency *float64       `json:"frequency,omitempty"`
	Frames    []FixtureFrame `json:"frames"`
}

// FixtureFrame is the expected pose at one walkertime.
type FixtureFrame struct {
	Walkertime float64        `json:"walkertime"`
	Poses      gait.PoseFrame `json:"poses"`
}

// #endregion fixture-types

// #region fixture-loader

// LoadFixture reads and parses a JSON fixture file.
func LoadFixture(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture %s: %w", path, err)
	}
	var f Fixture
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse fixture %s: %w", path, err)
	}
	return &f, nil
}

// WriteFixture writes f as indented JSON.
func WriteFixture(path string, f *Fixture) error {
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal fixture: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write fixture %s: %w", path, err)
	}
	return nil
}

// #endregion fixture-loader
