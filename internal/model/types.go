package model

import (
	"fmt"
	"strings"
)

// #region layout

// HarmonicBlocks is the number of stacked coefficient blocks per model row:
// static offset, sin, cos, sin2, cos2.
const HarmonicBlocks = 5

// AxisCount is the number of trait axes stacked next to the mean walker.
const AxisCount = 5

// #endregion layout

// #region artifact

// Artifact is the on-disk shape of a gait model. Field names are fixed by the
// exporter that produced data.json and must not change.
type Artifact struct {
	MeanWalker  []float64 `json:"meanwalker" yaml:"meanwalker" validate:"required,min=1"`
	GenderAxis  []float64 `json:"genderaxis" yaml:"genderaxis" validate:"required,min=1"`
	WeightAxis  []float64 `json:"weightaxis" yaml:"weightaxis" validate:"required,min=1"`
	NervousAxis []float64 `json:"nervousaxis" yaml:"nervousaxis" validate:"required,min=1"`
	HappyAxis   []float64 `json:"happyaxis" yaml:"happyaxis" validate:"required,min=1"`
	CustomAxis  []float64 `json:"customaxis" yaml:"customaxis" validate:"required,min=1"`
	BodyParts   []string  `json:"body_parts" yaml:"body_parts" validate:"required,min=1,dive,required"`
}

// #endregion artifact

// #region load-error

// LoadError reports why a model artifact could not be loaded. Field names the
// artifact field at fault, empty when the whole document is the problem.
type LoadError struct {
	Path   string
	Field  string
	Reason string
	Err    error
}

func (e *LoadError) Error() string {
	var b strings.Builder
	b.WriteString("load gait model")
	if e.Path != "" {
		fmt.Fprintf(&b, " %s", e.Path)
	}
	if e.Field != "" {
		fmt.Fprintf(&b, ": field %q", e.Field)
	}
	if e.Reason != "" {
		fmt.Fprintf(&b, ": %s", e.Reason)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *LoadError) Unwrap() error { return e.Err }

// #endregion load-error
