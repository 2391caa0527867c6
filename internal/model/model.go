package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"gonum.org/v1/gonum/mat"
	"gopkg.in/yaml.v3"
)

// #region axis

// Axis indexes one of the six coefficient vectors of a gait model.
type Axis int

const (
	Mean Axis = iota
	Gender
	Weight
	Nervous
	Happy
	Custom
)

var axisNames = [...]string{"meanwalker", "genderaxis", "weightaxis", "nervousaxis", "happyaxis", "customaxis"}

func (a Axis) String() string {
	if a < Mean || a > Custom {
		return fmt.Sprintf("axis(%d)", int(a))
	}
	return axisNames[a]
}

// #endregion axis

// #region gait-model

// GaitModel is the statistical walker model. It is immutable once built and
// safe to share between goroutines.
type GaitModel struct {
	axes      [AxisCount + 1][]float64
	bodyParts []string
	matrix    *mat.Dense
}

// New validates an artifact and builds a model from it. The artifact slices
// are copied.
func New(a Artifact) (*GaitModel, error) {
	if err := validateArtifact(a); err != nil {
		return nil, err
	}
	m := &GaitModel{bodyParts: append([]string(nil), a.BodyParts...)}
	for i, src := range [...][]float64{a.MeanWalker, a.GenderAxis, a.WeightAxis, a.NervousAxis, a.HappyAxis, a.CustomAxis} {
		m.axes[i] = append([]float64(nil), src...)
	}

	// Columns are mean followed by the five trait axes, rows follow the
	// flat model layout.
	rows := m.Len()
	m.matrix = mat.NewDense(rows, AxisCount+1, nil)
	for c := range m.axes {
		m.matrix.SetCol(c, m.axes[c])
	}
	return m, nil
}

// Landmarks returns N, the number of tracked body points.
func (m *GaitModel) Landmarks() int { return len(m.bodyParts) }

// BlockSize returns 3N+1, the length of one harmonic block.
func (m *GaitModel) BlockSize() int { return 3*m.Landmarks() + 1 }

// FrequencyIndex returns 3N, the slot holding the stride frequency scalar.
func (m *GaitModel) FrequencyIndex() int { return 3 * m.Landmarks() }

// Len returns the length of every coefficient vector.
func (m *GaitModel) Len() int { return HarmonicBlocks * m.BlockSize() }

// Coefficient returns one value of the given axis vector.
func (m *GaitModel) Coefficient(a Axis, row int) float64 { return m.axes[a][row] }

// Axis returns a copy of one coefficient vector.
func (m *GaitModel) Axis(a Axis) []float64 { return append([]float64(nil), m.axes[a]...) }

// Axes returns copies of all six vectors, mean first.
func (m *GaitModel) Axes() [][]float64 {
	out := make([][]float64, len(m.axes))
	for i := range m.axes {
		out[i] = m.Axis(Axis(i))
	}
	return out
}

// BodyPart returns the label of landmark i.
func (m *GaitModel) BodyPart(i int) string { return m.bodyParts[i] }

// BodyParts returns a copy of the landmark labels in model order.
func (m *GaitModel) BodyParts() []string { return append([]string(nil), m.bodyParts...) }

// Matrix returns the Len x 6 stacked-axis matrix. Callers must not modify it.
func (m *GaitModel) Matrix() mat.Matrix { return m.matrix }

// #endregion gait-model

// #region decode

// Format selects the artifact encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath picks the encoding from a file extension, defaulting to JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Decode reads a full artifact from r and builds a model from it.
func Decode(r io.Reader, format Format) (*GaitModel, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &LoadError{Reason: "read artifact", Err: err}
	}
	return Parse(data, format)
}

// Parse decodes an artifact document and builds a model from it.
func Parse(data []byte, format Format) (*GaitModel, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || string(trimmed) == "null" || string(trimmed) == "~" {
		return nil, &LoadError{Reason: "empty document"}
	}

	var a Artifact
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(trimmed, &a); err != nil {
			return nil, &LoadError{Reason: "invalid yaml", Err: err}
		}
	case FormatJSON, "":
		if err := json.Unmarshal(trimmed, &a); err != nil {
			return nil, &LoadError{Reason: "invalid json", Err: err}
		}
	default:
		return nil, &LoadError{Reason: fmt.Sprintf("unknown format %q", format)}
	}
	return New(a)
}

// #endregion decode

// #region validate

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	v.RegisterStructValidation(layoutValidation, Artifact{})
	return v
}

// layoutValidation checks every coefficient vector against 5(3N+1). Empty
// vectors are left to the field rules.
func layoutValidation(sl validator.StructLevel) {
	a := sl.Current().Interface().(Artifact)
	if len(a.BodyParts) == 0 {
		return
	}
	want := HarmonicBlocks * (3*len(a.BodyParts) + 1)
	fields := []struct {
		vec    []float64
		name   string
		goName string
	}{
		{a.MeanWalker, "meanwalker", "MeanWalker"},
		{a.GenderAxis, "genderaxis", "GenderAxis"},
		{a.WeightAxis, "weightaxis", "WeightAxis"},
		{a.NervousAxis, "nervousaxis", "NervousAxis"},
		{a.HappyAxis, "happyaxis", "HappyAxis"},
		{a.CustomAxis, "customaxis", "CustomAxis"},
	}
	for _, f := range fields {
		if len(f.vec) == 0 || len(f.vec) == want {
			continue
		}
		sl.ReportError(f.vec, f.name, f.goName, "layout", fmt.Sprint(want))
	}
}

func validateArtifact(a Artifact) error {
	err := validate.Struct(a)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return &LoadError{Reason: "validate artifact", Err: err}
	}
	fe := verrs[0]
	le := &LoadError{Field: fe.Field(), Err: err}
	switch fe.Tag() {
	case "required":
		le.Reason = "missing required field"
	case "min":
		le.Reason = "must not be empty"
	case "layout":
		le.Reason = fmt.Sprintf("length %d does not match %d landmarks (want %s)",
			reflect.ValueOf(fe.Value()).Len(), len(a.BodyParts), fe.Param())
	default:
		le.Reason = fmt.Sprintf("failed %q check", fe.Tag())
	}
	return le
}

// #endregion validate
