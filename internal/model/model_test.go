package model

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func readFixture(t *testing.T, name string) []byte {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", name))
	if err != nil {
		t.Fatalf("read %s: %v", name, err)
	}
	return data
}

// flatArtifact builds an artifact for n landmarks where every axis holds
// base+row so individual coefficients are easy to predict.
func flatArtifact(n int) Artifact {
	size := HarmonicBlocks * (3*n + 1)
	vec := func(base float64) []float64 {
		v := make([]float64, size)
		for i := range v {
			v[i] = base + float64(i)
		}
		return v
	}
	parts := make([]string, n)
	for i := range parts {
		parts[i] = "p" + string(rune('a'+i))
	}
	return Artifact{
		MeanWalker:  vec(0),
		GenderAxis:  vec(1000),
		WeightAxis:  vec(2000),
		NervousAxis: vec(3000),
		HappyAxis:   vec(4000),
		CustomAxis:  vec(5000),
		BodyParts:   parts,
	}
}

// #region parse

func TestParseValidJSON(t *testing.T) {
	m, err := Parse(readFixture(t, "valid.json"), FormatJSON)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if m.Landmarks() != 3 {
		t.Fatalf("expected 3 landmarks, got %d", m.Landmarks())
	}
	if m.BlockSize() != 10 {
		t.Fatalf("expected block size 10, got %d", m.BlockSize())
	}
	if m.FrequencyIndex() != 9 {
		t.Fatalf("expected frequency index 9, got %d", m.FrequencyIndex())
	}
	if m.Len() != 50 {
		t.Fatalf("expected 50 rows, got %d", m.Len())
	}
	if diff := cmp.Diff([]string{"head", "leftFoot", "rightFoot"}, m.BodyParts()); diff != "" {
		t.Fatalf("body parts mismatch (-want +got):\n%s", diff)
	}
	if got := m.Coefficient(Mean, 0); got != -3.523 {
		t.Fatalf("meanwalker[0] = %v, want -3.523", got)
	}
	if got := m.Coefficient(Gender, 0); got != 9.603 {
		t.Fatalf("genderaxis[0] = %v, want 9.603", got)
	}
}

func TestParseYAMLMatchesJSON(t *testing.T) {
	fromJSON, err := Parse(readFixture(t, "valid.json"), FormatJSON)
	if err != nil {
		t.Fatalf("Parse json: %v", err)
	}
	fromYAML, err := Parse(readFixture(t, "valid.yaml"), FormatYAML)
	if err != nil {
		t.Fatalf("Parse yaml: %v", err)
	}
	if diff := cmp.Diff(fromJSON.Axes(), fromYAML.Axes()); diff != "" {
		t.Fatalf("axes differ (-json +yaml):\n%s", diff)
	}
	if diff := cmp.Diff(fromJSON.BodyParts(), fromYAML.BodyParts()); diff != "" {
		t.Fatalf("body parts differ (-json +yaml):\n%s", diff)
	}
}

func TestDecodeReader(t *testing.T) {
	m, err := Decode(strings.NewReader(string(readFixture(t, "valid.json"))), FormatJSON)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if m.Landmarks() != 3 {
		t.Fatalf("expected 3 landmarks, got %d", m.Landmarks())
	}
}

func TestParseFailures(t *testing.T) {
	tests := []struct {
		name      string
		data      []byte
		format    Format
		field     string
		reason    string
		wrapsJSON bool
	}{
		{
			name:   "missing body parts",
			data:   readFixture(t, "missing_body_parts.json"),
			format: FormatJSON,
			field:  "body_parts",
			reason: "missing required field",
		},
		{
			name:   "length mismatch",
			data:   readFixture(t, "bad_length.json"),
			format: FormatJSON,
			field:  "happyaxis",
			reason: "length 49 does not match 3 landmarks (want 50)",
		},
		{
			name:   "malformed",
			data:   readFixture(t, "malformed.json"),
			format: FormatJSON,
			reason: "invalid json",
		},
		{
			name:   "null document",
			data:   readFixture(t, "null.json"),
			format: FormatJSON,
			reason: "empty document",
		},
		{
			name:   "empty input",
			data:   []byte("  \n"),
			format: FormatYAML,
			reason: "empty document",
		},
		{
			name:   "yaml null",
			data:   []byte("~\n"),
			format: FormatYAML,
			reason: "empty document",
		},
		{
			name:   "empty vector",
			data:   []byte(`{"meanwalker":[],"genderaxis":[1],"weightaxis":[1],"nervousaxis":[1],"happyaxis":[1],"customaxis":[1],"body_parts":["a"]}`),
			format: FormatJSON,
			field:  "meanwalker",
			reason: "must not be empty",
		},
		{
			name:   "unknown format",
			data:   []byte("{}"),
			format: Format("toml"),
			reason: `unknown format "toml"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := Parse(tt.data, tt.format)
			if err == nil {
				t.Fatalf("expected error, got model with %d landmarks", m.Landmarks())
			}
			var le *LoadError
			if !errors.As(err, &le) {
				t.Fatalf("expected *LoadError, got %T: %v", err, err)
			}
			if le.Field != tt.field {
				t.Errorf("field = %q, want %q", le.Field, tt.field)
			}
			if le.Reason != tt.reason {
				t.Errorf("reason = %q, want %q", le.Reason, tt.reason)
			}
		})
	}
}

func TestLoadErrorMessage(t *testing.T) {
	inner := errors.New("boom")
	err := &LoadError{Path: "data.json", Field: "meanwalker", Reason: "must not be empty", Err: inner}
	want := `load gait model data.json: field "meanwalker": must not be empty: boom`
	if err.Error() != want {
		t.Fatalf("Error() = %q, want %q", err.Error(), want)
	}
	if !errors.Is(err, inner) {
		t.Fatal("expected LoadError to unwrap to inner error")
	}
}

func TestFormatFromPath(t *testing.T) {
	tests := map[string]Format{
		"data.json":     FormatJSON,
		"model.yaml":    FormatYAML,
		"model.YML":     FormatYAML,
		"no-extension":  FormatJSON,
		"dir.yaml/data": FormatJSON,
	}
	for path, want := range tests {
		if got := FormatFromPath(path); got != want {
			t.Errorf("FormatFromPath(%q) = %q, want %q", path, got, want)
		}
	}
}

// #endregion parse

// #region model

func TestNewCopiesArtifact(t *testing.T) {
	a := flatArtifact(2)
	m, err := New(a)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	a.MeanWalker[0] = 99
	a.BodyParts[0] = "changed"
	if m.Coefficient(Mean, 0) != 0 {
		t.Fatal("model shares the artifact mean vector")
	}
	if m.BodyPart(0) != "pa" {
		t.Fatalf("model shares the artifact body parts: %q", m.BodyPart(0))
	}

	parts := m.BodyParts()
	parts[1] = "changed"
	if m.BodyPart(1) != "pb" {
		t.Fatal("BodyParts returned the internal slice")
	}
	axes := m.Axes()
	axes[Gender][0] = -1
	if m.Coefficient(Gender, 0) != 1000 {
		t.Fatal("Axes returned an internal slice")
	}
}

func TestMatrixColumns(t *testing.T) {
	m, err := New(flatArtifact(2))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	a := m.Matrix()
	rows, cols := a.Dims()
	if rows != m.Len() || cols != AxisCount+1 {
		t.Fatalf("matrix dims = %dx%d, want %dx%d", rows, cols, m.Len(), AxisCount+1)
	}
	for c := Mean; c <= Custom; c++ {
		for r := 0; r < rows; r++ {
			if a.At(r, int(c)) != m.Coefficient(c, r) {
				t.Fatalf("A[%d,%d] = %v, want %v", r, c, a.At(r, int(c)), m.Coefficient(c, r))
			}
		}
	}
}

func TestAxisString(t *testing.T) {
	if Happy.String() != "happyaxis" {
		t.Fatalf("Happy.String() = %q", Happy.String())
	}
	if Axis(9).String() != "axis(9)" {
		t.Fatalf("Axis(9).String() = %q", Axis(9).String())
	}
}

// #endregion model
