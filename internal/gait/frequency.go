package gait

import "github.com/danielpatrickdp/walk-cycle/go-walker/internal/model"

// Frequency returns the fundamental stride frequency of a walker. Unlike the
// blend, the frequency slot uses unscaled trait weights and ignores the custom
// axis.
func Frequency(m *model.GaitModel, t Traits) (float64, error) {
	if err := checkModel(m); err != nil {
		return 0, err
	}
	if err := t.Validate(); err != nil {
		return 0, err
	}
	f := m.FrequencyIndex()
	v := m.Coefficient(model.Mean, f) +
		t.Gender*m.Coefficient(model.Gender, f) +
		t.Weight*m.Coefficient(model.Weight, f) +
		t.Nervousness*m.Coefficient(model.Nervous, f) +
		t.Happiness*m.Coefficient(model.Happy, f)
	return v / t.Speed, nil
}
