package eval

import "math"

// #region eval-config
// EvalConfig holds tolerances and sample times for comparing evaluators.
type EvalConfig struct {
	RelTolerance         float64   // max relative deviation between strategies
	AbsTolerance         float64   // deviations below this pass regardless of magnitude
	PeriodicityTolerance float64   // max relative drift between t and t+2π
	Times                []float64 // walkertimes to sample
}

// DefaultEvalConfig samples one full cycle plus a few far-out times.
func DefaultEvalConfig() EvalConfig {
	times := make([]float64, 0, 20)
	for i := 0; i < 16; i++ {
		times = append(times, float64(i)*2*math.Pi/16)
	}
	times = append(times, -3.5, 17.25, 256, 1666)
	return EvalConfig{
		RelTolerance:         1e-9,
		AbsTolerance:         1e-10,
		PeriodicityTolerance: 1e-9,
		Times:                times,
	}
}

// #endregion eval-config

// #region eval-metric
// EvalMetric captures a single validation check result.
type EvalMetric struct {
	Name  string
	Value float64
	Pass  bool
}

// #endregion eval-metric

// #region eval-result
// EvalResult is the output of an agreement run.
type EvalResult struct {
	Passed  bool
	Metrics []EvalMetric
	Reason  string
}

// #endregion eval-result
