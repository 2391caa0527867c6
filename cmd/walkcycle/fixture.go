package main

import (
	"fmt"
	"math"

	"github.com/spf13/cobra"

	"github.com/danielpatrickdp/walk-cycle/go-walker/internal/eval"
	"github.com/danielpatrickdp/walk-cycle/go-walker/internal/gait"
	"github.com/danielpatrickdp/walk-cycle/go-walker/internal/replay"
)

// #region fixture

func newFixtureCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fixture",
		Short: "Export or verify golden pose fixtures",
	}
	cmd.AddCommand(newFixtureExportCmd(a), newFixtureVerifyCmd(a))
	return cmd
}

func newFixtureExportCmd(a *app) *cobra.Command {
	var out, description string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Evaluate standard cases and write them as a fixture",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := a.model()
			if err != nil {
				return err
			}
			ev, err := a.evaluator()
			if err != nil {
				return err
			}
			f, err := replay.Export(m, ev, description, standardCases())
			if err != nil {
				return err
			}
			if err := replay.WriteFixture(out, f); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d cases to %s\n", len(f.Cases), out)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVarP(&out, "out", "o", "", "output fixture JSON path")
	f.StringVar(&description, "description", "golden poses", "fixture description")
	_ = cmd.MarkFlagRequired("out")
	return cmd
}

func newFixtureVerifyCmd(a *app) *cobra.Command {
	var path string
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Replay a fixture and report drift",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := a.model()
			if err != nil {
				return err
			}
			ev, err := a.evaluator()
			if err != nil {
				return err
			}
			f, err := replay.LoadFixture(path)
			if err != nil {
				return err
			}
			results := replay.Replay(m, f, replay.ReplayConfig{Evaluator: ev, EvalConfig: eval.DefaultEvalConfig()})
			sum := replay.Summarize(results)

			w := cmd.OutOrStdout()
			for _, r := range results {
				if r.Action == replay.ActionMatch {
					continue
				}
				fmt.Fprintf(w, "[%s] %s t=%g: %s\n", r.Action, r.Case, r.Walkertime, r.Reason)
			}
			fmt.Fprintf(w, "total=%d match=%d drift=%d error=%d\n", sum.Total, sum.Matches, sum.Drifts, sum.Errors)
			if sum.Drifts+sum.Errors > 0 {
				return fmt.Errorf("fixture %s: %d drifted, %d failed", path, sum.Drifts, sum.Errors)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&path, "fixture", "", "fixture JSON path")
	_ = cmd.MarkFlagRequired("fixture")
	return cmd
}

// standardCases covers the neutral walker and each trait at both ends.
func standardCases() []replay.CaseSpec {
	times := []float64{0, math.Pi / 4, math.Pi / 2, math.Pi, 3 * math.Pi / 2, 1666}
	cases := []replay.CaseSpec{{Name: "neutral", Traits: gait.Neutral(), Times: times}}
	for _, tr := range []struct {
		name string
		set  func(*gait.Traits, float64)
	}{
		{"gender", func(t *gait.Traits, v float64) { t.Gender = v }},
		{"weight", func(t *gait.Traits, v float64) { t.Weight = v }},
		{"nervousness", func(t *gait.Traits, v float64) { t.Nervousness = v }},
		{"happiness", func(t *gait.Traits, v float64) { t.Happiness = v }},
	} {
		for _, v := range []float64{-1, 1} {
			t := gait.Neutral()
			tr.set(&t, v)
			cases = append(cases, replay.CaseSpec{Name: fmt.Sprintf("%s_%+g", tr.name, v), Traits: t, Times: times})
		}
	}
	cases = append(cases, replay.CaseSpec{
		Name:      "phased",
		Traits:    gait.Traits{Gender: 0.5, Weight: -0.25, Speed: 2},
		Phase:     0.3,
		InitPhase: 45,
		Times:     times,
	})
	return cases
}

// #endregion fixture
