package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/danielpatrickdp/walk-cycle/go-walker/internal/clip"
	"github.com/danielpatrickdp/walk-cycle/go-walker/internal/gait"
	"github.com/danielpatrickdp/walk-cycle/go-walker/internal/store"
)

// #region generate

func newGenerateCmd(a *app) *cobra.Command {
	var (
		name, out, format string
		host, save        bool
		phase, initPhase  float64
	)
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Render one walk cycle clip",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			start := time.Now()
			w, err := a.walker(a.cfg.Traits)
			if err != nil {
				return err
			}
			w.SetPhase(phase, initPhase)

			c, err := clip.Render(w, a.cfg.Render)
			if err != nil {
				return err
			}
			c.Name = name
			a.log.Info().Str("clip_id", c.ID).Int("keyframes", len(c.Keyframes)).
				Float64("frequency", c.Frequency).Msg("clip rendered")

			if save {
				if err := a.saveClips("generate", start, c); err != nil {
					return err
				}
			}
			return writeClip(cmd, c, out, format, host)
		},
	}
	f := cmd.Flags()
	f.StringVar(&name, "name", "", "clip name")
	f.StringVarP(&out, "out", "o", "", "output file (default stdout)")
	f.StringVar(&format, "format", "", "json | yaml (default from --out extension)")
	f.BoolVar(&host, "host", false, "write host keyframes (scaled, z up) instead of model poses")
	f.BoolVar(&save, "save", false, "store the clip in the clip database")
	f.Float64Var(&phase, "phase", 0, "phase offset in radians")
	f.Float64Var(&initPhase, "init-phase", 0, "initial phase in degrees")
	return cmd
}

func writeClip(cmd *cobra.Command, c clip.Clip, out, format string, host bool) error {
	w, closeFn, err := output(cmd, out)
	if err != nil {
		return err
	}
	if err := clip.Write(w, c, formatFor(format, out), host); err != nil {
		closeFn()
		return err
	}
	return closeFn()
}

// saveClips stores clips and one generation log row per clip.
func (a *app) saveClips(trigger string, start time.Time, clips ...clip.Clip) error {
	s, err := a.openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	for _, c := range clips {
		if err := s.SaveClip(c); err != nil {
			return err
		}
		err := s.LogGeneration(store.GenerationEntry{
			ClipID:      c.ID,
			TriggerType: trigger,
			Evaluator:   c.Evaluator,
			Warnings:    warningStrings(c.Traits),
			DurationMs:  time.Since(start).Milliseconds(),
		})
		if err != nil {
			return err
		}
		a.log.Info().Str("clip_id", c.ID).Str("db", a.cfg.DBPath).Msg("clip saved")
	}
	return nil
}

// #endregion generate

// #region batch

// batchJob is one entry of a batch jobs file.
type batchJob struct {
	Name   string      `yaml:"name"`
	Traits gait.Traits `yaml:"traits"`
}

func newBatchCmd(a *app) *cobra.Command {
	var jobsPath, out string
	var save bool
	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Render several walkers concurrently from a YAML jobs file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			start := time.Now()
			jobs, err := readJobs(jobsPath)
			if err != nil {
				return err
			}
			m, err := a.model()
			if err != nil {
				return err
			}
			ev, err := a.evaluator()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			clips, err := clip.RenderBatch(ctx, m, ev, jobs, a.cfg.Render, a.cfg.Workers, a.log)
			if err != nil {
				return err
			}
			a.log.Info().Int("clips", len(clips)).Dur("elapsed", time.Since(start)).Msg("batch rendered")

			if save {
				if err := a.saveClips("batch", start, clips...); err != nil {
					return err
				}
			}
			w, closeFn, err := output(cmd, out)
			if err != nil {
				return err
			}
			for _, c := range clips {
				if err := clip.Write(w, c, "json", false); err != nil {
					closeFn()
					return err
				}
			}
			return closeFn()
		},
	}
	f := cmd.Flags()
	f.StringVar(&jobsPath, "jobs", "", "YAML file listing {name, traits} entries")
	f.StringVarP(&out, "out", "o", "", "output file for JSON clips (default stdout)")
	f.BoolVar(&save, "save", false, "store the clips in the clip database")
	_ = cmd.MarkFlagRequired("jobs")
	return cmd
}

func readJobs(path string) ([]clip.Job, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read jobs %s: %w", path, err)
	}
	var entries []batchJob
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parse jobs %s: %w", path, err)
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("jobs %s: no entries", path)
	}
	jobs := make([]clip.Job, len(entries))
	for i, e := range entries {
		name := e.Name
		if name == "" {
			name = fmt.Sprintf("job-%d", i+1)
		}
		jobs[i] = clip.Job{Name: name, Traits: e.Traits}
	}
	return jobs, nil
}

// #endregion batch
