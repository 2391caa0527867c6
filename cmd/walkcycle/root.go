package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/danielpatrickdp/walk-cycle/go-walker/internal/clip"
	"github.com/danielpatrickdp/walk-cycle/go-walker/internal/config"
	"github.com/danielpatrickdp/walk-cycle/go-walker/internal/gait"
	"github.com/danielpatrickdp/walk-cycle/go-walker/internal/logger"
	"github.com/danielpatrickdp/walk-cycle/go-walker/internal/model"
	"github.com/danielpatrickdp/walk-cycle/go-walker/internal/store"
	"github.com/danielpatrickdp/walk-cycle/go-walker/internal/walker"
)

// #region app

// app carries what every subcommand needs once PersistentPreRunE has run.
type app struct {
	v       *viper.Viper
	cfgFile string
	cfg     config.Config
	log     zerolog.Logger
	models  *model.Store
}

func newRootCmd() (*cobra.Command, *app) {
	a := &app{v: viper.New(), log: logger.Get()}

	root := &cobra.Command{
		Use:           "walkcycle",
		Short:         "Synthesize parameterized walk cycles from a statistical gait model",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(a.v, a.cfgFile)
			if err != nil {
				return err
			}
			a.cfg = cfg
			opt := cfg.Log
			opt.Writer = cmd.ErrOrStderr()
			a.log = logger.New(opt)
			a.models = model.NewStore(a.log)
			return nil
		},
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&a.cfgFile, "config", "c", "", "config file (default ./walker.yaml)")
	pf.String("model", "", "gait model artifact, json or yaml")
	pf.String("db", "", "clip database path")
	pf.String("evaluator", "", "evaluation strategy: direct | matrix")
	pf.String("log-level", "", "log level: debug | info | warn | error")
	pf.String("log-format", "", "log format: console | json")
	bindFlags(a.v, pf, map[string]string{
		"model_path": "model",
		"db_path":    "db",
		"evaluator":  "evaluator",
		"log.level":  "log-level",
		"log.format": "log-format",
	})
	addTraitFlags(a.v, pf)
	addRenderFlags(a.v, pf)

	root.AddCommand(
		newGenerateCmd(a),
		newBatchCmd(a),
		newRestCmd(a),
		newInspectCmd(a),
		newFixtureCmd(a),
		newVerifyCmd(a),
		newServeCmd(a),
		newQueryCmd(a),
	)
	return root, a
}

// #endregion app

// #region helpers

func bindFlags(v *viper.Viper, fs *pflag.FlagSet, keys map[string]string) {
	for key, name := range keys {
		if err := v.BindPFlag(key, fs.Lookup(name)); err != nil {
			panic(fmt.Sprintf("bind flag %s: %v", name, err))
		}
	}
}

// addTraitFlags registers the trait flags and binds them to traits.*. They
// live on the root so a single viper binding serves every subcommand.
func addTraitFlags(v *viper.Viper, fs *pflag.FlagSet) {
	n := gait.Neutral()
	fs.Float64("gender", n.Gender, "male (-1) to female (1)")
	fs.Float64("weight", n.Weight, "heavy (-1) to light (1)")
	fs.Float64("nervousness", n.Nervousness, "nervous (-1) to relaxed (1)")
	fs.Float64("happiness", n.Happiness, "happy (-1) to sad (1)")
	fs.Float64("speed", n.Speed, "stride speed divisor, non-zero")
	fs.Float64("customness", n.Customness, "reserved custom axis")
	bindFlags(v, fs, map[string]string{
		"traits.gender":      "gender",
		"traits.weight":      "weight",
		"traits.nervousness": "nervousness",
		"traits.happiness":   "happiness",
		"traits.speed":       "speed",
		"traits.customness":  "customness",
	})
}

// addRenderFlags registers the frame range flags and binds them to render.*.
func addRenderFlags(v *viper.Viper, fs *pflag.FlagSet) {
	d := clip.DefaultSettings()
	fs.Int("start", d.Start, "first frame")
	fs.Int("end", d.End, "last frame")
	fs.Int("resolution", d.Resolution, "frames between keyframes")
	fs.Int("fps", d.FPS, "host frames per second")
	fs.Float64("scale", d.Scale, "host scale factor")
	bindFlags(v, fs, map[string]string{
		"render.start":      "start",
		"render.end":        "end",
		"render.resolution": "resolution",
		"render.fps":        "fps",
		"render.scale":      "scale",
	})
}

func (a *app) model() (*model.GaitModel, error) {
	return a.models.Load(a.cfg.ModelPath)
}

func (a *app) evaluator() (gait.Evaluator, error) {
	return gait.ByName(a.cfg.Evaluator)
}

// walker loads the model and returns a walker configured with traits.
func (a *app) walker(traits gait.Traits) (*walker.Walker, error) {
	m, err := a.model()
	if err != nil {
		return nil, err
	}
	ev, err := a.evaluator()
	if err != nil {
		return nil, err
	}
	w := walker.New(m, ev, a.log)
	if err := w.Configure(traits); err != nil {
		return nil, err
	}
	return w, nil
}

func (a *app) openStore() (*store.Store, error) {
	if a.cfg.DBPath == "" {
		return nil, errors.New("no clip database configured")
	}
	return store.NewStore(a.cfg.DBPath)
}

// output returns the destination for --out, or the command's stdout.
func output(cmd *cobra.Command, path string) (io.Writer, func() error, error) {
	if path == "" || path == "-" {
		return cmd.OutOrStdout(), func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("create %s: %w", path, err)
	}
	return f, f.Close, nil
}

// formatFor resolves an explicit --format or falls back to the file extension.
func formatFor(explicit, path string) string {
	if explicit != "" {
		return strings.ToLower(explicit)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return "yaml"
	default:
		return "json"
	}
}

func warningStrings(t gait.Traits) []string {
	var out []string
	for _, w := range t.Extrapolations() {
		out = append(out, w.String())
	}
	return out
}

// #endregion helpers
