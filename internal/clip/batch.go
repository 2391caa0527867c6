package clip

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/danielpatrickdp/walk-cycle/go-walker/internal/gait"
	"github.com/danielpatrickdp/walk-cycle/go-walker/internal/model"
	"github.com/danielpatrickdp/walk-cycle/go-walker/internal/walker"
)

// Job is one walker to render in a batch.
type Job struct {
	Name   string
	Traits gait.Traits
}

// RenderBatch renders each job with its own walker over the shared model.
// Results keep job order. The first failure cancels the remaining jobs.
func RenderBatch(ctx context.Context, m *model.GaitModel, eval gait.Evaluator, jobs []Job, s Settings, limit int, log zerolog.Logger) ([]Clip, error) {
	clips := make([]Clip, len(jobs))
	g, ctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i, job := range jobs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			w := walker.New(m, eval, log)
			if err := w.Configure(job.Traits); err != nil {
				return fmt.Errorf("job %q: %w", job.Name, err)
			}
			c, err := Render(w, s)
			if err != nil {
				return fmt.Errorf("job %q: %w", job.Name, err)
			}
			c.Name = job.Name
			clips[i] = c
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return clips, nil
}
