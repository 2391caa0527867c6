package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/danielpatrickdp/walk-cycle/go-walker/internal/store"
)

// #region inspect

func newInspectCmd(a *app) *cobra.Command {
	var (
		id      string
		last    int
		jsonOut bool
	)
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "List stored clips or show one clip",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.openStore()
			if err != nil {
				return err
			}
			defer s.Close()

			if id != "" {
				return runDetailMode(cmd.OutOrStdout(), s, id, jsonOut)
			}
			return runListMode(cmd.OutOrStdout(), s, last, jsonOut)
		},
	}
	f := cmd.Flags()
	f.StringVar(&id, "id", "", "show a single clip")
	f.IntVar(&last, "last", 20, "show N most recent clips")
	f.BoolVar(&jsonOut, "json", false, "output as JSON instead of table")
	return cmd
}

// #endregion inspect

// #region list-mode

func runListMode(w io.Writer, s *store.Store, last int, jsonOut bool) error {
	clips, err := s.ListClips(last)
	if err != nil {
		return err
	}
	if jsonOut {
		return printJSON(w, clips)
	}
	if len(clips) == 0 {
		fmt.Fprintln(w, "no clips found")
		return nil
	}

	fmt.Fprintf(w, "%-36s  %-12s  %-8s  %9s  %6s  %s\n",
		"Clip", "Name", "Eval", "Frequency", "Keys", "Time")
	fmt.Fprintf(w, "%-36s+-%-12s+-%-8s+-%9s+-%6s+-%s\n",
		"------------------------------------", "------------", "--------", "---------", "------", "--------------------")
	for _, c := range clips {
		fmt.Fprintf(w, "%-36s  %-12s  %-8s  %9.4f  %6d  %s\n",
			c.ID, truncate(c.Name, 12), c.Evaluator, c.Frequency, c.Keyframes,
			c.CreatedAt.Format("2006-01-02T15:04:05Z"))
	}
	return nil
}

// #endregion list-mode

// #region detail-mode

func runDetailMode(w io.Writer, s *store.Store, id string, jsonOut bool) error {
	c, err := s.GetClip(id)
	if err != nil {
		return err
	}
	if jsonOut {
		return printJSON(w, c)
	}

	fmt.Fprintf(w, "Clip:       %s\n", c.ID)
	if c.Name != "" {
		fmt.Fprintf(w, "Name:       %s\n", c.Name)
	}
	fmt.Fprintf(w, "Evaluator:  %s\n", c.Evaluator)
	fmt.Fprintf(w, "Frequency:  %.6f\n", c.Frequency)
	fmt.Fprintf(w, "Traits:     gender=%g weight=%g nervousness=%g happiness=%g speed=%g customness=%g\n",
		c.Traits.Gender, c.Traits.Weight, c.Traits.Nervousness, c.Traits.Happiness, c.Traits.Speed, c.Traits.Customness)
	fmt.Fprintf(w, "Frames:     %d..%d every %d @ %d fps (%d keyframes)\n",
		c.Settings.Start, c.Settings.End, c.Settings.Resolution, c.Settings.FPS, len(c.Keyframes))
	fmt.Fprintf(w, "Created:    %s\n", c.CreatedAt.Format("2006-01-02T15:04:05Z"))

	if len(c.Keyframes) == 0 {
		return nil
	}
	first := c.Keyframes[0]
	fmt.Fprintf(w, "\nFrame %d (walkertime %.4f):\n", first.Frame, first.Walkertime)
	fmt.Fprintf(w, "  %-16s  %10s  %10s  %10s\n", "Part", "X", "Y", "Z")
	for _, p := range first.Poses {
		fmt.Fprintf(w, "  %-16s  %10.3f  %10.3f  %10.3f\n", truncate(p.Part, 16), p.X, p.Y, p.Z)
	}
	return nil
}

// #endregion detail-mode

// #region helpers

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-1] + "~"
}

// #endregion helpers
