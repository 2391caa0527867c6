package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/danielpatrickdp/walk-cycle/go-walker/internal/clip"
)

// #region rest

func newRestCmd(a *app) *cobra.Command {
	var host bool
	cmd := &cobra.Command{
		Use:   "rest",
		Short: "Print the rest pose used to create host objects",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := a.walker(a.cfg.Traits)
			if err != nil {
				return err
			}
			poses, err := clip.RestPose(w)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if !host {
				return enc.Encode(poses)
			}
			objs := make([]clip.HostObject, len(poses))
			for i, p := range poses {
				objs[i] = clip.HostObject{Name: p.Part, Location: clip.Place(p, a.cfg.Render.Scale)}
			}
			return enc.Encode(objs)
		},
	}
	cmd.Flags().BoolVar(&host, "host", false, "print scaled host locations")
	return cmd
}

// #endregion rest
