package cmd

import (
	"errors"
	"fmt"

	"github.com/kasuboski/ratez/pkg/poster"
	"github.com/kasuboski/ratez/pkg/render"
	"github.com/spf13/cobra"
)

// posterCmd represents the poster command
var posterCmd = &cobra.Command{
	Use:   "poster <title>",
	Short: "check the poster image of a movie",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := commandContext(cmd.Context())

		s, err := openCatalog(ctx, cmd.ErrOrStderr())
		if err != nil {
			return err
		}

		m, err := s.store.Get(args[0])
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		p, err := newResolver(s.cfg.Poster).Resolve(ctx, m)
		switch {
		case errors.Is(err, poster.ErrNoImage):
			fmt.Fprintf(out, "🎬 '%s' has no image\n", m.Title)
			return nil
		case err != nil:
			return err
		}

		fmt.Fprintln(out, render.Poster(p))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(posterCmd)
}
