package cmd

import (
	"fmt"

	"github.com/kasuboski/ratez/pkg/render"
	"github.com/kasuboski/ratez/pkg/stats"
	"github.com/spf13/cobra"
)

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "list movies, highest rated first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := commandContext(cmd.Context())

		s, err := openCatalog(ctx, cmd.ErrOrStderr())
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		movies := s.store.Movies()
		if err := render.List(out, movies); err != nil {
			return err
		}

		if len(movies) == 0 {
			return nil
		}

		// a missing file just means nothing was saved yet
		modTime, _ := s.file.ModTime()
		fmt.Fprintf(out, "\n%s\n%s\n", render.Headline(stats.Summarize(movies)), render.LastSaved(modTime))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}
