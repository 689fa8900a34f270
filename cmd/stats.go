package cmd

import (
	"fmt"

	"github.com/kasuboski/ratez/pkg/render"
	"github.com/kasuboski/ratez/pkg/stats"
	"github.com/spf13/cobra"
)

// statsCmd represents the stats command
var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "show catalog statistics",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := commandContext(cmd.Context())

		s, err := openCatalog(ctx, cmd.ErrOrStderr())
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		summary := stats.Summarize(s.store.Movies())
		fmt.Fprintln(out, render.Headline(summary))
		if summary.Empty() {
			return nil
		}

		fmt.Fprintln(out)
		return render.Distribution(out, summary)
	},
}

// topCmd represents the top command
var topCmd = &cobra.Command{
	Use:   "top",
	Short: "show the top rated movies",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := commandContext(cmd.Context())

		s, err := openCatalog(ctx, cmd.ErrOrStderr())
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), render.TopRated(s.store.Movies()))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(topCmd)
}
