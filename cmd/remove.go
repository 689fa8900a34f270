package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// assumeYes skips confirmation prompts
var assumeYes bool

// removeCmd represents the remove command
var removeCmd = &cobra.Command{
	Use:     "remove <title>",
	Aliases: []string{"rm"},
	Short:   "remove a movie by title",
	Args:    cobra.ExactArgs(1),
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
		if !assumeYes && !confirm(cmd.InOrStdin(), out, fmt.Sprintf("Delete '%s'?", m.Title)) {
			fmt.Fprintln(out, "Cancelled")
			return nil
		}

		if err := s.store.Remove(ctx, m.Title); err != nil {
			return err
		}

		fmt.Fprintf(out, "Deleted '%s'\n", m.Title)
		return nil
	},
}

// clearCmd represents the clear command
var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "remove every movie",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := commandContext(cmd.Context())

		s, err := openCatalog(ctx, cmd.ErrOrStderr())
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if len(s.store.Movies()) == 0 {
			fmt.Fprintln(out, "No movies to clear")
			return nil
		}

		if !assumeYes && !confirm(cmd.InOrStdin(), out, "Delete ALL movies? This cannot be undone!") {
			fmt.Fprintln(out, "Cancelled")
			return nil
		}

		if err := s.store.Clear(ctx); err != nil {
			return err
		}

		fmt.Fprintln(out, "All movies deleted")
		return nil
	},
}

func init() {
	removeCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "do not ask for confirmation")
	clearCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "do not ask for confirmation")
	rootCmd.AddCommand(removeCmd)
	rootCmd.AddCommand(clearCmd)
}
