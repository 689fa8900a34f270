package cmd

import (
	"fmt"
	"strconv"

	"github.com/kasuboski/ratez/pkg/catalog"
	"github.com/spf13/cobra"
)

var addImageURL string

// addCmd represents the add command
var addCmd = &cobra.Command{
	Use:   "add <title> <rating>",
	Short: "add a movie with a rating from 1 to 5",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := commandContext(cmd.Context())

		rating, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("%w: %q is not a number", catalog.ErrInvalidRating, args[1])
		}

		s, err := openCatalog(ctx, cmd.ErrOrStderr())
		if err != nil {
			return err
		}

		m, err := s.store.Add(ctx, catalog.AddRequest{
			Title:    args[0],
			Rating:   rating,
			ImageURL: addImageURL,
		})
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Added '%s' with %d stars!\n", m.Title, m.Rating)
		return nil
	},
}

func init() {
	addCmd.Flags().StringVar(&addImageURL, "image", "", "url of a poster image")
	rootCmd.AddCommand(addCmd)
}
