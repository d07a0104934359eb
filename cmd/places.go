package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var placesCmd = &cobra.Command{
	Use:   "places",
	Short: "Look up venues with the Google Places API",
}

var placesSearchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "List up to six matching places",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newPlaces()
		if err != nil {
			return err
		}
		hits, err := c.Autocomplete(cmd.Context(), strings.Join(args, " "))
		if err != nil {
			return err
		}
		if len(hits) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No places found.")
			return nil
		}
		for _, h := range hits {
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", h.PlaceID, h.Description)
		}
		return nil
	},
}

var placesDetailsCmd = &cobra.Command{
	Use:   "details <placeId>",
	Short: "Show one place; --apply copies it onto the saved advance",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		apply, _ := cmd.Flags().GetBool("apply")
		c, err := newPlaces()
		if err != nil {
			return err
		}
		d, err := c.Details(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if !apply {
			return printJSON(cmd.OutOrStdout(), d)
		}
		session, closeDB := openSession(cmd.Context())
		defer closeDB()
		return printJSON(cmd.OutOrStdout(), session.Replace(cmd.Context(), d.Apply(session.Current())))
	},
}

func init() {
	rootCmd.AddCommand(placesCmd)
	placesCmd.AddCommand(placesSearchCmd, placesDetailsCmd)
	placesDetailsCmd.Flags().Bool("apply", false, "Set venue name and address from the place")
}
