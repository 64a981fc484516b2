package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var (
	// Read flags
	slugFilter  string
	categoryID  int64
	galleryFrom string
)

// categoriesCmd lists room categories
var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List room categories",
	Long: `List room categories, newest first.

Examples:
  hotelctl categories                      # All categories
  hotelctl categories --slug deluxe-room   # One category
  hotelctl categories --json               # Full records as JSON`,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient()
		if err != nil {
			return err
		}
		cats, err := c.Categories(cmd.Context(), slugFilter)
		if err != nil {
			return fmt.Errorf("list categories: %w", err)
		}

		out := cmd.OutOrStdout()
		if jsonOutput {
			return printJSON(out, cats)
		}

		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tSLUG\tTITLE\tROOMS\tIMAGES\tTIERS")
		for _, cat := range cats {
			fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%d\t%d\n", cat.ID, cat.Slug, cat.Title, cat.RoomCount, len(cat.Images), len(cat.Prices))
		}
		return w.Flush()
	},
}

// pricesCmd lists price tiers
var pricesCmd = &cobra.Command{
	Use:   "prices",
	Short: "List price tiers",
	Long: `List price tiers ordered by duration.

Examples:
  hotelctl prices                    # Every category
  hotelctl prices --category-id 3    # One category`,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient()
		if err != nil {
			return err
		}
		tiers, err := c.Prices(cmd.Context(), categoryID)
		if err != nil {
			return fmt.Errorf("list prices: %w", err)
		}

		out := cmd.OutOrStdout()
		if jsonOutput {
			return printJSON(out, tiers)
		}

		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "CATEGORY\tHOURS\tRATE\tLABEL")
		for _, p := range tiers {
			label := ""
			if p.Label != nil {
				label = *p.Label
			}
			fmt.Fprintf(w, "%d\t%d\t%d.%02d\t%s\n", p.CategoryID, p.HourlyHours, p.RateCents/100, p.RateCents%100, label)
		}
		return w.Flush()
	},
}

// galleryCmd lists standalone gallery items
var galleryCmd = &cobra.Command{
	Use:   "gallery",
	Short: "List gallery items",
	Long: `List standalone gallery items, newest first.

Examples:
  hotelctl gallery                    # Every label
  hotelctl gallery --label Rooms      # One label`,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient()
		if err != nil {
			return err
		}
		items, err := c.Gallery(cmd.Context(), galleryFrom)
		if err != nil {
			return fmt.Errorf("list gallery: %w", err)
		}

		out := cmd.OutOrStdout()
		if jsonOutput {
			return printJSON(out, items)
		}

		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tLABEL\tURL")
		for _, item := range items {
			label := ""
			if item.Category != nil {
				label = *item.Category
			}
			fmt.Fprintf(w, "%d\t%s\t%s\n", item.ID, label, item.URL)
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(categoriesCmd, pricesCmd, galleryCmd)

	categoriesCmd.Flags().StringVar(&slugFilter, "slug", "", "Only the category with this slug")
	pricesCmd.Flags().Int64Var(&categoryID, "category-id", 0, "Only tiers of this category")
	galleryCmd.Flags().StringVar(&galleryFrom, "label", "", "Only items with this label")
}
