package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/c0lornote/c0lornote/internal/models"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show note counts by category and tag",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := openApp()
		if err != nil {
			return err
		}
		defer app.close()

		notes := app.store.GetAll()
		var pinned, code int
		for _, note := range notes {
			if note.Pinned {
				pinned++
			}
			if note.IsCode {
				code++
			}
		}
		fmt.Printf("Notes: %d (%d pinned, %d code)\n", len(notes), pinned, code)

		byCategory := app.store.CountByCategory()
		fmt.Println("\nBy category:")
		for _, category := range app.store.Categories() {
			fmt.Printf("  %-20s %d\n", category.Name, byCategory[category.ID.String()])
		}
		if n := byCategory[models.UncategorizedKey]; n > 0 {
			fmt.Printf("  %-20s %d\n", "(uncategorized)", n)
		}

		byTag := app.store.CountByTag()
		fmt.Println("\nBy tag:")
		for _, tag := range app.store.Tags() {
			fmt.Printf("  %-20s %d\n", tag.Name, byTag[tag.ID.String()])
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
}
