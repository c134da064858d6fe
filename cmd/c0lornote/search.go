package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/c0lornote/c0lornote/internal/store"
)

var (
	searchCategory string
	searchTags     []string
	searchPinned   bool
	searchCode     bool
)

var searchCmd = &cobra.Command{
	Use:   "search [words...]",
	Short: "Search notes by title and content",
	Long: `Match notes whose title or content contains every given word,
case-insensitively. Without words, all notes pass and only the
filters apply.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := openApp()
		if err != nil {
			return err
		}
		defer app.close()

		opts := store.SearchOptions{
			PinnedOnly: searchPinned,
			CodeOnly:   searchCode,
		}
		if searchCategory != "" {
			category, err := app.store.FindCategory(searchCategory)
			if err != nil {
				return err
			}
			opts.CategoryID = category.ID
		}
		for _, name := range searchTags {
			tag, err := app.store.FindTag(name)
			if err != nil {
				return err
			}
			opts.TagIDs = append(opts.TagIDs, tag.ID)
		}

		for _, note := range app.store.Search(strings.Join(args, " "), opts) {
			printNoteLine(note, app.settings.ShowTimestamps)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(searchCmd)
	searchCmd.Flags().StringVarP(&searchCategory, "category", "c", "", "Only this category")
	searchCmd.Flags().StringSliceVar(&searchTags, "tag", nil, "Require every listed tag")
	searchCmd.Flags().BoolVar(&searchPinned, "pinned", false, "Only pinned notes")
	searchCmd.Flags().BoolVar(&searchCode, "code", false, "Only code notes")
}
