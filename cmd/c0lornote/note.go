package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/c0lornote/c0lornote/internal/models"
	"github.com/c0lornote/c0lornote/internal/plaintext"
	"github.com/c0lornote/c0lornote/internal/store"
)

var (
	addTitle    string
	addCategory string
	addTags     []string
	addColor    string
	addCode     bool
	addStdin    bool

	listCategory string
	listTag      string
	recentLimit  int

	editTitle    string
	editContent  string
	editCategory string
	editTags     []string
	editColor    string
)

// deriveTitle fills an empty title from the content's first heading or
// non-empty line. Code notes are left untitled; their first line is rarely a
// usable title.
func deriveTitle(title, content string, isCode bool) string {
	if title != "" || isCode {
		return title
	}
	return plaintext.FirstHeadingTitle(content)
}

var addCmd = &cobra.Command{
	Use:   "add [content]",
	Short: "Create a note",
	Long: `Create a note from the argument, or from stdin with --stdin.
An empty --title derives the display title from the content.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		content := ""
		if len(args) == 1 {
			content = args[0]
		}
		if addStdin {
			data, err := io.ReadAll(bufio.NewReader(os.Stdin))
			if err != nil {
				return err
			}
			content = string(data)
		}

		app, err := openApp()
		if err != nil {
			return err
		}
		defer app.close()

		var categoryID models.UUID
		if addCategory != "" {
			category, err := app.store.FindCategory(addCategory)
			if err != nil {
				return err
			}
			categoryID = category.ID
		}

		note, err := app.store.CreateNote(store.CreateNoteParams{
			Title:      deriveTitle(addTitle, content, addCode),
			Content:    content,
			IsCode:     addCode,
			Color:      addColor,
			TagNames:   addTags,
			CategoryID: categoryID,
		})
		if err != nil {
			return err
		}
		fmt.Printf("Created %s  %s\n", string(note.ID)[:8], note.DisplayTitle())
		return nil
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all notes, pinned first, most recently modified first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := openApp()
		if err != nil {
			return err
		}
		defer app.close()

		notes := app.store.GetAll()
		switch {
		case listCategory != "":
			category, err := app.store.FindCategory(listCategory)
			if err != nil {
				return err
			}
			notes = app.store.GetByCategory(category.ID)
		case listTag != "":
			tag, err := app.store.FindTag(listTag)
			if err != nil {
				return err
			}
			notes = app.store.GetByTag(tag.ID)
		}

		for _, note := range notes {
			printNoteLine(note, app.settings.ShowTimestamps)
		}
		return nil
	},
}

var recentCmd = &cobra.Command{
	Use:   "recent",
	Short: "List the most recently modified notes",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := openApp()
		if err != nil {
			return err
		}
		defer app.close()

		for _, note := range app.store.GetRecent(recentLimit) {
			printNoteLine(note, app.settings.ShowTimestamps)
		}
		return nil
	},
}

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Print one note in full",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := openApp()
		if err != nil {
			return err
		}
		defer app.close()

		note, err := resolveNote(app.store, args[0])
		if err != nil {
			return err
		}

		fmt.Printf("Title:    %s\n", note.DisplayTitle())
		fmt.Printf("ID:       %s\n", note.ID)
		if note.Pinned {
			fmt.Println("Pinned:   yes")
		}
		if note.IsCode {
			fmt.Println("Mode:     code")
		}
		if note.CategoryID != "" {
			for _, category := range app.store.Categories() {
				if category.ID == note.CategoryID {
					fmt.Printf("Category: %s\n", category.Name)
				}
			}
		}
		if len(note.TagIDs) > 0 {
			var names []string
			for _, tag := range app.store.Tags() {
				if note.HasTag(tag.ID) {
					names = append(names, tag.Name)
				}
			}
			fmt.Printf("Tags:     %s\n", strings.Join(names, ", "))
		}
		if app.settings.ShowTimestamps {
			fmt.Printf("Created:  %s\n", note.CreatedAt.Local().Format("2006-01-02 15:04:05"))
			fmt.Printf("Modified: %s\n", note.ModifiedAt.Local().Format("2006-01-02 15:04:05"))
		}
		fmt.Println()
		fmt.Println(note.Content)
		return nil
	},
}

var editCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Update fields of a note",
	Long: `Update only the given fields; everything else stays unchanged.
--tags replaces the full tag set. --category "" clears the category.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := openApp()
		if err != nil {
			return err
		}
		defer app.close()

		note, err := resolveNote(app.store, args[0])
		if err != nil {
			return err
		}

		var patch store.NotePatch
		if cmd.Flags().Changed("title") {
			patch.Title = &editTitle
		}
		if cmd.Flags().Changed("content") {
			patch.Content = &editContent
		}
		if cmd.Flags().Changed("color") {
			patch.Color = &editColor
		}
		if cmd.Flags().Changed("tags") {
			patch.TagNames = &editTags
		}
		if cmd.Flags().Changed("category") {
			var id models.UUID
			if editCategory != "" {
				category, err := app.store.FindCategory(editCategory)
				if err != nil {
					return err
				}
				id = category.ID
			}
			patch.CategoryID = &id
		}

		updated, err := app.store.UpdateNote(note.ID, patch)
		if err != nil {
			return err
		}
		fmt.Printf("Updated %s  %s\n", string(updated.ID)[:8], updated.DisplayTitle())
		return nil
	},
}

var pinCmd = &cobra.Command{
	Use:   "pin <id>",
	Short: "Toggle a note's pinned state",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := openApp()
		if err != nil {
			return err
		}
		defer app.close()

		note, err := resolveNote(app.store, args[0])
		if err != nil {
			return err
		}
		pinned, err := app.store.TogglePin(note.ID)
		if err != nil {
			return err
		}
		if pinned {
			fmt.Printf("Pinned %s\n", note.DisplayTitle())
		} else {
			fmt.Printf("Unpinned %s\n", note.DisplayTitle())
		}
		return nil
	},
}

var rmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Delete a note",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := openApp()
		if err != nil {
			return err
		}
		defer app.close()

		note, err := resolveNote(app.store, args[0])
		if err != nil {
			return err
		}

		if app.settings.ConfirmOnDelete {
			fmt.Printf("Delete %q? [y/N] ", note.DisplayTitle())
			reader := bufio.NewReader(os.Stdin)
			answer, _ := reader.ReadString('\n')
			if !strings.HasPrefix(strings.ToLower(strings.TrimSpace(answer)), "y") {
				fmt.Println("Cancelled.")
				return nil
			}
		}

		app.store.DeleteNote(note.ID)
		fmt.Printf("Deleted %s\n", note.DisplayTitle())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(addCmd, listCmd, recentCmd, showCmd, editCmd, pinCmd, rmCmd)

	addCmd.Flags().StringVarP(&addTitle, "title", "t", "", "Note title")
	addCmd.Flags().StringVarP(&addCategory, "category", "c", "", "Category name (must exist)")
	addCmd.Flags().StringSliceVar(&addTags, "tags", nil, "Tag names, created as needed")
	addCmd.Flags().StringVar(&addColor, "color", "", "Note color")
	addCmd.Flags().BoolVar(&addCode, "code", false, "Treat content as code")
	addCmd.Flags().BoolVar(&addStdin, "stdin", false, "Read content from stdin")

	listCmd.Flags().StringVarP(&listCategory, "category", "c", "", "Only this category")
	listCmd.Flags().StringVar(&listTag, "tag", "", "Only notes with this tag")

	recentCmd.Flags().IntVarP(&recentLimit, "limit", "n", 10, "Maximum notes to show")

	editCmd.Flags().StringVarP(&editTitle, "title", "t", "", "New title")
	editCmd.Flags().StringVar(&editContent, "content", "", "New content")
	editCmd.Flags().StringVarP(&editCategory, "category", "c", "", "New category name, empty to clear")
	editCmd.Flags().StringSliceVar(&editTags, "tags", nil, "Replacement tag set")
	editCmd.Flags().StringVar(&editColor, "color", "", "New color")
}
