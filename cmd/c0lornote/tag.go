package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var tagColor string

var tagCmd = &cobra.Command{
	Use:   "tag",
	Short: "Manage tags",
}

var tagLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List tags with note counts",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := openApp()
		if err != nil {
			return err
		}
		defer app.close()

		counts := app.store.CountByTag()
		for _, tag := range app.store.Tags() {
			fmt.Printf("%-20s %d\n", tag.Name, counts[tag.ID.String()])
		}
		return nil
	},
}

var tagAddCmd = &cobra.Command{
	Use:   "add <note-id> <name>",
	Short: "Add a tag to a note, creating the tag if needed",
	Args:  cobra.ExactArgs(2),
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
		if err := app.store.AddTag(note.ID, args[1]); err != nil {
			return err
		}
		fmt.Printf("Tagged %s with %q\n", note.DisplayTitle(), args[1])
		return nil
	},
}

var tagRmCmd = &cobra.Command{
	Use:   "rm <note-id> <name>",
	Short: "Remove a tag from a note",
	Args:  cobra.ExactArgs(2),
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
		if err := app.store.RemoveTag(note.ID, args[1]); err != nil {
			return err
		}
		fmt.Printf("Removed %q from %s\n", args[1], note.DisplayTitle())
		return nil
	},
}

var tagNewCmd = &cobra.Command{
	Use:   "new <name>",
	Short: "Create a tag without attaching it to a note",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := openApp()
		if err != nil {
			return err
		}
		defer app.close()

		tag, err := app.store.GetOrCreateTag(args[0], tagColor)
		if err != nil {
			return err
		}
		fmt.Printf("Tag %q ready\n", tag.Name)
		return nil
	},
}

var tagDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a tag everywhere; notes keep their other tags",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := openApp()
		if err != nil {
			return err
		}
		defer app.close()

		tag, err := app.store.FindTag(args[0])
		if err != nil {
			return err
		}
		app.store.DeleteTag(tag.ID)
		fmt.Printf("Deleted tag %q\n", tag.Name)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(tagCmd)
	tagCmd.AddCommand(tagLsCmd, tagAddCmd, tagRmCmd, tagNewCmd, tagDeleteCmd)
	tagNewCmd.Flags().StringVar(&tagColor, "color", "", "Tag color")
}
