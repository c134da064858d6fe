package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/c0lornote/c0lornote/internal/models"
)

var categoryColor string

var categoryCmd = &cobra.Command{
	Use:     "category",
	Aliases: []string{"cat"},
	Short:   "Manage categories",
}

var categoryLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List categories with note counts",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := openApp()
		if err != nil {
			return err
		}
		defer app.close()

		counts := app.store.CountByCategory()
		for _, category := range app.store.Categories() {
			fmt.Printf("%-20s %d\n", category.Name, counts[category.ID.String()])
		}
		if n := counts[models.UncategorizedKey]; n > 0 {
			fmt.Printf("%-20s %d\n", "(uncategorized)", n)
		}
		return nil
	},
}

var categoryNewCmd = &cobra.Command{
	Use:     "new <name>",
	Aliases: []string{"add"},
	Short:   "Create a category",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := openApp()
		if err != nil {
			return err
		}
		defer app.close()

		category, err := app.store.CreateCategory(args[0], categoryColor)
		if err != nil {
			return err
		}
		fmt.Printf("Created category %q\n", category.Name)
		return nil
	},
}

var categoryRenameCmd = &cobra.Command{
	Use:   "rename <name> <new-name>",
	Short: "Rename a category",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := openApp()
		if err != nil {
			return err
		}
		defer app.close()

		category, err := app.store.FindCategory(args[0])
		if err != nil {
			return err
		}
		renamed, err := app.store.RenameCategory(category.ID, args[1])
		if err != nil {
			return err
		}
		fmt.Printf("Renamed %q to %q\n", args[0], renamed.Name)
		return nil
	},
}

var categoryDeleteCmd = &cobra.Command{
	Use:     "delete <name>",
	Aliases: []string{"rm"},
	Short:   "Delete a category and every note in it",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := openApp()
		if err != nil {
			return err
		}
		defer app.close()

		category, err := app.store.FindCategory(args[0])
		if err != nil {
			return err
		}

		owned := len(app.store.GetByCategory(category.ID))
		if app.settings.ConfirmOnDelete && owned > 0 {
			fmt.Printf("Delete %q and its %d notes? [y/N] ", category.Name, owned)
			reader := bufio.NewReader(os.Stdin)
			answer, _ := reader.ReadString('\n')
			if !strings.HasPrefix(strings.ToLower(strings.TrimSpace(answer)), "y") {
				fmt.Println("Cancelled.")
				return nil
			}
		}

		app.store.DeleteCategory(category.ID)
		fmt.Printf("Deleted category %q (%d notes removed)\n", category.Name, owned)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(categoryCmd)
	categoryCmd.AddCommand(categoryLsCmd, categoryNewCmd, categoryRenameCmd, categoryDeleteCmd)
	categoryNewCmd.Flags().StringVar(&categoryColor, "color", "", "Category color")
}
