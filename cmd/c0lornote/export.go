package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/c0lornote/c0lornote/internal/persist"
)

var exportOut string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export all notes as a JSON document",
	Long: `Write the full store as one JSON document, in the same shape the
JSON storage backend uses, to a file or stdout.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := openApp()
		if err != nil {
			return err
		}
		defer app.close()

		data, err := persist.EncodeSnapshot(app.store.Snapshot())
		if err != nil {
			return err
		}

		if exportOut == "" || exportOut == "-" {
			fmt.Println(string(data))
			return nil
		}
		if err := os.WriteFile(exportOut, data, 0644); err != nil {
			return err
		}
		fmt.Printf("Exported to %s\n", exportOut)
		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Replace all notes with a previously exported JSON document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		snap, err := persist.DecodeSnapshot(data)
		if err != nil {
			return err
		}

		app, err := openApp()
		if err != nil {
			return err
		}
		defer app.close()

		app.store.Restore(snap)
		app.store.MarkDirty()
		fmt.Printf("Imported %d notes, %d categories, %d tags\n",
			len(snap.Notes), len(snap.Categories), len(snap.Tags))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd, importCmd)
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "Output file (default stdout)")
}
