package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/c0lornote/c0lornote/internal/autosave"
	"github.com/c0lornote/c0lornote/internal/config"
	"github.com/c0lornote/c0lornote/internal/errors"
	"github.com/c0lornote/c0lornote/internal/logging"
	"github.com/c0lornote/c0lornote/internal/models"
	"github.com/c0lornote/c0lornote/internal/persist"
	"github.com/c0lornote/c0lornote/internal/store"
)

var (
	configDir string
	verbose   bool
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "c0lornote",
	Short: "A colorful note-taking application",
	Long: `C0lorNote keeps rich-text and code notes organized with categories,
tags and pinning, persisted to a JSON file or an embedded SQLite database.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "",
		"Config directory (default: the user config dir)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"Enable debug logging")
}

// app wires settings, the persistence adapter, the note store and the
// autosave loop together for the duration of one command.
type app struct {
	dir      string
	settings *config.Settings
	adapter  persist.Adapter
	store    *store.Store
	saver    *autosave.Saver
}

func openApp() (*app, error) {
	dir, err := settingsDir()
	if err != nil {
		return nil, err
	}

	settings, err := config.Load(dir)
	if err != nil {
		// Malformed settings are reported but never block startup.
		fmt.Fprintf(os.Stderr, "warning: %v (using defaults)\n", err)
	}

	level := logging.ParseLevel(settings.LogLevel)
	if verbose {
		level = logging.LevelDebug
	}
	if err := logging.InitFile(dir, level); err != nil {
		logging.Init(os.Stderr, level)
	}

	backup := persist.BackupOptions{
		Enabled: settings.EnableBackups,
		Dir:     settings.BackupDirectory,
		Max:     settings.MaxBackups,
	}

	var adapter persist.Adapter
	switch settings.StorageBackend {
	case config.BackendSQLite:
		adapter, err = persist.OpenSQLite(settings.DataDir, backup)
		if err != nil {
			return nil, err
		}
	default:
		adapter = persist.NewJSONAdapter(settings.DataDir, backup)
	}

	snap, err := loadState(adapter)
	if err != nil {
		adapter.Close()
		return nil, err
	}

	st := store.New()
	st.Restore(snap)

	saver := autosave.New(st, adapter,
		time.Duration(settings.AutosaveIntervalSeconds)*time.Second)
	saver.Start(context.Background())

	return &app{
		dir:      dir,
		settings: settings,
		adapter:  adapter,
		store:    st,
		saver:    saver,
	}, nil
}

// close stops the autosave loop, which performs the final save of any
// unsaved changes, then releases the adapter. A failed save never loses the
// command's exit status; it is reported on stderr.
func (a *app) close() {
	a.saver.Stop()
	if a.store.Dirty() {
		fmt.Fprintln(os.Stderr, "warning: failed to save changes; they were not persisted")
	}
	if err := a.adapter.Close(); err != nil {
		logging.Error("cannot close storage", err, nil)
	}
	logging.Get().Close()
}

// loadState reads the durable state, falling back to the seed content when
// the store is corrupt or unreadable. The damaged file is left in place for
// the user to inspect.
func loadState(adapter persist.Adapter) (*store.Snapshot, error) {
	snap, err := adapter.Load()
	if err == nil {
		return snap, nil
	}
	if !errors.Is(err, errors.ErrCorruptStore) && !errors.Is(err, errors.ErrPersistence) {
		return nil, err
	}
	fmt.Fprintf(os.Stderr, "warning: stored notes are unreadable, starting fresh: %v\n", err)
	logging.Error("unreadable store, falling back to seed content", err, nil)
	return persist.Seed(), nil
}

// resolveNote finds a note by full ID or unique ID prefix.
func resolveNote(st *store.Store, arg string) (*models.Note, error) {
	if note, err := st.GetNote(models.UUID(arg)); err == nil {
		return note, nil
	}

	var matches []*models.Note
	for _, note := range st.GetAll() {
		if strings.HasPrefix(string(note.ID), arg) {
			matches = append(matches, note)
		}
	}
	switch len(matches) {
	case 1:
		return matches[0], nil
	case 0:
		return nil, errors.Newf(errors.ErrNoteNotFound, "no note matches %q", arg)
	default:
		return nil, errors.Newf(errors.ErrValidation, "%q is ambiguous (%d notes match)", arg, len(matches))
	}
}

func printNoteLine(note *models.Note, showTimestamps bool) {
	pin := " "
	if note.Pinned {
		pin = "*"
	}
	kind := "text"
	if note.IsCode {
		kind = "code"
	}
	if showTimestamps {
		fmt.Printf("%s %-8s %s %s  %s\n",
			pin, string(note.ID)[:8], kind,
			note.ModifiedAt.Local().Format("2006-01-02 15:04"),
			note.DisplayTitle())
		return
	}
	fmt.Printf("%s %-8s %s  %s\n", pin, string(note.ID)[:8], kind, note.DisplayTitle())
}
