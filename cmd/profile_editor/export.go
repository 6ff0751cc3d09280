package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/jonathan/profile-editor/internal/contact"
	"github.com/jonathan/profile-editor/internal/profile"
	"github.com/jonathan/profile-editor/internal/storage"
	"github.com/jonathan/profile-editor/internal/types"
	"github.com/spf13/cobra"
)

var (
	exportSessionID  string
	exportConfigPath string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Print the stored profile and contact record of a session",
	Long: `Reads the storage of one browser session and prints it as JSON.

Values that are missing or malformed are printed as null. A storage read error fails the command.`,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportSessionID, "session", "", "Session ID (required)")
	exportCmd.Flags().StringVar(&exportConfigPath, "config", "", "Path to config.json file")
	_ = exportCmd.MarkFlagRequired("session")
	rootCmd.AddCommand(exportCmd)
}

// SessionExport is the JSON printed by the export command.
type SessionExport struct {
	Session uuid.UUID            `json:"session"`
	Profile *types.ProfileData   `json:"profile"`
	Contact *types.ContactRecord `json:"contact"`
}

func runExport(cmd *cobra.Command, _ []string) error {
	id, err := uuid.Parse(exportSessionID)
	if err != nil {
		return fmt.Errorf("invalid session ID: %w", err)
	}

	backend, err := openConfiguredBackend(cmd.Context(), exportConfigPath)
	if err != nil {
		return err
	}
	defer backend.Close() //nolint:errcheck

	return exportSession(cmd.Context(), backend, id, cmd.OutOrStdout())
}

func exportSession(ctx context.Context, backend storage.Backend, id uuid.UUID, w io.Writer) error {
	st := storage.ForSession(backend, id)
	out := SessionExport{Session: id}

	store := profile.NewStore(st, nil)
	hydrated, err := store.Hydrate(ctx)
	if err != nil {
		return err
	}
	if hydrated {
		data := store.Snapshot()
		out.Profile = &data
	}

	record, err := contact.NewService(st, nil).Load(ctx)
	if err != nil {
		return err
	}
	out.Contact = record

	encoded, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal export: %w", err)
	}
	_, err = fmt.Fprintln(w, string(encoded))
	return err
}
