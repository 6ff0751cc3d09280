package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/profile-editor/internal/config"
	"github.com/jonathan/profile-editor/internal/storage"
	"github.com/spf13/cobra"
)

var (
	resetSessionID  string
	resetConfigPath string
	resetContactToo bool
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Clear the stored profile of a session",
	Long: `Removes the stored profile of one browser session. The next page load of that browser
fetches the default profile again. With --contact the saved contact record is removed too.`,
	RunE: runReset,
}

func init() {
	resetCmd.Flags().StringVar(&resetSessionID, "session", "", "Session ID (required)")
	resetCmd.Flags().StringVar(&resetConfigPath, "config", "", "Path to config.json file")
	resetCmd.Flags().BoolVar(&resetContactToo, "contact", false, "Also remove the saved contact record")
	_ = resetCmd.MarkFlagRequired("session")
	rootCmd.AddCommand(resetCmd)
}

func runReset(cmd *cobra.Command, _ []string) error {
	id, err := uuid.Parse(resetSessionID)
	if err != nil {
		return fmt.Errorf("invalid session ID: %w", err)
	}

	backend, err := openConfiguredBackend(cmd.Context(), resetConfigPath)
	if err != nil {
		return err
	}
	defer backend.Close() //nolint:errcheck

	return resetSession(cmd.Context(), backend, id, resetContactToo, cmd.OutOrStdout())
}

func resetSession(ctx context.Context, backend storage.Backend, id uuid.UUID, contactToo bool, w io.Writer) error {
	st := storage.ForSession(backend, id)

	keys := []string{storage.ProfileDataKey}
	if contactToo {
		keys = append(keys, storage.ContactFormDataKey)
	}
	for _, key := range keys {
		if err := st.Remove(ctx, key); err != nil {
			return err
		}
		fmt.Fprintf(w, "Removed %s for session %s\n", key, id)
	}
	return nil
}

// openConfiguredBackend opens the backend from the environment and optional config file.
func openConfiguredBackend(ctx context.Context, configPath string) (storage.Backend, error) {
	cfg, err := resolveConfig(configPath)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.StorageBackend == config.BackendMemory {
		return nil, fmt.Errorf("the memory backend keeps no data outside the server process")
	}

	sessionCfg, err := config.NewSessionConfig()
	if err != nil {
		return nil, err
	}
	return openBackend(ctx, cfg, time.Duration(sessionCfg.TTLHours)*time.Hour)
}
