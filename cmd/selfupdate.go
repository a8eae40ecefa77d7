package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/creativeprojects/go-selfupdate"
	"github.com/spf13/cobra"
)

const updateRepoSlug = "mailstack/mailstackctl"

// newSelfUpdateCmd creates the self-update command.
func newSelfUpdateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "self-update",
		Short: "Update mailstackctl to the latest released version",
		RunE: func(cmd *cobra.Command, args []string) error {
			return selfUpdate(cmd.Context(), rootCmd.Version, cmd.OutOrStdout())
		},
	}
}

// selfUpdate replaces the running binary with the latest release.
func selfUpdate(ctx context.Context, version string, out io.Writer) error {
	if version == "" || version == "dev" {
		return fmt.Errorf("cannot self-update a development version")
	}

	repo := selfupdate.ParseSlug(updateRepoSlug)
	latest, found, err := selfupdate.DetectLatest(ctx, repo)
	if err != nil {
		return fmt.Errorf("failed to check for updates: %w", err)
	}
	if !found || latest.LessOrEqual(version) {
		fmt.Fprintf(out, "Current version %s is the latest\n", version)
		return nil
	}

	release, err := selfupdate.UpdateSelf(ctx, version, repo)
	if err != nil {
		return fmt.Errorf("failed to update binary: %w", err)
	}

	fmt.Fprintf(out, "Successfully updated to version %s\n", release.Version())
	return nil
}
