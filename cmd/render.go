package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"mailstackctl/internal/render"
	"mailstackctl/internal/sysd"
	"mailstackctl/pkg/logging"
)

// newRenderCmd creates the render command.
func newRenderCmd() *cobra.Command {
	var (
		outputRoot string
		dryRun     bool
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Write the stack's vendor configuration files from templates",
		Long: `Render the configuration files for Postfix, Dovecot, OpenDKIM, PostSRSD
and Nginx from the mail settings in the config file and write them to their
standard locations under the output root. Key material is never touched:
DKIM keys come from opendkim-genkey and certificates from certbot.

With --dry-run the rendered files are printed to stdout instead of written.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfigAndInitLogging(cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			if dryRun {
				for _, f := range render.Files() {
					content, err := render.Render(f.Template, cfg.Mail)
					if err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "# --- %s ---\n%s\n", f.DestPath, content)
				}
				return nil
			}

			if err := render.WriteAll(cfg.Mail, outputRoot); err != nil {
				return err
			}
			for _, f := range render.Files() {
				logging.Info("Render", "Wrote %s", f.DestPath)
			}

			// New unit config only takes effect after a reload; failure here
			// is not fatal since the next start-all reloads anyway.
			if outputRoot == "/" {
				if err := sysd.NewSystemctl().DaemonReload(cmd.Context()); err != nil {
					logging.Warn("Render", "daemon-reload failed: %v", err)
				}
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Rendered %d configuration files under %s\n", len(render.Files()), outputRoot)
			return nil
		},
	}

	cmd.Flags().StringVar(&outputRoot, "output-root", "/", "directory to write rendered files under")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print rendered files instead of writing them")
	return cmd
}
