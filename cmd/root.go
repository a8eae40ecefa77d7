package cmd

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"mailstackctl/internal/config"
	"mailstackctl/pkg/logging"
)

var logLevelFlag string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "mailstackctl",
	Short: "Bring a Postfix/Dovecot mail stack into a running, port-bound state",
	Long: `mailstackctl manages the daemons of a Debian/Ubuntu mail server stack
(Postfix, Dovecot, OpenDKIM, PostSRSD, Nginx): it starts them in dependency
order, waits until their ports are actually bound, falls back to direct
process launch when the service manager fails, and reports a structured
result. It also renders the stack's vendor configuration files and prints
the DNS records the stack needs.`,
	// SilenceUsage is set to true to prevent printing usage message on errors
	// handled by us (e.g. failed service starts)
	SilenceUsage: true,
}

// SetVersion sets the version for the root command
func SetVersion(v string) {
	rootCmd.Version = v
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "mailstackctl version %s\n" .Version}}`)

	err := rootCmd.Execute()
	if err != nil {
		// Cobra prints the error, we just exit non-zero
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "", "log level (debug, info, warn, error); overrides config")

	rootCmd.AddCommand(newStartAllCmd())
	rootCmd.AddCommand(newStopAllCmd())
	rootCmd.AddCommand(newRestartAllCmd())
	rootCmd.AddCommand(newStatusCmd())
	rootCmd.AddCommand(newFixPortsCmd())
	rootCmd.AddCommand(newRenderCmd())
	rootCmd.AddCommand(newDNSCmd())
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newSelfUpdateCmd())
}

// loadConfigAndInitLogging is the shared preamble for every subcommand.
func loadConfigAndInitLogging(output io.Writer) (config.MailstackConfig, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return config.MailstackConfig{}, err
	}

	level := cfg.GlobalSettings.LogLevel
	if logLevelFlag != "" {
		level = logLevelFlag
	}
	logging.InitForCLI(parseLogLevel(level), output)
	return cfg, nil
}

func parseLogLevel(s string) logging.LogLevel {
	switch s {
	case "debug":
		return logging.LevelDebug
	case "warn":
		return logging.LevelWarn
	case "error":
		return logging.LevelError
	default:
		return logging.LevelInfo
	}
}
