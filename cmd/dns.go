package cmd

import (
	"fmt"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"mailstackctl/internal/dnszone"
	"mailstackctl/pkg/logging"
)

// newDNSCmd creates the dns command.
func newDNSCmd() *cobra.Command {
	var copyToClipboard bool

	cmd := &cobra.Command{
		Use:   "dns",
		Short: "Print the DNS records the mail stack needs",
		Long: `Print the MX, SPF, DKIM, DMARC and MTA-STS records for the configured
domain as zone-file lines ready to paste into a DNS provider. The DKIM TXT
value is read from the file opendkim-genkey wrote; when it is missing a
placeholder is printed instead so the record set stays complete.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfigAndInitLogging(cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			dkimTXT, err := dnszone.LoadDKIMRecord(cfg.Mail)
			if err != nil {
				logging.Warn("DNS", "DKIM record unavailable, printing placeholder: %v", err)
				dkimTXT = ""
			}

			zone := dnszone.ZoneText(dnszone.Records(cfg.Mail, dkimTXT))
			fmt.Fprint(cmd.OutOrStdout(), zone)

			if copyToClipboard {
				if err := clipboard.WriteAll(zone); err != nil {
					return fmt.Errorf("failed to copy records to clipboard: %w", err)
				}
				fmt.Fprintln(cmd.ErrOrStderr(), "Records copied to clipboard")
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&copyToClipboard, "copy", "c", false, "also copy the records to the clipboard")
	return cmd
}
