// Package render generates the vendor configuration files for the mail
// stack from embedded templates. Key material is never generated here;
// DKIM keys stay delegated to opendkim-genkey and certificates to certbot.
package render

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"mailstackctl/internal/config"
)

//go:embed templates/*.tmpl
var templatesFS embed.FS

// ConfigFile pairs a template with its destination on the host.
type ConfigFile struct {
	Template string      // file name under templates/
	DestPath string      // destination relative to the output root
	Mode     os.FileMode // destination permissions
}

// Files returns the full set of rendered configuration files in render
// order.
func Files() []ConfigFile {
	return []ConfigFile{
		{Template: "postfix_main.cf.tmpl", DestPath: "etc/postfix/main.cf", Mode: 0o644},
		{Template: "dovecot.conf.tmpl", DestPath: "etc/dovecot/dovecot.conf", Mode: 0o644},
		{Template: "opendkim.conf.tmpl", DestPath: "etc/opendkim.conf", Mode: 0o644},
		{Template: "postsrsd.tmpl", DestPath: "etc/default/postsrsd", Mode: 0o644},
		{Template: "nginx_site.tmpl", DestPath: "etc/nginx/sites-available/mailstack.conf", Mode: 0o644},
	}
}

// Render executes one template against the mail settings.
func Render(templateName string, settings config.MailSettings) (string, error) {
	raw, err := templatesFS.ReadFile("templates/" + templateName)
	if err != nil {
		return "", fmt.Errorf("unknown template %s: %w", templateName, err)
	}

	tmpl, err := template.New(templateName).Parse(string(raw))
	if err != nil {
		return "", fmt.Errorf("failed to parse template %s: %w", templateName, err)
	}

	var buf strings.Builder
	if err := tmpl.Execute(&buf, settings); err != nil {
		return "", fmt.Errorf("failed to execute template %s: %w", templateName, err)
	}
	return buf.String(), nil
}

// WriteAll renders every configuration file under the given root
// (normally "/"). Parent directories are created as needed.
func WriteAll(settings config.MailSettings, root string) error {
	for _, f := range Files() {
		content, err := Render(f.Template, settings)
		if err != nil {
			return err
		}

		dest := filepath.Join(root, f.DestPath)
		if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
			return fmt.Errorf("failed to create directory for %s: %w", dest, err)
		}
		if err := os.WriteFile(dest, []byte(content), f.Mode); err != nil {
			return fmt.Errorf("failed to write %s: %w", dest, err)
		}
	}
	return nil
}
