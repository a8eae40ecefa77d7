package render

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mailstackctl/internal/config"
)

func testSettings() config.MailSettings {
	return config.MailSettings{
		Hostname:      "mail.example.org",
		PrimaryDomain: "example.org",
		TLSCertPath:   "/etc/letsencrypt/live/mail.example.org/fullchain.pem",
		TLSKeyPath:    "/etc/letsencrypt/live/mail.example.org/privkey.pem",
		DKIMSelector:  "mail",
		DKIMKeyDir:    "/etc/opendkim/keys",
	}
}

func TestRenderPostfixMainCf(t *testing.T) {
	out, err := Render("postfix_main.cf.tmpl", testSettings())

	require.NoError(t, err)
	assert.Contains(t, out, "myhostname = mail.example.org")
	assert.Contains(t, out, "mydomain = example.org")
	assert.Contains(t, out, "smtpd_milters = inet:localhost:8891")
	assert.Contains(t, out, "tcp:localhost:10001")
	assert.Contains(t, out, "smtpd_tls_cert_file = /etc/letsencrypt/live/mail.example.org/fullchain.pem")
}

func TestRenderOpenDKIMConf(t *testing.T) {
	out, err := Render("opendkim.conf.tmpl", testSettings())

	require.NoError(t, err)
	assert.Contains(t, out, "Domain\t\t\texample.org")
	assert.Contains(t, out, "Selector\t\tmail")
	assert.Contains(t, out, "KeyFile\t\t\t/etc/opendkim/keys/example.org/mail.private")
	assert.Contains(t, out, "Socket\t\t\tinet:8891@localhost")
}

func TestRenderPostsrsdDefaultsToPrimaryDomain(t *testing.T) {
	out, err := Render("postsrsd.tmpl", testSettings())
	require.NoError(t, err)
	assert.Contains(t, out, "SRS_DOMAIN=example.org")

	s := testSettings()
	s.SRSDomain = "srs.example.org"
	out, err = Render("postsrsd.tmpl", s)
	require.NoError(t, err)
	assert.Contains(t, out, "SRS_DOMAIN=srs.example.org")
}

func TestRenderNginxSiteServesMTASTS(t *testing.T) {
	out, err := Render("nginx_site.tmpl", testSettings())

	require.NoError(t, err)
	assert.Contains(t, out, "server_name mta-sts.example.org;")
	assert.Contains(t, out, "mx: mail.example.org")
	assert.NotContains(t, out, "root ", "no webmail block without a configured root")

	s := testSettings()
	s.WebmailRoot = "/var/www/webmail"
	out, err = Render("nginx_site.tmpl", s)
	require.NoError(t, err)
	assert.Contains(t, out, "root /var/www/webmail;")
}

func TestRenderUnknownTemplate(t *testing.T) {
	_, err := Render("missing.tmpl", testSettings())
	require.Error(t, err)
}

func TestWriteAll(t *testing.T) {
	root := t.TempDir()

	require.NoError(t, WriteAll(testSettings(), root))

	for _, f := range Files() {
		path := filepath.Join(root, f.DestPath)
		info, err := os.Stat(path)
		require.NoError(t, err, "expected %s to exist", path)
		assert.Equal(t, f.Mode, info.Mode().Perm())
	}

	data, err := os.ReadFile(filepath.Join(root, "etc/postfix/main.cf"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "mail.example.org")
}
