package dnszone

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
		DKIMSelector:  "mail",
		DKIMKeyDir:    "/etc/opendkim/keys",
	}
}

const genkeyOutput = `mail._domainkey	IN	TXT	( "v=DKIM1; h=sha256; k=rsa; "
	  "p=MIIBIjANBgkqhkiG9w0BAQEFAAOCAQ8AMIIBCgKCAQEA"
	  "1234567890abcdef" )  ; ----- DKIM key mail for example.org
`

func TestParseDKIMRecordFile(t *testing.T) {
	value, err := ParseDKIMRecordFile(genkeyOutput)

	require.NoError(t, err)
	assert.Equal(t, "v=DKIM1; h=sha256; k=rsa; p=MIIBIjANBgkqhkiG9w0BAQEFAAOCAQ8AMIIBCgKCAQEA1234567890abcdef", value)
}

func TestParseDKIMRecordFileRejectsGarbage(t *testing.T) {
	_, err := ParseDKIMRecordFile("no quotes here")
	require.Error(t, err)

	_, err = ParseDKIMRecordFile(`"k=rsa only, no version tag"`)
	require.Error(t, err)
}

func TestLoadDKIMRecord(t *testing.T) {
	dir := t.TempDir()
	s := testSettings()
	s.DKIMKeyDir = dir
	keyDir := filepath.Join(dir, "example.org")
	require.NoError(t, os.MkdirAll(keyDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(keyDir, "mail.txt"), []byte(genkeyOutput), 0o644))

	value, err := LoadDKIMRecord(s)

	require.NoError(t, err)
	assert.Contains(t, value, "v=DKIM1")

	s.DKIMSelector = "missing"
	_, err = LoadDKIMRecord(s)
	require.Error(t, err)
}

func TestRecordsAndZoneText(t *testing.T) {
	records := Records(testSettings(), "v=DKIM1; k=rsa; p=abc")

	zone := ZoneText(records)

	assert.Contains(t, zone, "example.org.")
	assert.Contains(t, zone, "MX     10 mail.example.org.")
	assert.Contains(t, zone, `"v=spf1 mx ~all"`)
	assert.Contains(t, zone, "mail._domainkey.example.org.")
	assert.Contains(t, zone, `"v=DKIM1; k=rsa; p=abc"`)
	assert.Contains(t, zone, "_dmarc.example.org.")
	assert.Contains(t, zone, "v=STSv1")
	assert.Contains(t, zone, "CNAME  mail.example.org.")
}

func TestRecordsPlaceholderWithoutDKIM(t *testing.T) {
	records := Records(testSettings(), "")
	zone := ZoneText(records)
	assert.Contains(t, zone, "opendkim-genkey")
}
