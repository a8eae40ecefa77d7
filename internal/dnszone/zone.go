// Package dnszone produces the DNS records a freshly configured mail stack
// needs. It only prints what the operator must publish; nothing here talks
// to a DNS server.
package dnszone

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"mailstackctl/internal/config"
)

// Record is one DNS record the operator needs to publish.
type Record struct {
	Name  string
	TTL   int
	Type  string
	Value string
}

const defaultTTL = 300

// Records builds the record set for the stack. dkimTXT is the raw DKIM TXT
// value (from LoadDKIMRecord); when empty, a placeholder is emitted so the
// zone output stays complete.
func Records(s config.MailSettings, dkimTXT string) []Record {
	if dkimTXT == "" {
		dkimTXT = "v=DKIM1; k=rsa; p=<run opendkim-genkey first>"
	}

	domain := s.PrimaryDomain
	return []Record{
		{Name: domain + ".", TTL: defaultTTL, Type: "MX", Value: "10 " + s.Hostname + "."},
		{Name: domain + ".", TTL: defaultTTL, Type: "TXT", Value: `"v=spf1 mx ~all"`},
		{Name: fmt.Sprintf("%s._domainkey.%s.", s.DKIMSelector, domain), TTL: defaultTTL, Type: "TXT", Value: fmt.Sprintf("%q", dkimTXT)},
		{Name: "_dmarc." + domain + ".", TTL: defaultTTL, Type: "TXT", Value: `"v=DMARC1; p=quarantine; adkim=s; aspf=s"`},
		{Name: "_mta-sts." + domain + ".", TTL: defaultTTL, Type: "TXT", Value: fmt.Sprintf(`"v=STSv1; id=%s"`, time.Now().Format("20060102150405"))},
		{Name: "mta-sts." + domain + ".", TTL: defaultTTL, Type: "CNAME", Value: s.Hostname + "."},
	}
}

// ZoneText renders the records as zone-file lines ready to paste into a DNS
// provider.
func ZoneText(records []Record) string {
	var b strings.Builder
	for _, r := range records {
		b.WriteString(fmt.Sprintf("%-40s %d IN %-6s %s\n", r.Name, r.TTL, r.Type, r.Value))
	}
	return b.String()
}

// LoadDKIMRecord reads the TXT value from the file opendkim-genkey wrote
// (<keydir>/<domain>/<selector>.txt).
func LoadDKIMRecord(s config.MailSettings) (string, error) {
	path := filepath.Join(s.DKIMKeyDir, s.PrimaryDomain, s.DKIMSelector+".txt")
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read DKIM record file %s: %w", path, err)
	}
	return ParseDKIMRecordFile(string(data))
}

// ParseDKIMRecordFile extracts the TXT value from opendkim-genkey output,
// which splits the record across multiple quoted chunks inside parentheses.
func ParseDKIMRecordFile(content string) (string, error) {
	var parts []string
	rest := content
	for {
		start := strings.Index(rest, `"`)
		if start < 0 {
			break
		}
		rest = rest[start+1:]
		end := strings.Index(rest, `"`)
		if end < 0 {
			return "", fmt.Errorf("unterminated quote in DKIM record file")
		}
		parts = append(parts, rest[:end])
		rest = rest[end+1:]
	}

	if len(parts) == 0 {
		return "", fmt.Errorf("no TXT value found in DKIM record file")
	}
	joined := strings.Join(parts, "")
	if !strings.Contains(joined, "v=DKIM1") {
		return "", fmt.Errorf("DKIM record file does not contain a v=DKIM1 value")
	}
	return joined, nil
}
