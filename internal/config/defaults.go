package config

import (
	"mailstackctl/internal/orchestrator"
)

// GetDefaultConfig returns the stock Debian/Ubuntu mail stack layout.
// Postfix, Dovecot and OpenDKIM are essential: without transport, mailbox
// access or DKIM signing the host is not a functioning mail server. PostSRSD
// and Nginx are optional tiers whose failure is reported but does not block
// the rest of the stack.
func GetDefaultConfig() MailstackConfig {
	return MailstackConfig{
		GlobalSettings: GlobalSettings{
			LogLevel: "info",
		},
		Retry: orchestrator.DefaultRetryPolicy(),
		Services: []orchestrator.ServiceSpec{
			{
				Name:      "opendkim",
				Essential: true,
				Ports: []orchestrator.PortSpec{
					{Port: 8891, Label: "DKIM milter"},
				},
				Fallback: &orchestrator.FallbackSpec{
					Command: "/usr/sbin/opendkim",
					Args:    []string{"-x", "/etc/opendkim.conf"},
				},
				KillPattern: "/usr/sbin/opendkim",
			},
			{
				Name:      "dovecot",
				Essential: true,
				Ports: []orchestrator.PortSpec{
					{Port: 143, Label: "IMAP"},
					{Port: 993, Label: "IMAPS"},
				},
				Fallback: &orchestrator.FallbackSpec{
					Command: "/usr/sbin/dovecot",
				},
				KillPattern: "/usr/sbin/dovecot",
			},
			{
				// Postfix starts after Dovecot and OpenDKIM: it consumes
				// Dovecot's SASL socket and the DKIM milter on 8891.
				Name:      "postfix",
				Essential: true,
				Ports: []orchestrator.PortSpec{
					{Port: 25, Label: "SMTP"},
					{Port: 587, Label: "Submission"},
					{Port: 465, Label: "SMTPS"},
				},
				Fallback: &orchestrator.FallbackSpec{
					Command: "/usr/lib/postfix/sbin/master",
					Args:    []string{"-d"},
				},
				KillPattern: "postfix/sbin/master",
			},
			{
				Name:      "postsrsd",
				Essential: false,
				Ports: []orchestrator.PortSpec{
					{Port: 10001, Label: "SRS forward"},
					{Port: 10002, Label: "SRS reverse"},
				},
				KillPattern: "postsrsd",
			},
			{
				Name:      "nginx",
				Essential: false,
				Ports: []orchestrator.PortSpec{
					{Port: 80, Label: "HTTP"},
					{Port: 443, Label: "HTTPS"},
				},
			},
		},
		Mail: MailSettings{
			Hostname:      "mail.example.org",
			PrimaryDomain: "example.org",
			TLSCertPath:   "/etc/letsencrypt/live/mail.example.org/fullchain.pem",
			TLSKeyPath:    "/etc/letsencrypt/live/mail.example.org/privkey.pem",
			DKIMSelector:  "mail",
			DKIMKeyDir:    "/etc/opendkim/keys",
		},
	}
}
