package config

import (
	"mailstackctl/internal/orchestrator"
)

// MailstackConfig is the top-level configuration structure for mailstackctl.
// The service list and port map live here, not in runtime flags: a host's
// stack layout is configuration, not something retyped per invocation.
type MailstackConfig struct {
	GlobalSettings GlobalSettings             `yaml:"globalSettings"`
	Retry          orchestrator.RetryPolicy   `yaml:"retry"`
	Services       []orchestrator.ServiceSpec `yaml:"services"`
	Mail           MailSettings               `yaml:"mail"`
}

// GlobalSettings holds cross-cutting knobs.
type GlobalSettings struct {
	LogLevel string `yaml:"logLevel,omitempty"` // debug, info, warn, error
}

// MailSettings feeds the configuration renderer and the DNS record
// generator. Ports here are the stack's externally visible listeners; the
// orchestrator's per-service port specs are derived from the service list,
// not from these.
type MailSettings struct {
	Hostname      string `yaml:"hostname"`      // MX host, e.g. mail.example.org
	PrimaryDomain string `yaml:"primaryDomain"` // e.g. example.org
	TLSCertPath   string `yaml:"tlsCertPath"`
	TLSKeyPath    string `yaml:"tlsKeyPath"`
	DKIMSelector  string `yaml:"dkimSelector"`
	DKIMKeyDir    string `yaml:"dkimKeyDir"` // where opendkim-genkey wrote its output
	SRSDomain     string `yaml:"srsDomain,omitempty"`
	WebmailRoot   string `yaml:"webmailRoot,omitempty"` // document root for the nginx site
}

// ServiceNames returns the declared startup order.
func (c MailstackConfig) ServiceNames() []string {
	names := make([]string, 0, len(c.Services))
	for _, s := range c.Services {
		names = append(names, s.Name)
	}
	return names
}

// AllPorts flattens every declared port across the service list, preserving
// service order.
func (c MailstackConfig) AllPorts() []orchestrator.PortSpec {
	var out []orchestrator.PortSpec
	for _, s := range c.Services {
		out = append(out, s.Ports...)
	}
	return out
}
