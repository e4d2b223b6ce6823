package loader

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/simplestation/ssu/kernel/provider"
	"github.com/simplestation/ssu/kernel/proxyconf"
	"gopkg.in/yaml.v2"
)

type ValidationIssue struct {
	Path    string
	Message string
}

func (i ValidationIssue) String() string {
	return fmt.Sprintf("%s: %s", i.Path, i.Message)
}

type ValidationResult struct {
	Config   *Config
	Errors   []ValidationIssue
	Warnings []ValidationIssue
}

func (r *ValidationResult) IsValid() bool {
	return len(r.Errors) == 0
}

func (r *ValidationResult) addError(path, format string, args ...interface{}) {
	r.Errors = append(r.Errors, ValidationIssue{Path: path, Message: fmt.Sprintf(format, args...)})
}

func (r *ValidationResult) addWarning(path, format string, args ...interface{}) {
	r.Warnings = append(r.Warnings, ValidationIssue{Path: path, Message: fmt.Sprintf(format, args...)})
}

// ValidateConfigBytes parses data strictly and checks every field. The
// returned error is only set when the YAML itself cannot be parsed.
func ValidateConfigBytes(data []byte) (*ValidationResult, error) {
	cfg := &Config{}
	if err := yaml.UnmarshalStrict(data, cfg); err != nil {
		return nil, err
	}
	result := &ValidationResult{Config: cfg}

	if strings.TrimSpace(string(data)) == "" {
		result.addWarning("", "config file is empty")
		return result, nil
	}

	if cfg.Provider != "" && !knownProvider(cfg.Provider) {
		result.addError("provider", "unknown provider '%s' (known: %s)", cfg.Provider, strings.Join(provider.Names(), ", "))
	}
	if cfg.Endpoint != "" {
		if u, err := url.Parse(cfg.Endpoint); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			result.addError("endpoint", "'%s' is not an http(s) URL", cfg.Endpoint)
		}
	}

	set := 0
	for _, v := range []string{cfg.Token, cfg.TokenFile, cfg.TokenSecret} {
		if v != "" {
			set++
		}
	}
	if set > 1 {
		result.addError("token", "only one of token, token_file and token_secret may be set")
	}
	if cfg.Token != "" {
		result.addWarning("token", "token stored in plain text, prefer token_file or token_secret")
	}
	if cfg.TokenSecret != "" && !strings.HasPrefix(cfg.TokenSecret, "arn:") {
		result.addError("token_secret", "'%s' is not an ARN", cfg.TokenSecret)
	}

	validateTelemetry(cfg, result)
	validateProxy(cfg, result)
	return result, nil
}

func validateTelemetry(cfg *Config, result *ValidationResult) {
	t := cfg.Telemetry
	if !t.Enabled() {
		if t.Org != "" || t.Bucket != "" || t.Token != "" {
			result.addWarning("telemetry.url", "telemetry settings given without url, telemetry stays disabled")
		}
		return
	}
	if u, err := url.Parse(t.URL); err != nil || u.Host == "" {
		result.addError("telemetry.url", "'%s' is not a valid URL", t.URL)
	}
	if t.Org == "" {
		result.addError("telemetry.org", "required when telemetry.url is set")
	}
	if t.Bucket == "" {
		result.addError("telemetry.bucket", "required when telemetry.url is set")
	}
}

func validateProxy(cfg *Config, result *ValidationResult) {
	p := cfg.Proxy
	if p.Upstream != "" && strings.ContainsAny(p.Upstream, "/ ") {
		result.addError("proxy.upstream", "'%s' must be a bare host or address", p.Upstream)
	}
	if p.Domain != "" && (strings.HasPrefix(p.Domain, ".") || strings.Contains(p.Domain, " ")) {
		result.addError("proxy.domain", "'%s' is not a domain name", p.Domain)
	}
	if p.Upload != "" {
		if _, err := proxyconf.ParseTarget(p.Upload); err != nil {
			result.addError("proxy.upload", "%v", err)
		}
	}
	if p.Identity != "" && p.Upload == "" {
		result.addWarning("proxy.identity", "identity has no effect without proxy.upload")
	}
}

func knownProvider(name string) bool {
	for _, n := range provider.Names() {
		if n == name {
			return true
		}
	}
	return false
}
