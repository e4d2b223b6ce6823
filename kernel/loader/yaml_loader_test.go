package loader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
)

func TestLoadConfig_Basic(t *testing.T) {
	yaml := `
provider: hetzner
endpoint: https://api.example.net/v1
token_file: /run/secrets/hcloud

telemetry:
  url: http://localhost:8086
  org: simplestation
  bucket: ssu

proxy:
  upstream: 10.0.0.5
  domain: example.net
  upload: root@proxy.example.net:/etc/nginx/sites-enabled/ssu.conf
  identity: /home/ops/.ssh/proxy
`
	path := writeTempYaml(t, yaml)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Provider != "hetzner" {
		t.Errorf("expected provider 'hetzner', got '%s'", cfg.Provider)
	}
	if cfg.TokenFile != "/run/secrets/hcloud" {
		t.Errorf("expected token_file '/run/secrets/hcloud', got '%s'", cfg.TokenFile)
	}
	if !cfg.Telemetry.Enabled() {
		t.Error("telemetry should be enabled")
	}
	if cfg.Telemetry.Bucket != "ssu" {
		t.Errorf("expected bucket 'ssu', got '%s'", cfg.Telemetry.Bucket)
	}
	if cfg.Proxy.Domain != "example.net" {
		t.Errorf("expected proxy domain 'example.net', got '%s'", cfg.Proxy.Domain)
	}
}

func TestLoadConfig_Invalid(t *testing.T) {
	path := writeTempYaml(t, "provider: aws\n")

	_, err := LoadConfig(path)
	if err == nil {
		t.Fatal("expected error for unknown provider")
	}
}

func TestLoadConfig_FileNotFound(t *testing.T) {
	_, err := LoadConfig("/nonexistent/config.yml")
	if err == nil {
		t.Fatal("expected error for nonexistent file")
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected os.ErrNotExist, got %v", err)
	}
}

func TestDefaultConfigPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")

	if got := DefaultConfigPath(); got != "/tmp/xdg/ssu/config.yml" {
		t.Errorf("expected '/tmp/xdg/ssu/config.yml', got '%s'", got)
	}
}

func writeTempYaml(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write temp file: %v", err)
	}
	return path
}

// Validation Tests

func TestValidateConfig_Valid(t *testing.T) {
	yaml := `
provider: memory
token_secret: arn:aws:secretsmanager:eu-central-1:123456789012:secret:ssu
`
	result, err := ValidateConfigBytes([]byte(yaml))
	if err != nil {
		t.Fatalf("ValidateConfigBytes failed: %v", err)
	}

	if !result.IsValid() {
		t.Errorf("expected valid config, got errors: %v", result.Errors)
	}
	if len(result.Warnings) != 0 {
		t.Errorf("expected no warnings, got %v", result.Warnings)
	}
}

func TestValidateConfig_UnknownProvider(t *testing.T) {
	result, err := ValidateConfigBytes([]byte("provider: aws\n"))
	if err != nil {
		t.Fatalf("ValidateConfigBytes failed: %v", err)
	}

	if !hasIssue(result.Errors, "provider") {
		t.Error("expected error for provider path")
	}
}

func TestValidateConfig_InvalidEndpoint(t *testing.T) {
	result, err := ValidateConfigBytes([]byte("endpoint: api.example.net\n"))
	if err != nil {
		t.Fatalf("ValidateConfigBytes failed: %v", err)
	}

	if !hasIssue(result.Errors, "endpoint") {
		t.Error("expected error for endpoint path")
	}
}

func TestValidateConfig_SeveralTokenSources(t *testing.T) {
	yaml := `
token: abc
token_file: /run/secrets/hcloud
`
	result, err := ValidateConfigBytes([]byte(yaml))
	if err != nil {
		t.Fatalf("ValidateConfigBytes failed: %v", err)
	}

	if result.IsValid() {
		t.Error("expected validation errors for several token sources")
	}
	if !hasIssue(result.Warnings, "token") {
		t.Error("expected warning for plain text token")
	}
}

func TestValidateConfig_TokenSecretNotArn(t *testing.T) {
	result, err := ValidateConfigBytes([]byte("token_secret: my-secret\n"))
	if err != nil {
		t.Fatalf("ValidateConfigBytes failed: %v", err)
	}

	if !hasIssue(result.Errors, "token_secret") {
		t.Error("expected error for token_secret path")
	}
}

func TestValidateConfig_IncompleteTelemetry(t *testing.T) {
	yaml := `
telemetry:
  url: http://localhost:8086
  org: simplestation
`
	result, err := ValidateConfigBytes([]byte(yaml))
	if err != nil {
		t.Fatalf("ValidateConfigBytes failed: %v", err)
	}

	if !hasIssue(result.Errors, "telemetry.bucket") {
		t.Error("expected error for telemetry.bucket path")
	}
	if hasIssue(result.Errors, "telemetry.org") {
		t.Error("telemetry.org is set and should not be reported")
	}
}

func TestValidateConfig_TelemetryWithoutUrl(t *testing.T) {
	yaml := `
telemetry:
  bucket: ssu
`
	result, err := ValidateConfigBytes([]byte(yaml))
	if err != nil {
		t.Fatalf("ValidateConfigBytes failed: %v", err)
	}

	if !result.IsValid() {
		t.Errorf("expected valid config, got errors: %v", result.Errors)
	}
	if !hasIssue(result.Warnings, "telemetry.url") {
		t.Error("expected warning for telemetry.url path")
	}
}

func TestValidateConfig_BadUploadTarget(t *testing.T) {
	yaml := `
proxy:
  upload: proxy.example.net/etc/nginx
`
	result, err := ValidateConfigBytes([]byte(yaml))
	if err != nil {
		t.Fatalf("ValidateConfigBytes failed: %v", err)
	}

	if !hasIssue(result.Errors, "proxy.upload") {
		t.Error("expected error for proxy.upload path")
	}
}

func TestValidateConfig_IdentityWithoutUpload(t *testing.T) {
	yaml := `
proxy:
  identity: /home/ops/.ssh/proxy
`
	result, err := ValidateConfigBytes([]byte(yaml))
	if err != nil {
		t.Fatalf("ValidateConfigBytes failed: %v", err)
	}

	if !hasIssue(result.Warnings, "proxy.identity") {
		t.Error("expected warning for proxy.identity path")
	}
}

func TestValidateConfig_Empty(t *testing.T) {
	result, err := ValidateConfigBytes([]byte("\n"))
	if err != nil {
		t.Fatalf("ValidateConfigBytes failed: %v", err)
	}

	// Should be valid but have warning
	if !result.IsValid() {
		t.Errorf("expected valid config, got errors: %v", result.Errors)
	}
	if len(result.Warnings) == 0 {
		t.Error("expected warning for empty config")
	}
}

func TestValidateConfig_UnknownField(t *testing.T) {
	_, err := ValidateConfigBytes([]byte("regions: {}\n"))
	if err == nil {
		t.Fatal("expected parse error for unknown field")
	}
}

func hasIssue(issues []ValidationIssue, path string) bool {
	for _, i := range issues {
		if i.Path == path {
			return true
		}
	}
	return false
}
