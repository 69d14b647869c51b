package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func validConfig() *Config {
	return &Config{
		Storage: StorageConfig{
			OutputDir: "./downloads",
		},
		Resolver: ResolverConfig{
			TwitterURL:   "https://twitsave.com/",
			InstagramURL: "https://snapinsta.app/",
			WaitTimeout:  30 * time.Second,
		},
	}
}

func TestConfig_Validate_Success(t *testing.T) {
	cfg := validConfig()

	err := cfg.Validate()
	if err != nil {
		t.Errorf("Validate() should pass, got %v", err)
	}
}

func TestConfig_Validate_Failures(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"missing output dir", func(c *Config) { c.Storage.OutputDir = "" }},
		{"missing twitter resolver", func(c *Config) { c.Resolver.TwitterURL = "" }},
		{"missing instagram resolver", func(c *Config) { c.Resolver.InstagramURL = "" }},
		{"zero wait timeout", func(c *Config) { c.Resolver.WaitTimeout = 0 }},
		{"negative rate limit", func(c *Config) { c.Resolver.RateLimit = -1 }},
		{"negative retries", func(c *Config) { c.Worker.MaxRetries = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Validate() should fail")
			}
		})
	}
}

func TestServerConfig_Address(t *testing.T) {
	tests := []struct {
		name string
		cfg  ServerConfig
		want string
	}{
		{
			name: "default",
			cfg:  ServerConfig{Host: "0.0.0.0", Port: 3000},
			want: "0.0.0.0:3000",
		},
		{
			name: "localhost",
			cfg:  ServerConfig{Host: "localhost", Port: 8080},
			want: "localhost:8080",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cfg.Address(); got != tt.want {
				t.Errorf("Address() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Port != 3000 {
		t.Errorf("Port = %d, want 3000", cfg.Server.Port)
	}
	if cfg.Storage.OutputDir != "./downloads" {
		t.Errorf("OutputDir = %q, want ./downloads", cfg.Storage.OutputDir)
	}
	if cfg.Resolver.WaitTimeout != 30*time.Second {
		t.Errorf("WaitTimeout = %v, want 30s", cfg.Resolver.WaitTimeout)
	}
	if cfg.Resolver.TwitterURL != "https://twitsave.com/" {
		t.Errorf("TwitterURL = %q", cfg.Resolver.TwitterURL)
	}
	if cfg.YouTube.Quality != "highest" {
		t.Errorf("Quality = %q, want highest", cfg.YouTube.Quality)
	}
	if !cfg.Browser.Headless {
		t.Error("Headless should default to true")
	}
	if cfg.Worker.MaxRetries != 0 {
		t.Errorf("MaxRetries = %d, want 0", cfg.Worker.MaxRetries)
	}
}

func TestLoad_FromYAMLFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	// envconfig applies defaults after the YAML is read, so only fields
	// without a default keep their YAML value.
	t.Setenv("SERVER_PORT", "8080")

	yamlContent := `
server:
  api_key: "yaml-api-key"
browser:
  exec_path: "/usr/bin/chromium"
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("Port = %d, want %d", cfg.Server.Port, 8080)
	}
	if cfg.Server.APIKey != "yaml-api-key" {
		t.Errorf("APIKey = %q, want %q", cfg.Server.APIKey, "yaml-api-key")
	}
	if cfg.Browser.ExecPath != "/usr/bin/chromium" {
		t.Errorf("ExecPath = %q, want %q", cfg.Browser.ExecPath, "/usr/bin/chromium")
	}
}

func TestLoad_EnvOverridesYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
server:
  api_key: "yaml-api-key"
storage:
  output_dir: "/yaml/path"
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	t.Setenv("API_KEY", "env-api-key")
	t.Setenv("STORAGE_OUTPUT_DIR", "/env/path")
	t.Setenv("RESOLVER_WAIT_TIMEOUT", "45s")

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.APIKey != "env-api-key" {
		t.Errorf("APIKey should be from env, got %q", cfg.Server.APIKey)
	}
	if cfg.Storage.OutputDir != "/env/path" {
		t.Errorf("OutputDir should be from env, got %q", cfg.Storage.OutputDir)
	}
	if cfg.Resolver.WaitTimeout != 45*time.Second {
		t.Errorf("WaitTimeout = %v, want 45s", cfg.Resolver.WaitTimeout)
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	invalidYAML := `
server:
  host: "localhost
  port: 8080
`
	if err := os.WriteFile(configPath, []byte(invalidYAML), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	_, err := Load(configPath)
	if err == nil {
		t.Error("Load should fail for invalid YAML")
	}
}

func TestLoad_NonexistentFile(t *testing.T) {
	_, err := Load("/nonexistent/config.yaml")
	if err == nil {
		t.Error("Load should fail for nonexistent file")
	}
}

func TestLoad_ValidationFailure(t *testing.T) {
	t.Setenv("STORAGE_OUTPUT_DIR", "")

	_, err := Load("")
	if err == nil {
		t.Error("Load should fail validation without an output directory")
	}
}
