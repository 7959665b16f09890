package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, yaml string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	tests := []struct {
		name     string
		yaml     string
		wantPort int
		wantHost string
		wantErr  bool
	}{
		{
			name:     "minimal config",
			yaml:     "port: 8080\n",
			wantPort: 8080,
		},
		{
			name:     "host and port",
			yaml:     "host: 127.0.0.1\nport: 9000\n",
			wantPort: 9000,
			wantHost: "127.0.0.1",
		},
		{
			name:     "port defaults when absent",
			yaml:     "debug: true\n",
			wantPort: DefaultPort,
		},
		{
			name:    "malformed yaml",
			yaml:    "port: [unclosed\n",
			wantErr: true,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg, err := LoadConfig(writeConfig(t, tc.yaml))
			if tc.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if cfg.Port != tc.wantPort {
				t.Fatalf("port = %d, want %d", cfg.Port, tc.wantPort)
			}
			if cfg.Host != tc.wantHost {
				t.Fatalf("host = %q, want %q", cfg.Host, tc.wantHost)
			}
		})
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoadConfigLoggingDefaults(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, "port: 8080\nlogging:\n  to-file: true\n"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Logging.Dir != "logs" || cfg.Logging.MaxSizeMB != 100 || cfg.Logging.MaxBackups != 3 {
		t.Fatalf("defaults not applied: %+v", cfg.Logging)
	}
}
