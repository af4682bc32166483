package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestConfig(t *testing.T) {

	config, err := Load("config.example.yaml")
	if err != nil {
		t.Fatal(err)
	}

	if got, want := config.DatabasePath, "./pumpbook.db"; got != want {
		t.Errorf("got %s want %s", got, want)
	}
	if got, want := config.DataStartDate.Format("2006-01-02"), "2024-04-01"; got != want {
		t.Errorf("got %s want %s", got, want)
	}
	if got, want := config.Rates.Petrol, 104.62; got != want {
		t.Errorf("got %f want %f", got, want)
	}
}

func TestConfigMissingFile(t *testing.T) {
	_, err := Load("no-such-config.yaml")
	if err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestConfigValidation(t *testing.T) {

	// write a variant of the example config with one line removed or
	// replaced, then check Load rejects it.
	example, err := os.ReadFile("config.example.yaml")
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		cut     string
		replace string
	}{
		{"no database path", `database_path: "./pumpbook.db"`, ""},
		{"no username", `username: "admin"`, ""},
		{"bad hash", `password_hash: "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"`, `password_hash: "plaintext"`},
		{"bad start date", `data_date_start: "2024-04-01"`, `data_date_start: "01/04/2024"`},
		{"zero rate", `petrol: 104.62`, `petrol: 0`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := strings.Replace(string(example), tt.cut, tt.replace, 1)
			if body == string(example) {
				t.Fatalf("cut %q not found in example config", tt.cut)
			}
			path := filepath.Join(t.TempDir(), "config.yaml")
			if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
				t.Fatal(err)
			}
			if _, err := Load(path); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}
