package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.ListenPort != ":8080" {
		t.Errorf("ListenPort = %v, want :8080", cfg.ListenPort)
	}
	if cfg.Store != StoreSQLite {
		t.Errorf("Store = %v, want %v", cfg.Store, StoreSQLite)
	}
	if cfg.ViewportHeight != 600 {
		t.Errorf("ViewportHeight = %v, want 600", cfg.ViewportHeight)
	}
	if cfg.SeedFile != "" {
		t.Errorf("SeedFile = %v, want empty", cfg.SeedFile)
	}
	if cfg.AllowedHosts != nil {
		t.Errorf("AllowedHosts = %v, want nil", cfg.AllowedHosts)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DESK_STORE", " Redis ")
	t.Setenv("DESK_VIEWPORT_HEIGHT", "900")
	t.Setenv("DESK_ALLOWED_HOSTS", `desk.domain.ext, "localhost:8080"`)
	t.Setenv("DESK_BACKUP_INTERVAL", "15m")

	cfg := Load()

	if cfg.Store != StoreRedis {
		t.Errorf("Store = %v, want %v", cfg.Store, StoreRedis)
	}
	if cfg.ViewportHeight != 900 {
		t.Errorf("ViewportHeight = %v, want 900", cfg.ViewportHeight)
	}
	if len(cfg.AllowedHosts) != 2 || cfg.AllowedHosts[1] != "localhost:8080" {
		t.Errorf("AllowedHosts = %v, want [desk.domain.ext localhost:8080]", cfg.AllowedHosts)
	}
	if cfg.BackupInterval != 15*time.Minute {
		t.Errorf("BackupInterval = %v, want 15m", cfg.BackupInterval)
	}
}

func TestLoadPanics(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{name: "unknown store", key: "DESK_STORE", value: "postgres"},
		{name: "zero viewport", key: "DESK_VIEWPORT_HEIGHT", value: "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			defer func() {
				if r := recover(); r == nil {
					t.Errorf("Load() should have panicked for %s=%s", tt.key, tt.value)
				}
			}()
			Load()
		})
	}
}

func TestMustDuration(t *testing.T) {
	tests := []struct {
		name     string
		key      string
		value    string
		def      time.Duration
		expected time.Duration
	}{
		{
			name:     "valid duration",
			key:      "TEST_DURATION",
			value:    "5s",
			def:      1 * time.Second,
			expected: 5 * time.Second,
		},
		{
			name:     "invalid duration uses default",
			key:      "TEST_DURATION_INVALID",
			value:    "invalid",
			def:      10 * time.Second,
			expected: 10 * time.Second,
		},
		{
			name:     "missing variable uses default",
			key:      "TEST_DURATION_MISSING",
			value:    "",
			def:      15 * time.Second,
			expected: 15 * time.Second,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.value != "" {
				t.Setenv(tt.key, tt.value)
			}

			result := mustDuration(tt.key, tt.def)
			if result != tt.expected {
				t.Errorf("mustDuration() = %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestMustBool(t *testing.T) {
	tests := []struct {
		name     string
		key      string
		value    string
		def      bool
		expected bool
	}{
		{name: "true value", key: "TEST_BOOL", value: "true", def: false, expected: true},
		{name: "false value", key: "TEST_BOOL_FALSE", value: "false", def: true, expected: false},
		{name: "invalid value uses default", key: "TEST_BOOL_INVALID", value: "invalid", def: true, expected: true},
		{name: "missing variable uses default", key: "TEST_BOOL_MISSING", value: "", def: false, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.value != "" {
				t.Setenv(tt.key, tt.value)
			}

			if result := mustBool(tt.key, tt.def); result != tt.expected {
				t.Errorf("mustBool() = %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestSplitAndTrim(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{name: "empty", input: "", expected: nil},
		{name: "single", input: "10.0.0.0/8", expected: []string{"10.0.0.0/8"}},
		{name: "quoted and padded", input: ` "a" , 'b',, c `, expected: []string{"a", "b", "c"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := splitAndTrim(tt.input)
			if len(result) != len(tt.expected) {
				t.Fatalf("splitAndTrim() = %v, want %v", result, tt.expected)
			}
			for i := range result {
				if result[i] != tt.expected[i] {
					t.Errorf("splitAndTrim()[%d] = %v, want %v", i, result[i], tt.expected[i])
				}
			}
		})
	}
}
