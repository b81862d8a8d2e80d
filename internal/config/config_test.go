package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// TestNewConfig verifies that NewConfig returns a Config with all expected default values.
// This test ensures that defaults are documented through tests and that changes
// to defaults are intentional (tests will fail if defaults change unexpectedly).
func TestNewConfig(t *testing.T) {
	t.Parallel()

	cfg := NewConfig()

	// Verify each default value explicitly
	// This serves as living documentation of the defaults
	t.Run("default Timeout is 30 minutes", func(t *testing.T) {
		t.Parallel()
		if cfg.Timeout != 30*time.Minute {
			t.Errorf("expected Timeout to be 30m, got %v", cfg.Timeout)
		}
	})

	t.Run("default Concurrency is 4", func(t *testing.T) {
		t.Parallel()
		if cfg.Concurrency != 4 {
			t.Errorf("expected Concurrency to be 4, got %d", cfg.Concurrency)
		}
	})

	t.Run("default MaxFiles is 1000", func(t *testing.T) {
		t.Parallel()
		if cfg.MaxFiles != 1000 {
			t.Errorf("expected MaxFiles to be 1000, got %d", cfg.MaxFiles)
		}
	})

	t.Run("default ReportsDir is reports", func(t *testing.T) {
		t.Parallel()
		if cfg.ReportsDir != "reports" {
			t.Errorf("expected ReportsDir to be 'reports', got '%s'", cfg.ReportsDir)
		}
	})

	t.Run("default DBDir is under XDG data home", func(t *testing.T) {
		t.Parallel()
		if !strings.HasSuffix(cfg.DBDir, AppName) {
			t.Errorf("expected DBDir to end with %s, got %s", AppName, cfg.DBDir)
		}
	})

	t.Run("default SaveToDB is true", func(t *testing.T) {
		t.Parallel()
		if !cfg.SaveToDB {
			t.Error("expected SaveToDB to be true")
		}
	})
}

// TestConfigValidate tests the Validate method with various configurations.
// Each test case is designed to test one specific validation rule.
func TestConfigValidate(t *testing.T) {
	t.Parallel()

	// validConfig returns a minimal valid configuration.
	// Tests can modify specific fields to test validation rules.
	validConfig := func() *Config {
		return &Config{
			Targets:     []string{"./example"},
			Timeout:     30 * time.Minute,
			Concurrency: 4,
			ReportsDir:  "reports",
		}
	}

	t.Run("valid config returns nil", func(t *testing.T) {
		t.Parallel()

		if err := validConfig().Validate(); err != nil {
			t.Errorf("expected valid config to pass, got %v", err)
		}
	})

	testCases := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{
			name:    "no targets",
			mutate:  func(c *Config) { c.Targets = nil },
			wantErr: ErrNoTarget,
		},
		{
			name:    "zero timeout",
			mutate:  func(c *Config) { c.Timeout = 0 },
			wantErr: ErrInvalidTimeout,
		},
		{
			name:    "negative timeout",
			mutate:  func(c *Config) { c.Timeout = -time.Second },
			wantErr: ErrInvalidTimeout,
		},
		{
			name:    "zero concurrency",
			mutate:  func(c *Config) { c.Concurrency = 0 },
			wantErr: ErrInvalidConcurrency,
		},
		{
			name:    "negative max files",
			mutate:  func(c *Config) { c.MaxFiles = -1 },
			wantErr: ErrInvalidMaxFiles,
		},
		{
			name: "json and markdown together",
			mutate: func(c *Config) {
				c.JSONReport = true
				c.MarkdownReport = true
			},
			wantErr: ErrConflictingFormats,
		},
		{
			name: "pdf without reports dir",
			mutate: func(c *Config) {
				c.PDFReport = true
				c.ReportsDir = ""
			},
			wantErr: ErrInvalidReportsDir,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			cfg := validConfig()
			tc.mutate(cfg)

			if err := cfg.Validate(); !errors.Is(err, tc.wantErr) {
				t.Errorf("expected %v, got %v", tc.wantErr, err)
			}
		})
	}
}

// TestLoadConfigFile tests YAML configuration file loading.
func TestLoadConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("loads valid config file", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), DefaultConfigFile)
		content := `
defaults:
  runner: python -m pytest -q
projects:
  services/billing:
    tool: mutmut
    sourceDir: src
    testsDir: tests
    ignorePatterns:
      - "migrations/*"
`
		if err := os.WriteFile(path, []byte(content), 0600); err != nil {
			t.Fatalf("failed to write config file: %v", err)
		}

		cf, err := LoadConfigFile(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		pc := cf.GetProjectConfig("services/billing")
		if pc.Tool != "mutmut" {
			t.Errorf("expected tool mutmut, got %s", pc.Tool)
		}
		if pc.SourceDir != "src" {
			t.Errorf("expected source dir src, got %s", pc.SourceDir)
		}
		if pc.Runner != "python -m pytest -q" {
			t.Errorf("expected default runner to apply, got %s", pc.Runner)
		}
		if len(pc.IgnorePatterns) != 1 || pc.IgnorePatterns[0] != "migrations/*" {
			t.Errorf("unexpected ignore patterns: %v", pc.IgnorePatterns)
		}
	})

	t.Run("missing file returns ErrConfigNotFound", func(t *testing.T) {
		t.Parallel()

		_, err := LoadConfigFile(filepath.Join(t.TempDir(), "missing"))
		if !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("expected ErrConfigNotFound, got %v", err)
		}
	})

	t.Run("malformed YAML returns error", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), DefaultConfigFile)
		if err := os.WriteFile(path, []byte("projects: [not a map"), 0600); err != nil {
			t.Fatalf("failed to write config file: %v", err)
		}

		if _, err := LoadConfigFile(path); err == nil {
			t.Error("expected error for malformed YAML")
		}
	})

	t.Run("empty file gets initialized projects map", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), DefaultConfigFile)
		if err := os.WriteFile(path, []byte(""), 0600); err != nil {
			t.Fatalf("failed to write config file: %v", err)
		}

		cf, err := LoadConfigFile(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cf.Projects == nil {
			t.Error("expected initialized projects map")
		}
	})
}

// TestFindConfigFile tests configuration file discovery.
func TestFindConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("explicit existing path is returned", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "custom.yaml")
		if err := os.WriteFile(path, []byte("{}"), 0600); err != nil {
			t.Fatalf("failed to write config file: %v", err)
		}

		if got := FindConfigFile(path); got != path {
			t.Errorf("expected %s, got %s", path, got)
		}
	})

	t.Run("explicit missing path returns empty", func(t *testing.T) {
		t.Parallel()

		if got := FindConfigFile(filepath.Join(t.TempDir(), "missing")); got != "" {
			t.Errorf("expected empty string, got %s", got)
		}
	})
}

// TestGetProjectConfig tests the defaults/override merge.
func TestGetProjectConfig(t *testing.T) {
	t.Parallel()

	cf := &File{
		Defaults: ProjectConfig{
			Runner:         "python -m pytest -q",
			TestsDir:       "tests",
			IgnorePatterns: []string{"vendor/*"},
		},
		Projects: map[string]ProjectConfig{
			"svc": {
				Tool:           "gremlins",
				TestsDir:       "internal",
				IgnorePatterns: []string{"gen/*"},
			},
		},
	}

	t.Run("merges overrides on top of defaults", func(t *testing.T) {
		t.Parallel()

		pc := cf.GetProjectConfig("svc")
		if pc.Tool != "gremlins" {
			t.Errorf("expected gremlins, got %s", pc.Tool)
		}
		if pc.TestsDir != "internal" {
			t.Errorf("expected overridden tests dir, got %s", pc.TestsDir)
		}
		if pc.Runner != "python -m pytest -q" {
			t.Errorf("expected default runner, got %s", pc.Runner)
		}
		if len(pc.IgnorePatterns) != 1 || pc.IgnorePatterns[0] != "gen/*" {
			t.Errorf("expected overridden ignore patterns, got %v", pc.IgnorePatterns)
		}
	})

	t.Run("unknown target gets defaults", func(t *testing.T) {
		t.Parallel()

		pc := cf.GetProjectConfig("other")
		if pc.Tool != "" {
			t.Errorf("expected no tool from defaults, got %s", pc.Tool)
		}
		if pc.TestsDir != "tests" {
			t.Errorf("expected default tests dir, got %s", pc.TestsDir)
		}
	})
}

// TestXDGDirs tests the XDG directory helpers.
func TestXDGDirs(t *testing.T) {
	t.Parallel()

	for name, fn := range map[string]func() string{
		"data":   XDGDataDir,
		"config": XDGConfigDir,
		"cache":  XDGCacheDir,
	} {
		t.Run(name+" dir ends with app name", func(t *testing.T) {
			t.Parallel()

			if got := fn(); filepath.Base(got) != AppName {
				t.Errorf("expected path ending in %s, got %s", AppName, got)
			}
		})
	}
}
