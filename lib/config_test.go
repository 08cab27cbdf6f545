package lib

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfig(t *testing.T) {
	yamlContent := `input_dir: /archive/proxies
image_dir: thumbs
html_file: out/scenes.html`

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	config, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if config.InputDir != "/archive/proxies" {
		t.Errorf("Expected input_dir '/archive/proxies', got '%s'", config.InputDir)
	}
	if config.OutputFile != DefaultOutputFile {
		t.Errorf("Expected default output_file, got '%s'", config.OutputFile)
	}
	if config.ImageDir != "thumbs" {
		t.Errorf("Expected image_dir 'thumbs', got '%s'", config.ImageDir)
	}
	if config.HTMLFile != "out/scenes.html" {
		t.Errorf("Expected html_file 'out/scenes.html', got '%s'", config.HTMLFile)
	}
}

func TestLoadConfig_Invalid(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		content string
	}{
		{"malformed yaml", "input_dir: [unterminated"},
		{"empty input", `input_dir: ""`},
		{"empty image dir", `image_dir: ""`},
	}

	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, string(rune('a'+i))+".yaml")
			if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
				t.Fatal(err)
			}
			if _, err := LoadConfig(path); err == nil {
				t.Errorf("Expected error for %s", tt.name)
			}
		})
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("Expected error for missing file")
	}
}

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()
	if config.InputDir != "test_vids" || config.OutputFile != "scenes.json" || config.ImageDir != "image_outputs" {
		t.Errorf("Unexpected defaults: %+v", config)
	}
	if err := config.Validate(); err != nil {
		t.Errorf("Defaults should validate: %v", err)
	}
}
