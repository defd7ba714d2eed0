package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	if err != nil {
		t.Fatalf("missing config should not error: %v", err)
	}
	if cfg.BasePatchPixels != 224 || cfg.DesiredMagnification != 40.0 {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.ImageExtension != "jpg" {
		t.Fatalf("default extension = %q, want jpg", cfg.ImageExtension)
	}
}

func TestLoad_ReadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	content := `{"base_patch_pixels": 128, "desired_magnification": 20, "image_extension": "PNG"}`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.BasePatchPixels != 128 || cfg.DesiredMagnification != 20 {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if cfg.ImageExtension != "png" {
		t.Fatalf("extension = %q, want png", cfg.ImageExtension)
	}
}

func TestValidate_ClampsBadValues(t *testing.T) {
	cfg := &Config{BasePatchPixels: -5, DesiredMagnification: 0, ImageExtension: ".JPEG"}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
	if cfg.BasePatchPixels != 224 || cfg.DesiredMagnification != 40.0 {
		t.Fatalf("clamping failed: %+v", cfg)
	}
	if cfg.ImageExtension != "jpeg" {
		t.Fatalf("extension = %q, want jpeg", cfg.ImageExtension)
	}
}

func TestValidate_RejectsUnsupportedExtension(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ImageExtension = "bmp"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for unsupported extension")
	}
}
