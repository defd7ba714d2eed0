package annotation

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_ParsesDocument(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.json")
	content := `{
		"image": "slide.svs",
		"magnification": 40,
		"annotations": [
			{"label": "LG", "points": [{"x": 100.5, "y": 200.25}]},
			{"label": "  ", "points": []}
		]
	}`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	doc, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if doc.Magnification != 40 {
		t.Fatalf("magnification = %v, want 40", doc.Magnification)
	}
	if len(doc.Annotations) != 2 {
		t.Fatalf("annotations = %d, want 2", len(doc.Annotations))
	}
	if doc.Annotations[0].Label != "LG" {
		t.Fatalf("label = %q, want LG", doc.Annotations[0].Label)
	}
	if doc.Annotations[1].Label != UnknownLabel {
		t.Fatalf("blank label = %q, want %q", doc.Annotations[1].Label, UnknownLabel)
	}
	if got := doc.ImagePath(path); got != filepath.Join(dir, "slide.svs") {
		t.Fatalf("image path = %q", got)
	}
}

func TestLoad_RejectsDocumentWithoutImage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.json")
	if err := os.WriteFile(path, []byte(`{"annotations": []}`), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for document without image")
	}
}

func TestNormalizeLabel(t *testing.T) {
	cases := map[string]string{
		"LG":       "LG",
		" HG ":     "HG",
		"":         UnknownLabel,
		"   ":      UnknownLabel,
		"Stroma 2": "Stroma 2",
		// Separators and '=' would break folder names and counter lines.
		"LG=5":        "LG-5",
		"Tumor/Edge":  "Tumor-Edge",
		`Tumor\Edge`:  "Tumor-Edge",
		"../escape":   "..-escape",
		"a/b\\c=d":    "a-b-c-d",
	}
	for in, want := range cases {
		if got := NormalizeLabel(in); got != want {
			t.Fatalf("NormalizeLabel(%q) = %q, want %q", in, got, want)
		}
	}
}
