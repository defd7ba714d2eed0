// Package annotation provides the read-only annotation hierarchy supplied
// per slide: named regions, each with the centroids of its detected cells.
package annotation

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/MaxencePelloux/THESIS-PANK/pkg/geometry"
)

// UnknownLabel is the sentinel label assigned to regions whose name is
// empty or blank.
const UnknownLabel = "Unknown"

// Region is a named annotated area with the detection points found inside
// it. Regions are read-only input; this tool never creates or modifies them.
type Region struct {
	Label  string             `json:"label"`
	Points []geometry.Point2D `json:"points"`
}

// Document describes one slide's annotation hierarchy. The image path is
// resolved relative to the document file unless absolute. Magnification, if
// positive, overrides whatever the slide metadata reports.
type Document struct {
	Image         string   `json:"image"`
	Magnification float64  `json:"magnification,omitempty"`
	Annotations   []Region `json:"annotations"`
}

// Load loads an annotation document from a JSON file. Region labels are
// normalized on load.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read annotation document: %w", err)
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse annotation document: %w", err)
	}
	if doc.Image == "" {
		return nil, fmt.Errorf("annotation document %s names no image", path)
	}

	for i := range doc.Annotations {
		doc.Annotations[i].Label = NormalizeLabel(doc.Annotations[i].Label)
	}

	return &doc, nil
}

// ImagePath returns the absolute path of the document's slide image,
// resolving relative paths against the document's directory.
func (d *Document) ImagePath(docPath string) string {
	if filepath.IsAbs(d.Image) {
		return d.Image
	}
	return filepath.Join(filepath.Dir(docPath), d.Image)
}

// NormalizeLabel trims whitespace and maps empty labels to UnknownLabel.
// Labels become output folder names and counter-file keys, so path
// separators and '=' are replaced with '-'.
func NormalizeLabel(label string) string {
	label = strings.Map(func(r rune) rune {
		switch r {
		case '=', '/', '\\':
			return '-'
		}
		return r
	}, strings.TrimSpace(label))
	if label == "" {
		return UnknownLabel
	}
	return label
}
