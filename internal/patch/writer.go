package patch

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"
)

// RegionReader produces raster data for an arbitrary axis-aligned square
// window at a given downsample factor. Implementations live in
// internal/slide.
type RegionReader interface {
	ReadRegion(x, y, size int, downsample float64) (image.Image, error)
}

// FolderName returns the output folder name for one annotation instance:
// the label plus its global sequence number.
func FolderName(label string, sequence int) string {
	return fmt.Sprintf("%s_%03d", label, sequence)
}

// PatchFileName returns the deterministic file name for one extracted patch.
// localIndex is the zero-based in-bounds counter within the annotation
// instance, not the global sequence number.
func PatchFileName(imageName, label string, cx, cy, localIndex int, ext string) string {
	return fmt.Sprintf("%s_%s_%d_%d_%06d.%s", imageName, label, cx, cy, localIndex, ext)
}

// WritePatch reads the window's pixel region and writes it as one image
// file at the given path. Writing is all-or-nothing per patch: the patch is
// encoded in memory first, so a read or encode failure leaves no file
// behind, and any failure is returned to the caller, which records it and
// moves on.
func WritePatch(reader RegionReader, w Window, path string) error {
	img, err := reader.ReadRegion(w.X, w.Y, w.Size, w.Downsample)
	if err != nil {
		return fmt.Errorf("failed to read region: %w", err)
	}

	var buf bytes.Buffer
	switch strings.ToLower(strings.TrimPrefix(filepath.Ext(path), ".")) {
	case "png":
		err = png.Encode(&buf, img)
	case "jpg", "jpeg":
		err = jpeg.Encode(&buf, img, nil)
	default:
		err = fmt.Errorf("unsupported patch extension %q", filepath.Ext(path))
	}
	if err != nil {
		return fmt.Errorf("failed to encode patch: %w", err)
	}

	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write patch file: %w", err)
	}
	return nil
}
