package slide

import (
	"fmt"
	"image"
	"math"

	"gocv.io/x/gocv"
	xdraw "golang.org/x/image/draw"
)

// scaledSide returns the output side length of a square region of the given
// source side read at the given downsample factor.
func scaledSide(size int, downsample float64) int {
	if downsample == 1.0 {
		return size
	}
	side := int(math.Round(float64(size) / downsample))
	if side < 1 {
		side = 1
	}
	return side
}

// ImageReader reads pixel regions from a decoded image.Image. It is the
// pure-Go fallback reader; extraction quality matches MatReader for
// downsample 1.0 and uses bilinear interpolation otherwise.
type ImageReader struct {
	img image.Image
}

// NewImageReader creates a region reader over a decoded image.
func NewImageReader(img image.Image) *ImageReader {
	return &ImageReader{img: img}
}

// ReadRegion returns the square region with top-left (x, y) and the given
// source-resolution side length, scaled by the downsample factor.
func (r *ImageReader) ReadRegion(x, y, size int, downsample float64) (image.Image, error) {
	if r.img == nil {
		return nil, fmt.Errorf("no image loaded")
	}
	bounds := r.img.Bounds()
	rect := image.Rect(bounds.Min.X+x, bounds.Min.Y+y, bounds.Min.X+x+size, bounds.Min.Y+y+size)
	if !rect.In(bounds) {
		return nil, fmt.Errorf("region %v outside image bounds %v", rect, bounds)
	}

	side := scaledSide(size, downsample)
	out := image.NewRGBA(image.Rect(0, 0, side, side))
	xdraw.ApproxBiLinear.Scale(out, out.Bounds(), r.img, rect, xdraw.Src, nil)
	return out, nil
}

// MatReader reads pixel regions through an OpenCV Mat. Region extraction is
// a zero-copy view and the downsample resize uses area interpolation, which
// is the appropriate filter for decimation.
type MatReader struct {
	mat gocv.Mat
}

// NewMatReader creates a Mat-backed region reader from a decoded image.
// The caller must Close the reader to release the underlying Mat.
func NewMatReader(img image.Image) (*MatReader, error) {
	mat, err := gocv.ImageToMatRGB(img)
	if err != nil {
		return nil, fmt.Errorf("failed to convert image to mat: %w", err)
	}
	return &MatReader{mat: mat}, nil
}

// Close releases the underlying Mat.
func (r *MatReader) Close() error {
	return r.mat.Close()
}

// ReadRegion returns the square region with top-left (x, y) and the given
// source-resolution side length, scaled by the downsample factor.
func (r *MatReader) ReadRegion(x, y, size int, downsample float64) (image.Image, error) {
	if r.mat.Empty() {
		return nil, fmt.Errorf("no image loaded")
	}
	cols, rows := r.mat.Cols(), r.mat.Rows()
	if x < 0 || y < 0 || x+size > cols || y+size > rows {
		return nil, fmt.Errorf("region (%d,%d)+%d outside image %dx%d", x, y, size, cols, rows)
	}

	region := r.mat.Region(image.Rect(x, y, x+size, y+size))
	defer region.Close()

	patch := gocv.NewMat()
	defer patch.Close()

	side := scaledSide(size, downsample)
	if side == size {
		region.CopyTo(&patch)
	} else {
		gocv.Resize(region, &patch, image.Point{X: side, Y: side}, 0, 0, gocv.InterpolationArea)
	}

	return patch.ToImage()
}
