// Package patch implements patch planning, extraction and the run
// orchestrator: fixed-size windows centered on detected cells, written into
// per-annotation folders numbered by the durable counter store.
package patch

import (
	"math"

	"github.com/MaxencePelloux/THESIS-PANK/internal/config"
)

// Params holds the per-slide extraction geometry. BasePatchPixels is the
// patch side at the desired magnification; PatchSize and HalfPatchSize are
// the corresponding source-resolution pixel sizes once a slide's native
// magnification is known.
type Params struct {
	BasePatchPixels      int
	DesiredMagnification float64
	DefaultMagnification float64

	// Resolved per slide by WithMagnification.
	Downsample    float64
	PatchSize     int
	HalfPatchSize int

	// Set when WithMagnification had to fall back, so the caller can log
	// a warning.
	MagnificationDefaulted bool
	DownsampleClamped      bool
}

// DefaultParams returns default extraction parameters: 224-pixel patches at
// 40x magnification.
func DefaultParams() Params {
	return Params{
		BasePatchPixels:      224,
		DesiredMagnification: 40.0,
		DefaultMagnification: 40.0,
	}
}

// ParamsFromConfig builds Params from runtime configuration.
func ParamsFromConfig(cfg *config.Config) Params {
	p := DefaultParams()
	if cfg.BasePatchPixels > 0 {
		p.BasePatchPixels = cfg.BasePatchPixels
	}
	if cfg.DesiredMagnification > 0 {
		p.DesiredMagnification = cfg.DesiredMagnification
	}
	if cfg.DefaultMagnification > 0 {
		p.DefaultMagnification = cfg.DefaultMagnification
	}
	return p
}

// WithMagnification returns a copy of params with pixel sizes resolved for
// a slide of the given native magnification. Missing or invalid metadata
// degrades to defaults rather than erroring: an absent, NaN or non-positive
// native magnification substitutes DefaultMagnification, and a degenerate
// downsample substitutes 1.0. PatchSize and HalfPatchSize are always
// positive afterward.
func (p Params) WithMagnification(native float64) Params {
	if native <= 0 || math.IsNaN(native) {
		native = p.DefaultMagnification
		p.MagnificationDefaulted = true
	}

	downsample := native / p.DesiredMagnification
	if downsample <= 0 || math.IsNaN(downsample) || math.IsInf(downsample, 0) {
		downsample = 1.0
		p.DownsampleClamped = true
	}
	p.Downsample = downsample

	p.PatchSize = int(math.Round(float64(p.BasePatchPixels) * downsample))
	p.HalfPatchSize = int(math.Round(float64(p.BasePatchPixels) / 2 * downsample))
	if p.PatchSize < 1 {
		p.PatchSize = 1
	}
	if p.HalfPatchSize < 1 {
		p.HalfPatchSize = 1
	}

	return p
}
