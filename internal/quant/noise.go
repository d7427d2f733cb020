package quant

import "github.com/deepteams/hevc/internal/dsp"

// Noise-reduction categories: one per transform size for luma, one per size
// for chroma.
const (
	NumNRCategories = 8
	maxNRCoeffs     = dsp.MaxTrSize * dsp.MaxTrSize
)

// NoiseReduction holds the per-worker coefficient-denoising state. The core
// reads OffsetDenoise and accumulates into ResidualSum/Count; re-deriving the
// offsets from the accumulators at frame boundaries is the owner's job.
type NoiseReduction struct {
	Enabled       bool
	OffsetDenoise [NumNRCategories][maxNRCoeffs]uint16
	ResidualSum   [NumNRCategories][maxNRCoeffs]uint32
	Count         [NumNRCategories]uint32
}
