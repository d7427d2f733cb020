package hevc

import (
	"github.com/deepteams/hevc/internal/dsp"
	"github.com/deepteams/hevc/internal/quant"
)

// Pixel is one unsigned video sample; its working range follows BitDepth.
type Pixel = dsp.Pixel

// Core types re-exported from the quantization engine.
type (
	Quant                     = quant.Quant
	CUState                   = quant.CUState
	ScalingList               = quant.ScalingList
	EstBitsSbac               = quant.EstBitsSbac
	NoiseReduction            = quant.NoiseReduction
	TUEntropyCodingParameters = quant.TUEntropyCodingParameters
	TextType                  = quant.TextType
	ChromaFormat              = quant.ChromaFormat
	SliceType                 = quant.SliceType
	ScanType                  = quant.ScanType
)

const (
	TextLuma    = quant.TextLuma
	TextChromaU = quant.TextChromaU
	TextChromaV = quant.TextChromaV

	Chroma420 = quant.Chroma420
	Chroma422 = quant.Chroma422
	Chroma444 = quant.Chroma444

	SliceI = quant.SliceI
	SliceP = quant.SliceP
	SliceB = quant.SliceB

	ScanDiag = quant.ScanDiag
	ScanHor  = quant.ScanHor
	ScanVer  = quant.ScanVer
)

// ErrNilScalingList is returned by Quant.Init without a scaling-list store.
var ErrNilScalingList = quant.ErrNilScalingList

// Scaling-list constructors.
var (
	NewScalingList        = quant.NewScalingList
	NewDefaultScalingList = quant.NewDefaultScalingList
	NewCustomScalingList  = quant.NewCustomScalingList
)

// GetTUEntropyCodingParameters derives the entropy-coding geometry of one
// transform unit.
var GetTUEntropyCodingParameters = quant.GetTUEntropyCodingParameters

// SetBitDepth selects the internal sample bit depth (8..16). It must be
// called before any encoding work starts and never again afterwards.
func SetBitDepth(depth int) {
	dsp.BitDepth = depth
}

// PredictIntra produces the prediction for one block. mode is 0 (planar),
// 1 (DC) or 2..34 (angular); srcPix is the 4N+1 reference array laid out as
// [top-left, top(0..2N-1), left(0..2N-1)].
func PredictIntra(mode int, log2Size uint32, dst []Pixel, dstStride int, srcPix []Pixel, filterEdge bool) {
	dsp.IntraPred[mode][log2Size-2](dst, dstStride, srcPix, filterEdge)
}

// PredictIntraAllAngs fills dst with all 33 angular predictions, one packed
// block per mode, choosing the smoothed or plain reference array per mode.
func PredictIntraAllAngs(log2Size uint32, dst []Pixel, refPix, filtPix []Pixel, isLuma bool) {
	dsp.IntraPredAllAngs[log2Size-2](dst, refPix, filtPix, isLuma)
}
