package hevc_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deepteams/hevc"
)

// TestEncodeReconstructLoop drives the public surface the way the mode
// decision loop does: predict, transform+quantize, reconstruct.
func TestEncodeReconstructLoop(t *testing.T) {
	q := &hevc.Quant{}
	require.NoError(t, q.Init(false, 0, hevc.NewScalingList()))

	cu := &hevc.CUState{
		QP:           24,
		ChromaFormat: hevc.Chroma420,
		SliceType:    hevc.SliceP,
		Intra:        true,
		IntraLumaDir: 26,
	}
	q.SetQPforQuant(cu)
	q.SetLambdas(1, 1, 1)

	// vertical prediction from a simple reference
	const n = 8
	ref := make([]hevc.Pixel, 4*n+1)
	for i := range ref {
		ref[i] = hevc.Pixel(100 + i)
	}
	pred := make([]hevc.Pixel, n*n)
	hevc.PredictIntra(26, 3, pred, n, ref, false)
	for x := 0; x < n; x++ {
		assert.Equal(t, ref[1+x], pred[x])
	}

	// residual against a flat source
	fenc := make([]hevc.Pixel, n*n)
	residual := make([]int16, n*n)
	for i := range fenc {
		fenc[i] = 118
		residual[i] = int16(fenc[i]) - int16(pred[i])
	}

	levels := make([]int16, n*n)
	numSig := q.TransformNxN(cu, fenc, n, residual, n, levels, 3, hevc.TextLuma, false)

	recon := make([]int16, n*n)
	q.InvTransformNxN(false, recon, n, levels, 3, hevc.TextLuma, true, false, numSig)

	// the reconstruction stays within the quantizer step of the residual
	for i := range residual {
		assert.InDelta(t, float64(residual[i]), float64(recon[i]), 16.0, "pos %d", i)
	}
}

func TestAllAngsPacked(t *testing.T) {
	const n = 4
	ref := make([]hevc.Pixel, 4*n+1)
	for i := range ref {
		ref[i] = hevc.Pixel(10 * i % 250)
	}
	dst := make([]hevc.Pixel, 33*n*n)
	hevc.PredictIntraAllAngs(2, dst, ref, ref, true)

	// mode 26 (index 24) with an unfiltered reference is pure vertical with
	// the edge filter applied to the first column
	block := dst[24*n*n : 25*n*n]
	assert.Equal(t, ref[2], block[1])
	assert.Equal(t, ref[3], block[2])
}
