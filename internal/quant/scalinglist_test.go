package quant

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlatScalingList(t *testing.T) {
	sl := NewScalingList()
	assert.False(t, sl.Enabled)

	for sizeIdx := 0; sizeIdx < NumScalingListSizes; sizeIdx++ {
		trSize := 4 << sizeIdx
		for listID := 0; listID < NumScalingLists; listID++ {
			for rem := 0; rem < numQPRem; rem++ {
				qc := sl.QuantCoef(sizeIdx, listID, rem)
				dqc := sl.DequantCoef(sizeIdx, listID, rem)
				require.Len(t, qc, trSize*trSize)
				require.Len(t, dqc, trSize*trSize)

				// flat lists collapse to the six-step scales; the dequant
				// matrix carries the 1<<4 convention
				for i := range qc {
					require.Equal(t, quantScales[rem], qc[i])
					require.Equal(t, invQuantScales[rem]<<4, dqc[i])
				}
			}
		}
	}
}

func TestDefaultScalingList8x8(t *testing.T) {
	sl := NewDefaultScalingList()
	assert.True(t, sl.Enabled)

	qc := sl.QuantCoef(1, 0, 0)
	dqc := sl.DequantCoef(1, 0, 0)

	// DC entry of the default intra list is 16
	assert.Equal(t, quantScales[0]<<4/16, qc[0])
	assert.Equal(t, invQuantScales[0]*16, dqc[0])

	// bottom-right of the intra list is 115
	assert.Equal(t, quantScales[0]<<4/115, qc[63])
	assert.Equal(t, invQuantScales[0]*115, dqc[63])

	// inter lists use the inter matrix (bottom-right 91)
	assert.Equal(t, invQuantScales[0]*91, sl.DequantCoef(1, 3, 0)[63])
}

func TestDefaultScalingListUpsampling(t *testing.T) {
	sl := NewDefaultScalingList()

	// 16x16 upsamples the 8x8 list 2x2: positions (0,1),(1,0),(1,1) share
	// the 8x8 entry (0,0)=16, while the DC override also gives 16.
	dqc := sl.DequantCoef(2, 0, 0)
	assert.Equal(t, invQuantScales[0]*16, dqc[0])
	assert.Equal(t, invQuantScales[0]*16, dqc[1])
	assert.Equal(t, invQuantScales[0]*16, dqc[16])
	assert.Equal(t, invQuantScales[0]*16, dqc[17])

	// (2,2) in the 16x16 grid maps to 8x8 entry (1,1)=16; (14,14) maps to
	// (7,7)=115
	assert.Equal(t, invQuantScales[0]*115, dqc[14*16+14])

	// 32x32 upsamples 4x4: (28,28) maps to (7,7)
	dqc32 := sl.DequantCoef(3, 0, 0)
	assert.Equal(t, invQuantScales[0]*115, dqc32[28*32+28])
}

func TestQuantScalesLadder(t *testing.T) {
	// one QP step of 6 doubles the step size: scale[0]/scale[...] spacing
	assert.Equal(t, int32(26214), quantScales[0])
	assert.Equal(t, int32(16384), quantScales[4])
	assert.Equal(t, int32(64), invQuantScales[4])

	// forward and inverse scales are consistent: q*iq ~ 2^20
	for rem := 0; rem < numQPRem; rem++ {
		prod := int64(quantScales[rem]) * int64(invQuantScales[rem])
		assert.InDelta(t, float64(int64(1)<<20), float64(prod), float64(1<<15), "rem %d", rem)
	}
}
