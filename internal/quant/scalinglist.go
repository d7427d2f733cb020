package quant

// Scaling-list store. For every (transform size, list id, QP remainder) it
// holds a forward quantization matrix and an inverse dequantization matrix,
// derived either from the HEVC flat/default lists or from user-supplied ones.
// Built once per slice; read-only afterwards, so workers share it freely.

const (
	// NumScalingListSizes enumerates 4x4..32x32.
	NumScalingListSizes = 4
	// NumScalingLists is intra/inter x Y/Cb/Cr.
	NumScalingLists = 6
	numQPRem        = 6
)

// quantScales and invQuantScales are the six-step quantizer gains; a QP step
// of 6 doubles the quantization step size.
var quantScales = [numQPRem]int32{26214, 23302, 20560, 18396, 16384, 14564}
var invQuantScales = [numQPRem]int32{40, 45, 51, 57, 64, 72}

// The 4x4 default is flat (all 16; built by defaultList).
// defaultScalingList8x8Intra/Inter are the HEVC default matrices; 16x16 and
// 32x32 lists upsample them with a DC override of 16.
var defaultScalingList8x8Intra = [64]int32{
	16, 16, 16, 16, 17, 18, 21, 24,
	16, 16, 16, 16, 17, 19, 22, 25,
	16, 16, 17, 18, 20, 22, 25, 29,
	16, 16, 18, 21, 24, 27, 31, 36,
	17, 17, 20, 24, 30, 35, 41, 47,
	18, 19, 22, 27, 35, 44, 54, 65,
	21, 22, 25, 31, 41, 54, 70, 88,
	24, 25, 29, 36, 47, 65, 88, 115,
}

var defaultScalingList8x8Inter = [64]int32{
	16, 16, 16, 16, 17, 18, 20, 24,
	16, 16, 16, 17, 18, 20, 24, 25,
	16, 16, 17, 18, 20, 24, 25, 28,
	16, 17, 18, 20, 24, 25, 28, 33,
	17, 18, 20, 24, 25, 28, 33, 41,
	18, 20, 24, 25, 28, 33, 41, 54,
	20, 24, 25, 28, 33, 41, 54, 71,
	24, 25, 28, 33, 41, 54, 71, 91,
}

// ScalingList owns the derived quantization matrices.
//
// The forward path always quantizes through QuantCoef (a flat list collapses
// every entry to quantScales[rem]). The inverse path uses DequantCoef only
// when Enabled; the matrices carry a 1<<4 scale that dequantScaling removes.
type ScalingList struct {
	Enabled bool

	quantCoef   [NumScalingListSizes][NumScalingLists][numQPRem][]int32
	dequantCoef [NumScalingListSizes][NumScalingLists][numQPRem][]int32
}

// NewScalingList builds a disabled store over flat lists.
func NewScalingList() *ScalingList {
	sl := &ScalingList{}
	var flat [64]int32
	for i := range flat {
		flat[i] = 16
	}
	for sizeIdx := 0; sizeIdx < NumScalingListSizes; sizeIdx++ {
		for listID := 0; listID < NumScalingLists; listID++ {
			sl.setupMatrices(sizeIdx, listID, flat[:listLen(sizeIdx)], 16)
		}
	}
	return sl
}

// NewDefaultScalingList builds an enabled store over the HEVC default
// matrices.
func NewDefaultScalingList() *ScalingList {
	sl := &ScalingList{Enabled: true}
	for sizeIdx := 0; sizeIdx < NumScalingListSizes; sizeIdx++ {
		for listID := 0; listID < NumScalingLists; listID++ {
			sl.setupMatrices(sizeIdx, listID, defaultList(sizeIdx, listID), 16)
		}
	}
	return sl
}

// NewCustomScalingList builds an enabled store from caller-supplied lists.
// lists[sizeIdx][listID] must have listLen(sizeIdx) entries; dcs supplies the
// DC replacement for the upsampled 16x16/32x32 lists.
func NewCustomScalingList(lists [NumScalingListSizes][NumScalingLists][]int32, dcs [NumScalingListSizes][NumScalingLists]int32) *ScalingList {
	sl := &ScalingList{Enabled: true}
	for sizeIdx := 0; sizeIdx < NumScalingListSizes; sizeIdx++ {
		for listID := 0; listID < NumScalingLists; listID++ {
			sl.setupMatrices(sizeIdx, listID, lists[sizeIdx][listID], dcs[sizeIdx][listID])
		}
	}
	return sl
}

// listLen is the stored list length for a size index: 16 entries for 4x4,
// 64 for everything larger (16x16/32x32 upsample an 8x8 list).
func listLen(sizeIdx int) int {
	if sizeIdx == 0 {
		return 16
	}
	return 64
}

func defaultList(sizeIdx, listID int) []int32 {
	if sizeIdx == 0 {
		flat := make([]int32, 16)
		for i := range flat {
			flat[i] = 16
		}
		return flat
	}
	if listID < NumScalingLists/2 {
		return defaultScalingList8x8Intra[:]
	}
	return defaultScalingList8x8Inter[:]
}

// setupMatrices derives the per-rem forward and inverse matrices for one
// (size, list) pair. The stored list is either trSize² entries (4x4, 8x8) or
// an 8x8 list upsampled by ratio with the DC entry overridden.
func (sl *ScalingList) setupMatrices(sizeIdx, listID int, list []int32, dc int32) {
	trSize := 4 << sizeIdx
	numCoeff := trSize * trSize
	stride := 8
	if sizeIdx == 0 {
		stride = 4
	}
	ratio := trSize / stride
	if ratio < 1 {
		ratio = 1
	}

	for rem := 0; rem < numQPRem; rem++ {
		qc := make([]int32, numCoeff)
		dqc := make([]int32, numCoeff)
		qs := quantScales[rem] << 4

		for y := 0; y < trSize; y++ {
			for x := 0; x < trSize; x++ {
				v := list[stride*(y/ratio)+x/ratio]
				qc[y*trSize+x] = qs / v
				dqc[y*trSize+x] = invQuantScales[rem] * v
			}
		}
		if ratio > 1 {
			qc[0] = qs / dc
			dqc[0] = invQuantScales[rem] * dc
		}

		sl.quantCoef[sizeIdx][listID][rem] = qc
		sl.dequantCoef[sizeIdx][listID][rem] = dqc
	}
}

// QuantCoef returns the forward matrix for (log2TrSize-2, listID, rem).
func (sl *ScalingList) QuantCoef(sizeIdx, listID, rem int) []int32 {
	return sl.quantCoef[sizeIdx][listID][rem]
}

// DequantCoef returns the inverse matrix for (log2TrSize-2, listID, rem).
func (sl *ScalingList) DequantCoef(sizeIdx, listID, rem int) []int32 {
	return sl.dequantCoef[sizeIdx][listID][rem]
}

// InvQuantScale returns the flat-list inverse scale for a QP remainder.
func InvQuantScale(rem int) int32 {
	return invQuantScales[rem]
}
