// Package quant implements the transform, quantization and rate-distortion
// optimized coefficient coding core of the encoder: forward/inverse integer
// transforms over residual blocks, scalar quantization with sign-data hiding
// and coefficient denoising, and the RDOQ level optimizer driven by CABAC
// bit-cost estimates.
package quant

import (
	"errors"
	"math"

	"github.com/deepteams/hevc/internal/dsp"
)

const (
	quantShift       = 14
	quantIQuantShift = 20

	// scaleBitsFix15 aligns the FIX15 cost tables with squared-error
	// distortion units.
	scaleBitsFix15 = 15

	// iepRate is the FIX15 cost of one equiprobable bin.
	iepRate = 1 << 15

	// sbhThreshold is the minimum first-to-last non-zero distance within a
	// coefficient group for sign-data hiding to apply.
	sbhThreshold = 4
)

// ErrNilScalingList reports an Init call without a scaling-list store.
var ErrNilScalingList = errors.New("quant: nil scaling list")

// CUState is the snapshot of coding-unit and slice state the core reads for
// one transform block. The caller resolves it per part before each call.
type CUState struct {
	QP               int
	ChromaQPOffsetCb int
	ChromaQPOffsetCr int
	ChromaFormat     ChromaFormat
	SliceType        SliceType
	SignHideEnabled  bool
	TransquantBypass bool
	Intra            bool
	IntraLumaDir     uint32
	IntraChromaDir   uint32
	TransformIndex   uint32
}

// Quant drives transform and quantization for one encoder worker. Instances
// are not safe for concurrent use; give each worker its own and share the
// scaling list and cost tables read-only.
type Quant struct {
	useRDOQ      bool
	psyRdoqScale int64

	scalingList *ScalingList
	estBits     EstBitsSbac
	nr          *NoiseReduction

	qpParam [numTextTypes]QpParam
	lambdas [numTextTypes]float64

	resiDctCoeff []int32
	fencDctCoeff []int32
	fencShortBuf []int16
}

// Init prepares the instance and allocates its scratch buffers. psyScale is
// the psy-rdoq strength (0 disables the bias).
func (q *Quant) Init(useRDOQ bool, psyScale float64, scalingList *ScalingList) error {
	if scalingList == nil {
		return ErrNilScalingList
	}
	q.useRDOQ = useRDOQ
	q.psyRdoqScale = int64(psyScale * 256.0)
	q.scalingList = scalingList
	q.resiDctCoeff = make([]int32, dsp.MaxTrSize*dsp.MaxTrSize)
	q.fencDctCoeff = make([]int32, dsp.MaxTrSize*dsp.MaxTrSize)
	q.fencShortBuf = make([]int16, dsp.MaxTrSize*dsp.MaxTrSize)
	return nil
}

// EstBits exposes the cost-table snapshot for the entropy coder to refresh
// between slices. It must not change while a transform call is running.
func (q *Quant) EstBits() *EstBitsSbac {
	return &q.estBits
}

// SetLambdas sets the per-plane Lagrange multipliers used by RDOQ.
func (q *Quant) SetLambdas(lumaLambda, chromaCbLambda, chromaCrLambda float64) {
	q.lambdas[TextLuma] = lumaLambda
	q.lambdas[TextChromaU] = chromaCbLambda
	q.lambdas[TextChromaV] = chromaCrLambda
}

// SetNoiseReduction attaches the per-worker denoising accumulators; nil
// detaches them.
func (q *Quant) SetNoiseReduction(nr *NoiseReduction) {
	q.nr = nr
}

// SetQPforQuant derives the per-plane QP parameters for the coding unit.
func (q *Quant) SetQPforQuant(cu *CUState) {
	q.qpParam[TextLuma].set(cu.QP + QpBDOffset())
	q.SetChromaQPforQuant(cu.QP, TextChromaU, cu.ChromaQPOffsetCb, cu.ChromaFormat)
	q.SetChromaQPforQuant(cu.QP, TextChromaV, cu.ChromaQPOffsetCr, cu.ChromaFormat)
}

// SetChromaQPforQuant applies the chroma QP offset and the 4:2:0 mapping
// table; other chroma formats clip at 51.
func (q *Quant) SetChromaQPforQuant(qpy int, ttype TextType, chromaQPOffset int, chFmt ChromaFormat) {
	qp := clip3(-QpBDOffset(), 57, qpy+chromaQPOffset)
	if qp >= 30 {
		if chFmt == Chroma420 {
			qp = int(chromaScale[qp])
		} else if qp > 51 {
			qp = 51
		}
	}
	q.qpParam[ttype].set(qp + QpBDOffset())
}

// scalingListType maps a plane and prediction class onto the list index.
func scalingListType(isIntra bool, ttype TextType) int {
	if isIntra {
		return int(ttype)
	}
	return 3 + int(ttype)
}

// cbfCtx is the context of the coded-block flag for a plane at the given
// transform depth.
func cbfCtx(ttype TextType, trIdx uint32) uint32 {
	if ttype == TextLuma {
		if trIdx == 0 {
			return 1
		}
		return 0
	}
	return trIdx
}

// TransformNxN transforms and quantizes one block of residual samples into
// levels and returns the number of non-zero levels. fenc is the source block
// (used only by psy-rdoq); residual is the prediction residual. levels
// receives trSize*trSize entries in raster order.
func (q *Quant) TransformNxN(cu *CUState, fenc []dsp.Pixel, fencStride int, residual []int16, resiStride int,
	levels []int16, log2TrSize uint32, ttype TextType, useTransformSkip bool) uint32 {

	trSize := 1 << log2TrSize
	if cu.TransquantBypass {
		return dsp.CopyCount(levels, residual, resiStride, trSize)
	}

	isLuma := ttype == TextLuma
	usePsy := q.psyRdoqScale > 0 && isLuma && !useTransformSkip
	isIntra := cu.Intra
	transformShift := dsp.MaxTrDynamicRange - dsp.BitDepth - int(log2TrSize)
	sizeIdx := int(log2TrSize) - 2
	numCoeff := 1 << (log2TrSize * 2)

	if useTransformSkip {
		if transformShift >= 0 {
			dsp.Cvt16to32Shl(q.resiDctCoeff, residual, resiStride, transformShift, trSize)
		} else {
			shift := -transformShift
			offset := 1 << (shift - 1)
			dsp.Cvt16to32Shr(q.resiDctCoeff, residual, resiStride, shift, offset, trSize)
		}
	} else {
		useDST := sizeIdx == 0 && isLuma && isIntra
		index := dsp.DCT4x4 + sizeIdx
		if useDST {
			index = dsp.DST4x4
		}

		dsp.Dct[index](residual, q.resiDctCoeff, resiStride)

		if usePsy {
			// Forward transform of the source pixels feeds the psy bias.
			dsp.CopyPixelToShort(q.fencShortBuf, trSize, fenc, fencStride, trSize)
			dsp.Dct[index](q.fencShortBuf, q.fencDctCoeff, trSize)
		}

		if q.nr != nil && q.nr.Enabled && !isIntra {
			// Denoising skips intra residual, so the DST case never reaches it.
			cat := sizeIdx
			if !isLuma {
				cat += 4
			}
			dsp.DenoiseDct(q.resiDctCoeff[:numCoeff], q.nr.ResidualSum[cat][:], q.nr.OffsetDenoise[cat][:], numCoeff)
			q.nr.Count[cat]++
		}
	}

	if q.useRDOQ {
		return q.rdoQuant(cu, levels, log2TrSize, ttype, usePsy)
	}

	var deltaU [dsp.MaxTrSize * dsp.MaxTrSize]int32

	listType := scalingListType(isIntra, ttype)
	rem := q.qpParam[ttype].Rem
	per := q.qpParam[ttype].Per
	quantCoeff := q.scalingList.QuantCoef(sizeIdx, listType, rem)

	qbits := quantShift + per + transformShift
	add := 85 << (qbits - 9)
	if cu.SliceType == SliceI {
		add = 171 << (qbits - 9)
	}

	numSig := dsp.Quant(q.resiDctCoeff, quantCoeff, deltaU[:], levels, qbits, add, numCoeff)

	if numSig >= 2 && cu.SignHideEnabled {
		codeParams := GetTUEntropyCodingParameters(log2TrSize, isLuma, isIntra, q.intraDir(cu, isLuma), cu.ChromaFormat)
		return q.signBitHidingHDQ(levels, deltaU[:], numSig, &codeParams)
	}
	return numSig
}

func (q *Quant) intraDir(cu *CUState, isLuma bool) uint32 {
	if isLuma {
		return cu.IntraLumaDir
	}
	return cu.IntraChromaDir
}

// InvTransformNxN reconstructs the residual from quantized levels: inverse
// quantization through the scaling list (or the flat scale) followed by the
// inverse transform, transform-skip shift, or the DC-only fill.
func (q *Quant) InvTransformNxN(transQuantBypass bool, residual []int16, resiStride int, levels []int16,
	log2TrSize uint32, ttype TextType, isIntra, useTransformSkip bool, numSig uint32) {

	trSize := 1 << log2TrSize
	if transQuantBypass {
		for k := 0; k < trSize; k++ {
			for j := 0; j < trSize; j++ {
				residual[k*resiStride+j] = levels[k*trSize+j]
			}
		}
		return
	}

	rem := q.qpParam[ttype].Rem
	per := q.qpParam[ttype].Per
	transformShift := dsp.MaxTrDynamicRange - dsp.BitDepth - int(log2TrSize)
	shift := quantIQuantShift - quantShift - transformShift
	numCoeff := 1 << (log2TrSize * 2)
	sizeIdx := int(log2TrSize) - 2

	if q.scalingList.Enabled {
		listType := scalingListType(isIntra, ttype)
		dequantCoef := q.scalingList.DequantCoef(sizeIdx, listType, rem)
		dsp.DequantScaling(levels, dequantCoef, q.resiDctCoeff, numCoeff, per, shift)
	} else {
		scale := int(invQuantScales[rem]) << per
		dsp.DequantNormal(levels, q.resiDctCoeff, numCoeff, scale, shift)
	}

	if useTransformSkip {
		if transformShift >= 0 {
			dsp.Cvt32to16Shr(residual, q.resiDctCoeff, resiStride, transformShift, trSize)
		} else {
			dsp.Cvt32to16Shl(residual, q.resiDctCoeff, resiStride, -transformShift, trSize)
		}
		return
	}

	useDST := sizeIdx == 0 && ttype == TextLuma && isIntra

	if numSig == 1 && levels[0] != 0 && !useDST {
		const shift1st = 7
		const add1st = 1 << (shift1st - 1)
		shift2nd := 12 - (dsp.BitDepth - 8)
		add2nd := 1 << (shift2nd - 1)

		dcVal := int16((((int(q.resiDctCoeff[0])*64+add1st)>>shift1st)*64 + add2nd) >> shift2nd)
		dsp.BlockFill[sizeIdx](residual, resiStride, dcVal)
		return
	}

	index := dsp.DCT4x4 + sizeIdx
	if useDST {
		index = dsp.DST4x4
	}
	dsp.Idct[index](q.resiDctCoeff, residual, resiStride)
}

// signBitHidingHDQ repairs the parity of each qualifying coefficient group so
// the decoder can infer the sign of its first non-zero coefficient, choosing
// the ±1 adjustment with the least distortion (deltaU) and no rate model.
func (q *Quant) signBitHidingHDQ(levels []int16, deltaU []int32, numSig uint32, codeParams *TUEntropyCodingParameters) uint32 {
	scan := codeParams.Scan
	lastCG := true

	for cg := (1 << (codeParams.Log2TrSizeCG * 2)) - 1; cg >= 0; cg-- {
		cgStartPos := cg << log2ScanSetSize

		n := ScanSetSize - 1
		for ; n >= 0; n-- {
			if levels[scan[n+cgStartPos]] != 0 {
				break
			}
		}
		if n < 0 {
			continue
		}
		lastNZPosInCG := n

		for n = 0; ; n++ {
			if levels[scan[n+cgStartPos]] != 0 {
				break
			}
		}
		firstNZPosInCG := n

		if lastNZPosInCG-firstNZPosInCG >= sbhThreshold {
			signbit := uint32(1)
			if levels[scan[cgStartPos+firstNZPosInCG]] > 0 {
				signbit = 0
			}
			absSum := int32(0)
			for n = firstNZPosInCG; n <= lastNZPosInCG; n++ {
				absSum += int32(levels[scan[n+cgStartPos]])
			}

			if signbit != uint32(absSum&1) {
				minCostInc := int32(math.MaxInt32)
				curCost := int32(math.MaxInt32)
				minPos := -1
				finalChange, curChange := int32(0), int32(0)

				start := ScanSetSize - 1
				if lastCG {
					start = lastNZPosInCG
				}
				for n = start; n >= 0; n-- {
					blkPos := scan[n+cgStartPos]
					if levels[blkPos] != 0 {
						if deltaU[blkPos] > 0 {
							curCost = -deltaU[blkPos]
							curChange = 1
						} else if n == firstNZPosInCG && abs16(levels[blkPos]) == 1 {
							curCost = math.MaxInt32
						} else {
							curCost = deltaU[blkPos]
							curChange = -1
						}
					} else if n < firstNZPosInCG {
						thisSignBit := uint32(0)
						if q.resiDctCoeff[blkPos] < 0 {
							thisSignBit = 1
						}
						if thisSignBit != signbit {
							curCost = math.MaxInt32
						} else {
							curCost = -deltaU[blkPos]
							curChange = 1
						}
					} else {
						curCost = -deltaU[blkPos]
						curChange = 1
					}

					if curCost < minCostInc {
						minCostInc = curCost
						finalChange = curChange
						minPos = int(blkPos)
					}
				}

				// An adjustment may not breach the level clamp.
				if levels[minPos] == 32767 || levels[minPos] == -32768 {
					finalChange = -1
				}

				if levels[minPos] == 0 {
					numSig++
				} else if finalChange == -1 && abs16(levels[minPos]) == 1 {
					numSig--
				}

				if q.resiDctCoeff[minPos] >= 0 {
					levels[minPos] += int16(finalChange)
				} else {
					levels[minPos] -= int16(finalChange)
				}
			}
		}

		lastCG = false
	}

	return numSig
}

func abs16(v int16) int16 {
	if v < 0 {
		return -v
	}
	return v
}
