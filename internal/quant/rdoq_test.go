package quant

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deepteams/hevc/internal/dsp"
)

// fillEstBits populates the cost oracle with plausible FIX15 estimates:
// roughly a quarter bit for the likely bin and 1.5 bits for the unlikely one.
func fillEstBits(eb *EstBitsSbac) {
	const cheap = 1 << 13
	const dear = 3 << 14

	for i := range eb.SignificantBits {
		eb.SignificantBits[i] = [2]int{cheap, dear}
	}
	for i := range eb.SignificantCoeffGroupBits {
		eb.SignificantCoeffGroupBits[i] = [2]int{cheap, dear}
	}
	for i := range eb.GreaterOneBits {
		eb.GreaterOneBits[i] = [2]int{cheap, dear}
	}
	for i := range eb.LevelAbsBits {
		eb.LevelAbsBits[i] = [2]int{cheap, dear}
	}
	for i := range eb.LastXBits {
		eb.LastXBits[i] = (1 + i) << 14
		eb.LastYBits[i] = (1 + i) << 14
	}
	for i := range eb.BlockCbpBits {
		eb.BlockCbpBits[i] = [2]int{cheap, dear}
	}
	eb.BlockRootCbpBits[0] = [2]int{cheap, dear}
}

func newRDOQuant(t *testing.T, lambda float64) *Quant {
	t.Helper()
	q := &Quant{}
	require.NoError(t, q.Init(true, 0, NewScalingList()))
	fillEstBits(q.EstBits())
	q.SetLambdas(lambda, lambda, lambda)
	return q
}

func TestRDOQSubThresholdBlockCodesNothing(t *testing.T) {
	// Every |dct| below the quantization threshold: the initial quant is
	// all-zero and RDOQ returns 0 without touching the levels.
	q := newRDOQuant(t, 8)
	cu := interCU(37)
	q.SetQPforQuant(cu)

	residual := make([]int16, 64)
	residual[9] = 2
	levels := make([]int16, 64)
	numSig := q.TransformNxN(cu, nil, 0, residual, 8, levels, 3, TextLuma, false)

	assert.Zero(t, numSig)
	for i, v := range levels {
		assert.Zero(t, v, "level %d", i)
	}
}

func TestRDOQNearZeroLambdaMatchesScalarRounding(t *testing.T) {
	// With lambda ~ 0 RDOQ minimises pure distortion, which is the
	// half-up rounding of the scalar quantizer (no sign hiding).
	rng := rand.New(rand.NewSource(17))
	qRdo := newRDOQuant(t, 1e-9)
	qRef := newTestQuant(t, false, NewScalingList())

	cu := interCU(30)
	qRdo.SetQPforQuant(cu)
	qRef.SetQPforQuant(cu)

	residual := make([]int16, 64)
	for i := range residual {
		residual[i] = int16(rng.Intn(1025) - 512)
	}

	rdoLevels := make([]int16, 64)
	numSig := qRdo.TransformNxN(cu, nil, 0, residual, 8, rdoLevels, 3, TextLuma, false)
	require.NotZero(t, numSig)

	// reference: neutral rounding of the same DCT coefficients
	rem := qRef.qpParam[TextLuma].Rem
	per := qRef.qpParam[TextLuma].Per
	qbits := quantShift + per + (dsp.MaxTrDynamicRange - dsp.BitDepth - 3)
	qc := qRef.scalingList.QuantCoef(1, 3, rem)

	refLevels := make([]int16, 64)
	var deltaU [64]int32
	qRef.TransformNxN(cu, nil, 0, residual, 8, make([]int16, 64), 3, TextLuma, false)
	dsp.Quant(qRef.resiDctCoeff, qc, deltaU[:], refLevels, qbits, 1<<(qbits-1), 64)

	assert.Equal(t, refLevels, rdoLevels)
	assert.Equal(t, uint32(dsp.CountNonZero(rdoLevels, 64)), numSig)
}

func TestRDOQHugeLambdaCodesNothing(t *testing.T) {
	q := newRDOQuant(t, 1e12)
	cu := interCU(30)
	q.SetQPforQuant(cu)

	rng := rand.New(rand.NewSource(29))
	residual := make([]int16, 256)
	for i := range residual {
		residual[i] = int16(rng.Intn(257) - 128)
	}
	levels := make([]int16, 256)
	numSig := q.TransformNxN(cu, nil, 0, residual, 16, levels, 4, TextLuma, false)

	assert.Zero(t, numSig)
}

func TestRDOQInvariants(t *testing.T) {
	// numSig always matches the non-zero count, a zero numSig leaves no
	// non-zero level in the scan, and signs follow the DCT coefficients.
	rng := rand.New(rand.NewSource(43))
	q := newRDOQuant(t, 60)

	for trial := 0; trial < 30; trial++ {
		log2TrSize := uint32(2 + rng.Intn(4))
		trSize := 1 << log2TrSize
		cu := interCU(20 + rng.Intn(15))
		q.SetQPforQuant(cu)

		residual := make([]int16, trSize*trSize)
		for i := range residual {
			residual[i] = int16(rng.Intn(513) - 256)
		}
		levels := make([]int16, trSize*trSize)
		numSig := q.TransformNxN(cu, nil, 0, residual, trSize, levels, log2TrSize, TextLuma, false)

		require.Equal(t, uint32(dsp.CountNonZero(levels, trSize*trSize)), numSig, "trial %d", trial)

		codeParams := GetTUEntropyCodingParameters(log2TrSize, true, false, 0, Chroma420)
		lastSeen := -1
		for pos := len(codeParams.Scan) - 1; pos >= 0; pos-- {
			if levels[codeParams.Scan[pos]] != 0 {
				lastSeen = pos
				break
			}
		}
		if numSig == 0 {
			assert.Equal(t, -1, lastSeen)
			continue
		}
		require.GreaterOrEqual(t, lastSeen, 0)

		for i, lvl := range levels {
			if lvl == 0 {
				continue
			}
			require.Equal(t, q.resiDctCoeff[i] < 0, lvl < 0,
				"trial %d pos %d: dct=%d level=%d", trial, i, q.resiDctCoeff[i], lvl)
		}
	}
}

func TestRDOQSignHidingParity(t *testing.T) {
	rng := rand.New(rand.NewSource(53))
	q := newRDOQuant(t, 25)

	for trial := 0; trial < 30; trial++ {
		cu := interCU(26)
		cu.SignHideEnabled = true
		q.SetQPforQuant(cu)

		residual := make([]int16, 64)
		for i := range residual {
			residual[i] = int16(rng.Intn(513) - 256)
		}
		levels := make([]int16, 64)
		numSig := q.TransformNxN(cu, nil, 0, residual, 8, levels, 3, TextLuma, false)
		require.Equal(t, uint32(dsp.CountNonZero(levels, 64)), numSig, "trial %d", trial)

		codeParams := GetTUEntropyCodingParameters(3, true, false, 0, Chroma420)
		for cg := 3; cg >= 0; cg-- {
			base := cg << log2ScanSetSize
			first, last := -1, -1
			absSum := 0
			for n := 0; n < ScanSetSize; n++ {
				v := levels[codeParams.Scan[base+n]]
				if v != 0 {
					if first < 0 {
						first = n
					}
					last = n
					absSum += int(abs16(v))
				}
			}
			if first < 0 || last-first < sbhThreshold {
				continue
			}
			signbit := 0
			if levels[codeParams.Scan[base+first]] < 0 {
				signbit = 1
			}
			assert.Equal(t, signbit, absSum&1, "trial %d cg %d", trial, cg)
		}
	}
}

func TestRDOQChromaBlock(t *testing.T) {
	q := newRDOQuant(t, 40)
	cu := interCU(28)
	q.SetQPforQuant(cu)

	rng := rand.New(rand.NewSource(59))
	residual := make([]int16, 64)
	for i := range residual {
		residual[i] = int16(rng.Intn(257) - 128)
	}
	levels := make([]int16, 64)
	numSig := q.TransformNxN(cu, nil, 0, residual, 8, levels, 3, TextChromaU, false)

	assert.Equal(t, uint32(dsp.CountNonZero(levels, 64)), numSig)
}

func TestRDOQPsyBiasKeepsMoreEnergy(t *testing.T) {
	// The psy bias rewards coded coefficients; with it on, RDOQ never codes
	// fewer coefficients on this block than a pure-MSE run, and the source
	// transform buffer is populated.
	cu := interCU(32)

	plain := newRDOQuant(t, 120)
	plain.SetQPforQuant(cu)

	psy := &Quant{}
	require.NoError(t, psy.Init(true, 2.0, NewScalingList()))
	fillEstBits(psy.EstBits())
	psy.SetLambdas(120, 120, 120)
	psy.SetQPforQuant(cu)

	rng := rand.New(rand.NewSource(61))
	fenc := make([]dsp.Pixel, 64)
	residual := make([]int16, 64)
	for i := range residual {
		fenc[i] = dsp.Pixel(rng.Intn(256))
		residual[i] = int16(rng.Intn(129) - 64)
	}

	lvlPlain := make([]int16, 64)
	nPlain := plain.TransformNxN(cu, fenc, 8, residual, 8, lvlPlain, 3, TextLuma, false)
	assert.Equal(t, uint32(dsp.CountNonZero(lvlPlain, 64)), nPlain)

	lvlPsy := make([]int16, 64)
	nPsy := psy.TransformNxN(cu, fenc, 8, residual, 8, lvlPsy, 3, TextLuma, false)
	assert.Equal(t, uint32(dsp.CountNonZero(lvlPsy, 64)), nPsy)
	assert.GreaterOrEqual(t, nPsy, nPlain)

	sawSource := false
	for _, v := range psy.fencDctCoeff[:64] {
		if v != 0 {
			sawSource = true
			break
		}
	}
	assert.True(t, sawSource)
}
