package quant

import "github.com/deepteams/hevc/internal/dsp"

// TextType identifies the plane a transform block belongs to.
type TextType int

const (
	TextLuma TextType = iota
	TextChromaU
	TextChromaV
	numTextTypes
)

// ChromaFormat is the chroma subsampling of the sequence.
type ChromaFormat int

const (
	Chroma420 ChromaFormat = iota + 1
	Chroma422
	Chroma444
)

// SliceType distinguishes intra-only slices (they use a stronger rounding
// offset in the scalar quantizer).
type SliceType int

const (
	SliceI SliceType = iota
	SliceP
	SliceB
)

// QpParam is the per-plane quantization parameter, split into its period and
// remainder against the six-step QP ladder.
type QpParam struct {
	QP  int
	Per int
	Rem int
}

func (q *QpParam) set(qpScaled int) {
	q.QP = qpScaled
	q.Per = qpScaled / 6
	q.Rem = qpScaled % 6
}

// QpBDOffset is the QP range extension for the configured bit depth.
func QpBDOffset() int {
	return 6 * (dsp.BitDepth - 8)
}

// chromaScale maps a luma QP to the chroma QP for 4:2:0 content
// (HEVC Table 8-10, identity below 30).
var chromaScale = [58]uint8{
	0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16, 17,
	18, 19, 20, 21, 22, 23, 24, 25, 26, 27, 28, 29, 29, 30, 31, 32,
	33, 33, 34, 34, 35, 35, 36, 36, 37, 37, 38, 39, 40, 41, 42, 43,
	44, 45, 46, 47, 48, 49, 50, 51,
}

func clip3(minv, maxv, v int) int {
	if v < minv {
		return minv
	}
	if v > maxv {
		return maxv
	}
	return v
}
