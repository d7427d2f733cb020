package quant

// Coefficient scan orders. HEVC scans every transform block as a grid of 4x4
// coefficient groups: the chosen scan pattern is applied once to the group
// grid and once within each group. All tables are built at init and are
// read-only afterwards.

// ScanType selects the coefficient scan order of a transform unit.
type ScanType uint32

const (
	ScanDiag ScanType = iota
	ScanHor
	ScanVer
	numScanTypes
)

const (
	// ScanSetSize is the number of coefficients in one coefficient group.
	ScanSetSize     = 16
	log2ScanSetSize = 4

	// MaxNumCoeffGroups is the CG count of a 32x32 block.
	MaxNumCoeffGroups = 64
)

// scanOrder maps [scanType][log2TrSize-2] to the full coefficient scan:
// scan position -> raster block position.
var scanOrder [numScanTypes][4][]uint16

// scanOrderCG maps [scanType][log2TrSizeCG] to the coefficient-group scan:
// CG scan position -> CG raster position.
var scanOrderCG [numScanTypes][4][]uint16

// scanPattern returns the scan of a w×w grid. The diagonal pattern walks
// each anti-diagonal from bottom-left to top-right.
func scanPattern(t ScanType, w int) []uint16 {
	out := make([]uint16, 0, w*w)
	switch t {
	case ScanHor:
		for y := 0; y < w; y++ {
			for x := 0; x < w; x++ {
				out = append(out, uint16(y*w+x))
			}
		}
	case ScanVer:
		for x := 0; x < w; x++ {
			for y := 0; y < w; y++ {
				out = append(out, uint16(y*w+x))
			}
		}
	default:
		for d := 0; d <= 2*(w-1); d++ {
			for x := 0; x <= d; x++ {
				y := d - x
				if x < w && y < w {
					out = append(out, uint16(y*w+x))
				}
			}
		}
	}
	return out
}

func buildScanTables() {
	for t := ScanType(0); t < numScanTypes; t++ {
		for log2CG := 0; log2CG < 4; log2CG++ {
			scanOrderCG[t][log2CG] = scanPattern(t, 1<<log2CG)
		}
		inner := scanPattern(t, 4)
		for sizeIdx := 0; sizeIdx < 4; sizeIdx++ {
			trSize := 4 << sizeIdx
			cgScan := scanOrderCG[t][sizeIdx]
			full := make([]uint16, 0, trSize*trSize)
			for _, cgPos := range cgScan {
				cgY := int(cgPos) >> sizeIdx << 2
				cgX := (int(cgPos) & (1<<sizeIdx - 1)) << 2
				for _, in := range inner {
					inY := int(in) >> 2
					inX := int(in) & 3
					full = append(full, uint16((cgY+inY)*trSize+cgX+inX))
				}
			}
			scanOrder[t][sizeIdx] = full
		}
	}
}

// TUEntropyCodingParameters is the entropy-coding geometry of one transform
// unit: its scan orders, CG grid size and the first significance-map context.
type TUEntropyCodingParameters struct {
	Scan                        []uint16
	ScanCG                      []uint16
	ScanType                    ScanType
	Log2TrSizeCG                uint32
	FirstSignificanceMapContext uint32
}

// coefScanType derives the scan order of an intra TU from its prediction
// direction. Mode-dependent scans apply only to small blocks: luma up to 8x8,
// chroma up to the size whose chroma transform is 4x4.
func coefScanType(log2TrSize uint32, isLuma, isIntra bool, dirMode uint32, chFmt ChromaFormat) ScanType {
	if !isIntra {
		return ScanDiag
	}
	maxLog2 := uint32(3)
	if !isLuma && chFmt != Chroma444 {
		maxLog2 = 2
	}
	if log2TrSize > maxLog2 {
		return ScanDiag
	}
	switch {
	case dirMode >= 6 && dirMode <= 14:
		return ScanVer
	case dirMode >= 22 && dirMode <= 30:
		return ScanHor
	default:
		return ScanDiag
	}
}

// GetTUEntropyCodingParameters fills the entropy-coding geometry for one TU.
func GetTUEntropyCodingParameters(log2TrSize uint32, isLuma, isIntra bool, dirMode uint32, chFmt ChromaFormat) TUEntropyCodingParameters {
	var p TUEntropyCodingParameters
	p.ScanType = coefScanType(log2TrSize, isLuma, isIntra, dirMode, chFmt)
	p.Log2TrSizeCG = log2TrSize - 2
	p.Scan = scanOrder[p.ScanType][log2TrSize-2]
	p.ScanCG = scanOrderCG[p.ScanType][p.Log2TrSizeCG]

	switch {
	case log2TrSize == 2:
		p.FirstSignificanceMapContext = 0
	case log2TrSize == 3:
		if p.ScanType != ScanDiag && isLuma {
			p.FirstSignificanceMapContext = 15
		} else {
			p.FirstSignificanceMapContext = 9
		}
	case isLuma:
		p.FirstSignificanceMapContext = 21
	default:
		p.FirstSignificanceMapContext = 12
	}
	return p
}

// groupIdx is the last-significant-position group index per coordinate 0..31.
var groupIdx = [32]uint32{
	0, 1, 2, 3, 4, 4, 5, 5, 6, 6, 6, 6, 7, 7, 7, 7,
	8, 8, 8, 8, 8, 8, 8, 8, 9, 9, 9, 9, 9, 9, 9, 9,
}

// goRiceRange is the maximum coeff_abs_level_remaining symbol coded with the
// plain Golomb-Rice code for each Rice parameter; larger symbols continue in
// exp-Golomb.
var goRiceRange = [5]uint32{7, 14, 26, 46, 78}

func init() {
	buildScanTables()
}
