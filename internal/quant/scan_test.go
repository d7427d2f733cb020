package quant

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiagScan4x4(t *testing.T) {
	want := []uint16{0, 4, 1, 8, 5, 2, 12, 9, 6, 3, 13, 10, 7, 14, 11, 15}
	assert.Equal(t, want, scanOrder[ScanDiag][0])
}

func TestDiagScan8x8FirstGroup(t *testing.T) {
	// The first CG of the 8x8 diagonal scan is the top-left group walked
	// diagonally within the full block.
	want := []uint16{0, 8, 1, 16, 9, 2, 24, 17, 10, 3, 25, 18, 11, 26, 19, 27}
	assert.Equal(t, want, scanOrder[ScanDiag][1][:16])
}

func TestHorVerScan8x8(t *testing.T) {
	assert.Equal(t, []uint16{0, 1, 2, 3, 8, 9, 10, 11}, scanOrder[ScanHor][1][:8])
	assert.Equal(t, []uint16{0, 8, 16, 24, 1, 9, 17, 25}, scanOrder[ScanVer][1][:8])

	// second CG of the horizontal scan is the top-right group
	assert.Equal(t, uint16(4), scanOrder[ScanHor][1][16])
}

func TestScanCoversAllPositions(t *testing.T) {
	for ty := ScanType(0); ty < numScanTypes; ty++ {
		for sizeIdx := 0; sizeIdx < 4; sizeIdx++ {
			trSize := 4 << sizeIdx
			scan := scanOrder[ty][sizeIdx]
			require.Len(t, scan, trSize*trSize)

			seen := make(map[uint16]bool, len(scan))
			for _, pos := range scan {
				require.Less(t, int(pos), trSize*trSize)
				require.False(t, seen[pos], "duplicate position %d", pos)
				seen[pos] = true
			}
		}
	}
}

func TestScanCGDiag(t *testing.T) {
	assert.Equal(t, []uint16{0}, scanOrderCG[ScanDiag][0])
	assert.Equal(t, []uint16{0, 2, 1, 3}, scanOrderCG[ScanDiag][1])
	assert.Equal(t, uint16(8), scanOrderCG[ScanDiag][3][1])
}

func TestCoefScanTypeSelection(t *testing.T) {
	// inter blocks always scan diagonally
	assert.Equal(t, ScanDiag, coefScanType(2, true, false, 10, Chroma420))

	// near-horizontal intra modes use the vertical scan on small luma blocks
	assert.Equal(t, ScanVer, coefScanType(2, true, true, 6, Chroma420))
	assert.Equal(t, ScanVer, coefScanType(3, true, true, 14, Chroma420))
	// near-vertical modes use the horizontal scan
	assert.Equal(t, ScanHor, coefScanType(3, true, true, 22, Chroma420))
	assert.Equal(t, ScanHor, coefScanType(2, true, true, 30, Chroma420))
	// diagonal otherwise, and always above 8x8
	assert.Equal(t, ScanDiag, coefScanType(2, true, true, 18, Chroma420))
	assert.Equal(t, ScanDiag, coefScanType(4, true, true, 26, Chroma420))

	// 4:2:0 chroma only below 8x8
	assert.Equal(t, ScanHor, coefScanType(2, false, true, 26, Chroma420))
	assert.Equal(t, ScanDiag, coefScanType(3, false, true, 26, Chroma420))
	assert.Equal(t, ScanHor, coefScanType(3, false, true, 26, Chroma444))
}

func TestFirstSignificanceMapContext(t *testing.T) {
	tests := []struct {
		log2   uint32
		isLuma bool
		mode   uint32
		want   uint32
	}{
		{2, true, 0, 0},
		{3, true, 0, 9},   // diag
		{3, true, 26, 15}, // horizontal scan
		{3, false, 0, 9},
		{4, true, 0, 21},
		{5, false, 0, 12},
	}
	for _, tt := range tests {
		p := GetTUEntropyCodingParameters(tt.log2, tt.isLuma, true, tt.mode, Chroma420)
		assert.Equal(t, tt.want, p.FirstSignificanceMapContext,
			"log2=%d luma=%v mode=%d", tt.log2, tt.isLuma, tt.mode)
	}
}

func TestGroupIdx(t *testing.T) {
	assert.Equal(t, uint32(0), groupIdx[0])
	assert.Equal(t, uint32(4), groupIdx[5])
	assert.Equal(t, uint32(7), groupIdx[15])
	assert.Equal(t, uint32(9), groupIdx[31])
}
