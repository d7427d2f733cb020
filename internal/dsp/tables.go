package dsp

// HEVC integer transform matrices.
//
// Only the 4-point matrix and the odd-row halves of the 8/16/32-point
// matrices are stored literally; the even rows of each size embed the rows of
// the next smaller transform (DCT-II recursion), and the second half of every
// row follows from the row's symmetry. buildTransformTables expands the full
// matrices once at package init.

// g_t4 is the 4-point transform matrix.
var g_t4 = [4][4]int32{
	{64, 64, 64, 64},
	{83, 36, -36, -83},
	{64, -64, -64, 64},
	{36, -83, 83, -36},
}

// First halves of the odd rows of the 8, 16 and 32-point matrices.
var oddRows8 = [4][4]int32{
	{89, 75, 50, 18},
	{75, -18, -89, -50},
	{50, -89, 18, 75},
	{18, -50, 75, -89},
}

var oddRows16 = [8][8]int32{
	{90, 87, 80, 70, 57, 43, 25, 9},
	{87, 57, 9, -43, -80, -90, -70, -25},
	{80, 9, -70, -87, -25, 57, 90, 43},
	{70, -43, -87, 9, 90, 25, -80, -57},
	{57, -80, -25, 90, -9, -87, 43, 70},
	{43, -90, 57, 25, -87, 70, 9, -80},
	{25, -70, 90, -80, 43, 9, -57, 87},
	{9, -25, 43, -57, 70, -80, 87, -90},
}

var oddRows32 = [16][16]int32{
	{90, 90, 88, 85, 82, 78, 73, 67, 61, 54, 46, 38, 31, 22, 13, 4},
	{90, 82, 67, 46, 22, -4, -31, -54, -73, -85, -90, -88, -78, -61, -38, -13},
	{88, 67, 31, -13, -54, -82, -90, -78, -46, -4, 38, 73, 90, 85, 61, 22},
	{85, 46, -13, -67, -90, -73, -22, 38, 82, 88, 54, -4, -61, -90, -78, -31},
	{82, 22, -54, -90, -61, 13, 78, 85, 31, -46, -90, -67, 4, 73, 88, 38},
	{78, -4, -82, -73, 13, 85, 67, -22, -88, -61, 31, 90, 54, -38, -90, -46},
	{73, -31, -90, -22, 78, 67, -38, -90, -13, 82, 61, -46, -88, -4, 85, 54},
	{67, -54, -78, 38, 85, -22, -90, 4, 90, 13, -88, -31, 82, 46, -73, -61},
	{61, -73, -46, 82, 31, -88, -13, 90, -4, -90, 22, 85, -38, -78, 54, 67},
	{54, -85, -4, 88, -46, -61, 82, 13, -90, 38, 67, -78, -22, 90, -31, -73},
	{46, -90, 38, 54, -90, 31, 61, -88, 22, 67, -85, 13, 73, -82, 4, 78},
	{38, -88, 73, -4, -67, 90, -46, -31, 85, -78, 13, 61, -90, 54, 22, -82},
	{31, -78, 90, -61, 4, 54, -88, 82, -38, -22, 73, -90, 67, -13, -46, 85},
	{22, -61, 85, -90, 73, -38, -4, 46, -78, 90, -82, 54, -13, -31, 67, -88},
	{13, -38, 61, -78, 88, -90, 85, -73, 54, -31, 4, 22, -46, 67, -82, 90},
	{4, -13, 22, -31, 38, -46, 54, -61, 67, -73, 78, -82, 85, -88, 90, -90},
}

// Full matrices, expanded at init.
var (
	g_t8  [8][8]int32
	g_t16 [16][16]int32
	g_t32 [32][32]int32
)

// g_tDst is the 4-point DST-VII matrix used for intra luma 4x4 residuals.
var g_tDst = [4][4]int32{
	{29, 55, 74, 84},
	{74, 74, 0, -74},
	{84, -29, -74, 55},
	{55, -84, 74, -29},
}

// expandTransform fills a full n-point matrix: even rows come from the half-size
// matrix mirrored symmetrically, odd rows from the literal half-rows mirrored
// antisymmetrically.
func expandTransform(n int, even func(k, i int) int32, odd func(k, i int) int32, set func(k, i int, v int32)) {
	h := n / 2
	for k := 0; k < h; k++ {
		for i := 0; i < h; i++ {
			e := even(k, i)
			set(2*k, i, e)
			set(2*k, n-1-i, e)
			o := odd(k, i)
			set(2*k+1, i, o)
			set(2*k+1, n-1-i, -o)
		}
	}
}

func buildTransformTables() {
	expandTransform(8,
		func(k, i int) int32 { return g_t4[k][i] },
		func(k, i int) int32 { return oddRows8[k][i] },
		func(k, i int, v int32) { g_t8[k][i] = v })
	expandTransform(16,
		func(k, i int) int32 { return g_t8[k][i] },
		func(k, i int) int32 { return oddRows16[k][i] },
		func(k, i int, v int32) { g_t16[k][i] = v })
	expandTransform(32,
		func(k, i int) int32 { return g_t16[k][i] },
		func(k, i int) int32 { return oddRows32[k][i] },
		func(k, i int, v int32) { g_t32[k][i] = v })
}
