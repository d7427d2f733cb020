package dsp

// Forward integer transforms. Each dctN entry point copies the strided
// residual into a contiguous block, runs two partial-butterfly passes (the
// second pass operates on the transposed output of the first), and widens the
// result into the int32 coefficient buffer.
//
// First-pass shift is log2TrSize - 1 + (BitDepth - 8); second-pass shift is
// log2TrSize + 6. Rounding is 1 << (shift - 1) throughout.

func partialButterfly4(src, dst []int16, shift, line int) {
	add := int32(1) << (shift - 1)
	var e, o [2]int32

	for j := 0; j < line; j++ {
		s := src[j*4:]
		e[0] = int32(s[0]) + int32(s[3])
		o[0] = int32(s[0]) - int32(s[3])
		e[1] = int32(s[1]) + int32(s[2])
		o[1] = int32(s[1]) - int32(s[2])

		dst[0*line+j] = int16((g_t4[0][0]*e[0] + g_t4[0][1]*e[1] + add) >> shift)
		dst[2*line+j] = int16((g_t4[2][0]*e[0] + g_t4[2][1]*e[1] + add) >> shift)
		dst[1*line+j] = int16((g_t4[1][0]*o[0] + g_t4[1][1]*o[1] + add) >> shift)
		dst[3*line+j] = int16((g_t4[3][0]*o[0] + g_t4[3][1]*o[1] + add) >> shift)
	}
}

func partialButterfly8(src, dst []int16, shift, line int) {
	add := int32(1) << (shift - 1)
	var e, o [4]int32
	var ee, eo [2]int32

	for j := 0; j < line; j++ {
		s := src[j*8:]
		for k := 0; k < 4; k++ {
			e[k] = int32(s[k]) + int32(s[7-k])
			o[k] = int32(s[k]) - int32(s[7-k])
		}
		ee[0] = e[0] + e[3]
		eo[0] = e[0] - e[3]
		ee[1] = e[1] + e[2]
		eo[1] = e[1] - e[2]

		dst[0*line+j] = int16((g_t8[0][0]*ee[0] + g_t8[0][1]*ee[1] + add) >> shift)
		dst[4*line+j] = int16((g_t8[4][0]*ee[0] + g_t8[4][1]*ee[1] + add) >> shift)
		dst[2*line+j] = int16((g_t8[2][0]*eo[0] + g_t8[2][1]*eo[1] + add) >> shift)
		dst[6*line+j] = int16((g_t8[6][0]*eo[0] + g_t8[6][1]*eo[1] + add) >> shift)

		for k := 1; k < 8; k += 2 {
			dst[k*line+j] = int16((g_t8[k][0]*o[0] + g_t8[k][1]*o[1] +
				g_t8[k][2]*o[2] + g_t8[k][3]*o[3] + add) >> shift)
		}
	}
}

func partialButterfly16(src, dst []int16, shift, line int) {
	add := int32(1) << (shift - 1)
	var e, o [8]int32
	var ee, eo [4]int32
	var eee, eeo [2]int32

	for j := 0; j < line; j++ {
		s := src[j*16:]
		for k := 0; k < 8; k++ {
			e[k] = int32(s[k]) + int32(s[15-k])
			o[k] = int32(s[k]) - int32(s[15-k])
		}
		for k := 0; k < 4; k++ {
			ee[k] = e[k] + e[7-k]
			eo[k] = e[k] - e[7-k]
		}
		eee[0] = ee[0] + ee[3]
		eeo[0] = ee[0] - ee[3]
		eee[1] = ee[1] + ee[2]
		eeo[1] = ee[1] - ee[2]

		dst[0*line+j] = int16((g_t16[0][0]*eee[0] + g_t16[0][1]*eee[1] + add) >> shift)
		dst[8*line+j] = int16((g_t16[8][0]*eee[0] + g_t16[8][1]*eee[1] + add) >> shift)
		dst[4*line+j] = int16((g_t16[4][0]*eeo[0] + g_t16[4][1]*eeo[1] + add) >> shift)
		dst[12*line+j] = int16((g_t16[12][0]*eeo[0] + g_t16[12][1]*eeo[1] + add) >> shift)

		for k := 2; k < 16; k += 4 {
			dst[k*line+j] = int16((g_t16[k][0]*eo[0] + g_t16[k][1]*eo[1] +
				g_t16[k][2]*eo[2] + g_t16[k][3]*eo[3] + add) >> shift)
		}
		for k := 1; k < 16; k += 2 {
			var sum int32
			for i := 0; i < 8; i++ {
				sum += g_t16[k][i] * o[i]
			}
			dst[k*line+j] = int16((sum + add) >> shift)
		}
	}
}

func partialButterfly32(src, dst []int16, shift, line int) {
	add := int32(1) << (shift - 1)
	var e, o [16]int32
	var ee, eo [8]int32
	var eee, eeo [4]int32
	var eeee, eeeo [2]int32

	for j := 0; j < line; j++ {
		s := src[j*32:]
		for k := 0; k < 16; k++ {
			e[k] = int32(s[k]) + int32(s[31-k])
			o[k] = int32(s[k]) - int32(s[31-k])
		}
		for k := 0; k < 8; k++ {
			ee[k] = e[k] + e[15-k]
			eo[k] = e[k] - e[15-k]
		}
		for k := 0; k < 4; k++ {
			eee[k] = ee[k] + ee[7-k]
			eeo[k] = ee[k] - ee[7-k]
		}
		eeee[0] = eee[0] + eee[3]
		eeeo[0] = eee[0] - eee[3]
		eeee[1] = eee[1] + eee[2]
		eeeo[1] = eee[1] - eee[2]

		dst[0*line+j] = int16((g_t32[0][0]*eeee[0] + g_t32[0][1]*eeee[1] + add) >> shift)
		dst[16*line+j] = int16((g_t32[16][0]*eeee[0] + g_t32[16][1]*eeee[1] + add) >> shift)
		dst[8*line+j] = int16((g_t32[8][0]*eeeo[0] + g_t32[8][1]*eeeo[1] + add) >> shift)
		dst[24*line+j] = int16((g_t32[24][0]*eeeo[0] + g_t32[24][1]*eeeo[1] + add) >> shift)

		for k := 4; k < 32; k += 8 {
			dst[k*line+j] = int16((g_t32[k][0]*eeo[0] + g_t32[k][1]*eeo[1] +
				g_t32[k][2]*eeo[2] + g_t32[k][3]*eeo[3] + add) >> shift)
		}
		for k := 2; k < 32; k += 4 {
			var sum int32
			for i := 0; i < 8; i++ {
				sum += g_t32[k][i] * eo[i]
			}
			dst[k*line+j] = int16((sum + add) >> shift)
		}
		for k := 1; k < 32; k += 2 {
			var sum int32
			for i := 0; i < 16; i++ {
				sum += g_t32[k][i] * o[i]
			}
			dst[k*line+j] = int16((sum + add) >> shift)
		}
	}
}

// fastForwardDst is one pass of the 4-point DST-VII.
func fastForwardDst(block, coeff []int16, shift int) {
	rnd := int32(1) << (shift - 1)
	var c [4]int32

	for i := 0; i < 4; i++ {
		b0 := int32(block[4*i+0])
		b1 := int32(block[4*i+1])
		b2 := int32(block[4*i+2])
		b3 := int32(block[4*i+3])

		c[0] = b0 + b3
		c[1] = b1 + b3
		c[2] = b0 - b1
		c[3] = 74 * b2

		coeff[i] = int16((29*c[0] + 55*c[1] + c[3] + rnd) >> shift)
		coeff[4+i] = int16((74*(b0+b1-b3) + rnd) >> shift)
		coeff[8+i] = int16((29*c[2] + 55*c[0] - c[3] + rnd) >> shift)
		coeff[12+i] = int16((55*c[2] - 29*c[1] + c[3] + rnd) >> shift)
	}
}

// copyBlock gathers a strided int16 residual into a contiguous block.
func copyBlock(dst []int16, src []int16, size, srcStride int) {
	for i := 0; i < size; i++ {
		copy(dst[i*size:i*size+size], src[i*srcStride:i*srcStride+size])
	}
}

func widen(dst []int32, src []int16, n int) {
	for i := 0; i < n; i++ {
		dst[i] = int32(src[i])
	}
}

func dst4(src []int16, dst []int32, srcStride int) {
	shift1 := 1 + BitDepth - 8
	var block, coef [4 * 4]int16

	copyBlock(block[:], src, 4, srcStride)
	fastForwardDst(block[:], coef[:], shift1)
	fastForwardDst(coef[:], block[:], 8)
	widen(dst, block[:], 16)
}

func dct4(src []int16, dst []int32, srcStride int) {
	shift1 := 1 + BitDepth - 8
	var block, coef [4 * 4]int16

	copyBlock(block[:], src, 4, srcStride)
	partialButterfly4(block[:], coef[:], shift1, 4)
	partialButterfly4(coef[:], block[:], 8, 4)
	widen(dst, block[:], 16)
}

func dct8(src []int16, dst []int32, srcStride int) {
	shift1 := 2 + BitDepth - 8
	var block, coef [8 * 8]int16

	copyBlock(block[:], src, 8, srcStride)
	partialButterfly8(block[:], coef[:], shift1, 8)
	partialButterfly8(coef[:], block[:], 9, 8)
	widen(dst, block[:], 64)
}

func dct16(src []int16, dst []int32, srcStride int) {
	shift1 := 3 + BitDepth - 8
	var block, coef [16 * 16]int16

	copyBlock(block[:], src, 16, srcStride)
	partialButterfly16(block[:], coef[:], shift1, 16)
	partialButterfly16(coef[:], block[:], 10, 16)
	widen(dst, block[:], 256)
}

func dct32(src []int16, dst []int32, srcStride int) {
	shift1 := 4 + BitDepth - 8
	var block, coef [32 * 32]int16

	copyBlock(block[:], src, 32, srcStride)
	partialButterfly32(block[:], coef[:], shift1, 32)
	partialButterfly32(coef[:], block[:], 11, 32)
	widen(dst, block[:], 1024)
}
