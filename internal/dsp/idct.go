package dsp

// Inverse integer transforms. First-pass shift is 7; second-pass shift is
// 12 - (BitDepth - 8). Every butterfly output saturates to the signed 16-bit
// interval, matching the HEVC decoder exactly.

func clip16(v int32) int16 {
	if v < -32768 {
		return -32768
	}
	if v > 32767 {
		return 32767
	}
	return int16(v)
}

func partialButterflyInverse4(src, dst []int16, shift, line int) {
	add := int32(1) << (shift - 1)
	var e, o [2]int32

	for j := 0; j < line; j++ {
		o[0] = g_t4[1][0]*int32(src[line+j]) + g_t4[3][0]*int32(src[3*line+j])
		o[1] = g_t4[1][1]*int32(src[line+j]) + g_t4[3][1]*int32(src[3*line+j])
		e[0] = g_t4[0][0]*int32(src[j]) + g_t4[2][0]*int32(src[2*line+j])
		e[1] = g_t4[0][1]*int32(src[j]) + g_t4[2][1]*int32(src[2*line+j])

		d := dst[j*4:]
		d[0] = clip16((e[0] + o[0] + add) >> shift)
		d[1] = clip16((e[1] + o[1] + add) >> shift)
		d[2] = clip16((e[1] - o[1] + add) >> shift)
		d[3] = clip16((e[0] - o[0] + add) >> shift)
	}
}

func partialButterflyInverse8(src, dst []int16, shift, line int) {
	add := int32(1) << (shift - 1)
	var e, o [4]int32

	for j := 0; j < line; j++ {
		for k := 0; k < 4; k++ {
			o[k] = g_t8[1][k]*int32(src[line+j]) + g_t8[3][k]*int32(src[3*line+j]) +
				g_t8[5][k]*int32(src[5*line+j]) + g_t8[7][k]*int32(src[7*line+j])
		}
		eo0 := g_t8[2][0]*int32(src[2*line+j]) + g_t8[6][0]*int32(src[6*line+j])
		eo1 := g_t8[2][1]*int32(src[2*line+j]) + g_t8[6][1]*int32(src[6*line+j])
		ee0 := g_t8[0][0]*int32(src[j]) + g_t8[4][0]*int32(src[4*line+j])
		ee1 := g_t8[0][1]*int32(src[j]) + g_t8[4][1]*int32(src[4*line+j])

		e[0] = ee0 + eo0
		e[3] = ee0 - eo0
		e[1] = ee1 + eo1
		e[2] = ee1 - eo1

		d := dst[j*8:]
		for k := 0; k < 4; k++ {
			d[k] = clip16((e[k] + o[k] + add) >> shift)
			d[k+4] = clip16((e[3-k] - o[3-k] + add) >> shift)
		}
	}
}

func partialButterflyInverse16(src, dst []int16, shift, line int) {
	add := int32(1) << (shift - 1)
	var e, o [8]int32
	var ee, eo [4]int32
	var eee, eeo [2]int32

	for j := 0; j < line; j++ {
		for k := 0; k < 8; k++ {
			var sum int32
			for i := 0; i < 8; i++ {
				sum += g_t16[2*i+1][k] * int32(src[(2*i+1)*line+j])
			}
			o[k] = sum
		}
		for k := 0; k < 4; k++ {
			eo[k] = g_t16[2][k]*int32(src[2*line+j]) + g_t16[6][k]*int32(src[6*line+j]) +
				g_t16[10][k]*int32(src[10*line+j]) + g_t16[14][k]*int32(src[14*line+j])
		}
		eeo[0] = g_t16[4][0]*int32(src[4*line+j]) + g_t16[12][0]*int32(src[12*line+j])
		eeo[1] = g_t16[4][1]*int32(src[4*line+j]) + g_t16[12][1]*int32(src[12*line+j])
		eee[0] = g_t16[0][0]*int32(src[j]) + g_t16[8][0]*int32(src[8*line+j])
		eee[1] = g_t16[0][1]*int32(src[j]) + g_t16[8][1]*int32(src[8*line+j])

		ee[0] = eee[0] + eeo[0]
		ee[3] = eee[0] - eeo[0]
		ee[1] = eee[1] + eeo[1]
		ee[2] = eee[1] - eeo[1]
		for k := 0; k < 4; k++ {
			e[k] = ee[k] + eo[k]
			e[k+4] = ee[3-k] - eo[3-k]
		}

		d := dst[j*16:]
		for k := 0; k < 8; k++ {
			d[k] = clip16((e[k] + o[k] + add) >> shift)
			d[k+8] = clip16((e[7-k] - o[7-k] + add) >> shift)
		}
	}
}

func partialButterflyInverse32(src, dst []int16, shift, line int) {
	add := int32(1) << (shift - 1)
	var e, o [16]int32
	var ee, eo [8]int32
	var eee, eeo [4]int32
	var eeee, eeeo [2]int32

	for j := 0; j < line; j++ {
		for k := 0; k < 16; k++ {
			var sum int32
			for i := 0; i < 16; i++ {
				sum += g_t32[2*i+1][k] * int32(src[(2*i+1)*line+j])
			}
			o[k] = sum
		}
		for k := 0; k < 8; k++ {
			var sum int32
			for i := 0; i < 8; i++ {
				sum += g_t32[4*i+2][k] * int32(src[(4*i+2)*line+j])
			}
			eo[k] = sum
		}
		for k := 0; k < 4; k++ {
			var sum int32
			for i := 0; i < 4; i++ {
				sum += g_t32[8*i+4][k] * int32(src[(8*i+4)*line+j])
			}
			eeo[k] = sum
		}
		eeeo[0] = g_t32[8][0]*int32(src[8*line+j]) + g_t32[24][0]*int32(src[24*line+j])
		eeeo[1] = g_t32[8][1]*int32(src[8*line+j]) + g_t32[24][1]*int32(src[24*line+j])
		eeee[0] = g_t32[0][0]*int32(src[j]) + g_t32[16][0]*int32(src[16*line+j])
		eeee[1] = g_t32[0][1]*int32(src[j]) + g_t32[16][1]*int32(src[16*line+j])

		eee[0] = eeee[0] + eeeo[0]
		eee[3] = eeee[0] - eeeo[0]
		eee[1] = eeee[1] + eeeo[1]
		eee[2] = eeee[1] - eeeo[1]
		for k := 0; k < 4; k++ {
			ee[k] = eee[k] + eeo[k]
			ee[k+4] = eee[3-k] - eeo[3-k]
		}
		for k := 0; k < 8; k++ {
			e[k] = ee[k] + eo[k]
			e[k+8] = ee[7-k] - eo[7-k]
		}

		d := dst[j*32:]
		for k := 0; k < 16; k++ {
			d[k] = clip16((e[k] + o[k] + add) >> shift)
			d[k+16] = clip16((e[15-k] - o[15-k] + add) >> shift)
		}
	}
}

// inverseDst is one pass of the inverse 4-point DST-VII.
func inverseDst(tmp, block []int16, shift int) {
	rnd := int32(1) << (shift - 1)
	var c [4]int32

	for i := 0; i < 4; i++ {
		t0 := int32(tmp[i])
		t1 := int32(tmp[4+i])
		t2 := int32(tmp[8+i])
		t3 := int32(tmp[12+i])

		c[0] = t0 + t2
		c[1] = t2 + t3
		c[2] = t0 - t3
		c[3] = 74 * t1

		block[4*i+0] = clip16((29*c[0] + 55*c[1] + c[3] + rnd) >> shift)
		block[4*i+1] = clip16((55*c[2] - 29*c[1] + c[3] + rnd) >> shift)
		block[4*i+2] = clip16((74*(t0-t2+t3) + rnd) >> shift)
		block[4*i+3] = clip16((55*c[0] + 29*c[2] - c[3] + rnd) >> shift)
	}
}

// narrow converts dequantized int32 coefficients (already clamped to the
// signed 16-bit interval) into the int16 working block.
func narrow(dst []int16, src []int32, n int) {
	for i := 0; i < n; i++ {
		dst[i] = int16(src[i])
	}
}

func scatterBlock(dst []int16, dstStride int, src []int16, size int) {
	for i := 0; i < size; i++ {
		copy(dst[i*dstStride:i*dstStride+size], src[i*size:i*size+size])
	}
}

func idst4(src []int32, dst []int16, dstStride int) {
	shift2 := 12 - (BitDepth - 8)
	var coef, block [4 * 4]int16

	narrow(block[:], src, 16)
	inverseDst(block[:], coef[:], 7)
	inverseDst(coef[:], block[:], shift2)
	scatterBlock(dst, dstStride, block[:], 4)
}

func idct4(src []int32, dst []int16, dstStride int) {
	shift2 := 12 - (BitDepth - 8)
	var coef, block [4 * 4]int16

	narrow(block[:], src, 16)
	partialButterflyInverse4(block[:], coef[:], 7, 4)
	partialButterflyInverse4(coef[:], block[:], shift2, 4)
	scatterBlock(dst, dstStride, block[:], 4)
}

func idct8(src []int32, dst []int16, dstStride int) {
	shift2 := 12 - (BitDepth - 8)
	var coef, block [8 * 8]int16

	narrow(block[:], src, 64)
	partialButterflyInverse8(block[:], coef[:], 7, 8)
	partialButterflyInverse8(coef[:], block[:], shift2, 8)
	scatterBlock(dst, dstStride, block[:], 8)
}

func idct16(src []int32, dst []int16, dstStride int) {
	shift2 := 12 - (BitDepth - 8)
	var coef, block [16 * 16]int16

	narrow(block[:], src, 256)
	partialButterflyInverse16(block[:], coef[:], 7, 16)
	partialButterflyInverse16(coef[:], block[:], shift2, 16)
	scatterBlock(dst, dstStride, block[:], 16)
}

func idct32(src []int32, dst []int16, dstStride int) {
	shift2 := 12 - (BitDepth - 8)
	var coef, block [32 * 32]int16

	narrow(block[:], src, 1024)
	partialButterflyInverse32(block[:], coef[:], 7, 32)
	partialButterflyInverse32(coef[:], block[:], shift2, 32)
	scatterBlock(dst, dstStride, block[:], 32)
}

// blockFill replicates a single value into a strided square block. It backs
// the DC-only fast path of the inverse transform.
func blockFill(dst []int16, stride int, size int, val int16) {
	for i := 0; i < size; i++ {
		row := dst[i*stride : i*stride+size]
		for j := range row {
			row[j] = val
		}
	}
}

// CountNonZero returns the number of non-zero levels among the first num
// entries.
func CountNonZero(levels []int16, num int) int {
	n := 0
	for _, v := range levels[:num] {
		if v != 0 {
			n++
		}
	}
	return n
}
