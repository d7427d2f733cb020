package dsp

// HEVC intra prediction.
//
// Every predictor receives the neighbour samples as a single 4N+1 reference
// array: srcPix[0] is the top-left corner, srcPix[1..2N] the top row
// (including top-right extension), srcPix[2N+1..4N] the left column
// (including bottom-left extension). Horizontal angular modes flip the two
// halves of the reference up front and transpose the output at the end, so a
// single projection loop serves all 33 directions.

// intraAngleTable maps (mode distance from pure vertical/horizontal) to the
// signed projection angle in 1/32 sample units.
var intraAngleTable = [17]int32{-32, -26, -21, -17, -13, -9, -5, -2, 0, 2, 5, 9, 13, 17, 21, 26, 32}

// intraInvAngleTable is (256*32)/angle for the negative angles, used to
// project side-reference samples onto the main reference.
var intraInvAngleTable = [8]int32{4096, 1638, 910, 630, 482, 390, 315, 256}

// IntraFilterFlags marks, per mode, the block sizes whose reference samples
// are smoothed before prediction; bit 1<<log2Size (4, 8, 16, 32) per size.
var IntraFilterFlags = [NumIntraMode]uint8{
	0x38, 0x00, 0x38, 0x30, 0x30, 0x30, 0x30, 0x30, 0x30, 0x20, 0x00, 0x20,
	0x30, 0x30, 0x30, 0x30, 0x30, 0x30, 0x38, 0x30, 0x30, 0x30, 0x30, 0x30,
	0x30, 0x20, 0x00, 0x20, 0x30, 0x30, 0x30, 0x30, 0x30, 0x30, 0x38,
}

// planarPred bilinearly blends the top row, left column, top-right and
// bottom-left references.
func planarPred(log2Size int, dst []Pixel, dstStride int, srcPix []Pixel) {
	blkSize := 1 << log2Size

	above := srcPix[1:]
	left := srcPix[2*blkSize+1:]

	topRight := int(above[blkSize])
	bottomLeft := int(left[blkSize])
	for y := 0; y < blkSize; y++ {
		for x := 0; x < blkSize; x++ {
			dst[y*dstStride+x] = Pixel(((blkSize-1-x)*int(left[y]) +
				(blkSize-1-y)*int(above[x]) +
				(x+1)*topRight + (y+1)*bottomLeft + blkSize) >> (log2Size + 1))
		}
	}
}

// dcPredFilter smooths the top row and left column of a DC-predicted block
// against the reference samples.
func dcPredFilter(above, left []Pixel, dst []Pixel, dstStride, size int) {
	dst[0] = Pixel((int(above[0]) + int(left[0]) + 2*int(dst[0]) + 2) >> 2)

	for x := 1; x < size; x++ {
		dst[x] = Pixel((int(above[x]) + 3*int(dst[x]) + 2) >> 2)
	}
	for y := 1; y < size; y++ {
		dst[y*dstStride] = Pixel((int(left[y]) + 3*int(dst[y*dstStride]) + 2) >> 2)
	}
}

func intraPredDC(width int, dst []Pixel, dstStride int, srcPix []Pixel, bFilter bool) {
	dcVal := width
	for i := 0; i < width; i++ {
		dcVal += int(srcPix[1+i]) + int(srcPix[2*width+1+i])
	}
	dcVal /= width + width

	for k := 0; k < width; k++ {
		for l := 0; l < width; l++ {
			dst[k*dstStride+l] = Pixel(dcVal)
		}
	}

	if bFilter && width <= 16 {
		dcPredFilter(srcPix[1:], srcPix[2*width+1:], dst, dstStride, width)
	}
}

// intraPredAng predicts one directional mode (2..34).
func intraPredAng(width int, dst []Pixel, dstStride int, srcPix []Pixel, dirMode int, bFilter bool) {
	width2 := width << 1
	horMode := dirMode < 18

	// Flip the two reference halves for the horizontal group; the output is
	// transposed back at the end.
	var neighbourBuf [129]Pixel
	if horMode {
		neighbourBuf[0] = srcPix[0]
		for i := 0; i < width2; i++ {
			neighbourBuf[1+i] = srcPix[width2+1+i]
			neighbourBuf[width2+1+i] = srcPix[1+i]
		}
		srcPix = neighbourBuf[:]
	}

	var angleOffset int
	if horMode {
		angleOffset = 10 - dirMode
	} else {
		angleOffset = dirMode - 26
	}
	angle := int(intraAngleTable[8+angleOffset])

	if angle == 0 {
		// Pure vertical (or horizontal after the flip).
		for y := 0; y < width; y++ {
			for x := 0; x < width; x++ {
				dst[y*dstStride+x] = srcPix[1+x]
			}
		}

		if bFilter && width <= 16 {
			topLeft := int(srcPix[0])
			top := int(srcPix[1])
			for y := 0; y < width; y++ {
				dst[y*dstStride] = clipPixel(top + ((int(srcPix[width2+1+y]) - topLeft) >> 1))
			}
		}
	} else {
		// ref[refBase] is the first sample above the block; negative angles
		// project side-reference samples into the slots before it.
		var refBuf [64]Pixel
		var ref []Pixel
		refBase := 0

		if angle < 0 {
			nbProjected := -((width * angle) >> 5) - 1
			refBase = nbProjected + 1

			invAngle := int(intraInvAngleTable[-angleOffset-1])
			invAngleSum := 128
			for i := 0; i < nbProjected; i++ {
				invAngleSum += invAngle
				refBuf[refBase-2-i] = srcPix[width2+(invAngleSum>>8)]
			}

			for i := 0; i < width+1; i++ {
				refBuf[refBase-1+i] = srcPix[i]
			}
			ref = refBuf[:]
		} else {
			ref = srcPix
			refBase = 1
		}

		angleSum := 0
		for y := 0; y < width; y++ {
			angleSum += angle
			offset := refBase + (angleSum >> 5)
			fraction := angleSum & 31

			if fraction != 0 {
				for x := 0; x < width; x++ {
					dst[y*dstStride+x] = Pixel(((32-fraction)*int(ref[offset+x]) +
						fraction*int(ref[offset+x+1]) + 16) >> 5)
				}
			} else {
				for x := 0; x < width; x++ {
					dst[y*dstStride+x] = ref[offset+x]
				}
			}
		}
	}

	if horMode {
		transposeInPlace(dst, dstStride, width)
	}
}

func transposeInPlace(blk []Pixel, stride, size int) {
	for k := 0; k < size-1; k++ {
		for l := k + 1; l < size; l++ {
			blk[k*stride+l], blk[l*stride+k] = blk[l*stride+k], blk[k*stride+l]
		}
	}
}

// allAngsPred fills dest with all 33 angular predictions, one packed
// size*size block per mode starting at mode 2. Horizontal modes are stored
// untransposed so that mode cost scans can walk them linearly; a second
// transpose cancels the one intraPredAng applies.
func allAngsPred(log2Size int, dest []Pixel, refPix, filtPix []Pixel, bLuma bool) {
	size := 1 << log2Size
	for mode := 2; mode <= 34; mode++ {
		srcPix := refPix
		if IntraFilterFlags[mode]&uint8(size) != 0 {
			srcPix = filtPix
		}
		out := dest[(mode-2)<<(log2Size*2):]

		intraPredAng(size, out, size, srcPix, mode, bLuma)

		if mode < 18 {
			transposeInPlace(out, size, size)
		}
	}
}

func initIntraPredictors() {
	for sizeIdx := 0; sizeIdx < 4; sizeIdx++ {
		log2Size := sizeIdx + 2
		size := 1 << log2Size

		IntraPred[0][sizeIdx] = func(dst []Pixel, dstStride int, srcPix []Pixel, _ bool) {
			planarPred(log2Size, dst, dstStride, srcPix)
		}
		IntraPred[1][sizeIdx] = func(dst []Pixel, dstStride int, srcPix []Pixel, bFilter bool) {
			intraPredDC(size, dst, dstStride, srcPix, bFilter)
		}
		for mode := 2; mode < NumIntraMode; mode++ {
			mode := mode
			IntraPred[mode][sizeIdx] = func(dst []Pixel, dstStride int, srcPix []Pixel, bFilter bool) {
				intraPredAng(size, dst, dstStride, srcPix, mode, bFilter)
			}
		}

		IntraPredAllAngs[sizeIdx] = func(dst []Pixel, refPix, filtPix []Pixel, bLuma bool) {
			allAngsPred(log2Size, dst, refPix, filtPix, bLuma)
		}
	}
}
