package quant

import (
	"math"
	"math/bits"

	"github.com/deepteams/hevc/internal/dsp"
)

// Rate-distortion optimized quantization. Coefficient groups are walked in
// reverse scan order; each coefficient picks the level minimising
// distortion + lambda*rate against the CABAC cost estimates, whole groups may
// collapse to zero, the last significant position is re-optimised, and a
// final RD-driven sign-hiding pass repairs CG parity.

const (
	// coefRemainBinReduction is the Golomb-Rice prefix threshold after which
	// coeff_abs_level_remaining continues in exp-Golomb.
	coefRemainBinReduction = 3

	// c1FlagNumber bounds how many greater-1 flags a coefficient group codes.
	c1FlagNumber = 8
)

// coeffGroupRDStats accumulates the per-CG numbers the all-zero-group
// decision needs.
type coeffGroupRDStats struct {
	nnzBeforePos0     int     // sum of in-CG scan positions of non-zero coefficients; 0 iff only position 0 is coded
	codedLevelAndDist float64 // distortion and level cost of coded coefficients
	uncodedDist       float64 // uncoded distortion of coded coefficients
	sigCost           float64 // cost of the significance bitmap
	sigCost0          float64 // significance cost of coefficient 0 alone
}

func sign32(x, y int32) int32 {
	if y < 0 {
		return -x
	}
	return x
}

// getICRate is the exact rate of coding absLevel in the current context; the
// sign-hiding pass uses it to price level adjustments. diffLevel < 0 means
// the level is fully covered by the greater-1/greater-2 flags.
func getICRate(absLevel uint32, diffLevel int32, greaterOneBits, levelAbsBits *[2]int, absGoRice, c1c2Idx uint32) int {
	if absLevel == 0 {
		return 0
	}

	if diffLevel < 0 {
		rate := greaterOneBits[b2i(absLevel == 2)]
		if absLevel == 2 {
			rate += levelAbsBits[0]
		}
		return rate
	}

	rate := 0
	symbol := uint32(diffLevel)
	maxVlc := goRiceRange[absGoRice]
	if symbol > maxVlc {
		// exp-Golomb continuation
		egLevel := symbol - maxVlc
		egs := (bits.Len32(egLevel)-1)*2 + 1
		rate += egs << 15
		symbol = maxVlc + 1
	}

	prefLen := (symbol >> absGoRice) + 1
	numBins := prefLen + absGoRice
	if numBins > 8 {
		numBins = 8
	}
	rate += int(numBins) << 15

	if c1c2Idx&1 != 0 {
		rate += greaterOneBits[1]
	}
	if c1c2Idx == 3 {
		rate += levelAbsBits[1]
	}
	return rate
}

// getICRateCost approximates the rate of absLevel for the level search.
func getICRateCost(absLevel uint32, diffLevel int32, greaterOneBits, levelAbsBits *[2]int, absGoRice, c1c2Idx uint32) int {
	if diffLevel < 0 {
		rate := greaterOneBits[b2i(absLevel == 2)]
		if absLevel == 2 {
			rate += levelAbsBits[0]
		}
		return rate
	}

	var rate int
	symbol := uint32(diffLevel)
	if (symbol >> absGoRice) < coefRemainBinReduction {
		length := symbol >> absGoRice
		rate = int(length+1+absGoRice) << 15
	} else {
		length := uint32(0)
		symbol = (symbol >> absGoRice) - coefRemainBinReduction
		if symbol != 0 {
			length = uint32(bits.Len32(symbol+1) - 1)
		}
		rate = int(coefRemainBinReduction+length+absGoRice+1+length) << 15
	}
	if c1c2Idx&1 != 0 {
		rate += greaterOneBits[1]
	}
	if c1c2Idx == 3 {
		rate += levelAbsBits[1]
	}
	return rate
}

func b2i(v bool) int {
	if v {
		return 1
	}
	return 0
}

// rdoQuant optimises the quantized levels of one transform block and returns
// the number of surviving non-zero levels.
func (q *Quant) rdoQuant(cu *CUState, dstCoeff []int16, log2TrSize uint32, ttype TextType, usePsy bool) uint32 {
	trSize := uint32(1) << log2TrSize
	transformShift := dsp.MaxTrDynamicRange - dsp.BitDepth - int(log2TrSize)
	sizeIdx := int(log2TrSize) - 2
	listType := scalingListType(cu.Intra, ttype)

	rem := q.qpParam[ttype].Rem
	per := q.qpParam[ttype].Per
	qbits := quantShift + per + transformShift
	add := 1 << (qbits - 1)
	qCoef := q.scalingList.QuantCoef(sizeIdx, listType, rem)

	numCoeff := 1 << (log2TrSize * 2)
	var scaledCoeff [dsp.MaxTrSize * dsp.MaxTrSize]int64
	numSig := dsp.QuantRDOQ(q.resiDctCoeff, qCoef, scaledCoeff[:], dstCoeff, qbits, add, numCoeff)
	if numSig == 0 {
		return 0
	}

	/* unquant constants for measuring distortion. The dequant coefficients have a 1<<4
	 * scale that must be removed during unquant. That may exceed the QP
	 * upshift, which would turn the shift around; an optional pre-up-shift
	 * of the level avoids it. The dequant clipping stages are skipped while
	 * measuring RD cost. */
	unquantScale := q.scalingList.DequantCoef(sizeIdx, listType, rem)
	unquantShift := quantIQuantShift - quantShift - transformShift + 4
	var unquantRound, unquantPreshift int
	if unquantShift > per {
		unquantRound = 1 << (unquantShift - per - 1)
	} else {
		unquantPreshift = 4
		unquantShift += unquantPreshift
	}
	scaleBits := scaleBitsFix15 - 2*transformShift

	lambda2 := q.lambdas[ttype]
	bIsLuma := ttype == TextLuma

	totalUncodedCost := 0.0

	var costCoeff [dsp.MaxTrSize * dsp.MaxTrSize]float64   // d*d + lambda * bits
	var costUncoded [dsp.MaxTrSize * dsp.MaxTrSize]float64 // d*d + lambda * 0
	var costSig [dsp.MaxTrSize * dsp.MaxTrSize]float64     // lambda * bits

	var rateIncUp [dsp.MaxTrSize * dsp.MaxTrSize]int   // signal overhead of increasing level
	var rateIncDown [dsp.MaxTrSize * dsp.MaxTrSize]int // signal overhead of decreasing level
	var sigRateDelta [dsp.MaxTrSize * dsp.MaxTrSize]int
	var deltaU [dsp.MaxTrSize * dsp.MaxTrSize]int64

	var costCoeffGroupSig [MaxNumCoeffGroups]float64
	sigCoeffGroupFlag64 := uint64(0)

	ctxSet := uint32(0)
	c1 := 1
	c2 := 0
	goRiceParam := uint32(0)
	c1Idx := uint32(0)
	c2Idx := uint32(0)
	cgLastScanPos := -1
	lastScanPos := -1

	// Total RD cost of the block: uncoded distortion of skipped positions,
	// distortion and signal cost of coded positions, plus the significance
	// bitmaps.
	totalRdCost := 0.0

	codeParams := GetTUEntropyCodingParameters(log2TrSize, bIsLuma, cu.Intra, q.intraDir(cu, bIsLuma), cu.ChromaFormat)
	cgNum := 1 << (codeParams.Log2TrSizeCG * 2)

	var cgRdStats coeffGroupRDStats

	for cgScanPos := cgNum - 1; cgScanPos >= 0; cgScanPos-- {
		cgBlkPos := uint32(codeParams.ScanCG[cgScanPos])
		cgPosY := cgBlkPos >> codeParams.Log2TrSizeCG
		cgPosX := cgBlkPos - (cgPosY << codeParams.Log2TrSizeCG)
		cgBlkPosMask := uint64(1) << cgBlkPos
		cgRdStats = coeffGroupRDStats{}

		patternSigCtx := calcPatternSigCtx(sigCoeffGroupFlag64, cgPosX, cgPosY, codeParams.Log2TrSizeCG)

		for scanPosinCG := ScanSetSize - 1; scanPosinCG >= 0; scanPosinCG-- {
			scanPos := (cgScanPos << log2ScanSetSize) + scanPosinCG
			blkPos := uint32(codeParams.Scan[scanPos])
			maxAbsLevel := uint32(abs16(dstCoeff[blkPos]))
			signCoef := q.resiDctCoeff[blkPos]
			predictedCoef := q.fencDctCoeff[blkPos] - signCoef

			/* RDOQ measures distortion as the squared difference between the
			 * unquantized coded level and the original DCT coefficient,
			 * shifted by scaleBits to match the FIX15 cost tables net of the
			 * forward transform scale. */

			costUncoded[scanPos] = float64(uint64(int64(signCoef)*int64(signCoef)) << scaleBits)
			if usePsy && blkPos != 0 {
				// with nothing coded, predicted coef == recon coef
				costUncoded[scanPos] -= float64((q.psyRdoqScale * abs64(int64(predictedCoef)) << scaleBits) >> 8)
			}

			totalUncodedCost += costUncoded[scanPos]

			if maxAbsLevel != 0 && lastScanPos < 0 {
				// first non-zero found in reverse scan becomes the last pos
				lastScanPos = scanPos
				ctxSet = 0
				if scanPos >= ScanSetSize && bIsLuma {
					ctxSet = 2
				}
				cgLastScanPos = cgScanPos
			}

			if lastScanPos < 0 {
				// Nothing coded yet; the uncoded distortion still counts
				// because the pre-quantization coefficient may be non-zero.
				costCoeff[scanPos] = 0
				totalRdCost += costUncoded[scanPos]
				costSig[scanPos] = 0
			} else {
				c1c2Idx := uint32(b2i(c1Idx < c1FlagNumber)) | uint32(b2i(c2Idx == 0))<<1
				baseLevel := (uint32(0xD9) >> (c1c2Idx * 2)) & 3 // {1, 2, 1, 3}

				oneCtx := 4*ctxSet + uint32(c1)
				absCtx := ctxSet + uint32(c2)
				greaterOneBits := &q.estBits.GreaterOneBits[oneCtx]
				levelAbsBits := &q.estBits.LevelAbsBits[absCtx]

				level := uint32(0)
				sigCoefBits := 0
				costCoeff[scanPos] = math.MaxFloat64

				if scanPos == lastScanPos {
					sigRateDelta[blkPos] = 0
				} else {
					ctxSig := getSigCtxInc(patternSigCtx, log2TrSize, trSize, blkPos, bIsLuma, codeParams.FirstSignificanceMapContext)
					if maxAbsLevel < 3 {
						costSig[scanPos] = lambda2 * float64(q.estBits.SignificantBits[ctxSig][0])
						costCoeff[scanPos] = costUncoded[scanPos] + costSig[scanPos]
					}
					sigRateDelta[blkPos] = q.estBits.SignificantBits[ctxSig][1] - q.estBits.SignificantBits[ctxSig][0]
					sigCoefBits = q.estBits.SignificantBits[ctxSig][1]
				}
				if maxAbsLevel != 0 {
					minAbsLevel := uint32(1)
					if maxAbsLevel > 2 {
						minAbsLevel = maxAbsLevel - 1
					}
					for lvl := maxAbsLevel; lvl >= minAbsLevel; lvl-- {
						levelBits := getICRateCost(lvl, int32(lvl)-int32(baseLevel), greaterOneBits, levelAbsBits, goRiceParam, c1c2Idx) + iepRate

						unquantAbsLevel := ((int64(lvl) << unquantPreshift) * (int64(unquantScale[blkPos]) << per) + int64(unquantRound)) >> unquantShift
						d := unquantAbsLevel - int64(abs32(signCoef))
						distortion := uint64(d*d) << scaleBits
						curCost := float64(distortion) + lambda2*float64(sigCoefBits+levelBits)

						// bias in favor of higher AC energy in the recon frame
						if usePsy && blkPos != 0 {
							reconCoef := abs64(unquantAbsLevel + int64(sign32(predictedCoef, signCoef)))
							curCost -= float64((q.psyRdoqScale * reconCoef << scaleBits) >> 8)
						}

						if curCost < costCoeff[scanPos] {
							level = lvl
							costCoeff[scanPos] = curCost
							costSig[scanPos] = lambda2 * float64(sigCoefBits)
						}
					}
				}

				deltaU[blkPos] = (scaledCoeff[blkPos] - (int64(level) << qbits)) >> (qbits - 8)
				dstCoeff[blkPos] = int16(level)
				totalRdCost += costCoeff[scanPos]

				// record costs for the final sign-hiding pass
				if level != 0 {
					rateNow := getICRate(level, int32(level)-int32(baseLevel), greaterOneBits, levelAbsBits, goRiceParam, c1c2Idx)
					rateIncUp[blkPos] = getICRate(level+1, int32(level)+1-int32(baseLevel), greaterOneBits, levelAbsBits, goRiceParam, c1c2Idx) - rateNow
					rateIncDown[blkPos] = getICRate(level-1, int32(level)-1-int32(baseLevel), greaterOneBits, levelAbsBits, goRiceParam, c1c2Idx) - rateNow
				} else {
					rateIncUp[blkPos] = greaterOneBits[0]
					rateIncDown[blkPos] = 0
				}

				// update the CABAC estimation state
				if level >= baseLevel && goRiceParam < 4 && level > (3<<goRiceParam) {
					goRiceParam++
				}
				if level != 0 {
					c1Idx++
				}
				if level > 1 {
					c1 = 0
					if c2 < 2 {
						c2++
					}
					c2Idx++
				} else if c1 < 3 && c1 > 0 && level != 0 {
					c1++
				}

				// context set refresh at each coefficient-group boundary
				if scanPos%ScanSetSize == 0 && scanPos != 0 {
					c2 = 0
					goRiceParam = 0
					c1Idx = 0
					c2Idx = 0
					ctxSet = 2
					if scanPos == ScanSetSize || !bIsLuma {
						ctxSet = 0
					}
					if c1 == 0 {
						ctxSet++
					}
					c1 = 1
				}
			}

			cgRdStats.sigCost += costSig[scanPos]
			if scanPosinCG == 0 {
				cgRdStats.sigCost0 = costSig[scanPos]
			}

			if dstCoeff[blkPos] != 0 {
				sigCoeffGroupFlag64 |= cgBlkPosMask
				cgRdStats.codedLevelAndDist += costCoeff[scanPos] - costSig[scanPos]
				cgRdStats.uncodedDist += costUncoded[scanPos]
				cgRdStats.nnzBeforePos0 += scanPosinCG
			}
		}

		// summarize the coefficient group
		if cgLastScanPos >= 0 {
			costCoeffGroupSig[cgScanPos] = 0
			if cgScanPos == 0 {
				// group 0 is implied whenever anything is coded
				sigCoeffGroupFlag64 |= cgBlkPosMask
			} else if sigCoeffGroupFlag64&cgBlkPosMask == 0 {
				// no coefficients coded in this group
				ctxSig := getSigCoeffGroupCtxInc(sigCoeffGroupFlag64, cgPosX, cgPosY, codeParams.Log2TrSizeCG)
				costCoeffGroupSig[cgScanPos] = lambda2 * float64(q.estBits.SignificantCoeffGroupBits[ctxSig][0])
				totalRdCost += costCoeffGroupSig[cgScanPos] // cost of the 0 bit in the CG bitmap
				totalRdCost -= cgRdStats.sigCost            // remove the significance bitmap cost
			} else if cgScanPos < cgLastScanPos {
				// the last CG is handled with the last position below
				sigCtx := getSigCoeffGroupCtxInc(sigCoeffGroupFlag64, cgPosX, cgPosY, codeParams.Log2TrSizeCG)

				if cgRdStats.nnzBeforePos0 == 0 {
					// only coeff 0 is coded; its significance bit is implied
					totalRdCost -= cgRdStats.sigCost0
					cgRdStats.sigCost -= cgRdStats.sigCost0
				}

				// cost of explicitly zeroing the whole group
				costZeroCG := totalRdCost + lambda2*float64(q.estBits.SignificantCoeffGroupBits[sigCtx][0])
				costZeroCG += cgRdStats.uncodedDist
				costZeroCG -= cgRdStats.codedLevelAndDist
				costZeroCG -= cgRdStats.sigCost

				costCoeffGroupSig[cgScanPos] = lambda2 * float64(q.estBits.SignificantCoeffGroupBits[sigCtx][1])
				totalRdCost += costCoeffGroupSig[cgScanPos]

				if costZeroCG < totalRdCost {
					sigCoeffGroupFlag64 &^= cgBlkPosMask
					totalRdCost = costZeroCG
					costCoeffGroupSig[cgScanPos] = lambda2 * float64(q.estBits.SignificantCoeffGroupBits[sigCtx][0])

					// uncode the whole group
					for scanPosinCG := ScanSetSize - 1; scanPosinCG >= 0; scanPosinCG-- {
						scanPos := cgScanPos*ScanSetSize + scanPosinCG
						blkPos := codeParams.Scan[scanPos]
						if dstCoeff[blkPos] != 0 {
							costCoeff[scanPos] = costUncoded[scanPos]
							costSig[scanPos] = 0
						}
						dstCoeff[blkPos] = 0
					}
				}
			}
		}
	}

	if lastScanPos < 0 {
		/* this should be un-possible */
		return 0
	}

	// cost of signalling the block uncoded (CBF = 0)
	var bestCost float64
	if !cu.Intra && bIsLuma && cu.TransformIndex == 0 {
		bestCost = totalUncodedCost + lambda2*float64(q.estBits.BlockRootCbpBits[0][0])
		totalRdCost += lambda2 * float64(q.estBits.BlockRootCbpBits[0][1])
	} else {
		ctx := cbfCtx(ttype, cu.TransformIndex)
		bestCost = totalUncodedCost + lambda2*float64(q.estBits.BlockCbpBits[ctx][0])
		totalRdCost += lambda2 * float64(q.estBits.BlockCbpBits[ctx][1])
	}

	// find the cheapest last non-zero position
	bestLastIdx := 0
	foundLast := false
	for cgScanPos := cgLastScanPos; cgScanPos >= 0 && !foundLast; cgScanPos-- {
		cgBlkPos := codeParams.ScanCG[cgScanPos]
		totalRdCost -= costCoeffGroupSig[cgScanPos]

		if sigCoeffGroupFlag64&(uint64(1)<<cgBlkPos) == 0 {
			continue // skip empty CGs
		}

		for scanPosinCG := ScanSetSize - 1; scanPosinCG >= 0; scanPosinCG-- {
			scanPos := cgScanPos*ScanSetSize + scanPosinCG
			if scanPos > lastScanPos {
				continue
			}

			blkPos := uint32(codeParams.Scan[scanPos])
			if dstCoeff[blkPos] != 0 {
				// price declaring this coefficient the last significant
				posY := blkPos >> log2TrSize
				posX := blkPos - (posY << log2TrSize)
				var bitsLast int
				if codeParams.ScanType == ScanVer {
					bitsLast = q.getRateLast(posY, posX)
				} else {
					bitsLast = q.getRateLast(posX, posY)
				}
				rdCostLast := totalRdCost + lambda2*float64(bitsLast) - costSig[scanPos]

				if rdCostLast < bestCost {
					bestLastIdx = scanPos + 1
					bestCost = rdCostLast
				}
				if dstCoeff[blkPos] > 1 {
					foundLast = true
					break
				}
				// uncode this coefficient
				totalRdCost -= costCoeff[scanPos]
				totalRdCost += costUncoded[scanPos]
			} else {
				totalRdCost -= costSig[scanPos]
			}
		}
	}

	// recount non-zero levels and re-apply the DCT coefficient signs
	numSig = 0
	for pos := 0; pos < bestLastIdx; pos++ {
		blkPos := codeParams.Scan[pos]
		level := dstCoeff[blkPos]
		if level != 0 {
			numSig++
		}
		if q.resiDctCoeff[blkPos] < 0 {
			dstCoeff[blkPos] = -level
		}
	}

	// clean uncoded coefficients
	for pos := bestLastIdx; pos <= lastScanPos; pos++ {
		dstCoeff[codeParams.Scan[pos]] = 0
	}

	// rate-distortion based sign-hiding
	if cu.SignHideEnabled && numSig >= 2 {
		invQuant := int64(invQuantScales[rem]) << per
		rdFactor := int64(float64(invQuant*invQuant)/(lambda2*16) + 0.5)

		lastCG := true
		for subSet := cgLastScanPos; subSet >= 0; subSet-- {
			subPos := subSet << log2ScanSetSize

			n := ScanSetSize - 1
			for ; n >= 0; n-- {
				if dstCoeff[codeParams.Scan[n+subPos]] != 0 {
					break
				}
			}
			if n < 0 {
				continue
			}
			lastNZPosInCG := n

			for n = 0; ; n++ {
				if dstCoeff[codeParams.Scan[n+subPos]] != 0 {
					break
				}
			}
			firstNZPosInCG := n

			if lastNZPosInCG-firstNZPosInCG >= sbhThreshold {
				signbit := uint32(1)
				if dstCoeff[codeParams.Scan[subPos+firstNZPosInCG]] > 0 {
					signbit = 0
				}
				absSum := 0
				for n = firstNZPosInCG; n <= lastNZPosInCG; n++ {
					absSum += int(dstCoeff[codeParams.Scan[n+subPos]])
				}

				if signbit != uint32(absSum&1) {
					/* find the coeff to toggle up or down so the sign bit of
					 * the first non-zero coeff is properly implied. levels
					 * are signed here, but curChange/finalChange are absolute
					 * (+1 away from zero, -1 towards zero). */

					minCostInc := int64(math.MaxInt64)
					curCost := int64(math.MaxInt64)
					minPos := -1
					finalChange, curChange := 0, 0

					/* rdFactor is roughly 1/errScale of the earlier section,
					 * divided by lambda2 so the signal-bit terms need no
					 * multiply; the FIX15 scale appears as literal 1<<15. */

					start := ScanSetSize - 1
					if lastCG {
						start = lastNZPosInCG
					}
					for n = start; n >= 0; n-- {
						blkPos := codeParams.Scan[n+subPos]
						if dstCoeff[blkPos] != 0 {
							costUp := rdFactor*(-deltaU[blkPos]) + int64(rateIncUp[blkPos])

							// dropping a ±1 to zero also drops its significance bit
							isOne := abs16(dstCoeff[blkPos]) == 1
							costDown := rdFactor*deltaU[blkPos] + int64(rateIncDown[blkPos])
							if isOne {
								costDown -= int64((1 << 15) + sigRateDelta[blkPos])
							}

							if lastCG && lastNZPosInCG == n && isOne {
								costDown -= 4 << 15
							}

							if costUp < costDown {
								curCost = costUp
								curChange = 1
							} else {
								curChange = -1
								if n == firstNZPosInCG && isOne {
									curCost = math.MaxInt64
								} else {
									curCost = costDown
								}
							}
						} else {
							// promoting an uncoded coeff to ±1
							curCost = rdFactor*(-abs64(deltaU[blkPos])) + (1 << 15) + int64(rateIncUp[blkPos]) + int64(sigRateDelta[blkPos])
							curChange = 1

							if n < firstNZPosInCG {
								thisSignBit := uint32(0)
								if q.resiDctCoeff[blkPos] < 0 {
									thisSignBit = 1
								}
								if thisSignBit != signbit {
									curCost = math.MaxInt64
								}
							}
						}

						if curCost < minCostInc {
							minCostInc = curCost
							finalChange = curChange
							minPos = int(blkPos)
						}
					}

					if dstCoeff[minPos] == 32767 || dstCoeff[minPos] == -32768 {
						finalChange = -1
					}

					if dstCoeff[minPos] == 0 {
						numSig++
					} else if finalChange == -1 && abs16(dstCoeff[minPos]) == 1 {
						numSig--
					}

					if q.resiDctCoeff[minPos] >= 0 {
						dstCoeff[minPos] += int16(finalChange)
					} else {
						dstCoeff[minPos] -= int16(finalChange)
					}
				}
			}

			lastCG = false
		}
	}

	return numSig
}

// getRateLast prices coding (posx, posy) as the last significant position.
func (q *Quant) getRateLast(posx, posy uint32) int {
	ctxX := groupIdx[posx]
	ctxY := groupIdx[posy]
	cost := q.estBits.LastXBits[ctxX] + q.estBits.LastYBits[ctxY]
	if posx > 2 {
		cost += iepRate * int((ctxX-2)>>1)
	}
	if posy > 2 {
		cost += iepRate * int((ctxY-2)>>1)
	}
	return cost
}

// calcPatternSigCtx folds the significance of the right and below coefficient
// groups into a 0..3 pattern.
func calcPatternSigCtx(sigCoeffGroupFlag64 uint64, cgPosX, cgPosY, log2TrSizeCG uint32) uint32 {
	if log2TrSizeCG == 0 {
		return 0
	}

	trSizeCG := uint32(1) << log2TrSizeCG
	sigPos := uint32(sigCoeffGroupFlag64 >> (1 + (cgPosY << log2TrSizeCG) + cgPosX))
	sigRight := uint32(0)
	if cgPosX != trSizeCG-1 {
		sigRight = sigPos & 1
	}
	sigLower := uint32(0)
	if cgPosY != trSizeCG-1 {
		sigLower = (sigPos >> (trSizeCG - 2)) & 2
	}
	return sigRight + sigLower
}

// sig4x4CtxIndMap is the fixed significance context map of 4x4 blocks.
var sig4x4CtxIndMap = [16]uint32{
	0, 1, 4, 5,
	2, 3, 4, 5,
	6, 6, 8, 8,
	7, 7, 8, 8,
}

// sigCtxCntTable is indexed [patternSigCtx][posXinSubset][posYinSubset].
var sigCtxCntTable = [4][4][4]uint32{
	{
		{2, 1, 1, 0},
		{1, 1, 0, 0},
		{1, 0, 0, 0},
		{0, 0, 0, 0},
	},
	{
		{2, 1, 0, 0},
		{2, 1, 0, 0},
		{2, 1, 0, 0},
		{2, 1, 0, 0},
	},
	{
		{2, 2, 2, 2},
		{1, 1, 1, 1},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
	},
	{
		{2, 2, 2, 2},
		{2, 2, 2, 2},
		{2, 2, 2, 2},
		{2, 2, 2, 2},
	},
}

// getSigCtxInc derives the significance-flag context of one coefficient.
func getSigCtxInc(patternSigCtx, log2TrSize, trSize, blkPos uint32, bIsLuma bool, firstSignificanceMapContext uint32) uint32 {
	if blkPos == 0 {
		// DC position has its own context
		return 0
	}

	if log2TrSize == 2 {
		return sig4x4CtxIndMap[blkPos]
	}

	posY := blkPos >> log2TrSize
	posX := blkPos & (trSize - 1)

	posXinSubset := blkPos & 3
	posYinSubset := posY & 3

	cnt := sigCtxCntTable[patternSigCtx][posXinSubset][posYinSubset]
	offset := firstSignificanceMapContext + cnt

	if bIsLuma && (posX|posY) >= 4 {
		return 3 + offset
	}
	return offset
}

// getSigCoeffGroupCtxInc derives the coded-sub-block-flag context from the
// right and below group significance.
func getSigCoeffGroupCtxInc(cgGroupMask uint64, cgPosX, cgPosY, log2TrSizeCG uint32) uint32 {
	trSizeCG := uint32(1) << log2TrSizeCG

	sigPos := uint32(cgGroupMask >> (1 + (cgPosY << log2TrSizeCG) + cgPosX))
	sigRight := uint32(0)
	if cgPosX != trSizeCG-1 {
		sigRight = sigPos & 1
	}
	sigLower := uint32(0)
	if cgPosY != trSizeCG-1 {
		sigLower = (sigPos >> (trSizeCG - 1)) & 1
	}
	return sigRight | sigLower
}

func abs32(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}

func abs64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
