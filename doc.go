// Package hevc implements the algorithmic core of an HEVC (H.265) video
// encoder: intra prediction from reconstructed neighbour samples, the
// forward and inverse integer transforms, scalar quantization with sign-data
// hiding and coefficient denoising, and rate-distortion optimized
// quantization driven by CABAC bit-cost estimates.
//
// The package is the hot inner layer of an encoder, not an encoder by
// itself: slice and block partitioning, mode decision, entropy coding and
// bitstream writing are the caller's business. Each encoder worker owns one
// Quant instance; scaling lists and cost-table snapshots are shared
// read-only across workers.
package hevc
