package dct

import "math"

// N is the edge length of a transform block.
const N = 8

// Block holds one 8x8 block in row-major order. Index u*N+v addresses
// vertical frequency u and horizontal frequency v once transformed.
type Block [N * N]float64

// Luminance is the standard JPEG luminance quantization table (quality 50).
var Luminance = Block{
	16, 11, 10, 16, 24, 40, 51, 61,
	12, 12, 14, 19, 26, 58, 60, 55,
	14, 13, 16, 24, 40, 57, 69, 56,
	14, 17, 22, 29, 51, 87, 80, 62,
	18, 22, 37, 56, 68, 109, 103, 77,
	24, 35, 55, 64, 81, 104, 113, 92,
	49, 64, 78, 87, 103, 121, 120, 101,
	72, 92, 95, 98, 112, 100, 103, 99,
}

// cosTable[x][u] = C(u)/2 * cos((2x+1)uπ/16)
var cosTable [N][N]float64

func init() {
	for x := 0; x < N; x++ {
		for u := 0; u < N; u++ {
			c := 0.5
			if u == 0 {
				c = 0.5 / math.Sqrt2
			}
			cosTable[x][u] = c * math.Cos(float64(2*x+1)*float64(u)*math.Pi/(2*N))
		}
	}
}

// Forward computes the orthonormal 2D DCT-II of src into dst.
// src is expected to be level shifted (pixel - 128).
func Forward(src, dst *Block) {
	var tmp Block
	// rows
	for y := 0; y < N; y++ {
		for v := 0; v < N; v++ {
			var sum float64
			for x := 0; x < N; x++ {
				sum += src[y*N+x] * cosTable[x][v]
			}
			tmp[y*N+v] = sum
		}
	}
	// columns
	for v := 0; v < N; v++ {
		for u := 0; u < N; u++ {
			var sum float64
			for y := 0; y < N; y++ {
				sum += tmp[y*N+v] * cosTable[y][u]
			}
			dst[u*N+v] = sum
		}
	}
}

// Inverse computes the 2D inverse DCT of src into dst.
func Inverse(src, dst *Block) {
	var tmp Block
	for v := 0; v < N; v++ {
		for y := 0; y < N; y++ {
			var sum float64
			for u := 0; u < N; u++ {
				sum += src[u*N+v] * cosTable[y][u]
			}
			tmp[y*N+v] = sum
		}
	}
	for y := 0; y < N; y++ {
		for x := 0; x < N; x++ {
			var sum float64
			for v := 0; v < N; v++ {
				sum += tmp[y*N+v] * cosTable[x][v]
			}
			dst[y*N+x] = sum
		}
	}
}

// Quantized returns the quantized integer value of coefficient idx of an
// unquantized block, rounded to the nearest integer.
func Quantized(b *Block, idx int) int {
	return int(math.Round(b[idx] / Luminance[idx]))
}

// Bit returns the least significant bit of the quantized coefficient idx.
func Bit(b *Block, idx int) uint8 {
	return uint8(Quantized(b, idx) & 1)
}

// IsMidFrequency reports whether coefficient idx lies in the band used for
// embedding: the DC term, the lowest AC terms and the highest frequencies
// are excluded.
func IsMidFrequency(idx int) bool {
	if idx <= 0 || idx >= N*N-1 {
		return false
	}
	s := idx/N + idx%N
	return s >= 3 && s <= 10
}
