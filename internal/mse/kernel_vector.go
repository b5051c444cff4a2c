package mse

import "gonum.org/v1/gonum/floats"

// ssdVector widens each row's differences into a float64 buffer and lets
// gonum compute the row's dot product with itself.
func ssdVector(a, b []uint16, stride, rowLen, height int) float64 {
	if rowLen == 0 {
		return 0
	}

	diff := make([]float64, rowLen)
	var sum float64

	for y := 0; y < height; y++ {
		rowStart := y * stride
		ra := a[rowStart : rowStart+rowLen]
		rb := b[rowStart : rowStart+rowLen]
		for x := range diff {
			diff[x] = float64(ra[x]) - float64(rb[x])
		}
		sum += floats.Dot(diff, diff)
	}

	return sum
}
