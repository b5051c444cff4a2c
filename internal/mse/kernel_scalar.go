package mse

// ssdNaive is the reference kernel used to validate the others.
func ssdNaive(a, b []uint16, stride, rowLen, height int) float64 {
	var sum float64

	for y := 0; y < height; y++ {
		row := y * stride
		for x := 0; x < rowLen; x++ {
			d := float64(a[row+x]) - float64(b[row+x])
			sum += d * d
		}
	}

	return sum
}

// ssdUnrolled processes four samples per iteration in int64 arithmetic and
// folds each row into the float64 total once.
//
// A squared 16-bit difference is below 2^32, so a row accumulator cannot
// overflow for rows shorter than 2^31 samples.
func ssdUnrolled(a, b []uint16, stride, rowLen, height int) float64 {
	var sum float64

	unrollLen := (rowLen / 4) * 4

	for y := 0; y < height; y++ {
		rowStart := y * stride
		ra := a[rowStart : rowStart+rowLen]
		rb := b[rowStart : rowStart+rowLen]

		var acc uint64
		x := 0
		for ; x < unrollLen; x += 4 {
			d0 := int64(ra[x+0]) - int64(rb[x+0])
			d1 := int64(ra[x+1]) - int64(rb[x+1])
			d2 := int64(ra[x+2]) - int64(rb[x+2])
			d3 := int64(ra[x+3]) - int64(rb[x+3])
			acc += uint64(d0*d0 + d1*d1 + d2*d2 + d3*d3)
		}

		// Remainder (0-3 samples)
		for ; x < rowLen; x++ {
			d := int64(ra[x]) - int64(rb[x])
			acc += uint64(d * d)
		}

		sum += float64(acc)
	}

	return sum
}
