package analysis

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

type BlockEstimate struct {
	Mean   float64
	StdErr float64
	Blocks int
}

// BlockAverage splits data into nBlocks equal blocks, dropping the remainder
// from the front, and estimates the standard error from the spread of block
// means.
func BlockAverage(data []float64, nBlocks int) (BlockEstimate, error) {
	if nBlocks < 2 || len(data) < nBlocks {
		return BlockEstimate{}, ErrTooShort
	}
	size := len(data) / nBlocks
	data = data[len(data)-size*nBlocks:]

	means := make([]float64, nBlocks)
	for b := range means {
		means[b] = stat.Mean(data[b*size:(b+1)*size], nil)
	}
	return BlockEstimate{
		Mean:   stat.Mean(means, nil),
		StdErr: stat.StdDev(means, nil) / math.Sqrt(float64(nBlocks)),
		Blocks: nBlocks,
	}, nil
}
