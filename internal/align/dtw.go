package align

import (
	"fmt"
	"math"

	"github.com/warpalign/warpalign/pkg/models"
)

// Predecessor codes recorded during the DP fill and replayed by the
// backtrace.
const (
	predNone uint8 = iota
	predDiag
	predVert
	predHoriz
)

// EstimateDTW computes the optimal monotone warping path between a and b
// and the accumulated cost normalized by path length. Local cost is the
// absolute sample difference.
//
// window > 0 restricts the path to the Sakoe-Chiba band |i-j| <= window,
// bounding both time and memory to O(N*window); window <= 0 means no
// constraint. A window narrower than |len(a)-len(b)| is widened to that
// gap so a corner-to-corner path always exists.
//
// Ties between the three predecessors resolve diagonal first, then
// vertical (i-1,j), then horizontal (i,j-1), which favors 1:1
// correspondence when costs tie exactly.
func EstimateDTW(a, b models.Signal, window int) (models.DTWResult, error) {
	n, m := a.Len(), b.Len()
	if n == 0 || m == 0 {
		return models.DTWResult{}, fmt.Errorf("%w: zero-length input", ErrIncompatibleSignals)
	}
	if a.SampleRate != b.SampleRate {
		return models.DTWResult{}, fmt.Errorf("%w: sample rates %v Hz vs %v Hz",
			ErrIncompatibleSignals, a.SampleRate, b.SampleRate)
	}

	w := window
	if w <= 0 {
		w = n + m // effectively unconstrained
	}
	if gap := absInt(n - m); w < gap {
		w = gap
	}

	// Band-local storage: row i covers columns [lo(i), hi(i)] only.
	cost := make([][]float64, n)
	pred := make([][]uint8, n)
	offset := make([]int, n)
	for i := 0; i < n; i++ {
		lo := maxInt(0, i-w)
		hi := minInt(m-1, i+w)
		offset[i] = lo
		cost[i] = make([]float64, hi-lo+1)
		pred[i] = make([]uint8, hi-lo+1)
	}
	inf := math.Inf(1)
	at := func(i, j int) float64 {
		if i < 0 || j < 0 {
			return inf
		}
		col := j - offset[i]
		if col < 0 || col >= len(cost[i]) {
			return inf
		}
		return cost[i][col]
	}

	for i := 0; i < n; i++ {
		for col := range cost[i] {
			j := offset[i] + col
			local := math.Abs(a.Samples[i] - b.Samples[j])
			switch {
			case i == 0 && j == 0:
				cost[i][col] = local
				pred[i][col] = predNone
			case i == 0:
				cost[i][col] = at(0, j-1) + local
				pred[i][col] = predHoriz
			case j == 0:
				cost[i][col] = at(i-1, 0) + local
				pred[i][col] = predVert
			default:
				diag := at(i-1, j-1)
				vert := at(i-1, j)
				horiz := at(i, j-1)
				switch {
				case diag <= vert && diag <= horiz:
					cost[i][col] = diag + local
					pred[i][col] = predDiag
				case vert <= horiz:
					cost[i][col] = vert + local
					pred[i][col] = predVert
				default:
					cost[i][col] = horiz + local
					pred[i][col] = predHoriz
				}
			}
		}
	}

	// Backtrace predecessor choices from the final cell to (0,0).
	path := make([]models.PathPoint, 0, maxInt(n, m))
	i, j := n-1, m-1
	for {
		path = append(path, models.PathPoint{I: i, J: j})
		step := pred[i][j-offset[i]]
		if step == predNone {
			break
		}
		switch step {
		case predDiag:
			i, j = i-1, j-1
		case predVert:
			i--
		case predHoriz:
			j--
		}
	}
	for l, r := 0, len(path)-1; l < r; l, r = l+1, r-1 {
		path[l], path[r] = path[r], path[l]
	}

	return models.DTWResult{
		Distance: at(n-1, m-1) / float64(len(path)),
		Path:     path,
	}, nil
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func minInt(x, y int) int {
	if x < y {
		return x
	}
	return y
}

func maxInt(x, y int) int {
	if x > y {
		return x
	}
	return y
}
