// Package sample selects representative frames from a motion sequence.
//
// [Evenly] picks K of N frames so the chosen indices span the sequence from
// first to last with (as nearly as integer indices allow) equal gaps:
//
//	idx, err := sample.Evenly(100, 5) // [0 25 50 74 99]
//
// The ideal position of pick i is i*(N-1)/(K-1). Positions are rounded half
// away from zero. When rounding makes two picks collide (only possible when K
// is close to N) the later pick moves to the nearest unused index, preferring
// the lower one on ties, so the result always holds exactly K unique sorted
// indices. K=1 selects the first frame.
package sample

import (
	"math"
	"sort"

	"github.com/matzehuels/posetrail/pkg/errors"
)

// Evenly returns K indices in [0, n-1], sorted ascending and unique.
// It fails with INVALID_SAMPLE_COUNT when k < 1 or k > n.
func Evenly(n, k int) ([]int, error) {
	if k < 1 || k > n {
		return nil, errors.New(errors.ErrCodeInvalidSampleCount,
			"cannot sample %d frames from a sequence of %d", k, n)
	}
	if k == 1 {
		return []int{0}, nil
	}

	step := float64(n-1) / float64(k-1)
	used := make(map[int]bool, k)
	out := make([]int, 0, k)
	for i := 0; i < k; i++ {
		idx := clamp(int(math.Round(float64(i)*step)), 0, n-1)
		if used[idx] {
			idx = nearestUnused(idx, n, used)
		}
		used[idx] = true
		out = append(out, idx)
	}
	sort.Ints(out)
	return out, nil
}

// Select returns the elements of items at the evenly spaced indices.
// Index positions in the result follow the order of items.
func Select[T any](items []T, k int) ([]T, []int, error) {
	idx, err := Evenly(len(items), k)
	if err != nil {
		return nil, nil, err
	}
	out := make([]T, len(idx))
	for i, j := range idx {
		out[i] = items[j]
	}
	return out, idx, nil
}

// nearestUnused searches outward from idx. Since at most n-1 slots are taken
// whenever it is called, a free slot always exists.
func nearestUnused(idx, n int, used map[int]bool) int {
	for d := 1; d < n; d++ {
		if lo := idx - d; lo >= 0 && !used[lo] {
			return lo
		}
		if hi := idx + d; hi < n && !used[hi] {
			return hi
		}
	}
	return idx
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
