package sample

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/matzehuels/posetrail/pkg/errors"
)

func TestEvenly(t *testing.T) {
	tests := []struct {
		name string
		n, k int
		want []int
	}{
		{"single frame", 1, 1, []int{0}},
		{"k=1 picks first", 50, 1, []int{0}},
		{"endpoints", 10, 2, []int{0, 9}},
		{"all frames", 5, 5, []int{0, 1, 2, 3, 4}},
		{"hundred by five", 100, 5, []int{0, 25, 50, 74, 99}},
		{"ten by four", 10, 4, []int{0, 3, 6, 9}},
		{"seven by three", 7, 3, []int{0, 3, 6}},
		{"half step rounds away from zero", 4, 3, []int{0, 2, 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Evenly(tt.n, tt.k)
			if err != nil {
				t.Fatalf("Evenly(%d, %d) error: %v", tt.n, tt.k, err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Evenly(%d, %d) = %v, want %v", tt.n, tt.k, got, tt.want)
			}
		})
	}
}

func TestEvenlyInvalidCount(t *testing.T) {
	tests := []struct {
		name string
		n, k int
	}{
		{"zero", 10, 0},
		{"negative", 10, -1},
		{"more than available", 3, 4},
		{"empty sequence", 0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Evenly(tt.n, tt.k)
			if !errors.Is(err, errors.ErrCodeInvalidSampleCount) {
				t.Errorf("Evenly(%d, %d) error = %v, want %s", tt.n, tt.k, err, errors.ErrCodeInvalidSampleCount)
			}
		})
	}
}

func TestEvenlyProperties(t *testing.T) {
	for n := 1; n <= 60; n++ {
		for k := 1; k <= n; k++ {
			got, err := Evenly(n, k)
			if err != nil {
				t.Fatalf("Evenly(%d, %d) error: %v", n, k, err)
			}
			if len(got) != k {
				t.Fatalf("Evenly(%d, %d) returned %d indices", n, k, len(got))
			}
			for i := range got {
				if got[i] < 0 || got[i] >= n {
					t.Fatalf("Evenly(%d, %d)[%d] = %d out of range", n, k, i, got[i])
				}
				if i > 0 && got[i] <= got[i-1] {
					t.Fatalf("Evenly(%d, %d) not strictly increasing: %v", n, k, got)
				}
			}
			if k >= 2 && (got[0] != 0 || got[k-1] != n-1) {
				t.Fatalf("Evenly(%d, %d) = %v, want endpoints 0 and %d", n, k, got, n-1)
			}
		}
	}
}

func TestSelect(t *testing.T) {
	items := []string{"a", "b", "c", "d", "e"}
	got, idx, err := Select(items, 3)
	if err != nil {
		t.Fatalf("Select() error: %v", err)
	}
	if !reflect.DeepEqual(got, []string{"a", "c", "e"}) {
		t.Errorf("Select() = %v, want [a c e]", got)
	}
	if !reflect.DeepEqual(idx, []int{0, 2, 4}) {
		t.Errorf("Select() indices = %v, want [0 2 4]", idx)
	}
}

func ExampleEvenly() {
	idx, _ := Evenly(100, 5)
	fmt.Println(idx)
	// Output: [0 25 50 74 99]
}
