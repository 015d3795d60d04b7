package frames

import (
	"cogentcore.org/core/math32"

	"github.com/matzehuels/posetrail/pkg/errors"
)

// Sequence is an ordered, immutable list of frame records with strictly
// increasing frame numbers.
type Sequence struct {
	records []Record
}

// NewSequence validates and copies records.
func NewSequence(records []Record) (*Sequence, error) {
	if len(records) == 0 {
		return nil, errors.New(errors.ErrCodeMeshSourceEmpty, "sequence has no frames")
	}
	for i := 1; i < len(records); i++ {
		if records[i].Number <= records[i-1].Number {
			return nil, errors.New(errors.ErrCodeInvalidSequence,
				"frame numbers must be strictly increasing: %d (%s) follows %d (%s)",
				records[i].Number, records[i].Path, records[i-1].Number, records[i-1].Path)
		}
	}
	for _, r := range records {
		if r.Bounds.IsEmpty() {
			return nil, errors.New(errors.ErrCodeInvalidSequence, "frame %d has empty bounds", r.Number)
		}
	}
	return &Sequence{records: append([]Record(nil), records...)}, nil
}

// Len returns the number of frames.
func (s *Sequence) Len() int {
	return len(s.records)
}

// At returns the i-th record.
func (s *Sequence) At(i int) Record {
	return s.records[i]
}

// Records returns a copy of all records.
func (s *Sequence) Records() []Record {
	return append([]Record(nil), s.records...)
}

// Pick returns the records at the given indices, in index order.
func (s *Sequence) Pick(indices []int) []Record {
	out := make([]Record, len(indices))
	for i, j := range indices {
		out[i] = s.records[j]
	}
	return out
}

// Bounds returns the union of all frame boxes as recorded, before placement.
func (s *Sequence) Bounds() math32.Box3 {
	b := math32.B3Empty()
	for _, r := range s.records {
		b.ExpandByBox(r.Bounds)
	}
	return b
}

// Boxes extracts the bounding boxes of records.
func Boxes(records []Record) []math32.Box3 {
	out := make([]math32.Box3, len(records))
	for i, r := range records {
		out[i] = r.Bounds
	}
	return out
}
