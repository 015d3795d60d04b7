// Package history records pipeline runs.
//
// Every plan or render the CLI or API performs can be logged as a [Record]:
// which directory, which options, how many frames, where the output went and
// whether it failed. Records are append-only and keyed by a random UUID.
//
// Backends:
//   - [SQLiteStore]: a local database file (default for the CLI)
//   - [MongoStore]: a shared collection for farms of render workers
//   - [NullStore]: discards everything (history disabled)
//
// # Usage
//
//	store, err := history.OpenSQLite(path)
//	if err != nil {
//	    return err
//	}
//	defer store.Close()
//
//	rec := history.NewRecord("motions/walk")
//	_, err = runner.Execute(ctx, opts)
//	rec.Fail(err)
//	rec.Stop()
//	store.Save(ctx, rec)
package history

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/posetrail/pkg/errors"
)

// Status is the outcome of a run.
type Status string

const (
	StatusOK     Status = "ok"
	StatusFailed Status = "failed"
)

// Record describes one pipeline run.
type Record struct {
	ID        string        `json:"id" gorm:"primaryKey" bson:"_id"`
	Dir       string        `json:"dir" gorm:"index" bson:"dir"`
	Mode      string        `json:"mode" bson:"mode"`
	Layout    string        `json:"layout" bson:"layout"`
	Camera    string        `json:"camera" bson:"camera"`
	Engine    string        `json:"engine" bson:"engine"`
	Frames    int           `json:"frames" bson:"frames"`
	Items     int           `json:"items" bson:"items"`
	Output    string        `json:"output,omitempty" bson:"output,omitempty"`
	Options   string        `json:"options,omitempty" bson:"options,omitempty"` // JSON-encoded pipeline options
	Status    Status        `json:"status" gorm:"index" bson:"status"`
	Error     string        `json:"error,omitempty" bson:"error,omitempty"`
	StartedAt time.Time     `json:"started_at" gorm:"index" bson:"started_at"`
	Duration  time.Duration `json:"duration" bson:"duration"`
}

// NewRecord starts a record for a run over dir.
func NewRecord(dir string) *Record {
	return &Record{
		ID:        uuid.NewString(),
		Dir:       dir,
		Status:    StatusOK,
		StartedAt: time.Now().UTC(),
	}
}

// Fail marks the record as failed with err.
func (r *Record) Fail(err error) {
	if err == nil {
		return
	}
	r.Status = StatusFailed
	r.Error = err.Error()
}

// Stop sets the duration from StartedAt to now.
func (r *Record) Stop() {
	r.Duration = time.Since(r.StartedAt)
}

// ListOptions filters [Store.List].
type ListOptions struct {
	// Dir restricts results to one directory. Empty lists all.
	Dir string
	// Limit caps the number of results. Zero uses DefaultListLimit.
	Limit int
}

// DefaultListLimit is the number of records List returns by default.
const DefaultListLimit = 20

func (o ListOptions) limit() int {
	if o.Limit <= 0 {
		return DefaultListLimit
	}
	return o.Limit
}

// Store is the interface for run history backends.
type Store interface {
	// Save inserts or replaces a record.
	Save(ctx context.Context, r *Record) error

	// Get returns the record with the given ID, or a NOT_FOUND error.
	Get(ctx context.Context, id string) (*Record, error)

	// List returns records, newest first.
	List(ctx context.Context, opts ListOptions) ([]Record, error)

	// Close releases the backend.
	Close() error
}

// NullStore discards records.
type NullStore struct{}

// NewNullStore returns a NullStore.
func NewNullStore() NullStore { return NullStore{} }

func (NullStore) Save(context.Context, *Record) error { return nil }

func (NullStore) Get(_ context.Context, id string) (*Record, error) {
	return nil, errors.New(errors.ErrCodeNotFound, "run %s not found (history disabled)", id)
}

func (NullStore) List(context.Context, ListOptions) ([]Record, error) { return nil, nil }

func (NullStore) Close() error { return nil }

var _ Store = NullStore{}
