//go:build integration

package history

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Run with: POSETRAIL_MONGO_URI=mongodb://localhost:27017 go test -tags integration ./pkg/history
func TestMongoStore(t *testing.T) {
	uri := os.Getenv("POSETRAIL_MONGO_URI")
	if uri == "" {
		t.Skip("POSETRAIL_MONGO_URI not set")
	}
	ctx := context.Background()
	s, err := OpenMongo(ctx, uri, "posetrail_test_"+uuid.NewString()[:8])
	require.NoError(t, err)
	defer s.Close()

	r := NewRecord("walk")
	r.Items = 3
	require.NoError(t, s.Save(ctx, r))

	got, err := s.Get(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, got.Items)

	list, err := s.List(ctx, ListOptions{Dir: "walk"})
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, s.client.Database(s.coll.Database().Name()).Drop(ctx))
}
