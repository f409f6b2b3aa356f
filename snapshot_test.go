package kmeanstep

import (
	"context"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/kmeanstep/codec"
	"github.com/hupe1980/kmeanstep/geometry"
	"github.com/hupe1980/kmeanstep/snapshot"
)

func TestSession_SnapshotRestore(t *testing.T) {
	ctx := context.Background()
	s := newTwoBlobSession(t)
	_, err := s.Step(ctx)
	require.NoError(t, err)

	data, err := s.Snapshot(func(o *snapshot.Options) { o.Compression = snapshot.CompressionZSTD })
	require.NoError(t, err)

	restored := New()
	require.NoError(t, restored.Restore(data))

	assert.Equal(t, s.State(), restored.State())
	assert.Equal(t, 2, restored.K())
	assert.Equal(t, MethodRandom, restored.Method())
	assert.Equal(t, []int{0, 1}, restored.Members(0))

	// The restored session continues from the saved step.
	st, err := restored.Step(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, st.Step)
	assert.True(t, st.Converged)
}

func TestSession_RestoreRejectsGarbage(t *testing.T) {
	s := newTwoBlobSession(t)
	before := s.State()

	err := s.Restore([]byte("not a snapshot"))
	assert.ErrorIs(t, err, snapshot.ErrInvalidSnapshot)
	assert.Equal(t, before, s.State())
}

func TestSession_SnapshotBeforeFirstStep(t *testing.T) {
	s := newTwoBlobSession(t)

	data, err := s.Snapshot()
	require.NoError(t, err)

	restored := New()
	require.NoError(t, restored.Restore(data))
	assert.Empty(t, restored.Assignment())
	assert.Equal(t, []int{0, 0}, restored.ClusterSizes())
}

// rawSnapshot frames doc without the validation Encode applies.
func rawSnapshot(t *testing.T, doc *snapshot.Document) []byte {
	t.Helper()

	payload, err := codec.JSON{}.Marshal(doc)
	require.NoError(t, err)

	name := codec.JSON{}.Name()
	data := []byte{'K', 'M', 'S', 'S', snapshot.Version, byte(snapshot.CompressionNone), byte(len(name))}
	data = append(data, name...)
	data = binary.LittleEndian.AppendUint32(data, uint32(len(payload)))
	data = binary.LittleEndian.AppendUint32(data, 0)
	return append(data, payload...)
}

func TestSession_RestoreRejectsBrokenInvariants(t *testing.T) {
	points := []geometry.Point{geometry.Pt(0, 0), geometry.Pt(0, 1), geometry.Pt(10, 10)}

	tests := []struct {
		name string
		doc  snapshot.Document
	}{
		{"PartialRandomSet", snapshot.Document{K: 3, Method: int(MethodRandom), Points: points, Centroids: points[:1]}},
		{"UnknownMethod", snapshot.Document{K: 3, Method: 42, Points: points}},
		{"ConvergedWithoutCentroids", snapshot.Document{K: 3, Method: int(MethodRandom), Points: points, Converged: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTwoBlobSession(t)
			before := s.State()

			err := s.Restore(rawSnapshot(t, &tt.doc))
			assert.ErrorIs(t, err, snapshot.ErrInvalidSnapshot)
			assert.Equal(t, before, s.State())
			assert.Equal(t, MethodRandom, s.Method())
			assert.Equal(t, 2, s.K())
		})
	}

	// The framing itself is sound: a valid document goes through.
	s := New()
	valid := snapshot.Document{K: 1, Method: int(MethodRandom), Points: points, Centroids: points[:1]}
	require.NoError(t, s.Restore(rawSnapshot(t, &valid)))
	assert.Equal(t, 1, s.K())
}
