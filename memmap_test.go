package memmap_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/memmap"
	"github.com/born-ml/memmap/backend/cpu"
	"github.com/born-ml/memmap/tensor"
)

// End-to-end exercise of the public API surface: create, map, transfer,
// restore and snapshot a tensor through the exported packages only.
func TestPublicAPIRoundTrip(t *testing.T) {
	backend := cpu.New()

	x, err := tensor.FromSlice([]float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3}, backend)
	require.NoError(t, err)

	m, err := memmap.FromTensor(x, memmap.WithTransferOwnership(true))
	require.NoError(t, err)
	defer m.Close()

	sum, err := m.Add(1)
	require.NoError(t, err)
	assert.Equal(t, []float32{2, 3, 4, 5, 6, 7}, sum.AsFloat32())

	st := m.Snapshot()
	require.NoError(t, m.CommitTransfer())

	restored, err := memmap.FromState(st)
	require.NoError(t, err)
	defer restored.Close()

	assert.True(t, restored.OwnsFile())

	raw, err := restored.Load()
	require.NoError(t, err)
	assert.Equal(t, []float32{1, 2, 3, 4, 5, 6}, raw.AsFloat32())
}

func TestPublicStackAndUnbind(t *testing.T) {
	backend := cpu.New()

	rows := make([]*memmap.Tensor, 0, 3)
	for i := 0; i < 3; i++ {
		x, err := tensor.FromSlice([]float32{float32(i), float32(i + 1)}, tensor.Shape{2}, backend)
		require.NoError(t, err)

		m, err := memmap.FromTensor(x)
		require.NoError(t, err)
		defer m.Close()
		rows = append(rows, m)
	}

	stacked, err := memmap.Stack(rows, 0)
	require.NoError(t, err)
	assert.True(t, stacked.Shape().Equal(tensor.Shape{3, 2}))

	m, err := memmap.New(stacked)
	require.NoError(t, err)
	defer m.Close()

	parts, err := memmap.Unbind(m, 0)
	require.NoError(t, err)
	require.Len(t, parts, 3)
	assert.Equal(t, []float32{0, 1}, parts[0].AsFloat32())
	assert.Equal(t, []float32{2, 3}, parts[2].AsFloat32())
}
