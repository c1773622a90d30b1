package memmap

import (
	"encoding/json"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/memmap/internal/tensor"
)

func TestSnapshotIsPure(t *testing.T) {
	m := newTestMapped(t, []float32{1, 2, 3, 4}, tensor.Shape{2, 2}, WithTransferOwnership(true))

	st := m.Snapshot()

	assert.Equal(t, m.Filename(), st.Filename)
	assert.Equal(t, []int{2, 2}, st.Shape)
	assert.Equal(t, "float32", st.DType)
	assert.Equal(t, "CPU", st.Device)
	assert.True(t, st.TransferOwnership)
	assert.True(t, st.OwnsFile)

	// Taking a snapshot must not touch the handle's own flags.
	assert.True(t, m.OwnsFile())
	assert.True(t, m.TransferOwnership())
}

func TestStateJSONRoundTrip(t *testing.T) {
	st := State{
		Filename:          "/tmp/memmap-test.bin",
		Shape:             []int{3, 4},
		DType:             "int64",
		Device:            "CPU",
		TransferOwnership: true,
		OwnsFile:          true,
	}

	data, err := json.Marshal(st)
	require.NoError(t, err)

	var decoded State
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, st, decoded)
}

func TestStateBinaryRoundTrip(t *testing.T) {
	st := State{Filename: "/tmp/x.bin", Shape: []int{2}, DType: "float32", Device: "CPU"}

	data, err := st.MarshalBinary()
	require.NoError(t, err)

	var decoded State
	require.NoError(t, decoded.UnmarshalBinary(data))
	assert.Equal(t, st, decoded)
}

func TestFromStateReattaches(t *testing.T) {
	m := newTestMapped(t, []float32{1, 2, 3, 4}, tensor.Shape{2, 2})

	restored, err := FromState(m.Snapshot())
	require.NoError(t, err)
	defer restored.Close()

	raw, err := restored.Load()
	require.NoError(t, err)
	assert.Equal(t, []float32{1, 2, 3, 4}, raw.AsFloat32())

	// Both handles alias the same backing file: a write through one is
	// visible through the other.
	require.NoError(t, m.CopyAt(0, newTestRaw(t, []float32{9, 9}, tensor.Shape{2})))
	require.NoError(t, m.Flush())

	row, err := restored.At(0)
	require.NoError(t, err)
	assert.Equal(t, []float32{9, 9}, row.AsFloat32())
}

func TestOwnershipStaysWithoutTransfer(t *testing.T) {
	m := newTestMapped(t, []float32{1, 2}, tensor.Shape{2})
	path := m.Filename()

	st := m.Snapshot()
	require.NoError(t, m.CommitTransfer(), "commit without transfer enabled is a no-op")
	assert.True(t, m.OwnsFile())

	restored, err := FromState(st)
	require.NoError(t, err)
	assert.False(t, restored.OwnsFile())

	// The restored side closing must leave the file for the owner.
	require.NoError(t, restored.Close())
	_, err = os.Stat(path)
	require.NoError(t, err)

	require.NoError(t, m.Close())
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestOwnershipMovesWithTransfer(t *testing.T) {
	m := newTestMapped(t, []float32{1, 2}, tensor.Shape{2}, WithTransferOwnership(true))
	path := m.Filename()

	st := m.Snapshot()
	require.NoError(t, m.CommitTransfer())
	assert.False(t, m.OwnsFile())

	restored, err := FromState(st)
	require.NoError(t, err)
	assert.True(t, restored.OwnsFile())

	// The original side closing must leave the file for the new owner.
	require.NoError(t, m.Close())
	_, err = os.Stat(path)
	require.NoError(t, err)

	require.NoError(t, restored.Close())
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestDoubleCommitTransferFails(t *testing.T) {
	m := newTestMapped(t, []float32{1, 2}, tensor.Shape{2}, WithTransferOwnership(true))

	require.NoError(t, m.CommitTransfer())
	assert.ErrorIs(t, m.CommitTransfer(), ErrOwnershipTransferred)
}

func TestFromStateRestoredOwnerCanTransferAgain(t *testing.T) {
	m := newTestMapped(t, []float32{1, 2}, tensor.Shape{2}, WithTransferOwnership(true))

	st := m.Snapshot()
	require.NoError(t, m.CommitTransfer())

	// First hop: ownership arrived here.
	restored, err := FromState(st)
	require.NoError(t, err)
	require.True(t, restored.OwnsFile())

	// Second hop from the restored handle.
	st2 := restored.Snapshot()
	require.NoError(t, restored.CommitTransfer())

	final, err := FromState(st2)
	require.NoError(t, err)
	defer final.Close()
	assert.True(t, final.OwnsFile())
	assert.False(t, restored.OwnsFile())
}

func TestSetTransferOwnership(t *testing.T) {
	m := newTestMapped(t, []float32{1, 2}, tensor.Shape{2})
	assert.False(t, m.TransferOwnership())

	m.SetTransferOwnership(true)
	assert.True(t, m.TransferOwnership())

	require.NoError(t, m.CommitTransfer())
	assert.False(t, m.OwnsFile())
}

func TestFromStateMissingFile(t *testing.T) {
	_, err := FromState(State{
		Filename: "/nonexistent/memmap-gone.bin",
		Shape:    []int{2},
		DType:    "float32",
		Device:   "CPU",
	})

	var serr *StorageError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, "open", serr.Op)
}

func TestFromStateFileTooSmall(t *testing.T) {
	m := newTestMapped(t, []float32{1, 2}, tensor.Shape{2})

	st := m.Snapshot()
	st.Shape = []int{1000} // declares far more data than the file holds

	_, err := FromState(st)
	var serr *StorageError
	require.ErrorAs(t, err, &serr)
}

func TestFromStateBadMetadata(t *testing.T) {
	st := State{Filename: "/tmp/x.bin", Shape: []int{2}, DType: "quaternion", Device: "CPU"}
	_, err := FromState(st)
	assert.Error(t, err)

	st = State{Filename: "/tmp/x.bin", Shape: []int{2}, DType: "float32", Device: "TPU"}
	_, err = FromState(st)
	assert.Error(t, err)
}
