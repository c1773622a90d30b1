package memmap

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/born-ml/memmap/internal/tensor"
)

// State is the serializable snapshot of a mapped tensor handle. It carries
// everything needed to re-open the mapping in another process: the mapping
// itself and the open file handle are never serialized.
type State struct {
	Filename          string `json:"filename"`
	Shape             []int  `json:"shape"`
	DType             string `json:"dtype"`
	Device            string `json:"device"`
	TransferOwnership bool   `json:"transfer_ownership"`
	OwnsFile          bool   `json:"owns_file"`
}

// MarshalBinary encodes the state as JSON, so State plugs into gob-style
// transports via encoding.BinaryMarshaler.
func (s State) MarshalBinary() ([]byte, error) {
	return json.Marshal(s)
}

// UnmarshalBinary decodes a state produced by MarshalBinary.
func (s *State) UnmarshalBinary(data []byte) error {
	return json.Unmarshal(data, s)
}

// Snapshot captures this handle's state for serialization. It is pure: the
// handle itself is not mutated, in particular its ownership flags. When the
// snapshot is handed to another process AND transfer ownership is enabled,
// call CommitTransfer afterwards so this handle stops deleting the file on
// Close.
func (m *Tensor) Snapshot() State {
	return State{
		Filename:          m.filename,
		Shape:             []int(m.shape.Clone()),
		DType:             m.dtype.String(),
		Device:            m.device.String(),
		TransferOwnership: m.transferOwnership,
		OwnsFile:          m.ownsFile,
	}
}

// CommitTransfer records that a snapshot of this handle has been handed off.
//
// With transfer ownership disabled this is a no-op: the handle keeps
// ownership and the restoring side never acquires it. With transfer
// ownership enabled the handle relinquishes ownership, so its Close leaves
// the backing file for the restored handle to delete. A second commit
// without an intervening hand-off fails with ErrOwnershipTransferred:
// only one side may ever hold deletion responsibility.
func (m *Tensor) CommitTransfer() error {
	if m.closed {
		return ErrClosed
	}
	if !m.transferOwnership {
		return nil
	}
	if !m.ownsFile {
		return ErrOwnershipTransferred
	}
	m.ownsFile = false
	return nil
}

// FromState reconstructs a handle from a snapshot taken in this or another
// process. The backing file must exist and be large enough for the declared
// geometry; the mapping is re-opened lazily on first access.
//
// The restored handle owns the backing file only when the snapshot was taken
// with transfer ownership enabled from a handle that still owned the file.
func FromState(st State) (*Tensor, error) {
	dtype, err := tensor.ParseDataType(st.DType)
	if err != nil {
		return nil, err
	}
	device, err := tensor.ParseDevice(st.Device)
	if err != nil {
		return nil, err
	}

	m := &Tensor{
		shape:             tensor.Shape(st.Shape).Clone(),
		dtype:             dtype,
		device:            device,
		filename:          st.Filename,
		transferOwnership: st.TransferOwnership,
		ownsFile:          st.TransferOwnership && st.OwnsFile,
	}
	if err := m.shape.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSource, err)
	}

	fi, err := os.Stat(st.Filename)
	if err != nil {
		return nil, storageErr("open", st.Filename, err)
	}
	if fi.Size() < int64(m.ByteSize()) {
		return nil, storageErr("open", st.Filename,
			fmt.Errorf("file holds %d bytes, mapping requires %d", fi.Size(), m.ByteSize()))
	}
	return m, nil
}
