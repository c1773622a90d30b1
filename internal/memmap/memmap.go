package memmap

import (
	"fmt"
	"os"

	"github.com/born-ml/memmap/internal/backend/cpu"
	"github.com/born-ml/memmap/internal/tensor"
)

// hostBackend performs all numeric work for materialized copies.
// Backing storage is always host-resident, whatever the device tag says.
var hostBackend = cpu.New()

// Tensor is a tensor stored in a memory-mapped temporary file.
//
// A backing file is created at construction and cleared when the owning
// handle is closed. The type is aimed at data transfer between processes
// that share a common filesystem: a handle's state can be captured with
// Snapshot and restored with FromState in another process, re-opening the
// mapping by filename rather than duplicating content.
//
// Whether serialization hands over responsibility for deleting the file is
// controlled per handle: with transfer ownership disabled (the default) the
// creating process keeps ownership; with it enabled, CommitTransfer after a
// snapshot hand-off moves deletion responsibility to the restoring side.
//
// Example:
//
//	raw, _ := tensor.NewRaw(tensor.Shape{3, 4}, tensor.Float32, tensor.CPU)
//	m, _ := memmap.New(raw)
//	defer m.Close()
//
//	out, _ := m.Load()        // conventional in-memory copy
//	sum, _ := m.Add(1.0)      // arithmetic delegates to the host backend
type Tensor struct {
	shape  tensor.Shape
	dtype  tensor.DataType
	device tensor.Device

	filename string
	file     *os.File // nil until the mapping is (re)opened after a restore
	data     []byte   // mapping; nil until first access

	transferOwnership bool
	ownsFile          bool
	closed            bool
}

// Option configures a mapped tensor at construction.
type Option func(*Tensor)

// WithTransferOwnership controls whether serializing this handle hands the
// backing file's deletion responsibility to the restoring process.
func WithTransferOwnership(v bool) Option {
	return func(m *Tensor) { m.transferOwnership = v }
}

// New creates a mapped tensor from a source, copying its content into a
// freshly created backing file. The source may be a *tensor.RawTensor or
// another mapped *Tensor; a mapped source never shares its backing file
// with the new tensor.
func New(src any, opts ...Option) (*Tensor, error) {
	var m *Tensor
	var err error

	switch s := src.(type) {
	case *tensor.RawTensor:
		m, err = newMapped(s.Shape(), s.DType(), s.Device())
		if err != nil {
			return nil, err
		}
		err = m.CopyFrom(s)
	case *Tensor:
		m, err = newMapped(s.shape, s.dtype, s.device)
		if err != nil {
			return nil, err
		}
		err = m.CopyFrom(s)
	default:
		return nil, fmt.Errorf("%w: got %T", ErrInvalidSource, src)
	}
	if err != nil {
		m.destroy()
		return nil, err
	}

	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// FromTensor creates a mapped tensor from a typed in-memory tensor.
// Sources carrying gradient-tracking state are rejected.
func FromTensor[T tensor.DType, B tensor.Backend](t *tensor.Tensor[T, B], opts ...Option) (*Tensor, error) {
	if t.RequiresGrad() {
		return nil, ErrAutogradTensor
	}
	return New(t.Raw(), opts...)
}

// newMapped allocates a backing file for the given geometry. The mapping
// itself stays absent until first access.
func newMapped(shape tensor.Shape, dtype tensor.DataType, device tensor.Device) (*Tensor, error) {
	if err := shape.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSource, err)
	}

	size := shape.NumElements() * dtype.Size()
	path, f, err := createBacking(size)
	if err != nil {
		return nil, err
	}

	return &Tensor{
		shape:    shape.Clone(),
		dtype:    dtype,
		device:   device,
		filename: path,
		file:     f,
		ownsFile: true,
	}, nil
}

// Shape returns the tensor's shape.
func (m *Tensor) Shape() tensor.Shape { return m.shape }

// DType returns the tensor's data type.
func (m *Tensor) DType() tensor.DataType { return m.dtype }

// Device returns the device tag materialized copies are placed on.
// The backing store itself is always host-resident.
func (m *Tensor) Device() tensor.Device { return m.device }

// Filename returns the path of the backing file.
func (m *Tensor) Filename() string { return m.filename }

// NumElements returns the total number of elements.
func (m *Tensor) NumElements() int { return m.shape.NumElements() }

// NDim returns the number of dimensions.
func (m *Tensor) NDim() int { return len(m.shape) }

// ByteSize returns the size of the backing extent in bytes.
func (m *Tensor) ByteSize() int { return m.NumElements() * m.dtype.Size() }

// TransferOwnership reports whether serialization will hand over ownership.
func (m *Tensor) TransferOwnership() bool { return m.transferOwnership }

// OwnsFile reports whether this handle deletes the backing file on Close.
func (m *Tensor) OwnsFile() bool { return m.ownsFile }

// SetTransferOwnership mutates the transfer flag on a live handle. It takes
// effect at the next CommitTransfer and does not retroactively affect copies
// already restored elsewhere.
func (m *Tensor) SetTransferOwnership(v bool) *Tensor {
	m.transferOwnership = v
	return m
}

// String returns a human-readable representation.
func (m *Tensor) String() string {
	return fmt.Sprintf("memmap.Tensor[%s]%v on %s (file %s)", m.dtype, m.shape, m.device, m.filename)
}

// ensureMapped opens the read-write mapping on first access. The mapping is
// reconstructible purely from (filename, shape, dtype), so a restored handle
// maps lazily here too.
func (m *Tensor) ensureMapped() error {
	if m.closed {
		return ErrClosed
	}
	if m.data != nil {
		return nil
	}

	if m.file == nil {
		f, err := openBacking(m.filename, m.ByteSize())
		if err != nil {
			return err
		}
		m.file = f
	}

	data, err := mmapFile(m.file, m.ByteSize())
	if err != nil {
		return storageErr("map", m.filename, err)
	}
	m.data = data
	return nil
}

// mapped returns a RawTensor view aliasing the mapping: writes through it
// mutate the backing file directly.
func (m *Tensor) mapped() (*tensor.RawTensor, error) {
	if err := m.ensureMapped(); err != nil {
		return nil, err
	}
	return tensor.WrapBytes(m.data, m.shape, m.dtype, tensor.CPU)
}

// Load materializes the full mapped content as a conventional in-memory
// tensor placed on the handle's device tag. The copy does not alias the
// mapping: later writes to either side are independent.
func (m *Tensor) Load() (*tensor.RawTensor, error) {
	view, err := m.mapped()
	if err != nil {
		return nil, err
	}

	raw, err := tensor.NewRaw(m.shape, m.dtype, m.device)
	if err != nil {
		return nil, err
	}
	copy(raw.Data(), view.Data())
	return raw, nil
}

// At materializes the slice at index i along the first dimension.
//
// Indexed reads go through the single materialize path: the full content is
// read and then indexed, so every call costs O(NumElements) regardless of
// the slice size.
func (m *Tensor) At(i int) (*tensor.RawTensor, error) {
	if len(m.shape) == 0 {
		return nil, fmt.Errorf("cannot index a 0-dimensional tensor")
	}

	raw, err := m.Load()
	if err != nil {
		return nil, err
	}

	i, err = m.normalizeIndex(i)
	if err != nil {
		return nil, err
	}

	rowShape := m.shape[1:].Clone()
	rowBytes := rowShape.NumElements() * m.dtype.Size()
	return tensor.WrapBytes(raw.Data()[i*rowBytes:(i+1)*rowBytes], rowShape, m.dtype, m.device)
}

func (m *Tensor) normalizeIndex(i int) (int, error) {
	n := m.shape[0]
	if i < 0 {
		i += n
	}
	if i < 0 || i >= n {
		return 0, fmt.Errorf("index %d out of bounds for dimension 0 (size %d)", i, n)
	}
	return i, nil
}

// CopyFrom overwrites the whole mapped extent with the source's content,
// writing directly into the mapping. The source may be a mapped *Tensor, a
// *tensor.RawTensor of identical shape and dtype, or a raw []byte buffer of
// exactly ByteSize bytes.
func (m *Tensor) CopyFrom(src any) error {
	view, err := m.mapped()
	if err != nil {
		return err
	}

	b, err := m.sourceBytes(src, m.shape)
	if err != nil {
		return err
	}
	copy(view.Data(), b)
	return nil
}

// CopyAt overwrites the slice at index i along the first dimension, writing
// directly into the mapping rather than into a transient materialized copy.
// The source must match the slice's shape and the tensor's dtype.
func (m *Tensor) CopyAt(i int, src any) error {
	if len(m.shape) == 0 {
		return fmt.Errorf("cannot index a 0-dimensional tensor")
	}
	if err := m.ensureMapped(); err != nil {
		return err
	}

	i, err := m.normalizeIndex(i)
	if err != nil {
		return err
	}

	rowShape := m.shape[1:].Clone()
	b, err := m.sourceBytes(src, rowShape)
	if err != nil {
		return err
	}

	rowBytes := rowShape.NumElements() * m.dtype.Size()
	copy(m.data[i*rowBytes:(i+1)*rowBytes], b)
	return nil
}

// sourceBytes coerces a write source into a byte slice matching the wanted
// shape and the tensor's dtype.
func (m *Tensor) sourceBytes(src any, want tensor.Shape) ([]byte, error) {
	switch s := src.(type) {
	case *Tensor:
		if s.dtype != m.dtype {
			return nil, fmt.Errorf("copy: source dtype %s does not match %s", s.dtype, m.dtype)
		}
		if !s.shape.Equal(want) {
			return nil, fmt.Errorf("copy: source shape %v does not match %v", s.shape, want)
		}
		view, err := s.mapped()
		if err != nil {
			return nil, err
		}
		return view.Data(), nil
	case *tensor.RawTensor:
		if s.DType() != m.dtype {
			return nil, fmt.Errorf("copy: source dtype %s does not match %s", s.DType(), m.dtype)
		}
		if !s.Shape().Equal(want) {
			return nil, fmt.Errorf("copy: source shape %v does not match %v", s.Shape(), want)
		}
		return s.Data(), nil
	case []byte:
		wantBytes := want.NumElements() * m.dtype.Size()
		if len(s) != wantBytes {
			return nil, fmt.Errorf("copy: buffer holds %d bytes, extent requires %d", len(s), wantBytes)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("%w: got %T", ErrInvalidSource, src)
	}
}

// Clone deep-copies the content into a brand-new backing file. The clone
// never shares storage with the source and starts with default ownership
// flags (owned, no transfer).
func (m *Tensor) Clone() (*Tensor, error) {
	return New(m)
}

// Flush synchronously writes dirty mapped pages back to the backing file.
// A tensor that was never accessed has nothing to flush.
func (m *Tensor) Flush() error {
	if m.closed {
		return ErrClosed
	}
	if m.data == nil {
		return nil
	}
	if err := msyncFile(m.data); err != nil {
		return storageErr("sync", m.filename, err)
	}
	return nil
}

// Close releases the mapping and the file handle. If this handle owns the
// backing file, the file is deleted; deletion failures are swallowed since
// cleanup has no caller to report to. Close is idempotent.
func (m *Tensor) Close() error {
	if m.closed {
		return nil
	}
	m.closed = true
	return m.destroy()
}

func (m *Tensor) destroy() error {
	var err error
	if m.data != nil {
		err = munmapFile(m.data)
		m.data = nil
	}
	if m.file != nil {
		if cerr := m.file.Close(); cerr != nil && err == nil {
			err = cerr
		}
		m.file = nil
	}
	if m.ownsFile {
		// Best-effort: the file may already be gone.
		_ = os.Remove(m.filename)
	}
	return err
}
