package memmap

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/klauspost/compress/zstd"

	"github.com/born-ml/memmap/internal/tensor"
)

// Snapshot file format, for archival hand-off across machines that do NOT
// share a filesystem (the live transfer protocol in state.go covers the
// shared-filesystem case):
//
//	magic (4 bytes) | version (uint32 LE) | header size (uint64 LE) |
//	JSON header | zstd-compressed payload
//
// The header checksum is the SHA-256 of the uncompressed payload.
const (
	snapshotMagic   = "MMTS"
	snapshotVersion = 1
	maxHeaderSize   = 1 << 20
)

type snapshotHeader struct {
	FormatVersion int       `json:"format_version"`
	DType         string    `json:"dtype"`
	Shape         []int     `json:"shape"`
	Device        string    `json:"device"`
	Checksum      string    `json:"checksum"`
	CreatedAt     time.Time `json:"created_at"`
}

// Save writes a compressed snapshot of the mapped content to path.
func (m *Tensor) Save(path string) error {
	view, err := m.mapped()
	if err != nil {
		return err
	}
	payload := view.Data()

	sum := sha256.Sum256(payload)
	header := snapshotHeader{
		FormatVersion: snapshotVersion,
		DType:         m.dtype.String(),
		Shape:         []int(m.shape.Clone()),
		Device:        m.device.String(),
		Checksum:      hex.EncodeToString(sum[:]),
		CreatedAt:     time.Now().UTC(),
	}
	headerJSON, err := json.Marshal(header)
	if err != nil {
		return fmt.Errorf("failed to marshal header: %w", err)
	}

	//nolint:gosec // G304: snapshot destination is caller-chosen by design
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create snapshot: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(snapshotMagic); err != nil {
		return fmt.Errorf("failed to write magic bytes: %w", err)
	}
	if err := binary.Write(f, binary.LittleEndian, uint32(snapshotVersion)); err != nil {
		return fmt.Errorf("failed to write version: %w", err)
	}
	if err := binary.Write(f, binary.LittleEndian, uint64(len(headerJSON))); err != nil {
		return fmt.Errorf("failed to write header size: %w", err)
	}
	if _, err := f.Write(headerJSON); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	zw, err := zstd.NewWriter(f)
	if err != nil {
		return fmt.Errorf("failed to create compressor: %w", err)
	}
	if _, err := zw.Write(payload); err != nil {
		_ = zw.Close()
		return fmt.Errorf("failed to write payload: %w", err)
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("failed to finish payload: %w", err)
	}
	return f.Close()
}

// LoadSnapshot reads a snapshot written by Save and copies its content into
// a brand-new owned mapped tensor.
func LoadSnapshot(path string) (*Tensor, error) {
	//nolint:gosec // G304: snapshot source is caller-chosen by design
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot: %w", err)
	}
	defer f.Close()

	magic := make([]byte, len(snapshotMagic))
	if _, err := io.ReadFull(f, magic); err != nil {
		return nil, fmt.Errorf("failed to read magic bytes: %w", err)
	}
	if string(magic) != snapshotMagic {
		return nil, ErrInvalidMagic
	}

	var version uint32
	if err := binary.Read(f, binary.LittleEndian, &version); err != nil {
		return nil, fmt.Errorf("failed to read version: %w", err)
	}
	if version != snapshotVersion {
		return nil, fmt.Errorf("%w: got %d, expected %d", ErrUnsupportedVersion, version, snapshotVersion)
	}

	var headerSize uint64
	if err := binary.Read(f, binary.LittleEndian, &headerSize); err != nil {
		return nil, fmt.Errorf("failed to read header size: %w", err)
	}
	if headerSize > maxHeaderSize {
		return nil, fmt.Errorf("header size %d exceeds maximum %d", headerSize, maxHeaderSize)
	}

	headerJSON := make([]byte, headerSize)
	if _, err := io.ReadFull(f, headerJSON); err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	var header snapshotHeader
	if err := json.Unmarshal(headerJSON, &header); err != nil {
		return nil, fmt.Errorf("failed to parse header JSON: %w", err)
	}

	dtype, err := tensor.ParseDataType(header.DType)
	if err != nil {
		return nil, err
	}
	device, err := tensor.ParseDevice(header.Device)
	if err != nil {
		return nil, err
	}
	shape := tensor.Shape(header.Shape)
	if err := shape.Validate(); err != nil {
		return nil, fmt.Errorf("invalid shape: %w", err)
	}

	zr, err := zstd.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("failed to create decompressor: %w", err)
	}
	defer zr.Close()

	payload, err := io.ReadAll(zr)
	if err != nil {
		return nil, fmt.Errorf("failed to read payload: %w", err)
	}
	if len(payload) != shape.NumElements()*dtype.Size() {
		return nil, fmt.Errorf("payload holds %d bytes, shape %v with dtype %s requires %d",
			len(payload), shape, dtype, shape.NumElements()*dtype.Size())
	}

	sum := sha256.Sum256(payload)
	if hex.EncodeToString(sum[:]) != header.Checksum {
		return nil, ErrChecksumMismatch
	}

	raw, err := tensor.WrapBytes(payload, shape, dtype, device)
	if err != nil {
		return nil, err
	}
	return New(raw)
}
