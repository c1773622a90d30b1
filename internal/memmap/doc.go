// Package memmap implements a tensor whose elements live in a memory-mapped
// temporary file rather than anonymous process memory.
//
// The backing file is created in the system temporary directory and deleted
// when the owning handle is closed. Handles can be serialized and restored in
// another process that shares the filesystem; the ownership protocol decides
// which side is responsible for deleting the file (see Snapshot,
// CommitTransfer and FromState).
//
// Reads materialize a conventional in-memory RawTensor; writes go directly
// through the mapping. No locking is provided: concurrent writers from
// different processes race exactly as the operating system's shared file
// mapping allows, and coordinating them is the caller's responsibility.
package memmap
