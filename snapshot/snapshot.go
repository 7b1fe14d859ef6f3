// Package snapshot persists distributed sparse matrices. Every rank writes
// its owned rows as one blob; a matching partitioning restores the matrix
// later. Blobs go through a pluggable BlobStore, payloads optionally
// through LZ4 or ZSTD.
package snapshot

import (
	"context"
	"encoding/binary"
	"fmt"
	"math"

	"github.com/hupe1980/matgo"
	"github.com/hupe1980/matgo/indexset"
)

const (
	magic   uint32 = 0x4d47534e // "MGSN"
	version uint16 = 1

	headerSize = 40
)

// header is the uncompressed prefix of every rank blob.
type header struct {
	Codec     Codec
	Rank      uint32
	Ranks     uint32
	Rows      int64
	Cols      int64
	LocalRows uint32
}

func (h *header) marshal() []byte {
	buf := make([]byte, headerSize)
	binary.LittleEndian.PutUint32(buf[0:], magic)
	binary.LittleEndian.PutUint16(buf[4:], version)
	buf[6] = byte(h.Codec)
	binary.LittleEndian.PutUint32(buf[8:], h.Rank)
	binary.LittleEndian.PutUint32(buf[12:], h.Ranks)
	binary.LittleEndian.PutUint64(buf[16:], uint64(h.Rows))
	binary.LittleEndian.PutUint64(buf[24:], uint64(h.Cols))
	binary.LittleEndian.PutUint32(buf[32:], h.LocalRows)
	return buf
}

func parseHeader(data []byte) (*header, error) {
	if len(data) < headerSize {
		return nil, fmt.Errorf("snapshot: blob too small for header: %d bytes", len(data))
	}
	if m := binary.LittleEndian.Uint32(data[0:]); m != magic {
		return nil, fmt.Errorf("snapshot: bad magic %#x", m)
	}
	if v := binary.LittleEndian.Uint16(data[4:]); v != version {
		return nil, fmt.Errorf("snapshot: unsupported version %d", v)
	}
	return &header{
		Codec:     Codec(data[6]),
		Rank:      binary.LittleEndian.Uint32(data[8:]),
		Ranks:     binary.LittleEndian.Uint32(data[12:]),
		Rows:      int64(binary.LittleEndian.Uint64(data[16:])),
		Cols:      int64(binary.LittleEndian.Uint64(data[24:])),
		LocalRows: binary.LittleEndian.Uint32(data[32:]),
	}, nil
}

func blobName(name string, rank int) string {
	return fmt.Sprintf("%s/rank-%05d", name, rank)
}

// Save writes the calling rank's owned rows of a compressed matrix under
// name. Each rank stores an independent blob; Save is not collective and
// never blocks on other ranks.
func Save(ctx context.Context, store BlobStore, name string, m *matgo.SparseMatrix, codec Codec) error {
	if !m.IsCompressed() {
		return matgo.ErrNotCompressed
	}

	rowMap := m.RowMap()
	h := &header{
		Codec:     codec,
		Rank:      uint32(m.Comm().Rank()),
		Ranks:     uint32(m.Comm().Size()),
		Rows:      m.M(),
		Cols:      m.N(),
		LocalRows: uint32(rowMap.LocalSize()),
	}

	// Row records: [globalRow int64][n uint32][cols n*int64][vals n*float64].
	var payload []byte
	for i := 0; i < rowMap.LocalSize(); i++ {
		row, err := rowMap.GlobalIndex(i)
		if err != nil {
			return err
		}
		cols, vals := m.Row(i)

		payload = binary.LittleEndian.AppendUint64(payload, uint64(row))
		payload = binary.LittleEndian.AppendUint32(payload, uint32(len(cols)))
		for _, c := range cols {
			payload = binary.LittleEndian.AppendUint64(payload, uint64(c))
		}
		for _, v := range vals {
			payload = binary.LittleEndian.AppendUint64(payload, math.Float64bits(v))
		}
	}

	block, err := compress(payload, codec)
	if err != nil {
		return err
	}
	return store.Put(ctx, blobName(name, m.Comm().Rank()), append(h.marshal(), block...))
}

// Load restores the calling rank's rows from the blob written under name
// and rebuilds a compressed matrix over the given partitionings, which
// must match the ones the snapshot was taken with. Collective through the
// final structure fix.
func Load(ctx context.Context, store BlobStore, name string, rowMap, colMap *indexset.Map) (*matgo.SparseMatrix, error) {
	c := rowMap.Comm()

	data, err := store.Get(ctx, blobName(name, c.Rank()))
	if err != nil {
		return nil, err
	}
	h, err := parseHeader(data)
	if err != nil {
		return nil, err
	}

	if h.Rank != uint32(c.Rank()) || h.Ranks != uint32(c.Size()) {
		return nil, fmt.Errorf("snapshot: blob written by rank %d of %d, read as rank %d of %d",
			h.Rank, h.Ranks, c.Rank(), c.Size())
	}
	if h.Rows != rowMap.GlobalSize() || h.Cols != colMap.GlobalSize() {
		return nil, fmt.Errorf("snapshot: shape mismatch: blob %dx%d, maps %dx%d",
			h.Rows, h.Cols, rowMap.GlobalSize(), colMap.GlobalSize())
	}
	if int(h.LocalRows) != rowMap.LocalSize() {
		return nil, fmt.Errorf("snapshot: blob has %d local rows, map owns %d", h.LocalRows, rowMap.LocalSize())
	}

	payload, err := decompress(data[headerSize:], h.Codec)
	if err != nil {
		return nil, err
	}

	rows := make([]int64, h.LocalRows)
	cols := make([][]int64, h.LocalRows)
	vals := make([][]float64, h.LocalRows)
	lengths := make([]int, h.LocalRows)

	off := 0
	need := func(n int) error {
		if off+n > len(payload) {
			return fmt.Errorf("snapshot: truncated payload at offset %d", off)
		}
		return nil
	}
	for i := range rows {
		if err := need(12); err != nil {
			return nil, err
		}
		rows[i] = int64(binary.LittleEndian.Uint64(payload[off:]))
		n := int(binary.LittleEndian.Uint32(payload[off+8:]))
		off += 12

		if err := need(16 * n); err != nil {
			return nil, err
		}
		cols[i] = make([]int64, n)
		vals[i] = make([]float64, n)
		lengths[i] = n
		for k := 0; k < n; k++ {
			cols[i][k] = int64(binary.LittleEndian.Uint64(payload[off:]))
			off += 8
		}
		for k := 0; k < n; k++ {
			vals[i][k] = math.Float64frombits(binary.LittleEndian.Uint64(payload[off:]))
			off += 8
		}
	}

	m, err := matgo.NewDistributedPerRow(rowMap, colMap, lengths)
	if err != nil {
		return nil, err
	}
	for i := range rows {
		if err := m.Set(rows[i], cols[i], vals[i], false); err != nil {
			return nil, err
		}
	}
	if err := m.Compress(); err != nil {
		return nil, err
	}
	return m, nil
}

// Delete removes every rank blob stored under name.
func Delete(ctx context.Context, store BlobStore, name string) error {
	blobs, err := store.List(ctx, name+"/")
	if err != nil {
		return err
	}
	for _, b := range blobs {
		if err := store.Delete(ctx, b); err != nil {
			return err
		}
	}
	return nil
}
