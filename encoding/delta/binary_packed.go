// Package delta implements the DELTA_BINARY_PACKED, DELTA_LENGTH_BYTE_ARRAY
// and DELTA_BYTE_ARRAY parquet encodings.
package delta

import (
	"fmt"

	"github.com/parquetcore/parquet-go/encoding"
	"github.com/parquetcore/parquet-go/format"
	"github.com/parquetcore/parquet-go/internal/bitio"
)

// Default block geometry used by the writer. Decoders read whatever geometry
// the header declares.
const (
	DefaultBlockSize      = 128
	DefaultMiniBlockCount = 4
)

// BinaryPackedEncoding implements DELTA_BINARY_PACKED for INT32 and INT64.
type BinaryPackedEncoding struct {
	encoding.NotSupported
}

func (e *BinaryPackedEncoding) String() string { return "DELTA_BINARY_PACKED" }

func (e *BinaryPackedEncoding) Encoding() format.Encoding { return format.DeltaBinaryPacked }

func (e *BinaryPackedEncoding) CanEncode(t format.Type) bool {
	return t == format.Int32 || t == format.Int64
}

func (e *BinaryPackedEncoding) EncodeInt32(dst []byte, src []int32) ([]byte, error) {
	values := make([]int64, len(src))
	for i, v := range src {
		values[i] = int64(v)
	}
	return encodeBlocks(dst, values, DefaultBlockSize, DefaultMiniBlockCount)
}

func (e *BinaryPackedEncoding) EncodeInt64(dst []byte, src []int64) ([]byte, error) {
	return encodeBlocks(dst, src, DefaultBlockSize, DefaultMiniBlockCount)
}

func (e *BinaryPackedEncoding) DecodeInt32(dst []int32, src []byte) ([]int32, error) {
	values, _, err := decodeBlocks(src)
	if err != nil {
		return dst, err
	}
	dst = dst[:0]
	for _, v := range values {
		dst = append(dst, int32(v))
	}
	return dst, nil
}

func (e *BinaryPackedEncoding) DecodeInt64(dst []int64, src []byte) ([]int64, error) {
	values, _, err := decodeBlocks(src)
	if err != nil {
		return dst, err
	}
	return append(dst[:0], values...), nil
}

// decodeBlocks decodes a full DELTA_BINARY_PACKED stream and returns the
// number of bytes consumed, so callers that concatenate multiple streams
// (DELTA_LENGTH_BYTE_ARRAY, DELTA_BYTE_ARRAY) can find where the next one
// begins.
func decodeBlocks(src []byte) ([]int64, int, error) {
	c := bitio.NewCursor(src)

	blockSize, err := c.ReadUvarint()
	if err != nil {
		return nil, 0, fmt.Errorf("delta: block size: %w", err)
	}
	miniBlocks, err := c.ReadUvarint()
	if err != nil {
		return nil, 0, fmt.Errorf("delta: miniblock count: %w", err)
	}
	totalCount, err := c.ReadUvarint()
	if err != nil {
		return nil, 0, fmt.Errorf("delta: total value count: %w", err)
	}
	firstValue, err := c.ReadVarint()
	if err != nil {
		return nil, 0, fmt.Errorf("delta: first value: %w", err)
	}

	if blockSize == 0 || blockSize%128 != 0 {
		return nil, 0, fmt.Errorf("delta: block size %d must be a non-zero multiple of 128", blockSize)
	}
	if miniBlocks == 0 || blockSize%miniBlocks != 0 {
		return nil, 0, fmt.Errorf("delta: %d miniblocks does not divide block size %d", miniBlocks, blockSize)
	}
	miniBlockSize := blockSize / miniBlocks
	if miniBlockSize%32 != 0 {
		return nil, 0, fmt.Errorf("delta: miniblock size %d must be a multiple of 32", miniBlockSize)
	}

	if totalCount == 0 {
		return []int64{}, c.Pos(), nil
	}
	values := make([]int64, 0, totalCount)
	values = append(values, firstValue)
	prev := firstValue

	for uint64(len(values)) < totalCount {
		minDelta, err := c.ReadVarint()
		if err != nil {
			return nil, 0, fmt.Errorf("delta: block min delta: %w", err)
		}

		bitWidths := make([]int, miniBlocks)
		for i := range bitWidths {
			w, err := c.ReadUint8()
			if err != nil {
				return nil, 0, fmt.Errorf("delta: miniblock bit width: %w", err)
			}
			bitWidths[i] = int(w)
		}

		for _, bitWidth := range bitWidths {
			byteLen := bitio.ByteCount(int(miniBlockSize), bitWidth)
			raw, err := c.Next(byteLen)
			if err != nil {
				return nil, 0, fmt.Errorf("delta: miniblock payload: %w", err)
			}
			packed := make([]uint64, miniBlockSize)
			bitio.UnpackUint64(packed, raw, bitWidth)
			for _, p := range packed {
				if uint64(len(values)) >= totalCount {
					break
				}
				prev = prev + minDelta + int64(p)
				values = append(values, prev)
			}
		}
	}

	return values, c.Pos(), nil
}

// encodeBlocks is the mirror of decodeBlocks: it packs values into the
// DELTA_BINARY_PACKED header + block + miniblock layout.
func encodeBlocks(dst []byte, values []int64, blockSize, miniBlocks int) ([]byte, error) {
	miniBlockSize := blockSize / miniBlocks

	dst = bitio.AppendUvarint(dst, uint64(blockSize))
	dst = bitio.AppendUvarint(dst, uint64(miniBlocks))
	dst = bitio.AppendUvarint(dst, uint64(len(values)))

	if len(values) == 0 {
		dst = bitio.AppendVarint(dst, 0)
		return dst, nil
	}
	dst = bitio.AppendVarint(dst, values[0])

	rest := values[1:]
	for off := 0; off < len(rest); off += blockSize {
		end := off + blockSize
		if end > len(rest) {
			end = len(rest)
		}
		block := rest[off:end]
		prev := values[off]
		if off > 0 {
			prev = rest[off-1]
		}

		deltas := make([]int64, len(block))
		for i, v := range block {
			deltas[i] = v - prev
			prev = v
		}
		minDelta := deltas[0]
		for _, d := range deltas[1:] {
			if d < minDelta {
				minDelta = d
			}
		}

		dst = bitio.AppendVarint(dst, minDelta)

		bitWidths := make([]int, miniBlocks)
		reduced := make([][]uint64, miniBlocks)
		for m := 0; m < miniBlocks; m++ {
			start := m * miniBlockSize
			if start >= len(deltas) {
				bitWidths[m] = 0
				reduced[m] = nil
				continue
			}
			stop := start + miniBlockSize
			if stop > len(deltas) {
				stop = len(deltas)
			}
			chunk := deltas[start:stop]
			max := uint64(0)
			vals := make([]uint64, len(chunk))
			for i, d := range chunk {
				// d >= minDelta always holds since minDelta is the minimum
				// over this block's deltas, so the subtraction never
				// underflows once reinterpreted as unsigned.
				vals[i] = uint64(d - minDelta)
				if vals[i] > max {
					max = vals[i]
				}
			}
			reduced[m] = vals
			bitWidths[m] = bitio.BitWidth64(max)
		}

		for _, w := range bitWidths {
			dst = append(dst, byte(w))
		}
		for m, vals := range reduced {
			padded := make([]uint64, miniBlockSize)
			copy(padded, vals)
			packed := make([]byte, bitio.ByteCount(miniBlockSize, bitWidths[m]))
			bitio.PackUint64(packed, padded, bitWidths[m])
			dst = append(dst, packed...)
		}
	}

	return dst, nil
}
