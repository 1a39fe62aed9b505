// Package levels implements the RLE/bit-packed hybrid codec used to encode
// definition and repetition level streams and reused by the
// RLE_DICTIONARY value encoding for dictionary indices.
package levels

import (
	"fmt"

	"github.com/parquetcore/parquet-go/internal/bitio"
	"github.com/parquetcore/parquet-go/internal/perrors"
)

// groupSize is the number of values packed together in one bit-packed run
// group, fixed by the Parquet format.
const groupSize = 8

// Decode reads numValues values encoded at bitWidth from src, returning the
// decoded values and the number of bytes consumed.
//
// A bitWidth of 0 means every value is implicitly zero and the stream is a
// single RLE header with no payload bytes.
func Decode(src []byte, bitWidth, numValues int) ([]int32, int, error) {
	out := make([]int32, 0, numValues)
	c := bitio.NewCursor(src)

	for len(out) < numValues {
		header, err := c.ReadUvarint()
		if err != nil {
			return nil, c.Pos(), fmt.Errorf("%w: level run header: %s", perrors.ErrTruncatedInput, err)
		}

		if header&1 == 1 {
			// Bit-packed run: num_groups * 8 values follow, width bits wide.
			numGroups := int(header >> 1)
			n := numGroups * groupSize
			if n > numValues-len(out) {
				n = numValues - len(out)
			}
			byteLen := bitio.ByteCount(numGroups*groupSize, bitWidth)
			raw, err := c.Next(byteLen)
			if err != nil {
				return nil, c.Pos(), fmt.Errorf("%w: bit-packed run: %s", perrors.ErrTruncatedInput, err)
			}
			packed := make([]uint32, numGroups*groupSize)
			bitio.UnpackUint32(packed, raw, bitWidth)
			for _, v := range packed[:n] {
				out = append(out, int32(v))
			}
		} else {
			// RLE run: a single value repeated count times.
			count := int(header >> 1)
			if count > numValues-len(out) {
				count = numValues - len(out)
			}
			var value uint32
			if bitWidth > 0 {
				width := byteWidth(bitWidth)
				raw, err := c.Next(width)
				if err != nil {
					return nil, c.Pos(), fmt.Errorf("%w: RLE run value: %s", perrors.ErrTruncatedInput, err)
				}
				for i := len(raw) - 1; i >= 0; i-- {
					value = value<<8 | uint32(raw[i])
				}
			}
			for i := 0; i < count; i++ {
				out = append(out, int32(value))
			}
		}
	}

	if len(out) != numValues {
		return nil, c.Pos(), fmt.Errorf("%w: wanted %d levels, decoded %d", perrors.ErrBadLevelCount, numValues, len(out))
	}
	return out, c.Pos(), nil
}

// byteWidth returns ceil(bitWidth/8), the number of bytes used to store the
// single repeated value of an RLE run.
func byteWidth(bitWidth int) int {
	return (bitWidth + 7) / 8
}

// Encode appends the RLE/bit-packed hybrid encoding of values (each assumed
// to fit in bitWidth bits) to dst.
//
// Runs of 8 or more repeats are RLE-encoded; everything else is bit-packed
// in groups of 8, padding the final partial group with zeros. A bitWidth of
// 0 always produces a single RLE run covering every value.
func Encode(dst []byte, values []int32, bitWidth int) []byte {
	if bitWidth == 0 {
		return bitio.AppendUvarint(dst, uint64(len(values))<<1)
	}

	i := 0
	for i < len(values) {
		runLen := 1
		for i+runLen < len(values) && values[i+runLen] == values[i] {
			runLen++
		}
		if runLen >= groupSize {
			dst = bitio.AppendUvarint(dst, uint64(runLen)<<1)
			dst = appendRLEValue(dst, uint32(values[i]), bitWidth)
			i += runLen
			continue
		}

		// Bit-pack starting here up to (but not including) the next run of
		// >= 8 repeats, in chunks of groupSize values, zero-padding the tail.
		start := i
		for i < len(values) {
			runLen = 1
			for i+runLen < len(values) && values[i+runLen] == values[i] {
				runLen++
			}
			if runLen >= groupSize {
				break
			}
			i++
		}
		// A bit-packed run followed by more values must hold whole groups, or
		// its zero padding would decode as extra values: borrow the missing
		// values from the start of the following run.
		if rem := (i - start) % groupSize; i < len(values) && rem != 0 {
			i += groupSize - rem
			if i > len(values) {
				i = len(values)
			}
		}
		chunk := values[start:i]
		numGroups := (len(chunk) + groupSize - 1) / groupSize
		padded := make([]uint32, numGroups*groupSize)
		for j, v := range chunk {
			padded[j] = uint32(v)
		}
		dst = bitio.AppendUvarint(dst, uint64(numGroups<<1|1))
		packed := make([]byte, bitio.ByteCount(len(padded), bitWidth))
		bitio.PackUint32(packed, padded, bitWidth)
		dst = append(dst, packed...)
	}
	return dst
}

func appendRLEValue(dst []byte, value uint32, bitWidth int) []byte {
	width := byteWidth(bitWidth)
	for i := 0; i < width; i++ {
		dst = append(dst, byte(value))
		value >>= 8
	}
	return dst
}
