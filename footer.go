package parquet

import (
	"encoding/binary"
	"fmt"

	"github.com/parquetcore/parquet-go/format"
	"github.com/parquetcore/parquet-go/internal/perrors"
)

const (
	magicSize  = 4
	footerSize = 4 // footer length field
	trailerLen = footerSize + magicSize
)

// verifyMagic reports whether b starts with and ends with the 4-byte PAR1
// magic sequence, without attempting to decode anything else. It is exposed
// separately so callers can cheaply probe whether a byte source looks like
// a Parquet file.
func verifyMagic(b []byte) bool {
	if len(b) < 2*magicSize {
		return false
	}
	return magicEqual(b[:magicSize]) && magicEqual(b[len(b)-magicSize:])
}

func magicEqual(b []byte) bool {
	return len(b) == magicSize && b[0] == format.Magic[0] && b[1] == format.Magic[1] && b[2] == format.Magic[2] && b[3] == format.Magic[3]
}

// readFooter validates the trailing magic and footer length of a complete
// file image and decodes the FileMetaData record tree.
//
// file must hold the entire contents of the Parquet file; the row-group
// reader only ever needs random access into it, so no separate abstraction
// over partial reads is introduced here.
func readFooter(file []byte) (*format.FileMetaData, error) {
	if len(file) < 2*magicSize+footerSize {
		return nil, perrors.ErrNotAParquetFile
	}
	if !magicEqual(file[:magicSize]) || !magicEqual(file[len(file)-magicSize:]) {
		return nil, perrors.ErrNotAParquetFile
	}

	lengthOffset := len(file) - trailerLen
	length := binary.LittleEndian.Uint32(file[lengthOffset : lengthOffset+footerSize])
	metadataEnd := lengthOffset
	metadataStart := metadataEnd - int(length)
	if metadataStart < magicSize || metadataStart > metadataEnd {
		return nil, perrors.ErrCorruptFooter
	}

	var metadata format.FileMetaData
	if err := format.Unmarshal(file[metadataStart:metadataEnd], &metadata); err != nil {
		return nil, fmt.Errorf("%w: %s", perrors.ErrCorruptFooter, err)
	}
	return &metadata, nil
}
