package shared

import (
	"encoding/binary"
	"fmt"
)

// RecordSize is the width in bytes of one encoded Record.
const RecordSize = 4

// ByteOrder is used for every record read or written, input and runs alike.
var ByteOrder = binary.LittleEndian

func PutRecord(buf []byte, r Record) {
	ByteOrder.PutUint32(buf, uint32(r))
}

func DecodeRecord(buf []byte) Record {
	return Record(int32(ByteOrder.Uint32(buf)))
}

// RecordCount returns how many records a file of size bytes holds.
func RecordCount(size int64) (int64, error) {
	if size < 0 || size%RecordSize != 0 {
		return 0, fmt.Errorf("%w: length %d is not a multiple of %d bytes", ErrMalformedInput, size, RecordSize)
	}
	return size / RecordSize, nil
}
