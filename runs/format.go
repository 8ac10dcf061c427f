package runs

import "github.com/AmrMurad1/Go-ExtSort/shared"

const (
	DefaultDir             = "."
	DefaultReadBufferSize  = 4096
	DefaultWriteBufferSize = 4096
)

// Run describes one run file on disk.
//
// A raw run is the bare concatenation of its records, the same layout as the
// sort's input and output. A compressed run holds the same bytes framed as an
// s2 stream. The terminal run of a sort is always raw so that it can be renamed
// into place.
type Run struct {
	ID         shared.RunID
	Path       string
	Records    int64
	Compressed bool
}

type Config struct {
	Dir             string
	Compress        bool
	ReadBufferSize  int
	WriteBufferSize int
}

func NewDefaultConfig() *Config {
	return &Config{
		Dir:             DefaultDir,
		ReadBufferSize:  DefaultReadBufferSize,
		WriteBufferSize: DefaultWriteBufferSize,
	}
}
