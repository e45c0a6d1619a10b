package compression

import (
	"io"

	"github.com/golang/snappy"
)

// SnappyCompressor writes the snappy framing format, readable with
// snappy.NewReader or any framed-snappy tool.
type SnappyCompressor struct{}

func NewSnappyCompressor() *SnappyCompressor {
	return &SnappyCompressor{}
}

func (c *SnappyCompressor) Wrap(w io.Writer) io.WriteCloser {
	return snappy.NewBufferedWriter(w)
}

func (c *SnappyCompressor) Extension() string {
	return ".sz"
}

func (c *SnappyCompressor) Name() string {
	return "snappy"
}

func init() {
	RegisterCompressor("snappy", NewSnappyCompressor())
}
