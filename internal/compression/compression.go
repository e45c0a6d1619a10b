package compression

import (
	"errors"
	"io"
	"sort"
	"sync"
)

var (
	ErrCompressorNotFound = errors.New("compressor not found")
	compressors           = make(map[string]Compressor)
	compressorsMu         sync.RWMutex
)

// Compressor wraps an output stream. It is used for the CSV mirror files
// only; db721 files are always written uncompressed.
type Compressor interface {
	// Wrap returns a writer whose Close flushes the compressed stream
	// without closing w.
	Wrap(w io.Writer) io.WriteCloser
	// Extension is appended to the file name, e.g. ".sz".
	Extension() string
	Name() string
}

func RegisterCompressor(name string, c Compressor) {
	compressorsMu.Lock()
	defer compressorsMu.Unlock()
	compressors[name] = c
}

func GetCompressor(name string) (Compressor, error) {
	compressorsMu.RLock()
	defer compressorsMu.RUnlock()

	if c, exists := compressors[name]; exists {
		return c, nil
	}
	return nil, ErrCompressorNotFound
}

// Names lists the registered compressors in sorted order.
func Names() []string {
	compressorsMu.RLock()
	defer compressorsMu.RUnlock()

	names := make([]string, 0, len(compressors))
	for name := range compressors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

type NoneCompressor struct{}

func (NoneCompressor) Wrap(w io.Writer) io.WriteCloser {
	return nopCloser{w}
}

func (NoneCompressor) Extension() string { return "" }

func (NoneCompressor) Name() string { return "none" }

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }

func init() {
	RegisterCompressor("none", NoneCompressor{})
}
