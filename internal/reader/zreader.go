package reader

import (
	"bytes"
	"compress/bzip2"
	"compress/gzip"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"
	log "github.com/sirupsen/logrus"
	"github.com/ulikunitz/xz"
)

var gzipMagic = []byte{0x1f, 0x8b}
var bzip2Magic = []byte{0x42, 0x5a, 0x68}
var zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
var xzMagic = []byte{0xfd, 0x37, 0x7a, 0x58, 0x5a, 0x00}

// Decompressed returns a reader producing the uncompressed contents of the
// input stream. The compression format is detected from the stream's first
// bytes; uncompressed streams are passed through as-is.
func Decompressed(input io.Reader) (io.Reader, error) {
	firstBytes := make([]byte, 6)
	count, err := io.ReadFull(input, firstBytes)
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		// Too short to be compressed
		return bytes.NewReader(firstBytes[:count]), nil
	}
	if err != nil {
		return nil, fmt.Errorf("sniffing input stream: %w", err)
	}

	// Put the sniffed bytes back in front of the stream
	input = io.MultiReader(bytes.NewReader(firstBytes), input)

	switch {
	case bytes.HasPrefix(firstBytes, gzipMagic):
		log.Debug("Input stream is gzip compressed")
		return gzip.NewReader(input)
	case bytes.HasPrefix(firstBytes, bzip2Magic):
		log.Debug("Input stream is bzip2 compressed")
		return bzip2.NewReader(input), nil
	case bytes.HasPrefix(firstBytes, zstdMagic):
		log.Debug("Input stream is zstd compressed")
		return zstd.NewReader(input)
	case bytes.HasPrefix(firstBytes, xzMagic):
		log.Debug("Input stream is xz compressed")
		return xz.NewReader(input)
	default:
		return input, nil
	}
}
