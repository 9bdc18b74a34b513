// Package compression provides the compression codecs used by the snapshot
// file store. Snapshots are small, written whole, and read whole, so the
// package offers plain in-memory encode/decode rather than streaming.
//
// # Algorithm Selection
//
// Choose algorithms based on your requirements:
//   - Snappy/S2: best for speed, moderate compression
//   - LZ4: extremely fast, decent compression
//   - Zstd: best compression ratio, good speed
//   - Gzip: wide compatibility, good compression
//
// # Basic Usage
//
//	codec, err := compression.NewCodec(compression.Zstd)
//	if err != nil {
//	    return err
//	}
//	packed, err := codec.Encode(data)
package compression

import (
	"bytes"
	"compress/gzip"
	"io"

	"github.com/klauspost/compress/s2"
	"github.com/klauspost/compress/snappy"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"

	"github.com/ajitpratap0/leasepool/pkg/poolerrors"
)

// Algorithm represents a compression algorithm.
// Each algorithm has different trade-offs between speed and compression ratio.
type Algorithm string

const (
	// None represents no compression
	None Algorithm = "none"
	// Gzip represents gzip compression
	Gzip Algorithm = "gzip"
	// Snappy represents snappy compression
	Snappy Algorithm = "snappy"
	// LZ4 represents lz4 frame compression
	LZ4 Algorithm = "lz4"
	// Zstd represents zstandard compression
	Zstd Algorithm = "zstd"
	// S2 represents s2 compression (Snappy compatible)
	S2 Algorithm = "s2"
)

// ParseAlgorithm converts an algorithm name to its Algorithm. The empty
// string maps to None.
func ParseAlgorithm(name string) (Algorithm, error) {
	switch Algorithm(name) {
	case "":
		return None, nil
	case None, Gzip, Snappy, LZ4, Zstd, S2:
		return Algorithm(name), nil
	default:
		return None, poolerrors.New(poolerrors.ErrorTypeConfig, "unsupported compression algorithm").
			WithDetail("algorithm", name)
	}
}

// Codec compresses and decompresses byte slices. All implementations are
// safe for concurrent use.
type Codec interface {
	// Encode compresses data and returns the compressed bytes.
	// The input data is not modified.
	Encode(data []byte) ([]byte, error)

	// Decode decompresses data and returns the original bytes.
	// The input data is not modified.
	Decode(data []byte) ([]byte, error)

	// Algorithm returns the compression algorithm used.
	Algorithm() Algorithm
}

// NewCodec creates a codec for the given algorithm.
func NewCodec(algorithm Algorithm) (Codec, error) {
	switch algorithm {
	case None:
		return noneCodec{}, nil
	case Gzip:
		return gzipCodec{}, nil
	case Snappy:
		return snappyCodec{}, nil
	case LZ4:
		return lz4Codec{}, nil
	case Zstd:
		return newZstdCodec()
	case S2:
		return s2Codec{}, nil
	default:
		return nil, poolerrors.New(poolerrors.ErrorTypeConfig, "unsupported compression algorithm").
			WithDetail("algorithm", string(algorithm))
	}
}

type noneCodec struct{}

func (noneCodec) Encode(data []byte) ([]byte, error) { return data, nil }
func (noneCodec) Decode(data []byte) ([]byte, error) { return data, nil }
func (noneCodec) Algorithm() Algorithm               { return None }

type gzipCodec struct{}

func (gzipCodec) Encode(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w := gzip.NewWriter(&buf)
	if _, err := w.Write(data); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (gzipCodec) Decode(data []byte) ([]byte, error) {
	r, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return io.ReadAll(r)
}

func (gzipCodec) Algorithm() Algorithm { return Gzip }

type snappyCodec struct{}

func (snappyCodec) Encode(data []byte) ([]byte, error) {
	return snappy.Encode(nil, data), nil
}

func (snappyCodec) Decode(data []byte) ([]byte, error) {
	return snappy.Decode(nil, data)
}

func (snappyCodec) Algorithm() Algorithm { return Snappy }

type s2Codec struct{}

func (s2Codec) Encode(data []byte) ([]byte, error) {
	return s2.Encode(nil, data), nil
}

func (s2Codec) Decode(data []byte) ([]byte, error) {
	return s2.Decode(nil, data)
}

func (s2Codec) Algorithm() Algorithm { return S2 }

type lz4Codec struct{}

func (lz4Codec) Encode(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w := lz4.NewWriter(&buf)
	if _, err := w.Write(data); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (lz4Codec) Decode(data []byte) ([]byte, error) {
	return io.ReadAll(lz4.NewReader(bytes.NewReader(data)))
}

func (lz4Codec) Algorithm() Algorithm { return LZ4 }

// zstdCodec reuses a single encoder and decoder; both are safe for
// concurrent EncodeAll/DecodeAll use.
type zstdCodec struct {
	encoder *zstd.Encoder
	decoder *zstd.Decoder
}

func newZstdCodec() (*zstdCodec, error) {
	encoder, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, err
	}
	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return nil, err
	}
	return &zstdCodec{encoder: encoder, decoder: decoder}, nil
}

func (c *zstdCodec) Encode(data []byte) ([]byte, error) {
	return c.encoder.EncodeAll(data, nil), nil
}

func (c *zstdCodec) Decode(data []byte) ([]byte, error) {
	return c.decoder.DecodeAll(data, nil)
}

func (c *zstdCodec) Algorithm() Algorithm { return Zstd }
