package snapshot

import (
	"encoding/binary"
	"errors"
	"fmt"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Compression selects the block compression algorithm.
type Compression uint8

const (
	// CompressionNone stores blocks uncompressed.
	CompressionNone Compression = 0
	// CompressionLZ4 uses LZ4 block compression (fast).
	CompressionLZ4 Compression = 1
	// CompressionZSTD uses ZSTD block compression (better ratio).
	CompressionZSTD Compression = 2
)

var errBlockTruncated = errors.New("snapshot: truncated block")

var (
	zstdEncoderPool sync.Pool
	zstdDecoderPool sync.Pool
)

func getZstdEncoder() *zstd.Encoder {
	if v := zstdEncoderPool.Get(); v != nil {
		return v.(*zstd.Encoder)
	}
	enc, _ := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	return enc
}

func getZstdDecoder() *zstd.Decoder {
	if v := zstdDecoderPool.Get(); v != nil {
		return v.(*zstd.Decoder)
	}
	dec, _ := zstd.NewReader(nil)
	return dec
}

// Block format: [UncompressedSize uint32][CompressedSize uint32][Data...]
// CompressedSize == 0 means the data is stored raw.
const blockHeaderSize = 8

// appendBlock compresses data and appends the framed block to dst.
// Blocks that do not compress well (ratio > 0.9) are stored raw.
func appendBlock(dst, data []byte, c Compression) ([]byte, error) {
	var compressed []byte
	switch c {
	case CompressionNone:
	case CompressionLZ4:
		buf := make([]byte, lz4.CompressBlockBound(len(data)))
		n, err := lz4.CompressBlock(data, buf, nil)
		if err != nil {
			return nil, err
		}
		compressed = buf[:n] // n == 0 means incompressible
	case CompressionZSTD:
		enc := getZstdEncoder()
		compressed = enc.EncodeAll(data, nil)
		zstdEncoderPool.Put(enc)
	default:
		return nil, fmt.Errorf("snapshot: unknown compression %d", c)
	}

	if len(compressed) == 0 || float64(len(compressed)) > float64(len(data))*0.9 {
		dst = binary.LittleEndian.AppendUint32(dst, uint32(len(data)))
		dst = binary.LittleEndian.AppendUint32(dst, 0)
		return append(dst, data...), nil
	}

	dst = binary.LittleEndian.AppendUint32(dst, uint32(len(data)))
	dst = binary.LittleEndian.AppendUint32(dst, uint32(len(compressed)))
	return append(dst, compressed...), nil
}

// readBlock decodes one framed block from src, returning the block and
// the remaining bytes.
func readBlock(src []byte, c Compression) (block, rest []byte, err error) {
	if len(src) < blockHeaderSize {
		return nil, nil, errBlockTruncated
	}
	rawSize := binary.LittleEndian.Uint32(src[0:])
	compSize := binary.LittleEndian.Uint32(src[4:])
	src = src[blockHeaderSize:]

	if compSize == 0 {
		if uint32(len(src)) < rawSize {
			return nil, nil, errBlockTruncated
		}
		return src[:rawSize], src[rawSize:], nil
	}
	if uint32(len(src)) < compSize {
		return nil, nil, errBlockTruncated
	}

	payload := src[:compSize]
	rest = src[compSize:]

	switch c {
	case CompressionLZ4:
		block = make([]byte, rawSize)
		n, err := lz4.UncompressBlock(payload, block)
		if err != nil {
			return nil, nil, err
		}
		if uint32(n) != rawSize {
			return nil, nil, errBlockTruncated
		}
	case CompressionZSTD:
		dec := getZstdDecoder()
		block, err = dec.DecodeAll(payload, nil)
		zstdDecoderPool.Put(dec)
		if err != nil {
			return nil, nil, err
		}
		if uint32(len(block)) != rawSize {
			return nil, nil, errBlockTruncated
		}
	default:
		return nil, nil, fmt.Errorf("snapshot: unknown compression %d", c)
	}

	return block, rest, nil
}
