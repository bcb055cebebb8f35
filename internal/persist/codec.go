package persist

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/klauspost/compress/zstd"
	"golang.org/x/crypto/blake2b"

	"github.com/seawolf/tactsim/internal/world"
)

// ErrCorruptSnapshot is returned when a stored snapshot does not match its
// checksum or cannot be decoded. Loading must stop; the world is not
// restored from a damaged record.
var ErrCorruptSnapshot = errors.New("corrupt snapshot")

// Shared codecs, built on first use; EncodeAll and DecodeAll may be called
// concurrently.
var (
	encoder = sync.OnceValues(func() (*zstd.Encoder, error) {
		return zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault), zstd.WithEncoderConcurrency(1))
	})
	decoder = sync.OnceValues(func() (*zstd.Decoder, error) {
		return zstd.NewReader(nil, zstd.WithDecoderConcurrency(1))
	})
)

// EncodeSnapshot serialises a snapshot into a compressed payload and the
// BLAKE2b-256 checksum of that payload.
func EncodeSnapshot(snap *world.Snapshot) ([]byte, []byte, error) {
	raw, err := json.Marshal(snap)
	if err != nil {
		return nil, nil, fmt.Errorf("encode snapshot: %w", err)
	}
	enc, err := encoder()
	if err != nil {
		return nil, nil, fmt.Errorf("zstd encoder: %w", err)
	}
	payload := enc.EncodeAll(raw, make([]byte, 0, len(raw)/4))
	sum := blake2b.Sum256(payload)
	return payload, sum[:], nil
}

// DecodeSnapshot checks the payload against its checksum and rebuilds the
// snapshot.
func DecodeSnapshot(payload, checksum []byte) (*world.Snapshot, error) {
	sum := blake2b.Sum256(payload)
	if !bytes.Equal(sum[:], checksum) {
		return nil, fmt.Errorf("checksum mismatch: %w", ErrCorruptSnapshot)
	}
	dec, err := decoder()
	if err != nil {
		return nil, fmt.Errorf("zstd decoder: %w", err)
	}
	raw, err := dec.DecodeAll(payload, nil)
	if err != nil {
		return nil, fmt.Errorf("decompress: %v: %w", err, ErrCorruptSnapshot)
	}
	snap := &world.Snapshot{}
	if err := json.Unmarshal(raw, snap); err != nil {
		return nil, fmt.Errorf("decode: %v: %w", err, ErrCorruptSnapshot)
	}
	return snap, nil
}
