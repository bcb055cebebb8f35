package replay

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/golang/snappy"
	"github.com/klauspost/compress/zstd"
)

// ReadManifest loads the manifest of a bundle directory.
func ReadManifest(dir string) (Manifest, error) {
	data, err := os.ReadFile(filepath.Join(dir, manifestFile))
	if err != nil {
		return Manifest{}, err
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return Manifest{}, fmt.Errorf("decode manifest: %w", err)
	}
	if m.Version != ManifestVersion {
		return Manifest{}, fmt.Errorf("unsupported replay version %d", m.Version)
	}
	return m, nil
}

// ReadEvents decodes the whole event log of a bundle.
func ReadEvents(dir string) ([]EventRecord, error) {
	m, err := ReadManifest(dir)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(filepath.Join(dir, m.EventsPath))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var out []EventRecord
	sc := bufio.NewScanner(snappy.NewReader(f))
	sc.Buffer(make([]byte, 64*1024), 4*1024*1024)
	for sc.Scan() {
		line := bytes.TrimSpace(sc.Bytes())
		if len(line) == 0 {
			continue
		}
		var rec EventRecord
		if err := json.Unmarshal(line, &rec); err != nil {
			return nil, fmt.Errorf("decode event %d: %w", len(out)+1, err)
		}
		out = append(out, rec)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read events: %w", err)
	}
	return out, nil
}

// ReadFrames decodes every position frame of a bundle.
func ReadFrames(dir string) ([]Frame, error) {
	m, err := ReadManifest(dir)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(filepath.Join(dir, m.FramesPath))
	if err != nil {
		return nil, err
	}
	defer f.Close()
	dec, err := zstd.NewReader(f)
	if err != nil {
		return nil, err
	}
	defer dec.Close()

	var out []Frame
	var header [frameHeaderSize]byte
	for {
		if _, err := io.ReadFull(dec, header[:]); err != nil {
			if errors.Is(err, io.EOF) {
				return out, nil
			}
			return nil, fmt.Errorf("read frame header: %w", err)
		}
		fr := Frame{
			Tick: binary.LittleEndian.Uint64(header[0:8]),
			Time: float64(int64(binary.LittleEndian.Uint64(header[8:16]))) / 1000,
		}
		payload := make([]byte, binary.LittleEndian.Uint32(header[16:20]))
		if _, err := io.ReadFull(dec, payload); err != nil {
			return nil, fmt.Errorf("read frame %d: %w", fr.Tick, err)
		}
		if err := json.Unmarshal(payload, &fr.Vessels); err != nil {
			return nil, fmt.Errorf("decode frame %d: %w", fr.Tick, err)
		}
		out = append(out, fr)
	}
}
