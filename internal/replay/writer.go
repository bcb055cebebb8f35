// Package replay records a run to disk: a snappy-framed JSONL event log, a
// zstd stream of length-prefixed position frames and a JSON manifest.
package replay

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"regexp"
	"sync"
	"time"

	"github.com/golang/snappy"
	"github.com/klauspost/compress/zstd"
)

const (
	ManifestVersion = 1

	manifestFile = "manifest.json"
	eventsFile   = "events.jsonl.sz"
	framesFile   = "frames.bin.zst"

	frameHeaderSize = 8 + 8 + 4 // tick, sim milliseconds, payload length
)

var runNameCleaner = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// Manifest describes a replay bundle.
type Manifest struct {
	Version       int     `json:"version"`
	RunName       string  `json:"run_name"`
	Seed          int64   `json:"seed"`
	CreatedAt     string  `json:"created_at"`
	TickSeconds   float64 `json:"tick_seconds"`
	FrameInterval int     `json:"frame_interval"`
	EventsPath    string  `json:"events_path"`
	FramesPath    string  `json:"frames_path"`
	Ticks         uint64  `json:"ticks"`
	Events        int     `json:"events"`
	Frames        int     `json:"frames"`
}

// EventRecord is one line of the event log.
type EventRecord struct {
	Tick    uint64          `json:"tick"`
	Time    float64         `json:"time"`
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Writer streams a replay bundle into its own directory.
type Writer struct {
	mu          sync.Mutex
	dir         string
	manifest    Manifest
	eventFile   *os.File
	eventStream *snappy.Writer
	frameFile   *os.File
	frameStream *zstd.Encoder
	closed      bool
}

// NewWriter creates <root>/<run>-<timestamp>/ and opens the compressed sinks.
func NewWriter(root string, m Manifest, clock func() time.Time) (*Writer, error) {
	if root == "" {
		return nil, fmt.Errorf("replay root must be provided")
	}
	if clock == nil {
		clock = time.Now
	}
	name := runNameCleaner.ReplaceAllString(m.RunName, "")
	if name == "" {
		name = "run"
	}
	created := clock().UTC()
	dir := filepath.Join(root, fmt.Sprintf("%s-%s", name, created.Format("20060102T150405Z")))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create replay dir: %w", err)
	}

	m.Version = ManifestVersion
	m.CreatedAt = created.Format(time.RFC3339Nano)
	m.EventsPath = eventsFile
	m.FramesPath = framesFile

	eventFile, err := os.Create(filepath.Join(dir, eventsFile))
	if err != nil {
		return nil, fmt.Errorf("create event log: %w", err)
	}
	frameFile, err := os.Create(filepath.Join(dir, framesFile))
	if err != nil {
		eventFile.Close()
		return nil, fmt.Errorf("create frame log: %w", err)
	}
	frameStream, err := zstd.NewWriter(frameFile)
	if err != nil {
		eventFile.Close()
		frameFile.Close()
		return nil, fmt.Errorf("zstd writer: %w", err)
	}

	w := &Writer{
		dir:         dir,
		manifest:    m,
		eventFile:   eventFile,
		eventStream: snappy.NewBufferedWriter(eventFile),
		frameFile:   frameFile,
		frameStream: frameStream,
	}
	if err := w.writeManifest(); err != nil {
		w.closeStreams()
		return nil, err
	}
	return w, nil
}

// Directory is the bundle directory.
func (w *Writer) Directory() string { return w.dir }

// AppendEvent writes one event line. The payload is stored as JSON.
func (w *Writer) AppendEvent(tick uint64, simTime float64, eventType string, payload any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode %s event: %w", eventType, err)
	}
	line, err := json.Marshal(EventRecord{Tick: tick, Time: simTime, Type: eventType, Payload: raw})
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return fmt.Errorf("replay writer closed")
	}
	if _, err := w.eventStream.Write(append(line, '\n')); err != nil {
		return err
	}
	w.manifest.Events++
	w.manifest.Ticks = max(w.manifest.Ticks, tick)
	return nil
}

// AppendFrame writes one length-prefixed frame to the zstd stream.
func (w *Writer) AppendFrame(f Frame) error {
	payload, err := json.Marshal(f.Vessels)
	if err != nil {
		return fmt.Errorf("encode frame %d: %w", f.Tick, err)
	}
	var header [frameHeaderSize]byte
	binary.LittleEndian.PutUint64(header[0:8], f.Tick)
	binary.LittleEndian.PutUint64(header[8:16], uint64(int64(math.Round(f.Time * 1000))))
	binary.LittleEndian.PutUint32(header[16:20], uint32(len(payload)))

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return fmt.Errorf("replay writer closed")
	}
	if _, err := w.frameStream.Write(header[:]); err != nil {
		return err
	}
	if _, err := w.frameStream.Write(payload); err != nil {
		return err
	}
	w.manifest.Frames++
	w.manifest.Ticks = max(w.manifest.Ticks, f.Tick)
	return nil
}

// Flush pushes buffered events to disk.
func (w *Writer) Flush() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return nil
	}
	return w.eventStream.Flush()
}

// Close finishes both streams and rewrites the manifest with the totals.
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return nil
	}
	w.closed = true
	firstErr := w.closeStreams()
	if err := w.writeManifest(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}

// closeStreams attempts every close and returns the first failure.
func (w *Writer) closeStreams() error {
	var firstErr error
	for _, fn := range []func() error{
		w.eventStream.Close,
		w.eventFile.Close,
		w.frameStream.Close,
		w.frameFile.Close,
	} {
		if err := fn(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (w *Writer) writeManifest() error {
	data, err := json.MarshalIndent(w.manifest, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(w.dir, manifestFile), append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	return nil
}
