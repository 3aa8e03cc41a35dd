// Package tuner runs the detection cycle on captured blocks and drives the
// trace clock.
//
//	[capture block] -> [downmix] -> [amplitude gate] -> [pitch] -> [band gate]
//	                                  -> [note + in-tune] -> latest reading
//	                                  -> [trace append]
//	[clock tick] -> [trace scroll + prune]
package tuner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/kazzyman/groktune/internal/capture"
	"github.com/kazzyman/groktune/internal/config"
	"github.com/kazzyman/groktune/internal/note"
	"github.com/kazzyman/groktune/internal/pcm"
	"github.com/kazzyman/groktune/internal/pitch"
	"github.com/kazzyman/groktune/internal/trace"
)

var (
	ErrRunning    = errors.New("tuner: capture already running")
	ErrNotRunning = errors.New("tuner: capture not running")
)

// Reading is the result of one successful detection cycle.
type Reading struct {
	Frequency float64   `json:"frequencyHz"`
	Note      note.Note `json:"note"`
	InTune    bool      `json:"inTune"`
	Cents     float64   `json:"cents"`
	At        time.Time `json:"at"`
}

// Skip says why a cycle produced no reading. None means it did.
type Skip int

const (
	None Skip = iota
	SkipMalformed
	SkipSilent
	SkipNoPitch
	SkipOutOfRange
	numSkips
)

func (s Skip) String() string {
	switch s {
	case None:
		return "none"
	case SkipMalformed:
		return "malformed"
	case SkipSilent:
		return "silent"
	case SkipNoPitch:
		return "no-pitch"
	case SkipOutOfRange:
		return "out-of-range"
	}
	return fmt.Sprintf("skip(%d)", int(s))
}

// Stats counts cycles since the tuner was created.
type Stats struct {
	Cycles     uint64            `json:"cycles"`
	Detections uint64            `json:"detections"`
	Ticks      uint64            `json:"ticks"`
	Skipped    map[string]uint64 `json:"skipped"`
}

// Tuner is safe for concurrent use by the capture callback, the clock and
// the presentation layer.
type Tuner struct {
	cfg    config.Config
	detect pitch.Detector
	trace  *trace.Buffer
	source Source
	lg     *slog.Logger
	now    func() time.Time

	mu      sync.Mutex // guards stream and session
	stream  Stream
	session string

	latest     atomic.Pointer[Reading]
	cycles     atomic.Uint64
	detections atomic.Uint64
	ticks      atomic.Uint64
	skips      [numSkips]atomic.Uint64
}

// New validates cfg and creates a stopped tuner. source may be nil for
// offline use through Process.
func New(cfg config.Config, source Source, lg *slog.Logger) (*Tuner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	detect, err := pitch.ByName(cfg.Method)
	if err != nil {
		return nil, err
	}
	return &Tuner{
		cfg:    cfg,
		detect: detect,
		trace:  trace.New(cfg.TraceCapacity),
		source: source,
		lg:     lg,
		now:    time.Now,
	}, nil
}

// Config returns the settings the tuner was built with.
func (t *Tuner) Config() config.Config { return t.cfg }

// Process runs one detection cycle on a raw block. On success the reading
// becomes the latest one and a point is appended to the trace.
func (t *Tuner) Process(block []byte, sampleRate int) (Reading, Skip) {
	t.cycles.Add(1)
	r, skip := t.evaluate(block, sampleRate)
	if skip != None {
		t.skips[skip].Add(1)
		return Reading{}, skip
	}
	t.detections.Add(1)
	t.latest.Store(&r)
	t.trace.Append(t.cfg.CanvasWidth, trace.Height(r.Frequency, t.cfg.CanvasHeight))
	t.lg.Debug("pitch detected",
		"hz", r.Frequency, "note", r.Note.Name, "inTune", r.InTune, "cents", r.Cents)
	return r, None
}

func (t *Tuner) evaluate(block []byte, sampleRate int) (Reading, Skip) {
	mono, err := pcm.Downmix(block)
	if err != nil {
		t.lg.Warn("skipping block", "bytes", len(block), "error", err)
		return Reading{}, SkipMalformed
	}
	if mono.Amplitude <= t.cfg.AmplitudeGate {
		return Reading{}, SkipSilent
	}
	freq := t.detect(mono.Samples, sampleRate)
	if freq == pitch.NoPitch {
		return Reading{}, SkipNoPitch
	}
	if !pitch.InBand(freq, t.cfg.MinFrequency, t.cfg.MaxFrequency) {
		return Reading{}, SkipOutOfRange
	}
	n := note.Map(freq)
	return Reading{
		Frequency: freq,
		Note:      n,
		InTune:    note.InTune(freq, n.Frequency, t.cfg.Tolerance),
		Cents:     note.Cents(freq, n.Frequency),
		At:        t.now(),
	}, None
}

// Tick advances the trace clock once.
func (t *Tuner) Tick() {
	t.ticks.Add(1)
	t.trace.Tick(t.cfg.TickStep)
}

// Run ticks the trace at the configured interval until ctx is done.
// Missed ticks are dropped, not replayed.
func (t *Tuner) Run(ctx context.Context) {
	ticker := time.NewTicker(t.cfg.TickInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			t.Tick()
		}
	}
}

// Latest returns the most recent reading, if any.
func (t *Tuner) Latest() (Reading, bool) {
	r := t.latest.Load()
	if r == nil {
		return Reading{}, false
	}
	return *r, true
}

// Trace returns a snapshot of the trace, oldest point first.
func (t *Tuner) Trace() []trace.Point {
	return t.trace.Snapshot()
}

func (t *Tuner) Stats() Stats {
	s := Stats{
		Cycles:     t.cycles.Load(),
		Detections: t.detections.Load(),
		Ticks:      t.ticks.Load(),
		Skipped:    make(map[string]uint64),
	}
	for i := SkipMalformed; i < numSkips; i++ {
		s.Skipped[i.String()] = t.skips[i].Load()
	}
	return s
}

// Devices lists the input devices of the source.
func (t *Tuner) Devices() ([]capture.Device, error) {
	if t.source == nil {
		return nil, nil
	}
	return t.source.List()
}

// Device returns the device currently captured from.
func (t *Tuner) Device() (capture.Device, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stream == nil {
		return capture.Device{}, false
	}
	return t.stream.Device(), true
}

// Start acquires device id and begins feeding its blocks to Process.
func (t *Tuner) Start(id int) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stream != nil {
		return ErrRunning
	}
	return t.acquire(id)
}

// SwitchDevice releases the current capture, if any, and then acquires
// device id. If the new device cannot be opened the tuner stays stopped.
func (t *Tuner) SwitchDevice(id int) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stream != nil {
		if err := t.release(); err != nil {
			return err
		}
	}
	return t.acquire(id)
}

// Stop releases the current capture.
func (t *Tuner) Stop() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stream == nil {
		return ErrNotRunning
	}
	return t.release()
}

func (t *Tuner) acquire(id int) error {
	if t.source == nil {
		return fmt.Errorf("acquire device %d: no capture source", id)
	}
	params := capture.Params{
		SampleRate:    t.cfg.SampleRate,
		Channels:      t.cfg.Channels,
		BlockDuration: t.cfg.BlockDuration,
	}
	stream, err := t.source.Acquire(id, params, func(block []byte, sampleRate int) {
		t.Process(block, sampleRate)
	})
	if err != nil {
		t.lg.Error("capture failed", "device", id, "error", err)
		return fmt.Errorf("acquire device %d: %w", id, err)
	}
	t.stream = stream
	t.session = uuid.NewString()
	dev := stream.Device()
	t.lg.Info("capture started",
		"session", t.session, "device", dev.ID, "name", dev.Name,
		"rate", params.SampleRate, "frames", params.FramesPerBlock())
	return nil
}

func (t *Tuner) release() error {
	stream, session := t.stream, t.session
	t.stream, t.session = nil, ""
	if err := stream.Release(); err != nil {
		t.lg.Error("capture release failed", "session", session, "error", err)
		return fmt.Errorf("release device %d: %w", stream.Device().ID, err)
	}
	t.lg.Info("capture stopped", "session", session, "stats", t.Stats())
	return nil
}
