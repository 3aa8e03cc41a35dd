// Package config holds the tuner settings. Defaults follow the reference
// 44.1 kHz / 30 ms design and can be overridden through GROKTUNE_*
// environment variables and then command-line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/kazzyman/groktune/internal/note"
	"github.com/kazzyman/groktune/internal/pitch"
	"github.com/kazzyman/groktune/internal/trace"
)

const envPrefix = "GROKTUNE_"

// NoDevice selects the system default input device.
const NoDevice = -1

type Config struct {
	SampleRate    int
	Channels      int
	BlockDuration time.Duration

	TickInterval time.Duration
	TickStep     float64

	AmplitudeGate float64
	MinFrequency  float64
	MaxFrequency  float64
	Tolerance     float64
	Method        string

	TraceCapacity int
	CanvasWidth   float64
	CanvasHeight  float64

	Device   int
	HTTPAddr string

	LogLevel string
	LogFile  string
}

func Default() Config {
	return Config{
		SampleRate:    44100,
		Channels:      2,
		BlockDuration: 30 * time.Millisecond,
		TickInterval:  30 * time.Millisecond,
		TickStep:      1,
		AmplitudeGate: 0.01,
		MinFrequency:  pitch.MinFrequency,
		MaxFrequency:  pitch.MaxFrequency,
		Tolerance:     note.DefaultTolerance,
		Method:        pitch.MethodDirect,
		TraceCapacity: trace.DefaultCapacity,
		CanvasWidth:   400,
		CanvasHeight:  200,
		Device:        NoDevice,
		LogLevel:      "info",
		LogFile:       "groktune.log",
	}
}

// FromEnv returns Default with any GROKTUNE_* variables applied.
func FromEnv() (Config, error) {
	return fromLookup(os.LookupEnv)
}

func fromLookup(lookup func(string) (string, bool)) (Config, error) {
	c := Default()
	var errs []error
	get := func(key string) (string, bool) {
		v, ok := lookup(envPrefix + key)
		return strings.TrimSpace(v), ok && strings.TrimSpace(v) != ""
	}
	setInt := func(key string, dst *int) {
		if v, ok := get(key); ok {
			n, err := strconv.Atoi(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s%s: %w", envPrefix, key, err))
				return
			}
			*dst = n
		}
	}
	setFloat := func(key string, dst *float64) {
		if v, ok := get(key); ok {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s%s: %w", envPrefix, key, err))
				return
			}
			*dst = f
		}
	}
	setDuration := func(key string, dst *time.Duration) {
		if v, ok := get(key); ok {
			d, err := time.ParseDuration(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s%s: %w", envPrefix, key, err))
				return
			}
			*dst = d
		}
	}
	setString := func(key string, dst *string) {
		if v, ok := get(key); ok {
			*dst = v
		}
	}

	setInt("SAMPLE_RATE", &c.SampleRate)
	setDuration("BLOCK_DURATION", &c.BlockDuration)
	setDuration("TICK_INTERVAL", &c.TickInterval)
	setFloat("TICK_STEP", &c.TickStep)
	setFloat("AMPLITUDE_GATE", &c.AmplitudeGate)
	setFloat("MIN_FREQUENCY", &c.MinFrequency)
	setFloat("MAX_FREQUENCY", &c.MaxFrequency)
	setFloat("TOLERANCE", &c.Tolerance)
	setString("METHOD", &c.Method)
	setInt("TRACE_CAPACITY", &c.TraceCapacity)
	setFloat("CANVAS_WIDTH", &c.CanvasWidth)
	setFloat("CANVAS_HEIGHT", &c.CanvasHeight)
	setInt("DEVICE", &c.Device)
	setString("HTTP_ADDR", &c.HTTPAddr)
	setString("LOG_LEVEL", &c.LogLevel)
	setString("LOG_FILE", &c.LogFile)

	return c, errors.Join(errs...)
}

// FramesPerBlock is the number of stereo frames captured per block.
func (c Config) FramesPerBlock() int {
	return int(time.Duration(c.SampleRate) * c.BlockDuration / time.Second)
}

// Validate reports every invalid setting.
func (c Config) Validate() error {
	var errs []error
	if c.SampleRate <= 0 {
		errs = append(errs, fmt.Errorf("sample rate must be positive, got %d", c.SampleRate))
	}
	if c.Channels != 2 {
		errs = append(errs, fmt.Errorf("capture must be stereo, got %d channels", c.Channels))
	}
	if c.BlockDuration <= 0 {
		errs = append(errs, fmt.Errorf("block duration must be positive, got %s", c.BlockDuration))
	} else if c.SampleRate > 0 && c.FramesPerBlock() < 1 {
		errs = append(errs, fmt.Errorf("block duration %s holds no frames at %d Hz", c.BlockDuration, c.SampleRate))
	}
	if c.TickInterval <= 0 {
		errs = append(errs, fmt.Errorf("tick interval must be positive, got %s", c.TickInterval))
	}
	if c.TickStep < 0 {
		errs = append(errs, fmt.Errorf("tick step must not be negative, got %g", c.TickStep))
	}
	if c.AmplitudeGate < 0 {
		errs = append(errs, fmt.Errorf("amplitude gate must not be negative, got %g", c.AmplitudeGate))
	}
	if c.MinFrequency <= 0 || c.MaxFrequency <= c.MinFrequency {
		errs = append(errs, fmt.Errorf("frequency band (%g, %g) is empty", c.MinFrequency, c.MaxFrequency))
	}
	if c.Tolerance < 0 {
		errs = append(errs, fmt.Errorf("tolerance must not be negative, got %g", c.Tolerance))
	}
	if _, err := pitch.ByName(c.Method); err != nil {
		errs = append(errs, err)
	}
	if c.TraceCapacity < 1 {
		errs = append(errs, fmt.Errorf("trace capacity must be positive, got %d", c.TraceCapacity))
	}
	if c.CanvasWidth <= 0 || c.CanvasHeight <= 0 {
		errs = append(errs, fmt.Errorf("canvas must have positive size, got %gx%g", c.CanvasWidth, c.CanvasHeight))
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("unknown log level %q", c.LogLevel))
	}
	return errors.Join(errs...)
}
