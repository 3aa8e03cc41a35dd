// Package capture reads interleaved 16-bit stereo blocks from an input
// device through PortAudio.
package capture

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gordonklaus/portaudio"

	"github.com/kazzyman/groktune/internal/pcm"
)

// DefaultDevice selects the host's default input device.
const DefaultDevice = -1

var (
	ErrNoDevice       = errors.New("capture: no input device available")
	ErrDeviceNotFound = errors.New("capture: device not found")
)

// Device is an input-capable device. ID is its PortAudio device index.
type Device struct {
	ID      int    `json:"id"`
	Name    string `json:"displayName"`
	Default bool   `json:"default"`
}

// Params describes the stream to open.
type Params struct {
	SampleRate    int
	Channels      int
	BlockDuration time.Duration
}

// FramesPerBlock is the number of frames delivered per callback.
func (p Params) FramesPerBlock() int {
	return int(time.Duration(p.SampleRate) * p.BlockDuration / time.Second)
}

// BlockFunc receives each captured block as little-endian interleaved PCM.
// The slice is reused for the next block and must not be retained.
type BlockFunc func(block []byte, sampleRate int)

// PortAudio owns the library initialization. Open it once per process.
type PortAudio struct{}

func Open() (*PortAudio, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("initialize portaudio: %w", err)
	}
	return &PortAudio{}, nil
}

// Close terminates PortAudio. Release every Handle first.
func (pa *PortAudio) Close() error {
	return portaudio.Terminate()
}

// List returns the input-capable devices. An empty list is not an error.
func (pa *PortAudio) List() ([]Device, error) {
	infos, err := portaudio.Devices()
	if err != nil {
		return nil, fmt.Errorf("list devices: %w", err)
	}
	var defaultName string
	if def, err := portaudio.DefaultInputDevice(); err == nil && def != nil {
		defaultName = def.Name
	}
	return inputDevices(infos, defaultName), nil
}

func inputDevices(infos []*portaudio.DeviceInfo, defaultName string) []Device {
	var devices []Device
	for i, info := range infos {
		if info == nil || info.MaxInputChannels < 1 {
			continue
		}
		devices = append(devices, Device{
			ID:      i,
			Name:    info.Name,
			Default: info.Name == defaultName,
		})
	}
	return devices
}

func (pa *PortAudio) lookup(id int) (*portaudio.DeviceInfo, error) {
	if id == DefaultDevice {
		info, err := portaudio.DefaultInputDevice()
		if err != nil || info == nil {
			return nil, fmt.Errorf("%w: %v", ErrNoDevice, err)
		}
		return info, nil
	}
	infos, err := portaudio.Devices()
	if err != nil {
		return nil, fmt.Errorf("list devices: %w", err)
	}
	if len(infos) == 0 {
		return nil, ErrNoDevice
	}
	if id < 0 || id >= len(infos) || infos[id].MaxInputChannels < 1 {
		return nil, fmt.Errorf("%w: %d", ErrDeviceNotFound, id)
	}
	return infos[id], nil
}

// Handle is an open, running capture stream. Release it before acquiring
// another device.
type Handle struct {
	dev    Device
	stream *portaudio.Stream
	once   sync.Once
	err    error
}

// Acquire opens and starts a stream on device id and calls fn for every
// captured block until the handle is released.
func (pa *PortAudio) Acquire(id int, p Params, fn BlockFunc) (*Handle, error) {
	info, err := pa.lookup(id)
	if err != nil {
		return nil, err
	}
	if info.MaxInputChannels < p.Channels {
		return nil, fmt.Errorf("device %q supports %d input channels, need %d",
			info.Name, info.MaxInputChannels, p.Channels)
	}

	sp := portaudio.HighLatencyParameters(info, nil)
	sp.Input.Channels = p.Channels
	sp.Output.Channels = 0
	sp.SampleRate = float64(p.SampleRate)
	sp.FramesPerBuffer = p.FramesPerBlock()

	buf := make([]byte, 0, sp.FramesPerBuffer*p.Channels*2)
	stream, err := portaudio.OpenStream(sp, func(in []int16) {
		buf = pcm.EncodeInt16(buf[:0], in)
		fn(buf, p.SampleRate)
	})
	if err != nil {
		return nil, fmt.Errorf("open stream on %q: %w", info.Name, err)
	}
	if err := stream.Start(); err != nil {
		stream.Close()
		return nil, fmt.Errorf("start stream on %q: %w", info.Name, err)
	}

	dev := Device{ID: id, Name: info.Name}
	if id == DefaultDevice {
		dev.ID, dev.Default = pa.indexOf(info), true
	}
	return &Handle{dev: dev, stream: stream}, nil
}

func (pa *PortAudio) indexOf(target *portaudio.DeviceInfo) int {
	infos, err := portaudio.Devices()
	if err != nil {
		return DefaultDevice
	}
	for i, info := range infos {
		if info.Name == target.Name && info.MaxInputChannels == target.MaxInputChannels {
			return i
		}
	}
	return DefaultDevice
}

// Device is the device the stream was opened on.
func (h *Handle) Device() Device { return h.dev }

// Release stops and closes the stream. It is safe to call more than once.
func (h *Handle) Release() error {
	h.once.Do(func() {
		h.err = errors.Join(h.stream.Stop(), h.stream.Close())
	})
	return h.err
}
