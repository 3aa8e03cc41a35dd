package tuner

import "github.com/kazzyman/groktune/internal/capture"

// Source enumerates input devices and opens capture streams on them.
type Source interface {
	List() ([]capture.Device, error)
	Acquire(id int, p capture.Params, fn capture.BlockFunc) (Stream, error)
}

// Stream is a running capture acquired from a Source.
type Stream interface {
	Device() capture.Device
	Release() error
}

// PortAudio adapts a capture.PortAudio to Source.
func PortAudio(pa *capture.PortAudio) Source {
	return portAudioSource{pa}
}

type portAudioSource struct {
	pa *capture.PortAudio
}

func (s portAudioSource) List() ([]capture.Device, error) {
	return s.pa.List()
}

func (s portAudioSource) Acquire(id int, p capture.Params, fn capture.BlockFunc) (Stream, error) {
	h, err := s.pa.Acquire(id, p, fn)
	if err != nil {
		return nil, err
	}
	return h, nil
}
