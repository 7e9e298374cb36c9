// Package audio captures microphone input for the voice front-end and
// ducks other playback streams while listening.
package audio

import (
	"errors"
	"math"
	"time"

	"github.com/gordonklaus/portaudio"
)

// SampleRate is fixed at what whisper.cpp expects.
const SampleRate = 16000

// Recorder captures 16 kHz mono float32 PCM from the default input.
type Recorder struct {
	// SilenceRMS is the frame RMS below which the signal counts as
	// silence. SilenceHold is how long silence must last after speech
	// before capture stops. MaxLength bounds a single utterance.
	SilenceRMS  float64
	SilenceHold time.Duration
	MaxLength   time.Duration
}

func NewRecorder() *Recorder {
	return &Recorder{
		SilenceRMS:  0.015,
		SilenceHold: 600 * time.Millisecond,
		MaxLength:   10 * time.Second,
	}
}

func (r *Recorder) Init() error {
	return portaudio.Initialize()
}

func (r *Recorder) Close() {
	portaudio.Terminate()
}

// RecordAuto waits for speech and stops after SilenceHold of quiet,
// or at MaxLength. Leading silence is not included in the output.
func (r *Recorder) RecordAuto() ([]float32, error) {
	const frameSize = 320 // 20ms at 16 kHz
	frameDur := 20 * time.Millisecond

	buf := make([]float32, frameSize)
	out := make([]float32, 0, SampleRate*3)

	stream, err := portaudio.OpenDefaultStream(1, 0, SampleRate, len(buf), buf)
	if err != nil {
		return nil, err
	}
	defer stream.Close()

	if err := stream.Start(); err != nil {
		return nil, err
	}
	defer stream.Stop()

	var (
		speaking      bool
		silenceFrames int
	)

	maxFrames := int(r.MaxLength / frameDur)

	for i := 0; i < maxFrames; i++ {
		if err := stream.Read(); err != nil {
			return nil, err
		}

		if frameRMS(buf) > r.SilenceRMS {
			speaking = true
			silenceFrames = 0
			out = append(out, buf...)
			continue
		}

		if speaking {
			silenceFrames++
			if time.Duration(silenceFrames)*frameDur >= r.SilenceHold {
				break
			}
			out = append(out, buf...)
		}
	}

	return out, nil
}

// RecordUntil captures until the stop channel fires or maxDur elapses.
// Used for push-to-talk where a second trigger ends the recording.
func (r *Recorder) RecordUntil(stop <-chan struct{}, maxDur time.Duration) ([]float32, error) {
	if maxDur <= 0 {
		maxDur = 15 * time.Second
	}

	const frameSize = 1024
	buf := make([]float32, frameSize)

	stream, err := portaudio.OpenDefaultStream(1, 0, float64(SampleRate), len(buf), buf)
	if err != nil {
		return nil, err
	}
	defer stream.Close()

	if err := stream.Start(); err != nil {
		return nil, err
	}
	defer stream.Stop()

	deadline := time.Now().Add(maxDur)
	out := make([]float32, 0, int(float64(SampleRate)*maxDur.Seconds()))

	for {
		if time.Now().After(deadline) {
			break
		}

		select {
		case <-stop:
			return out, nil
		default:
		}

		if err := stream.Read(); err != nil {
			return nil, err
		}

		out = append(out, buf...)
	}

	if len(out) == 0 {
		return nil, errors.New("no audio recorded")
	}

	return out, nil
}

func frameRMS(f []float32) float64 {
	var s float64
	for _, x := range f {
		s += float64(x * x)
	}
	return math.Sqrt(s / float64(len(f)))
}
