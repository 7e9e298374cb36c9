// Package audioconv decodes recorded audio files into the mono 16 kHz
// float32 PCM that the transcriber expects. Supported containers: wav,
// mp3, ogg (Vorbis or Opus), selected by extension with a magic-byte
// sniff as backup.
package audioconv

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-audio/wav"
	"github.com/hajimehoshi/go-mp3"
	"github.com/jfreymuth/oggvorbis"
	popus "github.com/pekim/opus"
)

// TargetRate matches the whisper.cpp input rate.
const TargetRate = 16000

// Limits bounds decoding; MaxSamples of 0 means unlimited.
type Limits struct {
	MaxSamples int
}

// DecodeFile decodes path to mono 16 kHz float32 PCM.
func DecodeFile(path string, lim Limits) ([]float32, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".wav":
		return decodeWAV(f, lim)
	case ".mp3":
		return decodeMP3(f, lim)
	case ".ogg", ".oga":
		return decodeOgg(f, lim)
	}

	// Unknown extension: sniff the container.
	br := bufio.NewReader(f)
	magic, _ := br.Peek(4)
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}
	switch string(magic) {
	case "RIFF":
		return decodeWAV(f, lim)
	case "OggS":
		return decodeOgg(f, lim)
	}
	return nil, fmt.Errorf("unsupported audio format: %s", path)
}

func decodeWAV(r io.ReadSeeker, lim Limits) ([]float32, error) {
	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		return nil, errors.New("invalid wav")
	}
	pb, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, err
	}
	if pb == nil || pb.Data == nil {
		return nil, errors.New("empty wav")
	}

	bitDepth := int(dec.BitDepth)
	if bitDepth == 0 {
		bitDepth = 16
	}
	x := intToFloat32(pb.Data, bitDepth)

	channels, rate := 1, 44100
	if pb.Format != nil {
		if pb.Format.NumChannels > 0 {
			channels = pb.Format.NumChannels
		}
		if pb.Format.SampleRate > 0 {
			rate = pb.Format.SampleRate
		}
	}

	return normalize(x, channels, rate, lim), nil
}

func decodeMP3(r io.Reader, lim Limits) ([]float32, error) {
	dec, err := mp3.NewDecoder(r)
	if err != nil {
		return nil, err
	}

	var raw bytes.Buffer
	if _, err := io.Copy(&raw, dec); err != nil {
		return nil, err
	}
	ints := make([]int16, raw.Len()/2)
	if err := binary.Read(bytes.NewReader(raw.Bytes()), binary.LittleEndian, &ints); err != nil {
		return nil, err
	}

	rate := dec.SampleRate()
	if rate <= 0 {
		rate = 44100
	}
	// the mp3 decoder always emits interleaved stereo
	return normalize(int16ToFloat32(ints), 2, rate, lim), nil
}

// decodeOgg tries Vorbis first, then Opus on the rewound stream.
func decodeOgg(r io.ReadSeeker, lim Limits) ([]float32, error) {
	if pcm, err := decodeOggVorbis(r, lim); err == nil {
		return pcm, nil
	}
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}
	pcm, err := decodeOggOpus(r, lim)
	if err != nil {
		return nil, fmt.Errorf("cannot decode ogg as Vorbis or Opus: %w", err)
	}
	return pcm, nil
}

func decodeOggVorbis(r io.Reader, lim Limits) ([]float32, error) {
	pcm, format, err := oggvorbis.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if format == nil || format.Channels <= 0 || format.SampleRate <= 0 {
		return nil, errors.New("invalid ogg/vorbis stream")
	}
	return normalize(pcm, format.Channels, format.SampleRate, lim), nil
}

func decodeOggOpus(r io.ReadSeeker, lim Limits) ([]float32, error) {
	dec, err := popus.NewDecoder(r)
	if err != nil {
		return nil, err
	}
	defer dec.Destroy()

	channels := dec.ChannelCount()
	if channels <= 0 {
		channels = 1
	}

	// Opus always decodes at 48 kHz.
	var pcm48 []float32
	buf := make([]int16, 48_000*channels/2)
	for {
		n, err := dec.Read(buf) // n = samples per channel
		if n > 0 {
			pcm48 = append(pcm48, int16ToFloat32(buf[:n*channels])...)
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
	}
	if len(pcm48) == 0 {
		return nil, errors.New("empty opus stream")
	}

	return normalize(pcm48, channels, 48000, lim), nil
}

// normalize downmixes, resamples to TargetRate and applies the sample
// limit.
func normalize(pcm []float32, channels, rate int, lim Limits) []float32 {
	if channels > 1 {
		pcm = downmixInterleaved(pcm, channels)
	}
	if rate != TargetRate {
		pcm = resampleLinear(pcm, rate, TargetRate)
	}
	if lim.MaxSamples > 0 && len(pcm) > lim.MaxSamples {
		pcm = pcm[:lim.MaxSamples]
	}
	return pcm
}
