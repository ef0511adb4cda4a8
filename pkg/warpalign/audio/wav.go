// Package audio imports and exports signals as 16-bit PCM WAV files.
package audio

import (
	"errors"
	"fmt"
	"os"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/warpalign/warpalign/internal/signal"
	"github.com/warpalign/warpalign/pkg/models"
)

// WriteWAV encodes sig as mono 16-bit PCM. Samples are clipped to [-1, 1]
// before quantization.
func WriteWAV(path string, sig models.Signal) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}

	rate := int(sig.SampleRate)
	enc := wav.NewEncoder(f, rate, 16, 1, 1)

	data := make([]int, len(sig.Samples))
	for i, v := range sig.Samples {
		if v > 1 {
			v = 1
		} else if v < -1 {
			v = -1
		}
		data[i] = int(v * 32767)
	}
	buf := &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: 1, SampleRate: rate},
		Data:           data,
		SourceBitDepth: 16,
	}
	if err := enc.Write(buf); err != nil {
		f.Close()
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	if err := enc.Close(); err != nil {
		f.Close()
		return fmt.Errorf("finalizing %s: %w", path, err)
	}
	return f.Close()
}

// ReadWAV decodes a PCM WAV file into a normalized [-1, 1] mono signal.
// Stereo files are averaged to mono.
func ReadWAV(path string) (models.Signal, error) {
	f, err := os.Open(path)
	if err != nil {
		return models.Signal{}, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	decoder := wav.NewDecoder(f)
	if !decoder.IsValidFile() {
		return models.Signal{}, fmt.Errorf("%s: not a valid WAV file", path)
	}

	buf, err := decoder.FullPCMBuffer()
	if err != nil {
		return models.Signal{}, fmt.Errorf("decoding %s: %w", path, err)
	}
	if buf.Format == nil || len(buf.Data) == 0 {
		return models.Signal{}, errors.New("empty WAV data")
	}

	scale := 1.0 / float64(int(1)<<(uint(decoder.BitDepth)-1))
	var samples []float64
	switch buf.Format.NumChannels {
	case 1:
		samples = make([]float64, len(buf.Data))
		for i, v := range buf.Data {
			samples[i] = float64(v) * scale
		}
	case 2:
		frames := len(buf.Data) / 2
		samples = make([]float64, frames)
		for i := 0; i < frames; i++ {
			l := float64(buf.Data[2*i]) * scale
			r := float64(buf.Data[2*i+1]) * scale
			samples[i] = (l + r) * 0.5
		}
	default:
		return models.Signal{}, fmt.Errorf("unsupported channel count %d: only mono/stereo supported",
			buf.Format.NumChannels)
	}

	return signal.New(samples, float64(decoder.SampleRate))
}
