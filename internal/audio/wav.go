package audio

import (
	"errors"
	"io"
	"math"

	"github.com/go-audio/wav"
)

// TargetRate is the analysis sample rate every decoded waveform is
// normalized to before feature extraction.
const TargetRate = 16000

var ErrInvalidWAV = errors.New("invalid wav data")

// DecodeWAV reads a RIFF/WAV stream and returns mono float64 samples in
// [-1, 1] resampled to TargetRate. Multi-channel input is downmixed by
// averaging interleaved channels.
func DecodeWAV(r io.ReadSeeker) ([]float64, error) {
	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		return nil, ErrInvalidWAV
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, err
	}
	if buf == nil || len(buf.Data) == 0 {
		return nil, ErrInvalidWAV
	}

	bitDepth := int(dec.BitDepth)
	if bitDepth == 0 {
		bitDepth = 16
	}
	samples := intToFloat(buf.Data, bitDepth)

	channels := 1
	rate := 44100
	if buf.Format != nil {
		if buf.Format.NumChannels > 0 {
			channels = buf.Format.NumChannels
		}
		if buf.Format.SampleRate > 0 {
			rate = buf.Format.SampleRate
		}
	}
	if channels > 1 {
		samples = downmix(samples, channels)
	}
	if rate != TargetRate {
		samples = Resample(samples, rate, TargetRate)
	}
	return samples, nil
}

func intToFloat(data []int, bitDepth int) []float64 {
	scale := math.Pow(2, float64(bitDepth-1))
	out := make([]float64, len(data))
	for i, v := range data {
		out[i] = float64(v) / scale
	}
	return out
}

func downmix(interleaved []float64, channels int) []float64 {
	frames := len(interleaved) / channels
	out := make([]float64, frames)
	for i := 0; i < frames; i++ {
		var sum float64
		for c := 0; c < channels; c++ {
			sum += interleaved[i*channels+c]
		}
		out[i] = sum / float64(channels)
	}
	return out
}

// Resample performs linear interpolation between sample rates. Adequate for
// feature extraction; not meant for playback fidelity.
func Resample(samples []float64, from, to int) []float64 {
	if from == to || len(samples) == 0 {
		return samples
	}
	ratio := float64(from) / float64(to)
	outLen := int(float64(len(samples)) / ratio)
	if outLen == 0 {
		outLen = 1
	}
	out := make([]float64, outLen)
	for i := range out {
		pos := float64(i) * ratio
		idx := int(pos)
		if idx >= len(samples)-1 {
			out[i] = samples[len(samples)-1]
			continue
		}
		frac := pos - float64(idx)
		out[i] = samples[idx]*(1-frac) + samples[idx+1]*frac
	}
	return out
}
