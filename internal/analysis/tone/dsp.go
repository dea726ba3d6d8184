package tone

import (
	"math"

	"gonum.org/v1/gonum/dsp/fourier"
)

const (
	frameLength = 2048
	hopLength   = 512
	numMFCC     = 13
	numMelBands = 40
)

// Extract computes the averaged acoustic feature set at the given sample
// rate. The pipeline mirrors the usual short-time analysis chain: Hann
// windowed STFT for pitch and spectral centroid, raw frames for RMS energy
// and zero crossings, a mel filterbank plus DCT for the cepstral
// coefficients.
func Extract(samples []float64, sampleRate int) Features {
	if len(samples) == 0 || sampleRate <= 0 {
		return Features{MFCC: make([]float64, numMFCC)}
	}

	frames := frame(samples, frameLength, hopLength)
	fft := fourier.NewFFT(frameLength)
	window := hann(frameLength)
	melBank := melFilterbank(sampleRate, frameLength, numMelBands)

	var (
		pitchSum      float64
		voicedFrames  int
		energySum     float64
		centroidSum   float64
		zcrSum        float64
		mfccSums      = make([]float64, numMFCC)
		spectrumCount int
	)

	windowed := make([]float64, frameLength)
	for _, fr := range frames {
		// Time-domain features on the unwindowed frame.
		energySum += rms(fr)
		zcrSum += zeroCrossingRate(fr)

		for i := range fr {
			windowed[i] = fr[i] * window[i]
		}
		coeffs := fft.Coefficients(nil, windowed)
		mags := magnitudes(coeffs)
		spectrumCount++

		if freq, mag := peakFrequency(mags, sampleRate); mag > 0 {
			pitchSum += freq
			voicedFrames++
		}
		centroidSum += spectralCentroid(mags, sampleRate)

		mel := applyFilterbank(mags, melBank)
		for i, c := range dct2(logSpectrum(mel))[:numMFCC] {
			mfccSums[i] += c
		}
	}

	n := float64(len(frames))
	features := Features{
		AvgEnergy:        energySum / n,
		ZeroCrossingRate: zcrSum / n,
		MFCC:             make([]float64, numMFCC),
	}
	if voicedFrames > 0 {
		features.AvgPitchHz = pitchSum / float64(voicedFrames)
	}
	if spectrumCount > 0 {
		features.SpectralCentroid = centroidSum / float64(spectrumCount)
	}
	for i := range mfccSums {
		features.MFCC[i] = mfccSums[i] / n
	}
	return features
}

// frame splits samples into fixed-length frames, zero padding the final
// partial frame so short recordings still yield one analysis window.
func frame(samples []float64, length, hop int) [][]float64 {
	var frames [][]float64
	for start := 0; start == 0 || start+length <= len(samples); start += hop {
		fr := make([]float64, length)
		copy(fr, samples[start:min(start+length, len(samples))])
		frames = append(frames, fr)
		if start+length >= len(samples) {
			break
		}
	}
	return frames
}

func hann(n int) []float64 {
	w := make([]float64, n)
	for i := range w {
		w[i] = 0.5 - 0.5*math.Cos(2*math.Pi*float64(i)/float64(n-1))
	}
	return w
}

func magnitudes(coeffs []complex128) []float64 {
	mags := make([]float64, len(coeffs))
	for i, c := range coeffs {
		mags[i] = math.Hypot(real(c), imag(c))
	}
	return mags
}

// peakFrequency returns the frequency of the strongest non-DC bin and its
// magnitude. A zero magnitude means the frame carried no detectable energy
// and must not contribute to the pitch average.
func peakFrequency(mags []float64, sampleRate int) (float64, float64) {
	bestBin, bestMag := 0, 0.0
	for i := 1; i < len(mags); i++ {
		if mags[i] > bestMag {
			bestMag = mags[i]
			bestBin = i
		}
	}
	if bestMag == 0 {
		return 0, 0
	}
	return float64(bestBin) * float64(sampleRate) / float64(frameLength), bestMag
}

func rms(frame []float64) float64 {
	var sum float64
	for _, s := range frame {
		sum += s * s
	}
	return math.Sqrt(sum / float64(len(frame)))
}

func zeroCrossingRate(frame []float64) float64 {
	crossings := 0
	for i := 1; i < len(frame); i++ {
		if (frame[i-1] >= 0) != (frame[i] >= 0) {
			crossings++
		}
	}
	return float64(crossings) / float64(len(frame))
}

func spectralCentroid(mags []float64, sampleRate int) float64 {
	var weighted, total float64
	for i, m := range mags {
		freq := float64(i) * float64(sampleRate) / float64(frameLength)
		weighted += freq * m
		total += m
	}
	if total == 0 {
		return 0
	}
	return weighted / total
}

// melFilterbank builds triangular filters spaced evenly on the mel scale
// over [0, sampleRate/2], mapped onto FFT bin indices.
func melFilterbank(sampleRate, fftSize, bands int) [][]float64 {
	hzToMel := func(hz float64) float64 { return 2595 * math.Log10(1+hz/700) }
	melToHz := func(mel float64) float64 { return 700 * (math.Pow(10, mel/2595) - 1) }

	maxMel := hzToMel(float64(sampleRate) / 2)
	points := make([]int, bands+2)
	for i := range points {
		hz := melToHz(maxMel * float64(i) / float64(bands+1))
		points[i] = int(math.Floor((float64(fftSize) + 1) * hz / float64(sampleRate)))
	}

	bins := fftSize/2 + 1
	bank := make([][]float64, bands)
	for b := 0; b < bands; b++ {
		filter := make([]float64, bins)
		left, center, right := points[b], points[b+1], points[b+2]
		for i := left; i < center && i < bins; i++ {
			if center > left {
				filter[i] = float64(i-left) / float64(center-left)
			}
		}
		for i := center; i < right && i < bins; i++ {
			if right > center {
				filter[i] = float64(right-i) / float64(right-center)
			}
		}
		bank[b] = filter
	}
	return bank
}

func applyFilterbank(mags []float64, bank [][]float64) []float64 {
	out := make([]float64, len(bank))
	for b, filter := range bank {
		var sum float64
		for i, w := range filter {
			if i < len(mags) {
				sum += w * mags[i] * mags[i]
			}
		}
		out[b] = sum
	}
	return out
}

func logSpectrum(energies []float64) []float64 {
	out := make([]float64, len(energies))
	for i, e := range energies {
		if e < 1e-10 {
			e = 1e-10
		}
		out[i] = math.Log(e)
	}
	return out
}

// dct2 is the type-II discrete cosine transform used to decorrelate the
// log mel energies into cepstral coefficients.
func dct2(in []float64) []float64 {
	n := len(in)
	out := make([]float64, n)
	for k := 0; k < n; k++ {
		var sum float64
		for i := 0; i < n; i++ {
			sum += in[i] * math.Cos(math.Pi*float64(k)*(float64(i)+0.5)/float64(n))
		}
		out[k] = sum
	}
	return out
}
