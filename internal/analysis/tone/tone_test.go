package tone

import (
	"math"
	"testing"
)

func TestClassifyCascadeOrder(t *testing.T) {
	cases := []struct {
		name string
		f    Features
		want Label
	}{
		{
			name: "stressed",
			f:    Features{AvgPitchHz: 200, AvgEnergy: 0.08, SpectralCentroid: 2500},
			want: Stressed,
		},
		{
			name: "calm",
			f:    Features{AvgPitchHz: 80, AvgEnergy: 0.01, SpectralCentroid: 1000},
			want: Calm,
		},
		{
			name: "happy",
			f:    Features{AvgPitchHz: 130, AvgEnergy: 0.045, SpectralCentroid: 1900},
			want: Happy,
		},
		{
			name: "sad",
			f:    Features{AvgPitchHz: 110, AvgEnergy: 0.015, SpectralCentroid: 1600, ZeroCrossingRate: 0.06},
			want: Sad,
		},
		{
			name: "neutral default",
			f:    Features{AvgPitchHz: 110, AvgEnergy: 0.035, SpectralCentroid: 1600},
			want: Neutral,
		},
		{
			name: "stressed outranks happy when both match",
			f:    Features{AvgPitchHz: 160, AvgEnergy: 0.06, SpectralCentroid: 2100},
			want: Stressed,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Classify(tc.f); got != tc.want {
				t.Fatalf("Classify(%+v) = %v, want %v", tc.f, got, tc.want)
			}
		})
	}
}

func TestClassifyStressedBoundaryIsStrict(t *testing.T) {
	// Values exactly at the stressed thresholds must not trip the stressed
	// rule; equality is not greater-than.
	f := Features{AvgPitchHz: 150, AvgEnergy: 0.05, SpectralCentroid: 2000}
	if got := Classify(f); got == Stressed {
		t.Fatalf("boundary feature vector classified as Stressed, thresholds must be strict")
	}
}

func TestClassifyIsPure(t *testing.T) {
	f := Features{AvgPitchHz: 130, AvgEnergy: 0.045, SpectralCentroid: 1900}
	first := Classify(f)
	for i := 0; i < 10; i++ {
		if got := Classify(f); got != first {
			t.Fatalf("Classify is not deterministic: got %v then %v", first, got)
		}
	}
}

func TestAnalyzeSilentWaveform(t *testing.T) {
	silent := make([]float64, 16000)
	f, label := Analyze(silent, 16000)

	if f.AvgPitchHz != 0 {
		t.Errorf("silent audio avg pitch = %v, want 0", f.AvgPitchHz)
	}
	if f.AvgEnergy != 0 {
		t.Errorf("silent audio avg energy = %v, want 0", f.AvgEnergy)
	}
	if label == Stressed {
		t.Errorf("silent audio classified as Stressed")
	}
	if label != Calm && label != Neutral {
		t.Errorf("silent audio label = %v, want Calm or Neutral", label)
	}
}

func TestAnalyzeEmptyInput(t *testing.T) {
	f, label := Analyze(nil, 16000)
	if f.AvgPitchHz != 0 || f.AvgEnergy != 0 {
		t.Errorf("empty input should yield zero features, got %+v", f)
	}
	if label == Stressed {
		t.Errorf("empty input classified as Stressed")
	}
	if len(f.MFCC) != numMFCC {
		t.Errorf("expected %d mfcc slots, got %d", numMFCC, len(f.MFCC))
	}
}

func TestExtractDetectsToneFrequency(t *testing.T) {
	// A pure 440 Hz tone at 16 kHz: the pitch track should land near the
	// tone and the energy should reflect the amplitude.
	rate := 16000
	samples := make([]float64, rate)
	for i := range samples {
		samples[i] = 0.5 * math.Sin(2*math.Pi*440*float64(i)/float64(rate))
	}

	f := Extract(samples, rate)

	binWidth := float64(rate) / frameLength
	if math.Abs(f.AvgPitchHz-440) > 2*binWidth {
		t.Errorf("avg pitch = %.1f Hz, want about 440 Hz", f.AvgPitchHz)
	}
	if f.AvgEnergy < 0.2 || f.AvgEnergy > 0.5 {
		t.Errorf("avg energy = %.3f, want close to 0.35 for a 0.5 amplitude sine", f.AvgEnergy)
	}
	if f.SpectralCentroid <= 0 {
		t.Errorf("spectral centroid should be positive for voiced audio")
	}
}

func TestMFCCMean(t *testing.T) {
	f := Features{MFCC: []float64{1, 2, 3}}
	if got := f.MFCCMean(); got != 2 {
		t.Fatalf("MFCCMean = %v, want 2", got)
	}
	if got := (Features{}).MFCCMean(); got != 0 {
		t.Fatalf("empty MFCCMean = %v, want 0", got)
	}
}
