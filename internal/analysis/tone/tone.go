package tone

// Label is a discrete affect category derived from acoustic features.
type Label string

const (
	Neutral  Label = "neutral"
	Stressed Label = "stressed"
	Calm     Label = "calm"
	Happy    Label = "happy"
	Sad      Label = "sad"
)

// Features are the averaged acoustic measurements for one recording.
type Features struct {
	AvgPitchHz       float64   `json:"averagePitch"`
	AvgEnergy        float64   `json:"averageEnergy"`
	SpectralCentroid float64   `json:"spectralCentroid"`
	ZeroCrossingRate float64   `json:"zeroCrossingRate"`
	MFCC             []float64 `json:"mfccs"`
}

// MFCCMean collapses the per-coefficient averages to a single scalar.
func (f Features) MFCCMean() float64 {
	if len(f.MFCC) == 0 {
		return 0
	}
	var sum float64
	for _, c := range f.MFCC {
		sum += c
	}
	return sum / float64(len(f.MFCC))
}

// rule pairs a predicate with the label it selects. The cascade below is
// evaluated strictly in order and the first match wins, so tie-break
// priority is part of the declared artifact rather than implicit code flow.
type rule struct {
	label Label
	match func(Features) bool
}

var cascade = []rule{
	{Stressed, func(f Features) bool {
		return f.AvgPitchHz > 150 && f.AvgEnergy > 0.05 && f.SpectralCentroid > 2000
	}},
	{Calm, func(f Features) bool {
		return f.AvgPitchHz < 100 && f.AvgEnergy < 0.03 && f.SpectralCentroid < 1500
	}},
	{Happy, func(f Features) bool {
		return f.AvgPitchHz > 120 && f.AvgEnergy > 0.04 && f.SpectralCentroid > 1800
	}},
	{Sad, func(f Features) bool {
		return f.ZeroCrossingRate > 0.05 && f.AvgEnergy < 0.02
	}},
}

// Classify maps features to a label via the ordered rule cascade.
// Pure: identical features always yield the identical label.
func Classify(f Features) Label {
	for _, r := range cascade {
		if r.match(f) {
			return r.label
		}
	}
	return Neutral
}

// Analyze extracts features from a mono waveform and classifies them.
// Malformed or silent audio degrades to zero features and a non-stressed
// label rather than returning an error.
func Analyze(samples []float64, sampleRate int) (Features, Label) {
	f := Extract(samples, sampleRate)
	return f, Classify(f)
}
