package common

// FeatureNormalizer applies per-utterance normalization to acoustic
// feature frames: cepstral mean-and-variance normalization on the
// spectral coefficients (C1..Cn) and adaptive percentile clipping on the
// energy coefficient (C0).
//
// The split matters: spectral shape must be speaker and microphone
// invariant, while energy carries loudness that should stay bounded and
// robust to transient spikes instead of being z-scored.
type FeatureNormalizer struct {
	lowQuantile  float64
	highQuantile float64
}

// NewFeatureNormalizer creates a normalizer with the given percentile
// bounds for energy clipping (e.g. 0.05 and 0.95).
func NewFeatureNormalizer(lowQuantile, highQuantile float64) *FeatureNormalizer {
	return &FeatureNormalizer{
		lowQuantile:  lowQuantile,
		highQuantile: highQuantile,
	}
}

// Normalize returns a normalized copy of frames with the same length and
// dimension. Frames must share a constant dimension; the first coefficient
// is treated as energy, the rest as spectral coefficients.
func (fn *FeatureNormalizer) Normalize(frames [][]float64) [][]float64 {
	if len(frames) == 0 || len(frames[0]) == 0 {
		return [][]float64{}
	}

	numFrames := len(frames)
	dim := len(frames[0])

	out := make([][]float64, numFrames)
	for i := range out {
		out[i] = make([]float64, dim)
	}

	// Energy coefficient: clip to the percentile range, then min-max
	// scale to [0,1] using the same two bounds.
	c0 := make([]float64, numFrames)
	for i, frame := range frames {
		c0[i] = frame[0]
	}
	for i, val := range fn.scaleEnergy(c0) {
		out[i][0] = val
	}

	// Spectral coefficients: per-dimension CMVN over the whole sequence.
	column := make([]float64, numFrames)
	for d := 1; d < dim; d++ {
		for i, frame := range frames {
			column[i] = frame[d]
		}
		for i, val := range ZScoreNormalize(column) {
			out[i][d] = val
		}
	}

	return out
}

// scaleEnergy clips c0 to [p_low, p_high] and rescales to [0,1]. A flat
// energy track (equal percentiles) maps to a constant 0.
func (fn *FeatureNormalizer) scaleEnergy(c0 []float64) []float64 {
	lowVal := Percentile(c0, fn.lowQuantile)
	highVal := Percentile(c0, fn.highQuantile)

	scaled := make([]float64, len(c0))
	if highVal-lowVal < 1e-10 {
		return scaled
	}

	for i, val := range c0 {
		clipped := Clamp(val, lowVal, highVal)
		scaled[i] = (clipped - lowVal) / (highVal - lowVal)
	}

	return scaled
}
