package input

import (
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/lingomirror/shadowscore/score"
)

// PitchPoint is one sample of an extracted pitch track. Hz is null for
// unvoiced frames in the upstream JSON.
type PitchPoint struct {
	Time float64  `json:"time"`
	Hz   *float64 `json:"hz"`
}

// DecodePitchContour parses a pitch-track JSON payload into a contour.
// Unvoiced samples become NaN entries, which the engine filters before
// alignment.
func DecodePitchContour(data []byte) ([]float64, error) {
	var points []PitchPoint
	if err := json.Unmarshal(data, &points); err != nil {
		return nil, fmt.Errorf("failed to decode pitch contour: %w", err)
	}

	contour := make([]float64, len(points))
	for i, point := range points {
		if point.Hz == nil {
			contour[i] = math.NaN()
		} else {
			contour[i] = *point.Hz
		}
	}
	return contour, nil
}

// tokenPayload mirrors the transcription stage's token JSON, with
// timestamps in seconds.
type tokenPayload struct {
	Text  string  `json:"text"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// DecodeTokens parses a token-stream JSON payload
func DecodeTokens(data []byte) ([]score.Token, error) {
	var payload []tokenPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("failed to decode tokens: %w", err)
	}

	tokens := make([]score.Token, len(payload))
	for i, t := range payload {
		tokens[i] = score.Token{
			Text:  t.Text,
			Start: secondsToDuration(t.Start),
			End:   secondsToDuration(t.End),
		}
	}
	return tokens, nil
}

// DecodeFrames parses a feature-frame matrix JSON payload and checks
// that every frame carries the same dimension.
func DecodeFrames(data []byte) ([][]float64, error) {
	var frames [][]float64
	if err := json.Unmarshal(data, &frames); err != nil {
		return nil, fmt.Errorf("failed to decode feature frames: %w", err)
	}

	for i, frame := range frames {
		if len(frame) != len(frames[0]) {
			return nil, fmt.Errorf("inconsistent frame dimension at index %d: %d != %d",
				i, len(frame), len(frames[0]))
		}
	}
	return frames, nil
}

func secondsToDuration(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
