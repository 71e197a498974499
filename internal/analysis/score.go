package analysis

// ScoreBand classifies an overall match score for display
type ScoreBand string

const (
	BandGreen  ScoreBand = "green"
	BandOrange ScoreBand = "orange"
	BandRed    ScoreBand = "red"
)

// BandForScore maps an overall score to its display band. The cut points are
// inclusive on the higher band: 80 is green, 60 is orange.
func BandForScore(overall float64) ScoreBand {
	switch {
	case overall >= 80:
		return BandGreen
	case overall >= 60:
		return BandOrange
	default:
		return BandRed
	}
}
