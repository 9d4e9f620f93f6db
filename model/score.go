package model

// ReviewScore is the fixed ordered enumeration of review scores.
type ReviewScore string

const (
	ScoreExcellent ReviewScore = "Excellent"
	ScoreGood      ReviewScore = "Good"
	ScoreFair      ReviewScore = "Fair"
	ScorePoor      ReviewScore = "Poor"
)

// starValues maps each score to its numeric star contribution. An
// item's star rating is the mean of its reviews' values, rounded to 2
// decimal places.
var starValues = map[ReviewScore]float64{
	ScoreExcellent: 5.0,
	ScoreGood:      3.75,
	ScoreFair:      2.5,
	ScorePoor:      1.25,
}

// IsValid returns true iff s is one of the four enumerated scores.
func (s ReviewScore) IsValid() bool {
	_, ok := starValues[s]
	return ok
}

// StarValue returns the numeric star contribution of s, 0 for an
// unknown score.
func (s ReviewScore) StarValue() float64 {
	return starValues[s]
}
