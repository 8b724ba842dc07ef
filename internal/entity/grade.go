package entity

// GradePoint is one band of a grading scale.
type GradePoint struct {
	Letter   string  `json:"letter" yaml:"letter"`
	MinScore float64 `json:"min_score" yaml:"min_score"`
	MaxScore float64 `json:"max_score" yaml:"max_score"`
	Point    float64 `json:"point" yaml:"point"`
}

// Contains reports whether score falls inside the band (both ends inclusive).
func (g GradePoint) Contains(score float64) bool {
	return score >= g.MinScore && score <= g.MaxScore
}

// Grade is the letter and point a score resolves to.
type Grade struct {
	Letter string  `json:"letter"`
	Point  float64 `json:"point"`
}
