package scoring

import (
	"math"

	"github.com/apper-apps/scholar-array-protocol/internal/models"
	appErrors "github.com/apper-apps/scholar-array-protocol/pkg/errors"
)

type band struct {
	min    float64
	letter models.LetterGrade
}

// bands are evaluated top-down; lower bounds are inclusive.
var bands = []band{
	{97, models.LetterAPlus},
	{93, models.LetterA},
	{90, models.LetterAMinus},
	{87, models.LetterBPlus},
	{83, models.LetterB},
	{80, models.LetterBMinus},
	{77, models.LetterCPlus},
	{73, models.LetterC},
	{70, models.LetterCMinus},
	{65, models.LetterD},
}

// ComputePercentage returns score/maxScore as a whole percentage rounded half-up.
func ComputePercentage(score, maxScore float64) (int, error) {
	if math.IsNaN(maxScore) || maxScore <= 0 {
		return 0, appErrors.InvalidInput("max score must be greater than zero")
	}
	if math.IsNaN(score) || score < 0 {
		return 0, appErrors.InvalidInput("score must not be negative")
	}
	return int(roundHalfUp(score / maxScore * 100)), nil
}

// LetterGrade maps a percentage to its band.
func LetterGrade(percentage float64) models.LetterGrade {
	for _, b := range bands {
		if percentage >= b.min {
			return b.letter
		}
	}
	return models.LetterF
}

// Evaluate computes both derived fields of a grade. Grade writes must go through here so
// that percentage and letter never drift apart.
func Evaluate(score, maxScore float64) (int, models.LetterGrade, error) {
	pct, err := ComputePercentage(score, maxScore)
	if err != nil {
		return 0, "", err
	}
	return pct, LetterGrade(float64(pct)), nil
}

// Average is the arithmetic mean rounded half-up to two decimals. An empty input averages to 0.
func Average(values []float64) float64 {
	return round2(mean(values))
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// StudentAverage averages the percentages of the student's grades.
func StudentAverage(studentID int64, grades []models.Grade) float64 {
	return Average(percentages(grades, models.GradeFilter{StudentID: &studentID}))
}

// ClassAverage averages the percentages of the class's grades.
func ClassAverage(classID int64, grades []models.Grade) float64 {
	return Average(percentages(grades, models.GradeFilter{ClassID: &classID}))
}

// OverallAverage is the mean percentage of every grade rounded once to a whole percent.
func OverallAverage(grades []models.Grade) int {
	return int(roundHalfUp(mean(percentages(grades, models.GradeFilter{}))))
}

func percentages(grades []models.Grade, filter models.GradeFilter) []float64 {
	values := make([]float64, 0, len(grades))
	for _, g := range grades {
		if filter.Matches(g) {
			values = append(values, float64(g.Percentage))
		}
	}
	return values
}

// roundHalfUp rounds to the nearest integer with .5 going up.
func roundHalfUp(v float64) float64 {
	return math.Floor(v + 0.5)
}

func round2(v float64) float64 {
	return roundHalfUp(v*100) / 100
}
