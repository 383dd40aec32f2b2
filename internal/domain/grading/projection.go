package grading

import (
	"math"
	"strconv"
	"strings"
)

// Outcome classifies a projected "needed" score.
type Outcome string

const (
	// OutcomeAchievable - the needed score is within a normal 0-100 range.
	OutcomeAchievable Outcome = "achievable"

	// OutcomeUnreachable - the needed score exceeds 100%.
	OutcomeUnreachable Outcome = "unreachable"

	// OutcomeSecured - the target is already exceeded; even 0 on the rest suffices.
	OutcomeSecured Outcome = "secured"
)

// NeededGrade solves for the score required on the remaining course weight
// to finish at targetOverall:
//
//	(currentAverage*currentWeight + needed*remaining) / 100 = targetOverall
//
// ok is false when no weight remains (currentWeight >= 100) - there is
// nothing left to solve for. The result is intentionally unclamped; use
// Classify to interpret values outside [0, 100].
func NeededGrade(currentAverage, currentWeight, targetOverall float64) (needed float64, ok bool) {
	remaining := 100 - currentWeight
	if remaining <= 0 {
		return 0, false
	}
	return (targetOverall*100 - currentAverage*currentWeight) / remaining, true
}

// Classify buckets an unclamped needed score for display.
func Classify(needed float64) Outcome {
	switch {
	case needed > 100:
		return OutcomeUnreachable
	case needed < 0:
		return OutcomeSecured
	default:
		return OutcomeAchievable
	}
}

// FinalProjection is the result of the single-exam "what do I need on my
// final" calculator.
type FinalProjection struct {
	Needed  float64 `json:"needed"`
	Outcome Outcome `json:"outcome"`
	Letter  string  `json:"letter"`
}

// FinalExamTarget answers the degenerate single-exam projection: the whole
// course is the current grade at weight (100 - finalWeight) plus one final
// exam at finalWeight. All three inputs arrive as raw text; any unparsable
// input or a final weight outside (0, 100] produces no result.
func FinalExamTarget(currentGrade, finalWeight, targetGrade string) *FinalProjection {
	current, ok1 := parseFinite(currentGrade)
	weight, ok2 := parseFinite(finalWeight)
	target, ok3 := parseFinite(targetGrade)
	if !ok1 || !ok2 || !ok3 {
		return nil
	}
	if weight <= 0 || weight > 100 {
		return nil
	}

	needed, ok := NeededGrade(current, 100-weight, target)
	if !ok {
		return nil
	}

	return &FinalProjection{
		Needed:  needed,
		Outcome: Classify(needed),
		Letter:  DefaultScale().Letter(needed),
	}
}

func parseFinite(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
