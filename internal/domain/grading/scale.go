// Package grading contains the grade computation core of GradePoint.
// Every function here is pure: no I/O, no clock, no external dependencies.
// The persistence and HTTP layers feed it in-memory records and render
// whatever it returns; recomputation is idempotent and safe on every edit.
package grading

import (
	"errors"
	"strings"
)

// Threshold is one cutoff in a letter scale: any percentage at or above
// MinPercent (and below the next threshold up) earns Letter.
type Threshold struct {
	MinPercent float64 `json:"min"`
	Letter     string  `json:"letter"`
}

// Scale is an ordered set of thresholds, strictly descending by MinPercent,
// with a floor entry at 0 so that every real number resolves to a letter.
type Scale []Threshold

// DefaultScale returns the standard US letter scale.
func DefaultScale() Scale {
	return Scale{
		{MinPercent: 97, Letter: "A+"},
		{MinPercent: 93, Letter: "A"},
		{MinPercent: 90, Letter: "A-"},
		{MinPercent: 87, Letter: "B+"},
		{MinPercent: 83, Letter: "B"},
		{MinPercent: 80, Letter: "B-"},
		{MinPercent: 77, Letter: "C+"},
		{MinPercent: 73, Letter: "C"},
		{MinPercent: 70, Letter: "C-"},
		{MinPercent: 67, Letter: "D+"},
		{MinPercent: 63, Letter: "D"},
		{MinPercent: 60, Letter: "D-"},
		{MinPercent: 0, Letter: "F"},
	}
}

// Scale validation errors.
var (
	ErrEmptyScale      = errors.New("grading: scale has no thresholds")
	ErrScaleNotOrdered = errors.New("grading: thresholds must be strictly descending")
	ErrScaleNoFloor    = errors.New("grading: lowest threshold must start at 0")
	ErrScaleBlankEntry = errors.New("grading: threshold letter cannot be blank")
)

// Validate checks the scale invariants: at least one entry, strictly
// descending MinPercent, non-blank letters, and a floor at 0. The floor
// letter is not required to be "F" - users may rename grades.
func (s Scale) Validate() error {
	if len(s) == 0 {
		return ErrEmptyScale
	}
	for i, t := range s {
		if strings.TrimSpace(t.Letter) == "" {
			return ErrScaleBlankEntry
		}
		if i > 0 && t.MinPercent >= s[i-1].MinPercent {
			return ErrScaleNotOrdered
		}
	}
	if s[len(s)-1].MinPercent != 0 {
		return ErrScaleNoFloor
	}
	return nil
}

// Letter resolves a percentage to a letter grade. The input is deliberately
// not clamped: projections may pass values below 0 or above 100 and still
// get a sensible answer. Resolution is total - anything that matches no
// threshold falls through to the floor letter.
func (s Scale) Letter(percent float64) string {
	for _, t := range s {
		if percent >= t.MinPercent {
			return t.Letter
		}
	}
	if len(s) == 0 {
		return "F"
	}
	return s[len(s)-1].Letter
}

// letterPercents is the fixed midpoint table for the inverse conversion.
// Note F maps to 50, not 0: a failed letter still represents roughly half
// credit of work, and 0 would unfairly crater weighted averages.
var letterPercents = map[string]float64{
	"A+": 97,
	"A":  93,
	"A-": 90,
	"B+": 87,
	"B":  83,
	"B-": 80,
	"C+": 77,
	"C":  73,
	"C-": 70,
	"D+": 67,
	"D":  63,
	"D-": 60,
	"F":  50,
}

// LetterPercent converts a letter grade to its midpoint percentage.
// Matching is case-insensitive and ignores surrounding whitespace.
// Unknown letters report ok=false; the caller decides the fallback.
func LetterPercent(letter string) (float64, bool) {
	p, ok := letterPercents[strings.ToUpper(strings.TrimSpace(letter))]
	return p, ok
}
