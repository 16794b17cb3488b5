package report

import (
	"encoding/json"
	"math"
	"strconv"
)

const (
	// NotAvailable is shown for any value the analysis did not provide.
	NotAvailable = "N/A"

	defaultFileName     = "CV"
	defaultAnalysisDate = "-"
)

// Number is an optional numeric value. The zero Number means "no data",
// which is displayed differently from a real zero.
type Number struct {
	Value float64
	Valid bool
}

// Num returns a valid Number.
func Num(v float64) Number {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Number{}
	}
	return Number{Value: v, Valid: true}
}

// String formats the number the way it came in, or NotAvailable.
func (n Number) String() string {
	return n.Or(NotAvailable)
}

// Or formats the number, falling back to placeholder when there is no data.
func (n Number) Or(placeholder string) string {
	if !n.Valid {
		return placeholder
	}
	return strconv.FormatFloat(n.Value, 'f', -1, 64)
}

// MarshalJSON writes the number, or "N/A" when there is no data.
func (n Number) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return json.Marshal(NotAvailable)
	}
	return json.Marshal(n.Value)
}

// ViewModel is the fully defaulted, display-ready form of an analysis result.
type ViewModel struct {
	FileName        string           `json:"fileName"`
	AnalysisDate    string           `json:"analysisDate"`
	TextLength      Number           `json:"textLength"`
	Scores          Scores           `json:"scores"`
	Skills          Skills           `json:"skills"`
	Writing         WritingQuality   `json:"writingQuality"`
	MissingSections []MissingSection `json:"missingSections"`
	JD              *JDMatch         `json:"jdMatching"`
	Recommendations []string         `json:"recommendations"`

	// AllWeaknesses is Scores.Weaknesses followed by the zero-coverage entries.
	AllWeaknesses []string `json:"allWeaknesses"`
}

type Scores struct {
	Overall         Number           `json:"overall"`
	Grade           string           `json:"grade"`
	YearsExperience Number           `json:"yearsExperience"`
	AcademicLevel   string           `json:"academicLevel"`
	Components      []ComponentScore `json:"componentScores"`
	Strengths       []string         `json:"strengths"`
	Weaknesses      []string         `json:"weaknesses"`
}

type ComponentScore struct {
	Name  string `json:"name"`
	Score Number `json:"score"`
}

type Skills struct {
	Found      []string        `json:"found"`
	Missing    []SkillGroup    `json:"missing"`
	ByCategory []SkillCategory `json:"byCategory"`
	Coverage   []Coverage      `json:"coverage"`
}

// SkillGroup is a category with a flat list of skill names.
type SkillGroup struct {
	Category string   `json:"category"`
	Skills   []string `json:"skills"`
}

type SkillCategory struct {
	Category string          `json:"category"`
	Skills   []SkillPresence `json:"skills"`
}

type SkillPresence struct {
	Name    string `json:"name"`
	Present bool   `json:"presentInCV"`
}

type Coverage struct {
	Category string `json:"category"`
	Percent  Number `json:"percent"`
}

type WritingQuality struct {
	Score         Number   `json:"score"`
	GrammarErrors Number   `json:"grammarErrors"`
	Suggestions   []string `json:"suggestions"`
}

type MissingSection struct {
	Section string `json:"section"`
	Message string `json:"message"`
}

type JDMatch struct {
	Score          Number   `json:"matchScore"`
	PerfectMatches []string `json:"perfectMatches"`
	MissingSkills  []string `json:"missingSkills"`
}
