// Package tabs turns a report.ViewModel into the content of the result tabs.
package tabs

import (
	"errors"
	"math"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"resume-inspector/internal/report"
)

// ErrUnknownTab is returned for a tab identifier outside IDs.
var ErrUnknownTab = errors.New("unknown tab")

// ID identifies a result tab.
type ID string

const (
	Overview        ID = "overview"
	SkillsTab       ID = "skills"
	Experience      ID = "experience"
	Writing         ID = "writing"
	Missing         ID = "missing"
	JD              ID = "jd"
	Recommendations ID = "recommendations"
)

// IDs lists the tabs in display order.
var IDs = []ID{Overview, SkillsTab, Experience, Writing, Missing, JD, Recommendations}

var titles = map[ID]string{
	Overview:        "Overview",
	SkillsTab:       "Skills Analysis",
	Experience:      "Experience",
	Writing:         "Writing Quality",
	Missing:         "Missing Sections",
	JD:              "JD Matching",
	Recommendations: "Recommendations",
}

const placeholder = "-"

// View is the content of one tab.
type View struct {
	Tab      ID        `json:"tab"`
	Title    string    `json:"title"`
	Sections []Section `json:"sections"`
}

// Section is a titled group of items. Empty is shown when Items is empty.
type Section struct {
	Heading string `json:"heading"`
	Items   []Item `json:"items"`
	Empty   string `json:"empty,omitempty"`
	Note    string `json:"note,omitempty"`
}

// Item is one label/value row. A row with only a Value is a list entry.
type Item struct {
	Label     string      `json:"label,omitempty"`
	Value     string      `json:"value"`
	Tone      report.Tone `json:"tone,omitempty"`
	Highlight bool        `json:"highlight,omitempty"`
	Bar       *Bar        `json:"bar,omitempty"`
}

// Bar is a coverage progress bar. Width is a percentage in [0,100].
type Bar struct {
	Width float64     `json:"width"`
	Band  string      `json:"band"`
	Tone  report.Tone `json:"tone"`
}

// Parse validates a tab identifier.
func Parse(raw string) (ID, error) {
	id := ID(strings.ToLower(strings.TrimSpace(raw)))
	if _, ok := titles[id]; !ok {
		return "", ErrUnknownTab
	}
	return id, nil
}

// Render builds the view for one tab.
func Render(vm report.ViewModel, tab ID) (View, error) {
	var sections []Section
	switch tab {
	case Overview:
		sections = overview(vm)
	case SkillsTab:
		sections = skills(vm)
	case Experience:
		sections = experience(vm)
	case Writing:
		sections = writing(vm)
	case Missing:
		sections = missing(vm)
	case JD:
		sections = jd(vm)
	case Recommendations:
		sections = []Section{list("Recommendations", vm.Recommendations, "No recommendations at this time.")}
	default:
		return View{}, ErrUnknownTab
	}
	return View{Tab: tab, Title: titles[tab], Sections: sections}, nil
}

// RenderAll builds every tab in display order.
func RenderAll(vm report.ViewModel) []View {
	views := make([]View, 0, len(IDs))
	for _, id := range IDs {
		v, _ := Render(vm, id)
		views = append(views, v)
	}
	return views
}

func overview(vm report.ViewModel) []Section {
	components := Section{Heading: "Component Scores", Items: []Item{}}
	for _, c := range vm.Scores.Components {
		components.Items = append(components.Items, Item{
			Label: capitalize(c.Name),
			Value: c.Score.String() + " / 100",
			Tone:  report.ScoreTone(c.Score),
		})
	}

	weaknesses := Section{Heading: "Weaknesses", Items: []Item{}, Empty: "No major weaknesses detected."}
	for _, w := range vm.AllWeaknesses {
		weaknesses.Items = append(weaknesses.Items, Item{
			Value:     w,
			Highlight: strings.Contains(w, "Missing") || strings.Contains(w, "Limited"),
		})
	}

	return []Section{
		{
			Heading: "Summary",
			Items: []Item{
				{Label: "File", Value: vm.FileName},
				{Label: "Analyzed on", Value: vm.AnalysisDate},
				{Label: "Score", Value: vm.Scores.Overall.String(), Tone: report.ScoreTone(vm.Scores.Overall)},
				{Label: "Years Exp.", Value: vm.Scores.YearsExperience.String()},
				{Label: "Level", Value: vm.Scores.Grade},
				{Label: "Academic", Value: vm.Scores.AcademicLevel},
				{Label: "Skills", Value: strconv.Itoa(len(vm.Skills.Found))},
			},
		},
		components,
		list("Strengths", vm.Scores.Strengths, "No major strengths detected."),
		weaknesses,
	}
}

func skills(vm report.ViewModel) []Section {
	cov := Section{Heading: "Skill Coverage", Items: []Item{}}
	for _, c := range vm.Skills.Coverage {
		cov.Items = append(cov.Items, Item{
			Label: strings.ToUpper(strings.ReplaceAll(c.Category, "_", " ")),
			Value: report.Percent(c.Percent),
			Tone:  report.CoverageTone(c.Percent),
			Bar: &Bar{
				Width: barWidth(c.Percent),
				Band:  report.CoverageBand(c.Percent),
				Tone:  report.CoverageTone(c.Percent),
			},
		})
	}

	sections := []Section{cov}
	for _, cat := range vm.Skills.ByCategory {
		s := Section{Heading: report.HumanizeCategory(cat.Category), Items: []Item{}}
		for _, sk := range cat.Skills {
			item := Item{Value: sk.Name}
			if sk.Present {
				item.Value += " ✓"
				item.Tone = report.ToneGood
			}
			s.Items = append(s.Items, item)
		}
		sections = append(sections, s)
	}
	return sections
}

func experience(vm report.ViewModel) []Section {
	years := Section{
		Heading: "Years of Experience",
		Items:   []Item{{Value: vm.Scores.YearsExperience.String()}},
		Note:    "Estimated from your CV content",
	}
	if y := vm.Scores.YearsExperience; !y.Valid || y.Value == 0 {
		years.Note += "\nTip: Add explicit years (e.g., \"5 years at Company\") to help detection."
	}
	return []Section{
		years,
		{
			Heading: "Resume Length",
			Items:   []Item{{Value: vm.TextLength.Or(placeholder) + " characters"}},
			Note:    "Longer resumes may show more experience",
		},
	}
}

func writing(vm report.ViewModel) []Section {
	w := vm.Writing
	return []Section{
		{
			Heading: "Writing Quality",
			Items: []Item{
				{Label: "Score", Value: w.Score.Or(placeholder) + " / 100", Tone: report.ScoreTone(w.Score)},
				{Label: "Grammar Errors", Value: w.GrammarErrors.Or(placeholder)},
			},
		},
		list("Suggestions", w.Suggestions, "No suggestions."),
	}
}

func missing(vm report.ViewModel) []Section {
	s := Section{Heading: "Missing Sections", Items: []Item{}, Empty: "All main sections found."}
	for _, m := range vm.MissingSections {
		s.Items = append(s.Items, Item{Label: m.Section, Value: m.Message})
	}
	return []Section{s}
}

func jd(vm report.ViewModel) []Section {
	if vm.JD == nil {
		return []Section{{Heading: "JD Matching", Items: []Item{}, Empty: "No JD provided for matching."}}
	}
	return []Section{{
		Heading: "JD Matching",
		Items: []Item{
			{Label: "Match Score", Value: vm.JD.Score.Or(placeholder) + " / 100", Tone: report.ScoreTone(vm.JD.Score)},
			{Label: "Perfect Matches", Value: joinOr(vm.JD.PerfectMatches)},
			{Label: "Missing Skills", Value: joinOr(vm.JD.MissingSkills)},
		},
	}}
}

func list(heading string, values []string, empty string) Section {
	s := Section{Heading: heading, Items: make([]Item, 0, len(values)), Empty: empty}
	for _, v := range values {
		s.Items = append(s.Items, Item{Value: v})
	}
	return s
}

func barWidth(n report.Number) float64 {
	if !n.Valid {
		return 0
	}
	return math.Max(0, math.Min(n.Value, 100))
}

// capitalize upper-cases only the first character, leaving the rest as is.
func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

func joinOr(values []string) string {
	if len(values) == 0 {
		return placeholder
	}
	return strings.Join(values, ", ")
}
