package report

import (
	"strconv"
	"strings"
)

// NormalizeJSON decodes and normalizes a raw analysis payload.
func NormalizeJSON(raw []byte) (ViewModel, error) {
	obj, err := Decode(raw)
	if err != nil {
		return ViewModel{}, err
	}
	return Normalize(obj), nil
}

// Normalize resolves every optional field of the payload. It never fails:
// missing or mistyped values degrade to their placeholders.
func Normalize(o *Object) ViewModel {
	vm := ViewModel{
		FileName:     stringOr(o, fieldFileName, defaultFileName),
		AnalysisDate: stringOr(o, fieldAnalysisDate, defaultAnalysisDate),
		TextLength:   number(o, fieldTextLength),
		Scores: Scores{
			Overall:         number(o, fieldOverall),
			Grade:           stringOr(o, fieldGrade, NotAvailable),
			YearsExperience: number(o, fieldYearsExperience),
			AcademicLevel:   stringOr(o, fieldAcademicLevel, NotAvailable),
			Components:      componentScores(o),
			Strengths:       strs(o, fieldStrengths),
			Weaknesses:      strs(o, fieldWeaknesses),
		},
		Skills: Skills{
			Found:      strs(o, fieldFoundSkills),
			Missing:    skillGroups(o),
			ByCategory: skillCategories(o),
			Coverage:   coverage(o),
		},
		Writing: WritingQuality{
			Score:         number(o, fieldWritingScore),
			GrammarErrors: number(o, fieldGrammarErrors),
			Suggestions:   strs(o, fieldSuggestions),
		},
		MissingSections: missingSections(o),
		JD:              jdMatch(o),
		Recommendations: strs(o, fieldRecommendations),
	}
	vm.AllWeaknesses = AugmentWeaknesses(vm.Scores.Weaknesses, vm.Skills.Coverage)
	return vm
}

// AugmentWeaknesses appends one entry per category whose coverage is exactly
// zero, after the original weaknesses and in coverage order.
func AugmentWeaknesses(weaknesses []string, cov []Coverage) []string {
	out := make([]string, 0, len(weaknesses)+len(cov))
	out = append(out, weaknesses...)
	for _, c := range cov {
		if c.Percent.Valid && c.Percent.Value == 0 {
			out = append(out, ZeroCoverageWeakness(c.Category))
		}
	}
	return out
}

// ZeroCoverageWeakness formats the weakness synthesized for an empty category.
func ZeroCoverageWeakness(category string) string {
	return "Missing " + HumanizeCategory(category) + " - Add relevant skills in this category."
}

func stringOr(o *Object, f field, def string) string {
	v, ok := resolve(o, f)
	if !ok {
		return def
	}
	if s, ok := scalarString(v); ok {
		return s
	}
	return def
}

func number(o *Object, f field) Number {
	v, ok := resolve(o, f)
	if !ok {
		return Number{}
	}
	return toNumber(v)
}

func toNumber(v any) Number {
	switch t := v.(type) {
	case float64:
		return Num(t)
	case int:
		return Num(float64(t))
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return Number{}
		}
		return Num(f)
	default:
		return Number{}
	}
}

func scalarString(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case float64, int:
		return toNumber(t).String(), true
	case bool:
		return strconv.FormatBool(t), true
	default:
		return "", false
	}
}

func strs(o *Object, f field) []string {
	v, _ := resolve(o, f)
	return toStrings(v)
}

// toStrings flattens a list of scalars, or a mapping of lists in member order.
func toStrings(v any) []string {
	out := []string{}
	switch t := v.(type) {
	case []any:
		for _, item := range t {
			if s, ok := scalarString(item); ok {
				out = append(out, s)
			}
		}
	case *Object:
		for _, key := range t.Keys() {
			item, _ := t.Get(key)
			out = append(out, toStrings(item)...)
		}
	}
	return out
}

func object(o *Object, f field) *Object {
	v, _ := resolve(o, f)
	obj, _ := v.(*Object)
	return obj
}

func componentScores(o *Object) []ComponentScore {
	out := []ComponentScore{}
	obj := object(o, fieldComponentScores)
	for _, key := range obj.Keys() {
		v, _ := obj.Get(key)
		out = append(out, ComponentScore{Name: key, Score: toNumber(v)})
	}
	return out
}

func coverage(o *Object) []Coverage {
	out := []Coverage{}
	obj := object(o, fieldCoverage)
	for _, key := range obj.Keys() {
		v, _ := obj.Get(key)
		out = append(out, Coverage{Category: key, Percent: toNumber(v)})
	}
	return out
}

func skillGroups(o *Object) []SkillGroup {
	out := []SkillGroup{}
	obj := object(o, fieldMissingSkills)
	for _, key := range obj.Keys() {
		v, _ := obj.Get(key)
		out = append(out, SkillGroup{Category: key, Skills: toStrings(v)})
	}
	return out
}

func skillCategories(o *Object) []SkillCategory {
	out := []SkillCategory{}
	obj := object(o, fieldSkillPresence)
	for _, key := range obj.Keys() {
		v, _ := obj.Get(key)
		list, _ := v.([]any)
		skills := make([]SkillPresence, 0, len(list))
		for _, item := range list {
			switch t := item.(type) {
			case *Object:
				name := stringOr(t, fieldSkillName, "")
				if name == "" {
					continue
				}
				present, _ := resolve(t, fieldSkillPresent)
				flag, _ := present.(bool)
				skills = append(skills, SkillPresence{Name: name, Present: flag})
			case string:
				if t != "" {
					skills = append(skills, SkillPresence{Name: t})
				}
			}
		}
		out = append(out, SkillCategory{Category: key, Skills: skills})
	}
	return out
}

func missingSections(o *Object) []MissingSection {
	out := []MissingSection{}
	v, _ := resolve(o, fieldMissingSections)
	list, _ := v.([]any)
	for _, item := range list {
		entry, ok := item.(*Object)
		if !ok {
			continue
		}
		out = append(out, MissingSection{
			Section: stringOr(entry, fieldSectionName, NotAvailable),
			Message: stringOr(entry, fieldSectionMessage, ""),
		})
	}
	return out
}

func jdMatch(o *Object) *JDMatch {
	obj := object(o, fieldJDMatching)
	if obj == nil {
		return nil
	}
	return &JDMatch{
		Score:          number(obj, fieldMatchScore),
		PerfectMatches: strs(obj, fieldPerfectMatches),
		MissingSkills:  strs(obj, fieldJDMissing),
	}
}
