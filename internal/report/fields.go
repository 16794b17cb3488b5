package report

// field names a view-model value resolved from the payload.
type field string

const (
	fieldFileName        field = "fileName"
	fieldAnalysisDate    field = "analysisDate"
	fieldTextLength      field = "textLength"
	fieldOverall         field = "overall"
	fieldGrade           field = "grade"
	fieldYearsExperience field = "yearsExperience"
	fieldAcademicLevel   field = "academicLevel"
	fieldComponentScores field = "componentScores"
	fieldStrengths       field = "strengths"
	fieldWeaknesses      field = "weaknesses"
	fieldFoundSkills     field = "foundSkills"
	fieldMissingSkills   field = "missingSkills"
	fieldSkillPresence   field = "skillPresence"
	fieldCoverage        field = "coverage"
	fieldWritingScore    field = "writingScore"
	fieldGrammarErrors   field = "grammarErrors"
	fieldSuggestions     field = "suggestions"
	fieldMissingSections field = "missingSections"
	fieldJDMatching      field = "jdMatching"
	fieldRecommendations field = "recommendations"

	// Relative to a skill entry, a missing-section entry or the JD object.
	fieldSkillName      field = "skillName"
	fieldSkillPresent   field = "skillPresent"
	fieldSectionName    field = "sectionName"
	fieldSectionMessage field = "sectionMessage"
	fieldMatchScore     field = "matchScore"
	fieldPerfectMatches field = "perfectMatches"
	fieldJDMissing      field = "jdMissingSkills"
)

type path []string

// fieldPaths lists the candidate key paths for each field, most preferred first.
// Historical payloads used camelCase names and a summary block; both are still read.
var fieldPaths = map[field][]path{
	fieldFileName:        {{"filename"}, {"fileName"}},
	fieldAnalysisDate:    {{"analysis_date"}, {"analysisDate"}},
	fieldTextLength:      {{"text_length"}, {"textLength"}},
	fieldOverall:         {{"scores", "overall"}, {"summary", "overall_score"}},
	fieldGrade:           {{"scores", "grade"}, {"summary", "grade"}},
	fieldYearsExperience: {{"scores", "years_experience"}, {"scores", "yearsExperience"}},
	fieldAcademicLevel:   {{"scores", "academic_level"}, {"scores", "academicLevel"}},
	fieldComponentScores: {{"scores", "component_scores"}, {"scores", "componentScores"}},
	fieldStrengths:       {{"scores", "strengths"}, {"summary", "strengths"}},
	fieldWeaknesses:      {{"scores", "weaknesses"}, {"summary", "weaknesses"}},
	fieldFoundSkills:     {{"skills", "found"}},
	fieldMissingSkills:   {{"skills", "missing"}},
	fieldSkillPresence:   {{"skills", "all_skills_with_presence"}, {"skills", "allSkillsWithPresence"}},
	fieldCoverage:        {{"skills", "coverage"}},
	fieldWritingScore:    {{"writing_quality", "writing_score"}, {"writingQuality", "writingScore"}},
	fieldGrammarErrors:   {{"writing_quality", "grammar_errors"}, {"writingQuality", "grammarErrors"}},
	fieldSuggestions:     {{"writing_quality", "suggestions"}, {"writingQuality", "suggestions"}},
	fieldMissingSections: {{"missing_sections"}, {"missingSections"}},
	fieldJDMatching:      {{"jd_matching"}, {"jdMatching"}},
	fieldRecommendations: {{"recommendations"}},

	fieldSkillName:      {{"name"}},
	fieldSkillPresent:   {{"present_in_cv"}, {"presentInCV"}},
	fieldSectionName:    {{"section"}},
	fieldSectionMessage: {{"message"}},
	fieldMatchScore:     {{"match_score"}, {"matchScore"}},
	fieldPerfectMatches: {{"perfect_matches"}, {"perfectMatches"}},
	fieldJDMissing:      {{"missing_skills"}, {"missingSkills"}},
}

// resolve returns the value of the first candidate path that is present.
// A value is present when it exists, is not null and is not an empty string.
func resolve(o *Object, f field) (any, bool) {
	for _, p := range fieldPaths[f] {
		if v, ok := walk(o, p); ok && present(v) {
			return v, true
		}
	}
	return nil, false
}

func walk(o *Object, p path) (any, bool) {
	var cur any = o
	for _, key := range p {
		obj, ok := cur.(*Object)
		if !ok || obj == nil {
			return nil, false
		}
		if cur, ok = obj.Get(key); !ok {
			return nil, false
		}
	}
	return cur, true
}

func present(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case string:
		return t != ""
	default:
		return true
	}
}
