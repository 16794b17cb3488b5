package tabs

import (
	"errors"
	"strings"
	"testing"

	"resume-inspector/internal/report"
)

func mustNormalize(t *testing.T, raw string) report.ViewModel {
	t.Helper()
	vm, err := report.NormalizeJSON([]byte(raw))
	if err != nil {
		t.Fatalf("NormalizeJSON: %v", err)
	}
	return vm
}

func findSection(t *testing.T, v View, heading string) Section {
	t.Helper()
	for _, s := range v.Sections {
		if s.Heading == heading {
			return s
		}
	}
	t.Fatalf("section %q not found in %s", heading, v.Tab)
	return Section{}
}

func TestRenderUnknownTab(t *testing.T) {
	if _, err := Render(report.ViewModel{}, ID("settings")); !errors.Is(err, ErrUnknownTab) {
		t.Fatalf("expected ErrUnknownTab, got %v", err)
	}
	if _, err := Parse("nope"); !errors.Is(err, ErrUnknownTab) {
		t.Fatalf("expected ErrUnknownTab from Parse, got %v", err)
	}
	if id, err := Parse(" Skills "); err != nil || id != SkillsTab {
		t.Fatalf("expected skills, got %q %v", id, err)
	}
}

func TestSkillsTabCoverageBands(t *testing.T) {
	vm := mustNormalize(t, `{"scores":{"overall":85,"component_scores":{"keyword_match":90}},"skills":{"coverage":{"technical":0,"soft":50}}}`)
	v, err := Render(vm, SkillsTab)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	cov := findSection(t, v, "Skill Coverage")
	if len(cov.Items) != 2 {
		t.Fatalf("expected 2 coverage rows, got %d", len(cov.Items))
	}
	tech, soft := cov.Items[0], cov.Items[1]
	if tech.Label != "TECHNICAL" || tech.Bar.Band != "No Skills" || tech.Bar.Tone != report.TonePoor {
		t.Fatalf("unexpected technical row %+v %+v", tech, tech.Bar)
	}
	if soft.Label != "SOFT" || soft.Bar.Band != "Good" || soft.Value != "50%" || soft.Bar.Width != 50 {
		t.Fatalf("unexpected soft row %+v %+v", soft, soft.Bar)
	}
}

func TestSkillsTabBarWidthIsCapped(t *testing.T) {
	vm := mustNormalize(t, `{"skills":{"coverage":{"cloud_native":140,"data":-5}}}`)
	v, _ := Render(vm, SkillsTab)
	cov := findSection(t, v, "Skill Coverage")
	if cov.Items[0].Label != "CLOUD NATIVE" || cov.Items[0].Bar.Width != 100 || cov.Items[0].Bar.Band != "Excellent" {
		t.Fatalf("unexpected row %+v %+v", cov.Items[0], cov.Items[0].Bar)
	}
	if cov.Items[1].Bar.Width != 0 {
		t.Fatalf("expected negative coverage to draw an empty bar, got %v", cov.Items[1].Bar.Width)
	}
}

func TestSkillsTabPresence(t *testing.T) {
	vm := mustNormalize(t, `{"skills":{"all_skills_with_presence":{"soft_skills":[{"name":"leadership","present_in_cv":true},{"name":"negotiation","present_in_cv":false}]}}}`)
	v, _ := Render(vm, SkillsTab)
	s := findSection(t, v, "Soft Skills")
	if s.Items[0].Value != "leadership ✓" || s.Items[1].Value != "negotiation" {
		t.Fatalf("unexpected presence items %+v", s.Items)
	}
}

func TestOverviewUsesAugmentedWeaknesses(t *testing.T) {
	vm := mustNormalize(t, `{"scores":{"overall":85,"weaknesses":["Weak summary"],"component_scores":{"keyword_match":90}},"skills":{"coverage":{"technical":0}}}`)
	v, _ := Render(vm, Overview)

	weak := findSection(t, v, "Weaknesses")
	if len(weak.Items) != len(vm.AllWeaknesses) {
		t.Fatalf("expected %d weaknesses, got %d", len(vm.AllWeaknesses), len(weak.Items))
	}
	if weak.Items[0].Highlight {
		t.Fatalf("plain weakness should not be highlighted")
	}
	if weak.Items[1].Value != "Missing Technical - Add relevant skills in this category." || !weak.Items[1].Highlight {
		t.Fatalf("unexpected synthesized weakness %+v", weak.Items[1])
	}

	comp := findSection(t, v, "Component Scores")
	if comp.Items[0].Label != "Keyword_match" || comp.Items[0].Value != "90 / 100" || comp.Items[0].Tone != report.ToneGood {
		t.Fatalf("unexpected component row %+v", comp.Items[0])
	}
	if s := findSection(t, v, "Strengths"); len(s.Items) != 0 || s.Empty != "No major strengths detected." {
		t.Fatalf("unexpected strengths %+v", s)
	}
}

func TestEmptyStates(t *testing.T) {
	vm := mustNormalize(t, `{}`)
	tests := []struct {
		tab     ID
		heading string
		empty   string
	}{
		{Overview, "Weaknesses", "No major weaknesses detected."},
		{Writing, "Suggestions", "No suggestions."},
		{Missing, "Missing Sections", "All main sections found."},
		{JD, "JD Matching", "No JD provided for matching."},
		{Recommendations, "Recommendations", "No recommendations at this time."},
	}
	for _, tt := range tests {
		v, err := Render(vm, tt.tab)
		if err != nil {
			t.Fatalf("Render %s: %v", tt.tab, err)
		}
		s := findSection(t, v, tt.heading)
		if len(s.Items) != 0 || s.Empty != tt.empty {
			t.Fatalf("%s: expected empty state %q, got %+v", tt.tab, tt.empty, s)
		}
	}
}

func TestExperienceTip(t *testing.T) {
	tip := "Tip: Add explicit years"
	for raw, wantTip := range map[string]bool{
		`{}`:                                 true,
		`{"scores":{"years_experience":0}}`:  true,
		`{"scores":{"years_experience":"6"}}`: false,
	} {
		v, _ := Render(mustNormalize(t, raw), Experience)
		note := findSection(t, v, "Years of Experience").Note
		if strings.Contains(note, tip) != wantTip {
			t.Fatalf("%s: tip present=%v, want %v", raw, !wantTip, wantTip)
		}
	}
	v, _ := Render(mustNormalize(t, `{}`), Experience)
	if got := findSection(t, v, "Resume Length").Items[0].Value; got != "- characters" {
		t.Fatalf("unexpected length %q", got)
	}
}

func TestWritingAndJDValues(t *testing.T) {
	vm := mustNormalize(t, `{"writing_quality":{"writing_score":64,"grammar_errors":2},"jd_matching":{"match_score":55,"perfect_matches":["go","sql"]}}`)
	w, _ := Render(vm, Writing)
	q := findSection(t, w, "Writing Quality")
	if q.Items[0].Value != "64 / 100" || q.Items[0].Tone != report.ToneFair || q.Items[1].Value != "2" {
		t.Fatalf("unexpected writing items %+v", q.Items)
	}
	j, _ := Render(vm, JD)
	items := findSection(t, j, "JD Matching").Items
	if items[0].Value != "55 / 100" || items[1].Value != "go, sql" || items[2].Value != "-" {
		t.Fatalf("unexpected jd items %+v", items)
	}
}

func TestRenderAllAndText(t *testing.T) {
	vm := mustNormalize(t, `{"filename":"cv.pdf","missing_sections":[{"section":"Projects","message":"Add projects."}]}`)
	views := RenderAll(vm)
	if len(views) != len(IDs) {
		t.Fatalf("expected %d views, got %d", len(IDs), len(views))
	}
	text := RenderText(views[4])
	for _, want := range []string{"Missing Sections", "Projects:", "Add projects."} {
		if !strings.Contains(text, want) {
			t.Fatalf("expected %q in output:\n%s", want, text)
		}
	}
	if text := RenderText(views[0]); !strings.Contains(text, "cv.pdf") {
		t.Fatalf("expected file name in overview:\n%s", text)
	}
}
