package pdf

import (
	"math"
	"strings"

	"resume-inspector/internal/report"
)

// A4 portrait, millimetres.
const (
	pageWidth     = 210.0
	pageHeight    = 297.0
	margin        = 20.0
	contentWidth  = pageWidth - 2*margin
	lineHeight    = 7.0
	sectionGap    = 15.0
	bottomReserve = 40.0
	scoreRadius   = 15.0
	maxFoundShown = 10
	bulletIndent  = 5.0
)

type rgb struct{ r, g, b int }

var (
	black    = rgb{0, 0, 0}
	navy     = rgb{26, 35, 126}
	slate    = rgb{90, 106, 133}
	grey     = rgb{128, 128, 128}
	ringFill = rgb{231, 236, 250}
	ringLine = rgb{75, 181, 67}
)

type font struct {
	size  float64
	bold  bool
	color rgb
}

type opKind int

const (
	opText opKind = iota
	opCircle
)

// drawOp is one primitive placed on a page.
type drawOp struct {
	kind opKind
	x, y float64
	text string
	font font

	radius    float64
	fill      rgb
	stroke    rgb
	lineWidth float64
}

type page struct {
	ops []drawOp
}

// measurer reports the rendered width of s in millimetres.
type measurer interface {
	width(s string, f font) float64
}

// layoutContext is the single cursor threaded through every emission.
type layoutContext struct {
	opts    Options
	measure measurer
	pages   []page
	y       float64
	font    font
}

func newLayout(opts Options, m measurer) *layoutContext {
	l := &layoutContext{opts: opts, measure: m, font: font{size: 12, color: black}}
	l.newPage()
	return l
}

func (l *layoutContext) newPage() {
	l.pages = append(l.pages, page{})
	l.y = margin
}

// breakIfNeeded starts a new page once the cursor passes the bottom reservation.
func (l *layoutContext) breakIfNeeded() {
	if l.y > pageHeight-bottomReserve {
		l.newPage()
	}
}

func (l *layoutContext) text(x float64, s string) {
	cur := &l.pages[len(l.pages)-1]
	cur.ops = append(cur.ops, drawOp{kind: opText, x: x, y: l.y, text: s, font: l.font})
}

func (l *layoutContext) header(title string) {
	l.breakIfNeeded()
	l.font = font{size: 16, bold: true, color: navy}
	l.text(margin, title)
	l.font = font{size: 16, color: black}
	l.y += lineHeight + 5
}

// wrapped emits s word-wrapped to maxWidth and advances the cursor by
// lines * size * LineFactor. A block that would cross the bottom reservation
// moves to a fresh page when it fits there; longer blocks continue line by line.
func (l *layoutContext) wrapped(x float64, s string, maxWidth, size float64) {
	l.font.size = size
	lines := wrap(s, maxWidth, l.font, l.measure)
	step := size * l.opts.LineFactor
	limit := pageHeight - bottomReserve
	span := float64(len(lines)-1) * step
	if l.y+span > limit && margin+span <= limit {
		l.newPage()
	}
	for _, line := range lines {
		if l.y > limit {
			l.newPage()
		}
		l.text(x, line)
		l.y += step
	}
}

func (l *layoutContext) scoreCircle(score report.Number) {
	cx, cy := margin+scoreRadius, l.y+scoreRadius
	cur := &l.pages[len(l.pages)-1]
	cur.ops = append(cur.ops,
		drawOp{kind: opCircle, x: cx, y: cy, radius: scoreRadius, fill: ringFill, stroke: ringFill},
		drawOp{kind: opCircle, x: cx, y: cy, radius: scoreRadius, stroke: ringLine, lineWidth: 2},
	)
	l.font = font{size: 10, bold: true, color: navy}
	saved := l.y
	l.y = cy + 2
	l.text(cx-3, ScoreLabel(score))
	l.y = saved
}

// ScoreLabel is the text drawn inside the score circle: the score clamped to
// [0,100], or "N/A" when there is no numeric score.
func ScoreLabel(score report.Number) string {
	if !score.Valid {
		return report.NotAvailable
	}
	return report.Num(math.Max(0, math.Min(score.Value, 100))).String()
}

// bullets emits one bullet per item with a page-break check before each.
func (l *layoutContext) bullets(items []string, empty string, wrapItems bool) {
	if len(items) == 0 {
		l.breakIfNeeded()
		l.text(margin, empty)
		l.y += lineHeight
		return
	}
	for _, item := range items {
		l.breakIfNeeded()
		if wrapItems {
			l.wrapped(margin+bulletIndent, "• "+item, contentWidth-bulletIndent, 10)
			l.y += 2
			continue
		}
		l.font.size = 10
		l.text(margin+bulletIndent, "• "+item)
		l.y += lineHeight
	}
}

// layout places every section of the report and returns the pages in order.
func layout(vm report.ViewModel, opts Options, m measurer) []page {
	l := newLayout(opts, m)

	l.font = font{size: 24, bold: true, color: navy}
	l.text(margin, "Resume Analysis Report")
	l.y += lineHeight + 10

	l.font = font{size: 12, color: slate}
	l.text(margin, "File: "+vm.FileName)
	l.y += lineHeight
	l.text(margin, "Analyzed: "+vm.AnalysisDate)
	l.y += sectionGap

	l.header("Overall Score")
	l.scoreCircle(vm.Scores.Overall)
	l.y += 40

	l.header("Component Scores")
	for _, c := range vm.Scores.Components {
		l.font = font{size: 11, bold: true, color: black}
		l.text(margin, report.HumanizeCategory(c.Name))
		l.font.bold = false
		l.text(margin+60, ": "+report.Percent(c.Score))
		l.y += lineHeight
	}
	l.y += sectionGap

	l.header("Experience & Education")
	l.font.size = 11
	l.text(margin, "Years of Experience: "+vm.Scores.YearsExperience.String())
	l.y += lineHeight
	l.text(margin, "Academic Level: "+vm.Scores.AcademicLevel)
	l.y += lineHeight
	l.text(margin, "Grade Level: "+vm.Scores.Grade)
	l.y += sectionGap

	l.header("Skills Analysis")
	l.font = font{size: 11, bold: true, color: black}
	l.text(margin, "Found Skills:")
	l.y += lineHeight
	l.font.bold = false
	if found := vm.Skills.Found; len(found) > 0 {
		shown := found
		if len(shown) > maxFoundShown {
			shown = shown[:maxFoundShown]
		}
		text := strings.Join(shown, ", ")
		if len(found) > maxFoundShown {
			text += "..."
		}
		l.wrapped(margin, text, contentWidth, 10)
		l.y += 5
	} else {
		l.text(margin, "No skills found")
		l.y += lineHeight
	}
	l.font.bold = true
	l.text(margin, "Skill Coverage by Category:")
	l.y += lineHeight
	l.font.bold = false
	for _, c := range vm.Skills.Coverage {
		l.text(margin, report.HumanizeCategory(c.Category)+": "+report.Percent(c.Percent))
		l.y += lineHeight
	}
	l.y += sectionGap

	l.header("Strengths")
	l.bullets(vm.Scores.Strengths, "No specific strengths identified", false)
	l.y += sectionGap

	l.header("Areas for Improvement")
	l.bullets(vm.AllWeaknesses, "No specific areas for improvement identified", false)
	l.y += sectionGap

	l.header("Recommendations")
	l.bullets(vm.Recommendations, "No specific recommendations available", true)

	return l.pages
}
