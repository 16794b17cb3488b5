// Package pdf exports a report.ViewModel as a paginated A4 document.
//
// Export runs in two stages. layout places every section on an ordered list
// of pages using a single cursor; render then draws each page with the final
// page count already known, stamping the footer as it goes.
package pdf

import (
	"bytes"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/go-pdf/fpdf"

	"resume-inspector/internal/report"
)

// ErrGenerationFailed is returned when the document could not be built.
// No bytes are returned alongside it.
var ErrGenerationFailed = errors.New("report generation failed")

const DefaultAttribution = "Generated by Resume Inspector"

// Options tunes the export.
type Options struct {
	// Attribution is stamped in every page footer.
	Attribution string
	// LineFactor scales font size into the advance of one wrapped line.
	LineFactor float64
	// FontFamily must name a core fpdf font.
	FontFamily string
	// Compress enables stream compression.
	Compress bool
	// Now stamps the document creation date. Defaults to time.Now.
	Now func() time.Time
}

// DefaultOptions returns the stock export settings.
func DefaultOptions() Options {
	return Options{
		Attribution: DefaultAttribution,
		LineFactor:  0.4,
		FontFamily:  "Helvetica",
		Compress:    true,
		Now:         time.Now,
	}
}

// Generator builds PDF reports. It holds no per-document state and is safe
// for concurrent use.
type Generator struct {
	opts Options
}

// NewGenerator fills unset options from DefaultOptions.
func NewGenerator(opts Options) *Generator {
	def := DefaultOptions()
	if opts.Attribution == "" {
		opts.Attribution = def.Attribution
	}
	if opts.LineFactor <= 0 {
		opts.LineFactor = def.LineFactor
	}
	if opts.FontFamily == "" {
		opts.FontFamily = def.FontFamily
	}
	if opts.Now == nil {
		opts.Now = def.Now
	}
	return &Generator{opts: opts}
}

// Generate lays out and renders the report.
func (g *Generator) Generate(vm report.ViewModel) (out []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			out, err = nil, fmt.Errorf("%w: panic: %v", ErrGenerationFailed, r)
		}
	}()

	m, err := newFontMeasurer(g.opts.FontFamily)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}
	pages := layout(vm, g.opts, m)

	var buf bytes.Buffer
	if err := render(&buf, pages, g.opts); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}
	return buf.Bytes(), nil
}

func render(buf *bytes.Buffer, pages []page, opts Options) error {
	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetCompression(opts.Compress)
	doc.SetAutoPageBreak(false, 0)
	doc.SetCreator("Resume Inspector", true)
	doc.SetTitle("Resume Analysis Report", true)
	doc.SetCreationDate(opts.Now())
	tr := doc.UnicodeTranslatorFromDescriptor("")

	total := len(pages)
	for i, p := range pages {
		doc.AddPage()
		for _, op := range p.ops {
			switch op.kind {
			case opText:
				applyFont(doc, opts.FontFamily, op.font)
				doc.Text(op.x, op.y, tr(op.text))
			case opCircle:
				doc.SetDrawColor(op.stroke.r, op.stroke.g, op.stroke.b)
				if op.lineWidth > 0 {
					doc.SetLineWidth(op.lineWidth)
					doc.Circle(op.x, op.y, op.radius, "D")
				} else {
					doc.SetFillColor(op.fill.r, op.fill.g, op.fill.b)
					doc.Circle(op.x, op.y, op.radius, "F")
				}
			}
		}
		applyFont(doc, opts.FontFamily, font{size: 8, color: grey})
		doc.Text(pageWidth-30, pageHeight-10, FooterLabel(i+1, total))
		doc.Text(margin, pageHeight-10, tr(opts.Attribution))
		if doc.Err() {
			return doc.Error()
		}
	}
	return doc.Output(buf)
}

func applyFont(doc *fpdf.Fpdf, family string, f font) {
	style := ""
	if f.bold {
		style = "B"
	}
	doc.SetFont(family, style, f.size)
	doc.SetTextColor(f.color.r, f.color.g, f.color.b)
}

// FooterLabel is the page number stamped on page i of total.
func FooterLabel(i, total int) string {
	return fmt.Sprintf("Page %d of %d", i, total)
}

var extPattern = regexp.MustCompile(`\.[^/.]+$`)

// FileName derives the export name from the analysed file name.
func FileName(source string) string {
	return extPattern.ReplaceAllString(source, "") + "-analysis-report.pdf"
}

// fontMeasurer measures text with the core font metrics fpdf embeds.
type fontMeasurer struct {
	doc    *fpdf.Fpdf
	family string
	tr     func(string) string
}

func newFontMeasurer(family string) (*fontMeasurer, error) {
	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetFont(family, "", 12)
	if doc.Err() {
		return nil, doc.Error()
	}
	return &fontMeasurer{doc: doc, family: family, tr: doc.UnicodeTranslatorFromDescriptor("")}, nil
}

func (m *fontMeasurer) width(s string, f font) float64 {
	style := ""
	if f.bold {
		style = "B"
	}
	m.doc.SetFont(m.family, style, f.size)
	return m.doc.GetStringWidth(m.tr(s))
}
