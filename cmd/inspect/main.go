package main

// Analyze a résumé or render a saved analysis from the command line:
//   go run ./cmd/inspect -file cv.pdf -tab all -out ./out
//   go run ./cmd/inspect -result analysis.json -tab skills

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"resume-inspector/internal/analyzer"
	"resume-inspector/internal/bootstrap"
	"resume-inspector/internal/report"
	"resume-inspector/internal/report/pdf"
	"resume-inspector/internal/report/tabs"
	"resume-inspector/internal/shared/config"
)

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout, config.Load()); err != nil {
		fmt.Fprintf(os.Stderr, "inspect: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout io.Writer, cfg config.Config) error {
	fs := flag.NewFlagSet("inspect", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	filePath := fs.String("file", "", "résumé to analyze (PDF, DOCX or DOC)")
	jdText := fs.String("jd", "", "job description sent with -file")
	resultPath := fs.String("result", "", "saved analysis JSON to render instead of calling the backend")
	tab := fs.String("tab", "overview", "tab to print, or \"all\"; empty prints nothing")
	outDir := fs.String("out", "", "directory to write the PDF report into")
	savePath := fs.String("save", "", "path to write the raw analysis JSON to")
	backend := fs.String("backend", cfg.AnalyzerURL, "analysis backend base URL")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if (*filePath == "") == (*resultPath == "") {
		return errors.New("exactly one of -file or -result is required")
	}

	var raw []byte
	var err error
	if *filePath != "" {
		raw, err = analyzeFile(ctx, *backend, *filePath, *jdText)
	} else {
		raw, err = os.ReadFile(*resultPath)
	}
	if err != nil {
		return err
	}

	vm, err := report.NormalizeJSON(raw)
	if err != nil {
		return fmt.Errorf("read analysis: %w", err)
	}

	if *savePath != "" {
		if err := writeFileAtomic(*savePath, raw); err != nil {
			return fmt.Errorf("save analysis: %w", err)
		}
	}

	if err := printTabs(stdout, vm, *tab); err != nil {
		return err
	}

	if *outDir != "" {
		data, err := pdf.NewGenerator(bootstrap.ReportOptions(cfg)).Generate(vm)
		if err != nil {
			return errors.New("Failed to generate PDF report. Please try again.")
		}
		target := filepath.Join(*outDir, pdf.FileName(vm.FileName))
		if err := writeFileAtomic(target, data); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
		fmt.Fprintf(stdout, "OK: wrote %s\n", target)
	}
	return nil
}

func analyzeFile(ctx context.Context, backend, path, jd string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	u := analyzer.Upload{
		FileName:       filepath.Base(path),
		Data:           data,
		JobDescription: jd,
	}
	raw, err := analyzer.NewClient(backend).Analyze(ctx, u)
	var verr *analyzer.ValidationError
	switch {
	case errors.As(err, &verr):
		return nil, errors.New(verr.Message)
	case err != nil:
		return nil, fmt.Errorf("Failed to analyze CV. Please try again. (%w)", err)
	}
	return raw, nil
}

func printTabs(w io.Writer, vm report.ViewModel, tab string) error {
	tab = strings.TrimSpace(tab)
	if tab == "" {
		return nil
	}
	var views []tabs.View
	if strings.EqualFold(tab, "all") {
		views = tabs.RenderAll(vm)
	} else {
		id, err := tabs.Parse(tab)
		if err != nil {
			return fmt.Errorf("%w: %s", err, tab)
		}
		v, err := tabs.Render(vm, id)
		if err != nil {
			return err
		}
		views = []tabs.View{v}
	}
	for _, v := range views {
		fmt.Fprintln(w, tabs.RenderText(v))
	}
	return nil
}

// writeFileAtomic writes through a temp file in the target directory so a
// failed write never leaves a partial file behind.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".inspect-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}
