package util

import "testing"

func TestSanitizeFileName(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "cv-analysis-report.pdf", want: "cv-analysis-report.pdf"},
		{in: " jane/doe.pdf ", want: "jane_doe.pdf"},
		{in: `c:\cv.pdf`, want: "c:_cv.pdf"},
		{in: "../cv.pdf", wantErr: true},
		{in: "   ", wantErr: true},
	}
	for _, tt := range tests {
		got, err := SanitizeFileName(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Fatalf("SanitizeFileName(%q): expected error", tt.in)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Fatalf("SanitizeFileName(%q) = %q, %v; want %q", tt.in, got, err, tt.want)
		}
	}
}
