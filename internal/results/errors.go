package results

import "errors"

var (
	ErrNotFound    = errors.New("not found")
	ErrNoData      = errors.New("no analysis data")
	ErrBusy        = errors.New("operation already in progress")
	ErrNotArchived = errors.New("report was not archived")
)

// Messages shown to the user.
const (
	MsgNoData        = "No analysis data found. Please upload your CV first."
	MsgAnalyzeFailed = "Failed to analyze CV. Please try again."
	MsgExportFailed  = "Failed to generate PDF report. Please try again."
	MsgBusy          = "Another request for this session is still running. Please wait."
)
