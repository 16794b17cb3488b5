package analyzer

import (
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// MaxUploadBytes is the largest résumé accepted.
const MaxUploadBytes = 5 << 20

const (
	MimePDF  = "application/pdf"
	MimeDOC  = "application/msword"
	MimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

var allowedContentTypes = map[string]struct{}{
	MimePDF:  {},
	MimeDOC:  {},
	MimeDOCX: {},
}

// Upload is one résumé file plus the optional job description sent with it.
type Upload struct {
	FileName       string
	ContentType    string
	Data           []byte
	JobDescription string
}

// Validate checks presence, type and size in that order. On success
// ContentType holds the resolved media type.
func (u *Upload) Validate() error {
	if u == nil || (strings.TrimSpace(u.FileName) == "" && len(u.Data) == 0) {
		return &ValidationError{Message: MsgNoFile}
	}
	ct := DetectContentType(u.ContentType, u.Data)
	if _, ok := allowedContentTypes[ct]; !ok {
		return &ValidationError{Message: MsgUnsupportedType}
	}
	if len(u.Data) > MaxUploadBytes {
		return &ValidationError{Message: MsgTooLarge}
	}
	u.ContentType = ct
	return nil
}

// DetectContentType returns the declared media type, sniffing the content
// when the declaration is missing or generic.
func DetectContentType(declared string, data []byte) string {
	clean := baseType(declared)
	switch clean {
	case "", "application/octet-stream", "application/zip":
		if len(data) == 0 {
			return clean
		}
		return baseType(mimetype.Detect(data).String())
	default:
		return clean
	}
}

func baseType(ct string) string {
	return strings.ToLower(strings.TrimSpace(strings.Split(ct, ";")[0]))
}
