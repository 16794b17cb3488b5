package analyzer

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
)

// formOverhead leaves room for multipart framing and the jd_text field.
const formOverhead = 1 << 20

// UploadFromRequest reads the multipart "file" and "jd_text" fields. A
// missing file yields an empty Upload so Validate reports it. Oversized
// bodies are reported as a validation error without being read in full.
func UploadFromRequest(c *gin.Context) (Upload, error) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, MaxUploadBytes+formOverhead)

	fh, err := c.FormFile("file")
	if err != nil {
		var tooBig *http.MaxBytesError
		switch {
		case errors.As(err, &tooBig):
			return Upload{}, &ValidationError{Message: MsgTooLarge}
		case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
			return Upload{JobDescription: c.PostForm("jd_text")}, nil
		default:
			return Upload{}, fmt.Errorf("read upload: %w", err)
		}
	}

	u := Upload{
		FileName:       fh.Filename,
		ContentType:    fh.Header.Get("Content-Type"),
		JobDescription: c.PostForm("jd_text"),
	}
	if fh.Size > MaxUploadBytes {
		return u, &ValidationError{Message: MsgTooLarge}
	}

	f, err := fh.Open()
	if err != nil {
		return u, fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, MaxUploadBytes+1))
	if err != nil {
		return u, fmt.Errorf("read upload: %w", err)
	}
	u.Data = data
	return u, nil
}
