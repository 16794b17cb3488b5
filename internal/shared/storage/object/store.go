package object

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"

	"resume-inspector/internal/shared/util"
)

// ErrNotFound is returned by Open when no object exists under the key.
var ErrNotFound = errors.New("object not found")

// ObjectStore defines the contract for saving and retrieving binary objects.
type ObjectStore interface {
	Put(ctx context.Context, storageKey string, contentType string, r io.Reader) (sizeBytes int64, err error)
	Open(ctx context.Context, storageKey string) (io.ReadCloser, error)
}

// ReportKey builds the archive key of an exported report:
// reports/<hashed session>/<export id>/<file name>.
func ReportKey(sessionID, exportID, fileName string) (string, error) {
	name, err := util.SanitizeFileName(fileName)
	if err != nil {
		return "", fmt.Errorf("report key: %w", err)
	}
	if exportID == "" {
		return "", errors.New("report key: empty export id")
	}
	return path.Join("reports", util.HashSessionKey(sessionID), exportID, name), nil
}
