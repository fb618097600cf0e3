package archive

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// #region constants

// ErrorTraceFileName is the archive member holding the raw error trace.
const ErrorTraceFileName = "error-trace.json"

var zipMagic = []byte("PK\x03\x04")

// #endregion constants

// #region read

// ReadErrorTrace returns the raw error trace content from a report artifact
// on disk: the named member of a zip archive, or the file itself when it is
// bare JSON.
func ReadErrorTrace(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read report artifact: %w", err)
	}
	if !bytes.HasPrefix(data, zipMagic) {
		return data, nil
	}

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open report archive %s: %w", path, err)
	}
	for _, f := range zr.File {
		if f.Name != ErrorTraceFileName {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("open archive member %s: %w", f.Name, err)
		}
		defer rc.Close()
		content, err := io.ReadAll(rc)
		if err != nil {
			return nil, fmt.Errorf("read archive member %s: %w", f.Name, err)
		}
		return content, nil
	}
	return nil, fmt.Errorf("archive %s has no %s member", path, ErrorTraceFileName)
}

// #endregion read

// #region dir-source

// DirSource resolves report identifiers to artifacts in a directory,
// trying <report>.zip and <report>.json in that order.
type DirSource struct {
	Dir string
}

// RawTrace fetches the raw error trace bytes for a report.
func (s DirSource) RawTrace(reportID string) ([]byte, error) {
	for _, ext := range []string{".zip", ".json"} {
		path := filepath.Join(s.Dir, reportID+ext)
		if _, err := os.Stat(path); err == nil {
			return ReadErrorTrace(path)
		}
	}
	return nil, fmt.Errorf("no artifact for report %s in %s", reportID, s.Dir)
}

// #endregion dir-source
