package export

import (
	"bytes"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
)

// Render serializes doc into memory.
func Render(doc Document) ([]byte, error) {
	var buf bytes.Buffer
	if err := doc.Encode(&buf); err != nil {
		return nil, NewEncodingError(doc.Format(), "", err)
	}

	return buf.Bytes(), nil
}

// WriteFile renders doc, compresses it and replaces path atomically.
// The compression suffix is appended to path; the final path is returned.
func WriteFile(path string, doc Document, comp Compression) (string, error) {
	data, err := Render(doc)
	if err != nil {
		return "", err
	}

	data, err = comp.Compress(data)
	if err != nil {
		return "", NewEncodingError(doc.Format(), filepath.Base(path), err)
	}

	path += comp.Suffix()
	if err := writeAtomic(path, data); err != nil {
		return "", err
	}

	log.Debug().
		Str("path", path).
		Str("format", string(doc.Format())).
		Int("bytes", len(data)).
		Msg("Export file written")

	return path, nil
}

// writeAtomic writes data to a temp file next to path and renames it over path.
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)

	f, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return NewIOError("create", path, err)
	}
	tmp := f.Name()

	// removes the temp file unless it was renamed
	defer func() {
		if _, statErr := os.Stat(tmp); statErr == nil {
			if rmErr := os.Remove(tmp); rmErr != nil {
				log.Error().Err(rmErr).Str("path", tmp).Msg("Failed to remove temp file")
			}
		}
	}()

	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return NewIOError("write", path, err)
	}
	if err := f.Close(); err != nil {
		return NewIOError("close", path, err)
	}
	if err := os.Chmod(tmp, 0644); err != nil {
		return NewIOError("chmod", path, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return NewIOError("rename", path, err)
	}

	return nil
}
