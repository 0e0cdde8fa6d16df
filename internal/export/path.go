package export

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
)

// Output describes where one export is written.
type Output struct {
	Root    string // Output root directory
	Name    string // Logical file name without extension
	Format  Format // Export format, also the default subdirectory
	Subpath string // Optional subdirectory replacing the format name
}

// ResolvePath returns the absolute path Root/(Subpath|Format)/Name.ext and
// creates the missing directories. Calling it repeatedly is safe.
func ResolvePath(out Output) (string, error) {
	if out.Name == "" {
		return "", fmt.Errorf("resolve output path: empty file name")
	}

	root, err := filepath.Abs(out.Root)
	if err != nil {
		return "", NewIOError("abs", out.Root, err)
	}

	subpath := out.Subpath
	if subpath == "" {
		subpath = out.Format.Extension()
	}

	dir := filepath.Join(root, subpath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", NewIOError("mkdir", dir, err)
	}

	path := filepath.Join(dir, out.Name+"."+out.Format.Extension())
	log.Trace().Str("path", path).Msg("Output path resolved")

	return path, nil
}
