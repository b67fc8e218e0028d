package textract

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"EditalScanner/internal/domain"
	"EditalScanner/internal/ports"
)

// FileExtractor serves pre-extracted notice text from a local
// directory, one <id>.txt per notice. Useful for reprocessing and for
// running the pipeline off a manual download.
type FileExtractor struct {
	dir string
}

var _ ports.TextExtractor = (*FileExtractor)(nil)

// NewFileExtractor points at the directory of .txt files.
func NewFileExtractor(dir string) *FileExtractor {
	return &FileExtractor{dir: dir}
}

// Text reads the notice text file.
func (f *FileExtractor) Text(ctx context.Context, notice domain.Notice) (string, error) {
	name := strings.NewReplacer("/", "_", "\\", "_").Replace(notice.ID) + ".txt"
	raw, err := os.ReadFile(filepath.Join(f.dir, name))
	if err != nil {
		return "", fmt.Errorf("read notice text %s: %w", notice.ID, err)
	}
	return string(raw), nil
}
