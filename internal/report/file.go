package report

import (
	"context"
	"errors"
	"fmt"
	"os"
)

// FileReporter writes the two plain-text status artifacts the surrounding
// automation commits and renders: the numeric result (or ErrorLiteral) and
// the holdings source label.
type FileReporter struct {
	resultPath string
	sourcePath string
}

func NewFileReporter(resultPath, sourcePath string) *FileReporter {
	return &FileReporter{resultPath: resultPath, sourcePath: sourcePath}
}

func (f *FileReporter) Publish(ctx context.Context, o Outcome) error {
	return errors.Join(
		writeArtifact(f.resultPath, o.ResultValue()),
		writeArtifact(f.sourcePath, o.HoldingsSource),
	)
}

func writeArtifact(path, content string) error {
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
