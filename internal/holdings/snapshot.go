package holdings

import (
	"context"
	"fmt"
	"os"

	"github.com/jhagglund/navpulse/internal/models"
)

// SnapshotCSVSource reads the bundled CSV snapshot shipped with the
// deployment, the last resort when every live source fails.
type SnapshotCSVSource struct {
	path string
}

func NewSnapshotCSVSource(path string) *SnapshotCSVSource {
	return &SnapshotCSVSource{path: path}
}

func (s *SnapshotCSVSource) Label() string { return "local-csv" }

func (s *SnapshotCSVSource) Load(ctx context.Context) ([]models.Holding, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("%w: open snapshot %s: %v", ErrSourceUnavailable, s.path, err)
	}
	defer f.Close()

	hs, err := parseCSVTable(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}
	return hs, nil
}
