package snapshot

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	interfaces "github.com/sheikh-saqib/zenith-bank-ledger/internal/interfaces"
	"github.com/sheikh-saqib/zenith-bank-ledger/internal/models"
)

// FileStore keeps the snapshot in a JSON file. Writes go to path+".tmp" first
// and are renamed over the target, so a crash never leaves a torn file.
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// LoadSnapshot returns nil, nil when the file does not exist yet.
func (f *FileStore) LoadSnapshot(ctx context.Context) (*models.Snapshot, error) {
	raw, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("error reading %s: %w", f.path, err)
	}
	return Decode(raw)
}

func (f *FileStore) SaveSnapshot(ctx context.Context, snap models.Snapshot) error {
	raw, err := Encode(snap)
	if err != nil {
		return fmt.Errorf("error encoding snapshot: %w", err)
	}

	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o600); err != nil {
		return fmt.Errorf("error writing %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("error replacing %s: %w", f.path, err)
	}
	return nil
}

var _ interfaces.SnapshotStore = (*FileStore)(nil)
