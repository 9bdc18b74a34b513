package snapshot

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/ajitpratap0/leasepool/pkg/compression"
	"github.com/ajitpratap0/leasepool/pkg/poolerrors"
)

// FileStoreConfig configures a FileStore.
type FileStoreConfig struct {
	// Dir is the directory snapshots are written to. It is created if it
	// does not exist.
	Dir string

	// Compression selects the codec applied to snapshot bytes on disk.
	// Defaults to no compression.
	Compression compression.Algorithm

	// Extension is the snapshot file extension. Defaults to ".snap".
	Extension string
}

// FileStore persists snapshots as files in a directory. Writes are atomic:
// the snapshot is written to a temporary file and renamed into place, so a
// crash mid-write never corrupts the previous snapshot.
type FileStore struct {
	dir       string
	extension string
	codec     compression.Codec
}

// NewFileStore creates a file-backed snapshot store, creating the directory
// if needed.
func NewFileStore(cfg FileStoreConfig) (*FileStore, error) {
	if cfg.Dir == "" {
		return nil, poolerrors.New(poolerrors.ErrorTypeConfig, "snapshot directory must be set")
	}
	if cfg.Extension == "" {
		cfg.Extension = ".snap"
	}
	if cfg.Compression == "" {
		cfg.Compression = compression.None
	}

	codec, err := compression.NewCodec(cfg.Compression)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, poolerrors.Wrap(err, poolerrors.ErrorTypeInternal, "failed to create snapshot directory").
			WithDetail("dir", cfg.Dir)
	}

	return &FileStore{
		dir:       cfg.Dir,
		extension: cfg.Extension,
		codec:     codec,
	}, nil
}

// Save implements Store.
func (s *FileStore) Save(name string, data []byte) error {
	packed, err := s.codec.Encode(data)
	if err != nil {
		return poolerrors.Wrap(err, poolerrors.ErrorTypeInternal, "failed to compress snapshot").
			WithDetail("snapshot", name)
	}

	path := s.path(name)
	tmp, err := os.CreateTemp(s.dir, name+".tmp-*")
	if err != nil {
		return poolerrors.Wrap(err, poolerrors.ErrorTypeInternal, "failed to create snapshot temp file").
			WithDetail("snapshot", name)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(packed); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return poolerrors.Wrap(err, poolerrors.ErrorTypeInternal, "failed to write snapshot").
			WithDetail("snapshot", name)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return poolerrors.Wrap(err, poolerrors.ErrorTypeInternal, "failed to close snapshot temp file").
			WithDetail("snapshot", name)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return poolerrors.Wrap(err, poolerrors.ErrorTypeInternal, "failed to move snapshot into place").
			WithDetail("snapshot", name)
	}
	return nil
}

// Load implements Store.
func (s *FileStore) Load(name string) ([]byte, error) {
	packed, err := os.ReadFile(s.path(name))
	if err != nil {
		return nil, poolerrors.Wrap(err, poolerrors.ErrorTypeInternal, "failed to read snapshot").
			WithDetail("snapshot", name)
	}
	data, err := s.codec.Decode(packed)
	if err != nil {
		return nil, poolerrors.Wrap(err, poolerrors.ErrorTypeInternal, "failed to decompress snapshot").
			WithDetail("snapshot", name)
	}
	return data, nil
}

// Delete implements Store.
func (s *FileStore) Delete(name string) error {
	err := os.Remove(s.path(name))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return poolerrors.Wrap(err, poolerrors.ErrorTypeInternal, "failed to delete snapshot").
			WithDetail("snapshot", name)
	}
	return nil
}

// List returns the names of all snapshots in the store.
func (s *FileStore) List() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, poolerrors.Wrap(err, poolerrors.ErrorTypeInternal, "failed to list snapshots").
			WithDetail("dir", s.dir)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if filepath.Ext(entry.Name()) == s.extension {
			names = append(names, entry.Name()[:len(entry.Name())-len(s.extension)])
		}
	}
	return names, nil
}

func (s *FileStore) path(name string) string {
	return filepath.Join(s.dir, name+s.extension)
}
