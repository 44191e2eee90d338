package metastore

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/npillmayer/scorekit/segment"
	"gopkg.in/yaml.v3"
)

// MetadataFile is the name of the metadata file in a segment directory.
const MetadataFile = "metadata.yaml"

// FileStore keeps the metadata of every segment in <dir>/<segment>/metadata.yaml.
type FileStore struct {
	dir string
}

var _ Store = (*FileStore)(nil)

// NewFileStore creates a file store rooted at dir. The directory is created
// if it does not exist.
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("store directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create store directory: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) path(name string) string {
	return filepath.Join(s.dir, name, MetadataFile)
}

// Load reads the metadata of a segment.
func (s *FileStore) Load(name string) (segment.Metadata, error) {
	var md segment.Metadata
	if err := checkName(name); err != nil {
		return md, err
	}
	data, err := os.ReadFile(s.path(name))
	if errors.Is(err, fs.ErrNotExist) {
		return md, fmt.Errorf("segment %s: %w", name, ErrNotFound)
	} else if err != nil {
		return md, err
	}
	if err := yaml.Unmarshal(data, &md); err != nil {
		return md, fmt.Errorf("segment %s: decode metadata: %w", name, err)
	}
	return md, nil
}

// Save writes the metadata of a segment, replacing earlier metadata.
func (s *FileStore) Save(name string, md segment.Metadata) error {
	if err := checkName(name); err != nil {
		return err
	}
	data, err := yaml.Marshal(&md)
	if err != nil {
		return fmt.Errorf("segment %s: encode metadata: %w", name, err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path(name)), 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(s.path(name), data, 0o644); err != nil {
		return err
	}
	tracer().Debugf("metadata of segment %s written to %s", name, s.path(name))
	return nil
}

// Names lists the segments with stored metadata, sorted.
func (s *FileStore) Names() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if _, err := os.Stat(s.path(e.Name())); err == nil {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// Close is a no-op for file stores.
func (s *FileStore) Close() error { return nil }
