/*
Package metastore stores the metadata of finished segments, so that a
segment can continue from the one before it.

Two stores are provided: a FileStore writing one YAML file per segment, and
an SQLStore keeping metadata in an SQLite database together with a ledger
of builds.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package metastore

import (
	"errors"
	"fmt"
	"strings"

	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/scorekit/segment"
)

// tracer writes to trace with key 'scorekit.metastore'
func tracer() tracing.Trace {
	return tracing.Select("scorekit.metastore")
}

// ErrNotFound is returned when no metadata is stored for a segment.
var ErrNotFound = errors.New("segment metadata not found")

// Store loads and saves segment metadata by segment name.
type Store interface {
	Load(name string) (segment.Metadata, error)
	Save(name string, md segment.Metadata) error
	Names() ([]string, error)
	Close() error
}

// checkName rejects segment names which cannot serve as a file name.
func checkName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("segment name is required")
	}
	if strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return fmt.Errorf("invalid segment name %q", name)
	}
	return nil
}
