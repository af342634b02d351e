// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Tripled Contributors

package source

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/tripled-dev/tripled/internal/store"
	triplederr "github.com/tripled-dev/tripled/pkg/errors"
)

// Manifest describes a dataset shipped as one file per partition, the way
// knowledge-graph benchmarks distribute their train/valid/test splits:
//
//	name: fb15k-237
//	separator: "\t"
//	partitions:
//	  train: train.txt
//	  validation: valid.txt
//	  test: test.txt
type Manifest struct {
	Name       string            `yaml:"name"`
	Separator  string            `yaml:"separator"`
	Partitions map[string]string `yaml:"partitions"`

	// dir is where the manifest was loaded from; relative partition paths
	// resolve against it.
	dir string
}

// ManifestEntry is one partition and its resolved source path.
type ManifestEntry struct {
	Partition store.Partition
	Path      string
}

// LoadManifest reads and validates a dataset manifest.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, triplederr.Wrap(err, triplederr.CodeSourceOpenFailure, "reading manifest", triplederr.FieldPath(path))
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, triplederr.Wrap(err, triplederr.CodeSourceManifestInvalid, "parsing manifest", triplederr.FieldPath(path))
	}
	m.dir = filepath.Dir(path)

	if len(m.Partitions) == 0 {
		return nil, triplederr.New(triplederr.CodeSourceManifestInvalid, "manifest lists no partitions", triplederr.FieldPath(path))
	}
	normalized := make(map[string]string, len(m.Partitions))
	for key, file := range m.Partitions {
		p, err := store.ParsePartition(key)
		if err != nil {
			return nil, triplederr.Wrapf(err, triplederr.CodeSourceManifestInvalid, "manifest partition %q", key)
		}
		if file == "" {
			return nil, triplederr.Errorf(triplederr.CodeSourceManifestInvalid, "manifest partition %q has no file", key)
		}
		if _, dup := normalized[string(p)]; dup {
			return nil, triplederr.Errorf(triplederr.CodeSourceManifestInvalid, "manifest partition %q listed twice", p)
		}
		normalized[string(p)] = file
	}
	m.Partitions = normalized

	return &m, nil
}

// Entries returns the manifest's partitions in canonical order (train,
// validation, test), with relative paths resolved against the manifest's
// directory.
func (m *Manifest) Entries() []ManifestEntry {
	var entries []ManifestEntry
	for _, p := range store.Partitions() {
		file, ok := m.Partitions[string(p)]
		if !ok {
			continue
		}
		if !filepath.IsAbs(file) && m.dir != "" {
			file = filepath.Join(m.dir, file)
		}
		entries = append(entries, ManifestEntry{Partition: p, Path: file})
	}
	return entries
}

// Open builds a file producer for one manifest entry, applying the
// manifest's separator.
func (m *Manifest) Open(entry ManifestEntry, chunkSize int) (*File, error) {
	return Open(entry.Path, Options{Separator: m.Separator, ChunkSize: chunkSize})
}
