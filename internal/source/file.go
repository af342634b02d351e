// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Tripled Contributors

// Package source produces raw triples from tabular data. A producer is
// pull-based and single-pass: Next hands out one chunk at a time until
// io.EOF, and Reset rewinds to the beginning for the second pass that
// build-mode indexing needs.
package source

import (
	"bufio"
	"compress/gzip"
	"context"
	"io"
	"os"
	"strings"

	"github.com/tripled-dev/tripled/internal/store"
	triplederr "github.com/tripled-dev/tripled/pkg/errors"
)

// Compile-time interface check.
var _ store.Producer = (*File)(nil)

// maxLineBytes bounds a single input line; identifiers in knowledge-graph
// dumps are short, anything near this limit is a broken file.
const maxLineBytes = 1 << 20

// Options configures a file producer.
type Options struct {
	// Separator is the field separator. Empty means: comma for .csv
	// files, tab otherwise.
	Separator string
	// ChunkSize is the number of rows per chunk. Defaults to
	// store.DefaultChunkSize.
	ChunkSize int
}

// File reads a delimited text file (optionally gzip-compressed, by .gz
// suffix) as chunks of raw triples. Each non-blank line must split into
// exactly three non-empty fields.
type File struct {
	path      string
	sep       string
	chunkSize int

	f       *os.File
	gz      *gzip.Reader
	scanner *bufio.Scanner
	line    int
}

// Open prepares a file producer. The file is opened immediately so a
// missing or unreadable path fails here, not on the first Next.
func Open(path string, opts Options) (*File, error) {
	sep := opts.Separator
	if sep == "" {
		if strings.HasSuffix(strings.TrimSuffix(path, ".gz"), ".csv") {
			sep = ","
		} else {
			sep = "\t"
		}
	}
	chunkSize := opts.ChunkSize
	if chunkSize < 1 {
		chunkSize = store.DefaultChunkSize
	}

	p := &File{path: path, sep: sep, chunkSize: chunkSize}
	if err := p.open(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *File) open() error {
	f, err := os.Open(p.path)
	if err != nil {
		return triplederr.Wrap(err, triplederr.CodeSourceOpenFailure, "opening source file", triplederr.FieldPath(p.path))
	}

	var r io.Reader = f
	var gz *gzip.Reader
	if strings.HasSuffix(p.path, ".gz") {
		gz, err = gzip.NewReader(f)
		if err != nil {
			_ = f.Close()
			return triplederr.Wrap(err, triplederr.CodeSourceOpenFailure, "opening gzip source", triplederr.FieldPath(p.path))
		}
		r = gz
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	p.f = f
	p.gz = gz
	p.scanner = scanner
	p.line = 0
	return nil
}

// Next returns the next chunk of up to ChunkSize rows, or io.EOF once the
// file is exhausted. Blank lines are skipped; a line that does not split
// into exactly three non-empty fields fails the whole pass.
func (p *File) Next(ctx context.Context) ([]store.RawTriple, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if p.scanner == nil {
		return nil, io.EOF
	}

	rows := make([]store.RawTriple, 0, p.chunkSize)
	for len(rows) < p.chunkSize && p.scanner.Scan() {
		p.line++
		line := strings.TrimSpace(p.scanner.Text())
		if line == "" {
			continue
		}
		row, err := p.parseLine(line)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	if err := p.scanner.Err(); err != nil {
		return nil, triplederr.Wrap(err, triplederr.CodeSourceOpenFailure, "reading source file", triplederr.FieldPath(p.path))
	}
	if len(rows) == 0 {
		return nil, io.EOF
	}
	return rows, nil
}

func (p *File) parseLine(line string) (store.RawTriple, error) {
	parts := strings.Split(line, p.sep)
	if len(parts) != 3 {
		return store.RawTriple{}, triplederr.Errorf(triplederr.CodeSourceRowInvalid,
			"%s:%d: want 3 fields separated by %q, got %d", p.path, p.line, p.sep, len(parts))
	}
	var row store.RawTriple
	for i, part := range parts {
		field := strings.TrimSpace(part)
		if field == "" {
			return store.RawTriple{}, triplederr.Errorf(triplederr.CodeSourceRowInvalid,
				"%s:%d: field %d is empty", p.path, p.line, i+1)
		}
		row[i] = field
	}
	return row, nil
}

// Reset reopens the file so the source can be read again from the start.
func (p *File) Reset(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p.closeFile()
	return p.open()
}

// Close releases the underlying file.
func (p *File) Close() error {
	p.closeFile()
	return nil
}

func (p *File) closeFile() {
	if p.gz != nil {
		_ = p.gz.Close()
		p.gz = nil
	}
	if p.f != nil {
		_ = p.f.Close()
		p.f = nil
	}
	p.scanner = nil
}
