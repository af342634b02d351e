// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Tripled Contributors

package indexer

import (
	"encoding/binary"
	"errors"
	"fmt"
	"log/slog"

	badger "github.com/dgraph-io/badger/v4"

	"github.com/tripled-dev/tripled/internal/store"
	triplederr "github.com/tripled-dev/tripled/pkg/errors"
)

// Compile-time interface check.
var _ store.Indexer = (*Badger)(nil)

// Key layout. Forward keys carry the raw identifier, reverse keys an 8-byte
// big-endian id, so neither side needs a separator.
var (
	keyEntityFwd   = []byte("ef/")
	keyEntityRev   = []byte("er/")
	keyRelationFwd = []byte("rf/")
	keyRelationRev = []byte("rr/")
	keyMetaEnts    = []byte("m/entities")
	keyMetaRels    = []byte("m/relations")
	keyMetaFrozen  = []byte("m/frozen")
)

// Badger is a BadgerDB-backed Indexer. The mapping survives between process
// runs, so a store populated in one run can be extended or read back in
// another without rebuilding the mapping from the source.
type Badger struct {
	db            *badger.DB
	entityCount   int64
	relationCount int64
	frozen        bool
}

// BadgerOptions configures the persistent Indexer.
type BadgerOptions struct {
	// Dir is the directory for the mapping files. Required unless InMemory.
	Dir string
	// InMemory runs badger without disk persistence. Useful for exercising
	// the real engine in tests.
	InMemory bool
	// Logger receives badger's error and warning output. Defaults to
	// slog.Default().
	Logger *slog.Logger
}

// OpenBadger opens (or creates) a persistent Indexer in opts.Dir and loads
// its counters and frozen flag.
func OpenBadger(opts BadgerOptions) (*Badger, error) {
	if !opts.InMemory && opts.Dir == "" {
		return nil, triplederr.New(triplederr.CodeIndexerBackendFailure, "badger indexer: Dir is required for on-disk mode")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	dbOpts := badger.DefaultOptions(opts.Dir).WithLogger(badgerLogger{logger})
	if opts.InMemory {
		dbOpts = dbOpts.WithInMemory(true)
	}
	db, err := badger.Open(dbOpts)
	if err != nil {
		return nil, triplederr.Wrap(err, triplederr.CodeIndexerBackendFailure, "opening badger indexer", triplederr.FieldPath(opts.Dir))
	}

	b := &Badger{db: db}
	if err := b.loadMeta(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return b, nil
}

func (b *Badger) loadMeta() error {
	return b.wrapBackend(b.db.View(func(txn *badger.Txn) error {
		var err error
		if b.entityCount, err = readCounter(txn, keyMetaEnts); err != nil {
			return err
		}
		if b.relationCount, err = readCounter(txn, keyMetaRels); err != nil {
			return err
		}
		_, err = txn.Get(keyMetaFrozen)
		switch {
		case err == nil:
			b.frozen = true
		case errors.Is(err, badger.ErrKeyNotFound):
			// Fresh or still-building mapping.
		default:
			return err
		}
		return nil
	}), "loading indexer metadata")
}

func (b *Badger) Add(rows []store.RawTriple) error {
	if b.frozen {
		return triplederr.New(triplederr.CodeIndexerInconsistent, "mapping is frozen, cannot add identifiers")
	}

	// Discover unseen identifiers first, assigning ids in first-seen order,
	// then write every new pair in one batch.
	newEnts := make(map[string]int64)
	newRels := make(map[string]int64)
	err := b.db.View(func(txn *badger.Txn) error {
		nextEnt := b.entityCount
		nextRel := b.relationCount
		for _, row := range rows {
			for _, raw := range []string{row[0], row[2]} {
				if _, seen := newEnts[raw]; seen {
					continue
				}
				if known, err := hasKey(txn, fwdKey(keyEntityFwd, raw)); err != nil {
					return err
				} else if !known {
					newEnts[raw] = nextEnt
					nextEnt++
				}
			}
			raw := row[1]
			if _, seen := newRels[raw]; seen {
				continue
			}
			if known, err := hasKey(txn, fwdKey(keyRelationFwd, raw)); err != nil {
				return err
			} else if !known {
				newRels[raw] = nextRel
				nextRel++
			}
		}
		return nil
	})
	if err != nil {
		return b.wrapBackend(err, "scanning identifiers")
	}
	if len(newEnts) == 0 && len(newRels) == 0 {
		return nil
	}

	wb := b.db.NewWriteBatch()
	defer wb.Cancel()
	for raw, id := range newEnts {
		if err := wb.Set(fwdKey(keyEntityFwd, raw), encodeID(id)); err != nil {
			return b.wrapBackend(err, "writing entity mapping")
		}
		if err := wb.Set(revKey(keyEntityRev, id), []byte(raw)); err != nil {
			return b.wrapBackend(err, "writing entity mapping")
		}
	}
	for raw, id := range newRels {
		if err := wb.Set(fwdKey(keyRelationFwd, raw), encodeID(id)); err != nil {
			return b.wrapBackend(err, "writing relation mapping")
		}
		if err := wb.Set(revKey(keyRelationRev, id), []byte(raw)); err != nil {
			return b.wrapBackend(err, "writing relation mapping")
		}
	}
	if err := wb.Set(keyMetaEnts, encodeID(b.entityCount+int64(len(newEnts)))); err != nil {
		return b.wrapBackend(err, "writing counters")
	}
	if err := wb.Set(keyMetaRels, encodeID(b.relationCount+int64(len(newRels)))); err != nil {
		return b.wrapBackend(err, "writing counters")
	}
	if err := wb.Flush(); err != nil {
		return b.wrapBackend(err, "flushing mapping batch")
	}

	b.entityCount += int64(len(newEnts))
	b.relationCount += int64(len(newRels))
	return nil
}

func (b *Badger) Freeze() error {
	err := b.db.Update(func(txn *badger.Txn) error {
		return txn.Set(keyMetaFrozen, []byte{1})
	})
	if err != nil {
		return b.wrapBackend(err, "freezing mapping")
	}
	b.frozen = true
	return nil
}

func (b *Badger) Frozen() bool {
	return b.frozen
}

func (b *Badger) Index(rows []store.RawTriple) ([]store.Triple, error) {
	if !b.frozen {
		return nil, triplederr.New(triplederr.CodeIndexerNotBuilt, "mapping is not frozen yet")
	}
	out := make([]store.Triple, len(rows))
	err := b.db.View(func(txn *badger.Txn) error {
		for i, row := range rows {
			s, err := lookupID(txn, keyEntityFwd, "entity", row[0])
			if err != nil {
				return err
			}
			p, err := lookupID(txn, keyRelationFwd, "relation", row[1])
			if err != nil {
				return err
			}
			o, err := lookupID(txn, keyEntityFwd, "entity", row[2])
			if err != nil {
				return err
			}
			out[i] = store.Triple{Subject: s, Predicate: p, Object: o}
		}
		return nil
	})
	if err != nil {
		if triplederr.IsInconsistentIndexer(err) {
			return nil, err
		}
		return nil, b.wrapBackend(err, "translating rows")
	}
	return out, nil
}

func (b *Badger) Entity(id int64) (string, error) {
	return b.reverse(keyEntityRev, "entity", id, b.entityCount)
}

func (b *Badger) Relation(id int64) (string, error) {
	return b.reverse(keyRelationRev, "relation", id, b.relationCount)
}

func (b *Badger) reverse(prefix []byte, kind string, id, count int64) (string, error) {
	if id < 0 || id >= count {
		return "", triplederr.Errorf(triplederr.CodeIndexerInconsistent, "%s id %d out of range [0, %d)", kind, id, count)
	}
	var raw string
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(revKey(prefix, id))
		if err != nil {
			return err
		}
		val, err := item.ValueCopy(nil)
		if err != nil {
			return err
		}
		raw = string(val)
		return nil
	})
	if err != nil {
		return "", b.wrapBackend(err, "reverse lookup")
	}
	return raw, nil
}

func (b *Badger) EntityCount() int64 {
	return b.entityCount
}

func (b *Badger) RelationCount() int64 {
	return b.relationCount
}

func (b *Badger) Close() error {
	return b.db.Close()
}

func (b *Badger) wrapBackend(err error, msg string) error {
	if err == nil {
		return nil
	}
	return triplederr.Wrap(err, triplederr.CodeIndexerBackendFailure, msg)
}

func fwdKey(prefix []byte, raw string) []byte {
	return append(append([]byte{}, prefix...), raw...)
}

func revKey(prefix []byte, id int64) []byte {
	k := make([]byte, len(prefix)+8)
	copy(k, prefix)
	binary.BigEndian.PutUint64(k[len(prefix):], uint64(id))
	return k
}

func encodeID(id int64) []byte {
	v := make([]byte, 8)
	binary.BigEndian.PutUint64(v, uint64(id))
	return v
}

func hasKey(txn *badger.Txn, key []byte) (bool, error) {
	_, err := txn.Get(key)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, badger.ErrKeyNotFound):
		return false, nil
	default:
		return false, err
	}
}

func lookupID(txn *badger.Txn, prefix []byte, kind, raw string) (int64, error) {
	item, err := txn.Get(fwdKey(prefix, raw))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return 0, triplederr.Errorf(triplederr.CodeIndexerInconsistent, "unknown %s %q", kind, raw)
	}
	if err != nil {
		return 0, err
	}
	val, err := item.ValueCopy(nil)
	if err != nil {
		return 0, err
	}
	return int64(binary.BigEndian.Uint64(val)), nil
}

func readCounter(txn *badger.Txn, key []byte) (int64, error) {
	item, err := txn.Get(key)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	val, err := item.ValueCopy(nil)
	if err != nil {
		return 0, err
	}
	return int64(binary.BigEndian.Uint64(val)), nil
}

// badgerLogger routes badger's output to slog, dropping info and debug
// noise the way the rest of the system logs.
type badgerLogger struct {
	l *slog.Logger
}

func (b badgerLogger) Errorf(f string, v ...interface{})   { b.l.Error(fmt.Sprintf("badger: "+f, v...)) }
func (b badgerLogger) Warningf(f string, v ...interface{}) { b.l.Warn(fmt.Sprintf("badger: "+f, v...)) }
func (b badgerLogger) Infof(string, ...interface{})        {}
func (b badgerLogger) Debugf(string, ...interface{})       {}
