// Package badgerstore implements the Store interface on top of an embedded BadgerDB
// key-value database, keyed by each position's canonical FEN string (spec.md §6). It
// is grounded on hailam-chessplay/internal/storage/storage.go's badger.Open/.View/
// .Update pattern, repurposed here from user-preference storage to tablebase-entry
// storage: unlike store.MemStore/FileStore, it does not require the whole ~448k-entry
// tablebase to be resident in memory to serve a single Get, which suits a long-running
// query server (cmd/krk-server) better than a process that loads the full file once.
package badgerstore

import (
	"encoding/json"
	"fmt"

	"github.com/anbotka/krktable/pkg/board"
	"github.com/anbotka/krktable/pkg/position"
	"github.com/anbotka/krktable/pkg/tablebase"
	"github.com/dgraph-io/badger/v4"
	"github.com/seekerror/stdlib/pkg/lang"
)

// record is the JSON-on-disk shape of one Entry, keyed in Badger by canonical FEN.
// Unlike store.FileStore's fixed-width binary layout (spec.md §6's recommended wire
// format for the whole-file artifact), Badger owns its own on-disk format; this package
// only needs a per-value encoding, so JSON is the simplest choice and mirrors
// hailam-chessplay/internal/storage/storage.go's own json.Marshal/Unmarshal use.
type record struct {
	Mate bool `json:"mate"`
	DTM  int  `json:"dtm,omitempty"`
	From int  `json:"from,omitempty"`
	To   int  `json:"to,omitempty"`
	Move bool `json:"move,omitempty"`
}

// Store wraps a BadgerDB handle as a pkg/tablebase/store.Store.
type Store struct {
	db *badger.DB
}

// Open opens (creating if necessary) a Badger database at dir.
func Open(dir string) (*Store, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil // Disable Badger's own logging; this repo uses logw exclusively.

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger store at %v: %v", dir, err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Put(p *position.Position, e tablebase.Entry) error {
	rec := record{Mate: e.Value.Kind == tablebase.Mate, DTM: e.Value.DTM}
	if m, ok := e.Best.V(); ok {
		rec.Move = true
		rec.From = int(m.From)
		rec.To = int(m.To)
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to encode entry for %v: %v", p.FEN(), err)
	}

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(p.FEN()), data)
	})
}

func (s *Store) Get(p *position.Position) (tablebase.Entry, bool, error) {
	var e tablebase.Entry
	found := false

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(p.FEN()))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			var rec record
			if err := json.Unmarshal(val, &rec); err != nil {
				return err
			}
			e = toEntry(rec)
			found = true
			return nil
		})
	})
	if err != nil {
		return tablebase.Entry{}, false, fmt.Errorf("badger get failed for %v: %v", p.FEN(), err)
	}
	return e, found, nil
}

func (s *Store) Len() int {
	n := 0
	_ = s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			n++
		}
		return nil
	})
	return n
}

func (s *Store) Each(fn func(p *position.Position, e tablebase.Entry) error) error {
	return s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()

			p, err := position.FromFEN(string(item.KeyCopy(nil)))
			if err != nil {
				return fmt.Errorf("corrupt badger key: %v", err)
			}

			var e tablebase.Entry
			if err := item.Value(func(val []byte) error {
				var rec record
				if err := json.Unmarshal(val, &rec); err != nil {
					return err
				}
				e = toEntry(rec)
				return nil
			}); err != nil {
				return err
			}

			if err := fn(p, e); err != nil {
				return err
			}
		}
		return nil
	})
}

func toEntry(rec record) tablebase.Entry {
	if !rec.Mate {
		return tablebase.Entry{Value: tablebase.DrawValue}
	}
	e := tablebase.Entry{Value: tablebase.MateIn(rec.DTM)}
	if rec.Move {
		e.Best = lang.Some(board.Move{From: board.Square(rec.From), To: board.Square(rec.To)})
	}
	return e
}
