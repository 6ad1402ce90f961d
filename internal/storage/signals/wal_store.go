// Package signals persists emitted trade candidate records in a WAL so the
// dashboard can replay them and survive restarts.
package signals

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"github.com/vadiminshakov/gowal"

	"github.com/vadiminshakov/pipwatch/internal/domain"
)

const (
	// DefaultDir is where the signal journal lives unless overridden.
	DefaultDir = "./wal/signals"

	segmentLimit = 1000
	maxSegments  = 100

	signalKeyPrefix = "signal_"
)

// Record is one journaled signal with its WAL index.
type Record struct {
	Index  uint64             `json:"index"`
	Signal domain.TradeRecord `json:"signal"`
}

// WALStore persists trade candidate records in a WAL.
type WALStore struct {
	wal *gowal.Wal
	mu  sync.RWMutex
}

// NewWALStore initializes a WAL-backed signal journal in dir.
func NewWALStore(dir string) (*WALStore, error) {
	if dir == "" {
		dir = DefaultDir
	}

	cfg := gowal.Config{
		Dir:              dir,
		Prefix:           "signal_",
		SegmentThreshold: segmentLimit,
		MaxSegments:      maxSegments,
		IsInSyncDiskMode: true,
	}

	wal, err := gowal.NewWAL(cfg)
	if err != nil {
		return nil, errors.Wrap(err, "init signal WAL")
	}
	return &WALStore{wal: wal}, nil
}

// Save appends the record to the journal.
func (s *WALStore) Save(record domain.TradeRecord) error {
	if s == nil || s.wal == nil {
		return errors.New("signal store is not initialized")
	}
	if record.Symbol == "" {
		return errors.New("signal record symbol is required")
	}

	payload, err := json.Marshal(record)
	if err != nil {
		return errors.Wrap(err, "marshal signal record")
	}

	key := fmt.Sprintf("%s%s", signalKeyPrefix, record.Symbol)

	s.mu.Lock()
	defer s.mu.Unlock()

	nextIndex := s.wal.CurrentIndex() + 1
	return s.wal.Write(nextIndex, key, payload)
}

// RecordsAfter returns all signals written after the provided WAL index.
func (s *WALStore) RecordsAfter(index uint64) ([]Record, error) {
	if s == nil || s.wal == nil {
		return nil, errors.New("signal store is not initialized")
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	current := s.wal.CurrentIndex()
	if current <= index {
		return nil, nil
	}

	records := make([]Record, 0, current-index)
	for idx := index + 1; idx <= current; idx++ {
		key, payload, err := s.wal.Get(idx)
		if err != nil {
			continue
		}
		if !strings.HasPrefix(key, signalKeyPrefix) {
			continue
		}

		var signal domain.TradeRecord
		if err := json.Unmarshal(payload, &signal); err != nil {
			return nil, errors.Wrap(err, "decode signal record")
		}
		records = append(records, Record{Index: idx, Signal: signal})
	}
	return records, nil
}

// All returns every journaled signal in write order.
func (s *WALStore) All() ([]domain.TradeRecord, error) {
	records, err := s.RecordsAfter(0)
	if err != nil {
		return nil, err
	}
	signals := make([]domain.TradeRecord, len(records))
	for i, r := range records {
		signals[i] = r.Signal
	}
	return signals, nil
}

// CurrentIndex returns the latest WAL index stored.
func (s *WALStore) CurrentIndex() uint64 {
	if s == nil || s.wal == nil {
		return 0
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.wal.CurrentIndex()
}

// Close closes the underlying WAL.
func (s *WALStore) Close() error {
	if s == nil || s.wal == nil {
		return errors.New("signal store is not initialized")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.wal.Close()
}
