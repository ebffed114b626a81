package localstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
	_ "modernc.org/sqlite" // pure go sqlite driver
)

// Persistent store keys for the managed collections.
const (
	KeyCrops     = "crops"
	KeyInventory = "inventory"
)

// ErrNoData indicates no usable value exists for a key; callers fall back to
// their seed collection.
var ErrNoData = errors.New("localstore: no data for key")

// selfWriteWindow suppresses change notifications caused by our own saves.
const selfWriteWindow = time.Second

// Repository defines the key-value contract the collection services depend on.
type Repository interface {
	Load(ctx context.Context, key string, dest any) error
	Save(ctx context.Context, key string, collection any) error
	Subscribe(fn func())
}

// Store implements Repository on a single local SQLite database. Each value
// is one JSON array of entity objects stored as a string, so the on-disk
// contract stays a plain key-value string store. The full collection is
// overwritten on every save; there are no partial updates and no versioning.
type Store struct {
	db      *sql.DB
	path    string
	logger  *zap.Logger
	watcher *fsnotify.Watcher

	mu        sync.Mutex
	subs      []func()
	lastWrite time.Time

	done chan struct{}
}

// New opens (creating if needed) the database at path and starts watching it
// for modifications made by other processes.
func New(path string, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS state (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL
	)`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create state table: %w", err)
	}

	s := &Store{
		db:     db,
		path:   path,
		logger: logger,
		done:   make(chan struct{}),
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		logger.Warn("file watcher unavailable, external changes will not be picked up", zap.Error(err))
	} else if err := watcher.Add(filepath.Dir(path)); err != nil {
		logger.Warn("cannot watch data dir, external changes will not be picked up", zap.Error(err))
		_ = watcher.Close()
	} else {
		s.watcher = watcher
		go s.watchLoop()
	}

	return s, nil
}

// Load reads the collection stored under key into dest. A missing row and a
// corrupt value both yield ErrNoData; corruption is logged and treated as
// absent rather than failing the screen.
func (s *Store) Load(ctx context.Context, key string, dest any) error {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM state WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNoData
	}
	if err != nil {
		return fmt.Errorf("read key %s: %w", key, err)
	}

	if err := json.Unmarshal([]byte(value), dest); err != nil {
		s.logger.Warn("discarding corrupt persisted collection",
			zap.String("key", key),
			zap.Error(err))
		return ErrNoData
	}

	return nil
}

// Save serializes the full collection and overwrites any prior value.
func (s *Store) Save(ctx context.Context, key string, collection any) error {
	payload, err := json.Marshal(collection)
	if err != nil {
		return fmt.Errorf("encode key %s: %w", key, err)
	}

	s.mu.Lock()
	s.lastWrite = time.Now()
	s.mu.Unlock()

	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO state (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, string(payload)); err != nil {
		return fmt.Errorf("write key %s: %w", key, err)
	}

	return nil
}

// Subscribe registers fn to run whenever the database is modified by another
// process. Subscribers reload their collections wholesale; concurrent edits
// resolve last-writer-wins at full-collection granularity.
func (s *Store) Subscribe(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = append(s.subs, fn)
}

// Close stops the watcher and closes the database.
func (s *Store) Close() error {
	close(s.done)
	if s.watcher != nil {
		_ = s.watcher.Close()
	}
	return s.db.Close()
}

func (s *Store) watchLoop() {
	base := filepath.Base(s.path)

	for {
		select {
		case event, ok := <-s.watcher.Events:
			if !ok {
				return
			}
			// SQLite touches sidecar files (-wal, -journal) alongside the
			// database itself; match on the shared name prefix.
			if !event.Op.Has(fsnotify.Write) && !event.Op.Has(fsnotify.Create) {
				continue
			}
			if name := filepath.Base(event.Name); len(name) < len(base) || name[:len(base)] != base {
				continue
			}
			if s.recentOwnWrite() {
				continue
			}
			s.notify()
		case err, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
			s.logger.Warn("file watcher error", zap.Error(err))
		case <-s.done:
			return
		}
	}
}

func (s *Store) recentOwnWrite() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return time.Since(s.lastWrite) < selfWriteWindow
}

func (s *Store) notify() {
	s.mu.Lock()
	subs := make([]func(), len(s.subs))
	copy(subs, s.subs)
	s.mu.Unlock()

	s.logger.Info("store changed externally, reloading collections")
	for _, fn := range subs {
		fn()
	}
}
