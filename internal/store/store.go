package store

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/goccy/go-json"
	bolt "go.etcd.io/bbolt"

	"github.com/mmcdole/cinematch/internal/domain"
)

// Bucket names
var (
	bucketOverviews = []byte("overviews")
	bucketLists     = []byte("lists")
)

var allBuckets = [][]byte{bucketOverviews, bucketLists}

// snapshotRecord is the persisted form of a list snapshot
type snapshotRecord struct {
	Movies  []movieRecord `json:"movies"`
	SavedAt int64         `json:"saved_at"`
}

type movieRecord struct {
	ID        string   `json:"id,omitempty"`
	Title     string   `json:"title"`
	PosterURL string   `json:"poster_url,omitempty"`
	Year      string   `json:"year,omitempty"`
	Genres    []string `json:"genres,omitempty"`
	Rating    *float64 `json:"rating,omitempty"`
	Language  string   `json:"language,omitempty"`
	Cast      []string `json:"cast,omitempty"`
	Directors []string `json:"directors,omitempty"`
	Overview  string   `json:"overview,omitempty"`
}

// MovieStore implements domain.Store using BoltDB.
type MovieStore struct {
	db *bolt.DB
	mu sync.RWMutex // Protects memory cache

	// In-memory cache for hot-path reads (promoted on access)
	cache map[string][]byte
}

var _ domain.Store = (*MovieStore)(nil)

// NewMovieStore opens the cache for one API origin. An empty baseCacheDir
// keeps everything in memory.
func NewMovieStore(baseCacheDir, apiURL string) (*MovieStore, error) {
	if baseCacheDir == "" {
		// Memory-only mode (no persistence)
		return &MovieStore{cache: make(map[string][]byte)}, nil
	}

	dir := baseCacheDir
	if apiURL != "" {
		dir = filepath.Join(baseCacheDir, hashAPIURL(apiURL))
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	dbPath := filepath.Join(dir, "cinematch.db")
	db, err := bolt.Open(dbPath, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range allBuckets {
			if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &MovieStore{db: db, cache: make(map[string][]byte)}, nil
}

func hashAPIURL(apiURL string) string {
	normalized := strings.TrimRight(strings.ToLower(apiURL), "/")
	hash := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(hash[:6])
}

func (s *MovieStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// === Generic helpers ===

func (s *MovieStore) get(bucket []byte, key string, dest any) bool {
	cacheKey := string(bucket) + ":" + key

	// Check memory cache first
	s.mu.RLock()
	if data, ok := s.cache[cacheKey]; ok {
		s.mu.RUnlock()
		return json.Unmarshal(data, dest) == nil
	}
	s.mu.RUnlock()

	if s.db == nil {
		return false
	}

	var data []byte
	s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucket)
		if b == nil {
			return nil
		}
		if v := b.Get([]byte(key)); v != nil {
			data = make([]byte, len(v))
			copy(data, v)
		}
		return nil
	})

	if data == nil {
		return false
	}

	// Promote to memory cache
	s.mu.Lock()
	s.cache[cacheKey] = data
	s.mu.Unlock()

	return json.Unmarshal(data, dest) == nil
}

func (s *MovieStore) set(bucket []byte, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	cacheKey := string(bucket) + ":" + key

	s.mu.Lock()
	s.cache[cacheKey] = data
	s.mu.Unlock()

	if s.db == nil {
		return nil // Memory-only mode
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucket)
		return b.Put([]byte(key), data)
	})
}

func (s *MovieStore) delete(bucket []byte, key string) {
	cacheKey := string(bucket) + ":" + key

	s.mu.Lock()
	delete(s.cache, cacheKey)
	s.mu.Unlock()

	if s.db == nil {
		return
	}

	s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucket)
		if b != nil {
			b.Delete([]byte(key))
		}
		return nil
	})
}

// === Overviews ===

func (s *MovieStore) GetOverview(movieID string) (string, bool) {
	if movieID == "" {
		return "", false
	}
	var overview string
	ok := s.get(bucketOverviews, movieID, &overview)
	return overview, ok && overview != ""
}

func (s *MovieStore) SaveOverview(movieID, overview string) error {
	if movieID == "" || overview == "" {
		return nil
	}
	return s.set(bucketOverviews, movieID, overview)
}

// === List snapshots ===

func (s *MovieStore) GetList(view string) (domain.ListSnapshot, bool) {
	var rec snapshotRecord
	if !s.get(bucketLists, view, &rec) {
		return domain.ListSnapshot{}, false
	}
	movies := make([]domain.Movie, len(rec.Movies))
	for i, m := range rec.Movies {
		movies[i] = fromRecord(m)
	}
	return domain.ListSnapshot{Movies: movies, SavedAt: time.Unix(rec.SavedAt, 0)}, true
}

func (s *MovieStore) SaveList(view string, movies []domain.Movie) error {
	rec := snapshotRecord{
		Movies:  make([]movieRecord, len(movies)),
		SavedAt: time.Now().Unix(),
	}
	for i, m := range movies {
		rec.Movies[i] = toRecord(m)
	}
	return s.set(bucketLists, view, rec)
}

// === Invalidation ===

func (s *MovieStore) InvalidateList(view string) {
	s.delete(bucketLists, view)
}

func (s *MovieStore) InvalidateAll() {
	s.mu.Lock()
	s.cache = make(map[string][]byte)
	s.mu.Unlock()

	if s.db == nil {
		return
	}

	s.db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range allBuckets {
			if err := tx.DeleteBucket(bucket); err != nil && !errors.Is(err, bolt.ErrBucketNotFound) {
				return err
			}
			if _, err := tx.CreateBucket(bucket); err != nil {
				return err
			}
		}
		return nil
	})
}

func toRecord(m domain.Movie) movieRecord {
	r := movieRecord{
		ID:        m.ID,
		Title:     m.Title,
		PosterURL: m.PosterURL,
		Year:      m.Year,
		Genres:    m.Genres,
		Language:  m.Language,
		Cast:      m.Cast,
		Directors: m.Directors,
		Overview:  m.Overview,
	}
	if m.HasRating {
		rating := m.Rating
		r.Rating = &rating
	}
	return r
}

func fromRecord(r movieRecord) domain.Movie {
	m := domain.Movie{
		ID:        r.ID,
		Title:     r.Title,
		PosterURL: r.PosterURL,
		Year:      r.Year,
		Genres:    r.Genres,
		Language:  r.Language,
		Cast:      r.Cast,
		Directors: r.Directors,
		Overview:  r.Overview,
	}
	if r.Rating != nil {
		m.Rating = *r.Rating
		m.HasRating = true
	}
	return m
}
