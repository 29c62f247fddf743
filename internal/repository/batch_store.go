package repository

import (
	"archive/zip"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"time"

	"offline-payment-sync/internal/models"
)

// Artifact names inside a batch directory.
const (
	RecordsFile      = "registrations_cache.json"
	TransactionsFile = "transactions.json"
	InfoFile         = "batch_info.json"
	PhotosDir        = "photos"
)

var batchDirPattern = regexp.MustCompile(`^payment-(.+)-batch-([0-9]+)$`)

// BatchDirName is the directory name of batch n of a kind.
func BatchDirName(kind models.BatchKind, n int) string {
	return fmt.Sprintf("payment-%s-batch-%d", kind, n)
}

func parseBatchDirName(name string) (models.BatchKind, int, bool) {
	m := batchDirPattern.FindStringSubmatch(name)
	if m == nil {
		return "", 0, false
	}
	n, err := strconv.Atoi(m[2])
	if err != nil || n < 1 {
		return "", 0, false
	}
	return models.BatchKind(m[1]), n, true
}

// BatchStore keeps numbered, append-only batch directories under one root.
// A batch directory is never reused or rewritten once its pass completes.
type BatchStore struct {
	root string
}

func NewBatchStore(root string) *BatchStore {
	return &BatchStore{root: root}
}

func (s *BatchStore) Root() string {
	return s.root
}

// NextBatchPath creates and returns the directory of the smallest unused
// batch number of kind, with its photos sub-store. Directory creation is the
// claim, so two writers never receive the same path.
func (s *BatchStore) NextBatchPath(kind models.BatchKind) (string, error) {
	if err := os.MkdirAll(s.root, 0o755); err != nil {
		return "", fmt.Errorf("create cache root %s: %w", s.root, err)
	}

	for n := 1; ; n++ {
		path := filepath.Join(s.root, BatchDirName(kind, n))
		err := os.Mkdir(path, 0o755)
		if errors.Is(err, fs.ErrExist) {
			continue
		}
		if err != nil {
			return "", fmt.Errorf("create batch dir %s: %w", path, err)
		}
		if err := os.Mkdir(filepath.Join(path, PhotosDir), 0o755); err != nil {
			return "", fmt.Errorf("create photos dir in %s: %w", path, err)
		}
		log.Printf("[BATCH] Allocated %s", path)
		return path, nil
	}
}

// Write persists the three batch artifacts. transactions is the raw
// transaction snapshot exactly as fetched.
func (s *BatchStore) Write(path string, records []models.CacheRecord, transactions []json.RawMessage, info models.BatchInfo) error {
	if records == nil {
		records = []models.CacheRecord{}
	}
	if transactions == nil {
		transactions = []json.RawMessage{}
	}

	if err := writeJSON(filepath.Join(path, RecordsFile), records); err != nil {
		return err
	}
	if err := writeJSON(filepath.Join(path, TransactionsFile), transactions); err != nil {
		return err
	}
	if err := writeJSON(filepath.Join(path, InfoFile), info); err != nil {
		return err
	}
	log.Printf("[BATCH] Wrote %d records to %s", len(records), path)
	return nil
}

// WritePhoto stores one encrypted photo blob under the batch's photos dir.
func (s *BatchStore) WritePhoto(path, filename string, data []byte) error {
	if filename != filepath.Base(filename) {
		return fmt.Errorf("invalid photo filename %q", filename)
	}
	return writeFileAtomic(filepath.Join(path, PhotosDir, filename), data)
}

// Latest returns the finished batch of kind with the highest number. ok is
// false when the root or the kind has no finished batches yet.
func (s *BatchStore) Latest(kind models.BatchKind) (path string, ok bool, err error) {
	entries, err := s.entries()
	if err != nil || len(entries) == 0 {
		return "", false, err
	}

	best := 0
	for _, e := range entries {
		k, n, valid := parseBatchDirName(e.Name())
		if !valid || k != kind || n <= best {
			continue
		}
		candidate := filepath.Join(s.root, e.Name())
		if !finished(candidate) {
			continue
		}
		best = n
		path = candidate
	}
	return path, best > 0, nil
}

// LatestAny returns the most recently modified finished batch of any kind.
func (s *BatchStore) LatestAny() (path string, ok bool, err error) {
	entries, err := s.entries()
	if err != nil || len(entries) == 0 {
		return "", false, err
	}

	var newest time.Time
	for _, e := range entries {
		if _, _, valid := parseBatchDirName(e.Name()); !valid {
			continue
		}
		if !finished(filepath.Join(s.root, e.Name())) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		if path == "" || info.ModTime().After(newest) {
			newest = info.ModTime()
			path = filepath.Join(s.root, e.Name())
		}
	}
	return path, path != "", nil
}

// finished reports whether Write completed for path. The info file is
// written last, so a directory still being filled, or abandoned by a failed
// pass, has none.
func finished(path string) bool {
	info, err := os.Stat(filepath.Join(path, InfoFile))
	return err == nil && info.Mode().IsRegular()
}

func (s *BatchStore) entries() ([]fs.DirEntry, error) {
	all, err := os.ReadDir(s.root)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read cache root %s: %w", s.root, err)
	}
	dirs := all[:0]
	for _, e := range all {
		if e.IsDir() {
			dirs = append(dirs, e)
		}
	}
	return dirs, nil
}

// ReadRecords loads the cache records of a batch.
func (s *BatchStore) ReadRecords(path string) ([]models.CacheRecord, error) {
	var records []models.CacheRecord
	if err := readJSON(filepath.Join(path, RecordsFile), &records); err != nil {
		return nil, err
	}
	return records, nil
}

// ReadInfo loads the metadata artifact of a batch.
func (s *BatchStore) ReadInfo(path string) (*models.BatchInfo, error) {
	var info models.BatchInfo
	if err := readJSON(filepath.Join(path, InfoFile), &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// Archive zips a batch directory into w with paths relative to the batch.
func (s *BatchStore) Archive(path string, w io.Writer) error {
	zw := zip.NewWriter(w)
	err := filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(path, p)
		if err != nil {
			return err
		}
		f, err := zw.CreateHeader(&zip.FileHeader{Name: filepath.ToSlash(rel), Method: zip.Deflate})
		if err != nil {
			return err
		}
		src, err := os.Open(p)
		if err != nil {
			return err
		}
		defer src.Close()
		_, err = io.Copy(f, src)
		return err
	})
	if err != nil {
		zw.Close()
		return fmt.Errorf("archive %s: %w", path, err)
	}
	return zw.Close()
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", filepath.Base(path), err)
	}
	return writeFileAtomic(path, data)
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

// writeFileAtomic writes through a temp file in the same directory so a
// reader never sees a partially written artifact.
func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp for %s: %w", path, err)
	}
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("chmod temp for %s: %w", path, err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("rename into %s: %w", path, err)
	}
	return nil
}
