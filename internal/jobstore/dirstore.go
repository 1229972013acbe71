package jobstore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/slide-explainer/backend/internal/models"
)

// DirStore implements Store over two flat directories. File contents are
// JSON objects keyed by the 1-based slide number as a string: slide text in
// the inbox, explanation text in the outbox.
type DirStore struct {
	inboxDir  string
	outboxDir string
}

// NewDirStore creates the inbox and outbox directories if needed.
func NewDirStore(inboxDir, outboxDir string) (*DirStore, error) {
	for _, dir := range []string{inboxDir, outboxDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating job directory: %w", err)
		}
	}
	return &DirStore{inboxDir: inboxDir, outboxDir: outboxDir}, nil
}

// SaveUpload writes the job's slide texts to the inbox. All slides are
// recorded, including empty ones, so slide numbering survives the round trip.
func (s *DirStore) SaveUpload(job models.UploadJob) error {
	data := make(map[string]string, len(job.Slides))
	for i, text := range job.Slides {
		data[strconv.Itoa(i+1)] = text
	}

	key := NewKey(job.UID, job.OriginalFilename, job.CreatedAt)
	if err := writeJSONAtomic(filepath.Join(s.inboxDir, key.Filename()), data); err != nil {
		return fmt.Errorf("saving upload %s: %w", job.UID, err)
	}
	return nil
}

func (s *DirStore) FindUpload(uid string) (Key, error) {
	keys, err := matchUID(s.inboxDir, uid)
	if err != nil {
		return Key{}, err
	}
	switch len(keys) {
	case 0:
		return Key{}, ErrNotFound
	case 1:
		return keys[0], nil
	default:
		return Key{}, fmt.Errorf("inbox lookup %s: %w", uid, ErrAmbiguousUID)
	}
}

func (s *DirStore) ListPending() ([]Key, error) {
	entries, err := os.ReadDir(s.inboxDir)
	if err != nil {
		return nil, fmt.Errorf("listing inbox: %w", err)
	}

	var pending []Key
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), fileExtension) {
			continue
		}
		key, err := ParseKey(entry.Name())
		if err != nil {
			// Foreign files in the inbox are not candidates.
			continue
		}
		if _, err := os.Stat(filepath.Join(s.outboxDir, key.Filename())); err == nil {
			continue
		}
		pending = append(pending, key)
	}
	return pending, nil
}

func (s *DirStore) ReadSlides(key Key) ([]string, error) {
	var data map[string]string
	if err := readJSON(filepath.Join(s.inboxDir, key.Filename()), &data); err != nil {
		return nil, fmt.Errorf("reading slides %s: %w", key.UID, err)
	}

	slides := make([]string, len(data))
	for num, text := range data {
		i, err := strconv.Atoi(num)
		if err != nil || i < 1 || i > len(data) {
			return nil, fmt.Errorf("reading slides %s: bad slide number %q", key.UID, num)
		}
		slides[i-1] = text
	}
	return slides, nil
}

func (s *DirStore) SaveResult(key Key, explanations []models.SlideExplanation) error {
	data := make(map[string]string, len(explanations))
	for _, e := range explanations {
		data[strconv.Itoa(e.SlideNumber)] = e.Explanation
	}
	if err := writeJSONAtomic(filepath.Join(s.outboxDir, key.Filename()), data); err != nil {
		return fmt.Errorf("saving result %s: %w", key.UID, err)
	}
	return nil
}

func (s *DirStore) FindResult(uid string) (Key, bool, error) {
	keys, err := matchUID(s.outboxDir, uid)
	if err != nil {
		return Key{}, false, err
	}
	switch len(keys) {
	case 0:
		return Key{}, false, nil
	case 1:
		return keys[0], true, nil
	default:
		return Key{}, false, fmt.Errorf("outbox lookup %s: %w", uid, ErrAmbiguousUID)
	}
}

func (s *DirStore) ReadResult(key Key) ([]models.SlideExplanation, error) {
	var data map[string]string
	if err := readJSON(filepath.Join(s.outboxDir, key.Filename()), &data); err != nil {
		return nil, fmt.Errorf("reading result %s: %w", key.UID, err)
	}

	explanations := make([]models.SlideExplanation, 0, len(data))
	for num, text := range data {
		i, err := strconv.Atoi(num)
		if err != nil || i < 1 {
			return nil, fmt.Errorf("reading result %s: bad slide number %q", key.UID, num)
		}
		explanations = append(explanations, models.SlideExplanation{SlideNumber: i, Explanation: text})
	}
	sort.Slice(explanations, func(i, j int) bool {
		return explanations[i].SlideNumber < explanations[j].SlideNumber
	})
	return explanations, nil
}

func matchUID(dir, uid string) ([]Key, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", dir, err)
	}

	prefix := uid + Separator
	var keys []Key
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasPrefix(entry.Name(), prefix) {
			continue
		}
		key, err := ParseKey(entry.Name())
		if err != nil {
			continue
		}
		keys = append(keys, key)
	}
	return keys, nil
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

// writeJSONAtomic writes to a temp file in the target directory and renames
// it into place, so a presence check never observes a half-written entry.
func writeJSONAtomic(path string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "tmp-*.json")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
