package jobstore

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// Separator joins the three parts of an inbox/outbox file name.
const Separator = "__"

// timestampLayout is the compact wall-clock form embedded in file names.
const timestampLayout = "20060102150405"

const fileExtension = ".json"

// Key identifies one job in the inbox and outbox. It round-trips through the
// file name <uid>__<name>__<timestamp>.json, which is the only place job
// metadata is persisted.
type Key struct {
	UID       string
	Name      string
	Timestamp time.Time
}

// NewKey builds the key for a fresh upload. The original file name is reduced
// to its base with the extension stripped and separator runs collapsed so the
// encoded name stays parseable.
func NewKey(uid, originalFilename string, createdAt time.Time) Key {
	name := filepath.Base(originalFilename)
	if ext := filepath.Ext(name); ext != "" {
		name = strings.TrimSuffix(name, ext)
	}
	name = strings.ReplaceAll(name, Separator, "_")
	return Key{UID: uid, Name: name, Timestamp: createdAt}
}

// Filename encodes the key as an inbox/outbox file name.
func (k Key) Filename() string {
	return k.UID + Separator + k.Name + Separator + k.Timestamp.Format(timestampLayout) + fileExtension
}

// ParseKey decodes a directory entry name back into a Key.
func ParseKey(filename string) (Key, error) {
	base := strings.TrimSuffix(filename, fileExtension)
	if base == filename {
		return Key{}, fmt.Errorf("parse job key %q: missing %s extension", filename, fileExtension)
	}

	first := strings.Index(base, Separator)
	last := strings.LastIndex(base, Separator)
	if first < 0 || last == first {
		return Key{}, fmt.Errorf("parse job key %q: want three %s-separated parts", filename, Separator)
	}

	ts, err := time.ParseInLocation(timestampLayout, base[last+len(Separator):], time.Local)
	if err != nil {
		return Key{}, fmt.Errorf("parse job key %q: bad timestamp: %w", filename, err)
	}

	return Key{
		UID:       base[:first],
		Name:      base[first+len(Separator) : last],
		Timestamp: ts,
	}, nil
}
