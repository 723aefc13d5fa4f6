package changelog

import (
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/ariel-frischer/fraglog/internal/config"
)

// ParseEntryID splits an entry file name into its id and issue/PR number.
// The number is the run of leading digits when it is the whole id or is
// followed by '-' or '_'; "2fa-support" therefore has no number.
func ParseEntryID(filename, ext string) (id string, number int) {
	id = strings.TrimSuffix(filename, "."+ext)

	end := 0
	for end < len(id) && id[end] >= '0' && id[end] <= '9' {
		end++
	}
	if end == 0 {
		return id, 0
	}
	if end < len(id) && id[end] != '-' && id[end] != '_' {
		return id, 0
	}

	n, err := strconv.Atoi(id[:end])
	if err != nil {
		return id, 0
	}
	return id, n
}

// ReadEntry reads the entry file at path. ok is false when the file holds
// only whitespace, in which case the entry is skipped. rel is recorded as
// the entry's File.
func ReadEntry(path, rel, ext string) (entry Entry, ok bool, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Entry{}, false, &MalformedEntryError{Path: path, Err: err}
	}
	if !utf8.Valid(data) {
		return Entry{}, false, &MalformedEntryError{Path: path, Err: errInvalidUTF8}
	}

	body := strings.TrimSpace(string(data))
	if body == "" {
		logDebug("skipping empty entry %s", path)
		return Entry{}, false, nil
	}

	id, number := ParseEntryID(filepath.Base(path), ext)
	return Entry{
		ID:     id,
		Number: number,
		Body:   body,
		File:   filepath.ToSlash(rel),
	}, true, nil
}

// isEntryFile reports whether name has the configured entry extension.
func isEntryFile(name, ext string) bool {
	suffix := "." + ext
	return strings.HasSuffix(name, suffix) && len(name) > len(suffix)
}

// sortEntries orders entries in place according to the configured key.
// Sorting by id puts numbered entries first in ascending order and keeps
// un-numbered entries in discovery order after them.
func sortEntries(entries []Entry, key string) {
	switch key {
	case config.SortEntriesByText:
		sort.SliceStable(entries, func(i, j int) bool {
			return entries[i].Body < entries[j].Body
		})
	default:
		sort.SliceStable(entries, func(i, j int) bool {
			a, b := entries[i], entries[j]
			switch {
			case a.HasNumber() && b.HasNumber():
				return a.Number < b.Number
			case a.HasNumber():
				return true
			default:
				return false
			}
		})
	}
}
