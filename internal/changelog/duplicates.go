package changelog

import "sort"

// Duplicates maps an issue/PR number to the labels of every release that
// contains an entry with that number, oldest release first. Only numbers
// that appear in more than one release are present.
type Duplicates map[int][]string

// Numbers returns the duplicated numbers in ascending order.
func (d Duplicates) Numbers() []int {
	nums := make([]int, 0, len(d))
	for n := range d {
		nums = append(nums, n)
	}
	sort.Ints(nums)
	return nums
}

// FindDuplicates reports issue/PR numbers used by entries in more than one
// release. Repeats within a single release are not duplicates. Releases are
// visited oldest first, so the unreleased release is listed last.
func FindDuplicates(p *Project) Duplicates {
	seen := make(map[int][]string)
	visitOldestFirst(p, func(label string, e *Entry) {
		if !e.HasNumber() {
			return
		}
		seen[e.Number] = appendLabel(seen[e.Number], label)
	})

	dups := make(Duplicates)
	for n, labels := range seen {
		if len(labels) > 1 {
			dups[n] = labels
		}
	}
	return dups
}

// BodyDuplicates maps an entry body to the labels of the releases that
// contain it, oldest release first.
type BodyDuplicates map[string][]string

// Bodies returns the duplicated bodies in lexical order.
func (d BodyDuplicates) Bodies() []string {
	bodies := make([]string, 0, len(d))
	for b := range d {
		bodies = append(bodies, b)
	}
	sort.Strings(bodies)
	return bodies
}

// FindDuplicateBodies reports entries whose text appears verbatim in more
// than one release, which usually means an entry was copied into a release
// without being removed from its source.
func FindDuplicateBodies(p *Project) BodyDuplicates {
	seen := make(map[string][]string)
	visitOldestFirst(p, func(label string, e *Entry) {
		seen[e.Body] = appendLabel(seen[e.Body], label)
	})

	dups := make(BodyDuplicates)
	for body, labels := range seen {
		if len(labels) > 1 {
			dups[body] = labels
		}
	}
	return dups
}

// visitOldestFirst calls fn for every entry, walking releases in reverse
// display order.
func visitOldestFirst(p *Project, fn func(label string, e *Entry)) {
	for i := len(p.Releases) - 1; i >= 0; i-- {
		rel := &p.Releases[i]
		for _, ref := range rel.Entries() {
			fn(rel.Label, ref.Entry)
		}
	}
}

// appendLabel adds label unless it is already the most recent one. Entries
// of a release are visited together, so this keeps each release once.
func appendLabel(labels []string, label string) []string {
	if n := len(labels); n > 0 && labels[n-1] == label {
		return labels
	}
	return append(labels, label)
}
