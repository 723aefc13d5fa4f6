package changelog

import "strings"

// EntryRef locates an entry within a project.
type EntryRef struct {
	Release   *Release
	ChangeSet *ChangeSet
	// Component is nil for general entries.
	Component *ComponentSection
	Entry     *Entry
}

// Path returns the entry file path relative to the changelog directory.
func (r EntryRef) Path() string {
	return r.Entry.File
}

// Unreleased returns the unreleased release, or nil if the unreleased
// folder does not exist.
func (p *Project) Unreleased() *Release {
	for i := range p.Releases {
		if p.Releases[i].Unreleased {
			return &p.Releases[i]
		}
	}
	return nil
}

// GetRelease retrieves a release by label. Accepts both "v0.6.0" and
// "0.6.0" for a release stored as either, and "unreleased" for the
// unreleased release. Returns ReleaseNotFoundError if there is no match.
func (p *Project) GetRelease(label string) (*Release, error) {
	if strings.EqualFold(label, UnreleasedLabel) {
		if u := p.Unreleased(); u != nil {
			return u, nil
		}
	}

	normalized := NormalizeVersion(label)
	for i := range p.Releases {
		rel := &p.Releases[i]
		if rel.Unreleased {
			if rel.Dir == label {
				return rel, nil
			}
			continue
		}
		if rel.Label == label || NormalizeVersion(rel.Version) == normalized {
			return rel, nil
		}
	}

	return nil, &ReleaseNotFoundError{Label: label, Available: p.ListReleases()}
}

// ListReleases returns the labels of all releases in display order.
func (p *Project) ListReleases() []string {
	labels := make([]string, len(p.Releases))
	for i, r := range p.Releases {
		labels[i] = r.Label
	}
	return labels
}

// LatestRelease returns the first versioned release in display order, or
// nil if there is none.
func (p *Project) LatestRelease() *Release {
	for i := range p.Releases {
		if !p.Releases[i].Unreleased {
			return &p.Releases[i]
		}
	}
	return nil
}

// EntryCount returns the number of entries across all releases.
func (p *Project) EntryCount() int {
	n := 0
	for _, r := range p.Releases {
		n += r.EntryCount()
	}
	return n
}

// Entries returns every entry in render order: releases in display order,
// change sets in category order, general entries before component entries.
func (p *Project) Entries() []EntryRef {
	var refs []EntryRef
	for i := range p.Releases {
		refs = append(refs, p.Releases[i].Entries()...)
	}
	return refs
}

// Entries returns the release's entries in render order.
func (r *Release) Entries() []EntryRef {
	var refs []EntryRef
	for i := range r.ChangeSets {
		cs := &r.ChangeSets[i]
		for j := range cs.Entries {
			refs = append(refs, EntryRef{Release: r, ChangeSet: cs, Entry: &cs.Entries[j]})
		}
		for j := range cs.Components {
			comp := &cs.Components[j]
			for k := range comp.Entries {
				refs = append(refs, EntryRef{Release: r, ChangeSet: cs, Component: comp, Entry: &comp.Entries[k]})
			}
		}
	}
	return refs
}
