package changelog

import (
	"regexp"
	"sort"
	"strings"

	"golang.org/x/mod/semver"

	"github.com/ariel-frischer/fraglog/internal/config"
)

var semverPattern = regexp.MustCompile(`^\d+\.\d+\.\d+(-[a-zA-Z0-9.-]+)?(\+[a-zA-Z0-9.-]+)?$`)

// ParseReleaseVersion returns the canonical semantic version for a release
// directory name such as "v0.2.0" or "1.4.0-rc.1". ok is false for names
// that are not versions.
func ParseReleaseVersion(name string) (version string, ok bool) {
	bare := NormalizeVersion(name)
	if !semverPattern.MatchString(bare) {
		return "", false
	}
	v := "v" + bare
	if !semver.IsValid(v) {
		return "", false
	}
	return v, true
}

// NormalizeVersion normalizes a version string by removing the "v" prefix.
// This allows accepting both "v0.6.0" and "0.6.0" as input.
func NormalizeVersion(version string) string {
	return strings.TrimPrefix(strings.ToLower(version), "v")
}

// sortReleases orders versioned releases for display. Each configured
// criterion is tried in turn and one that finds the two releases equal
// falls through to the next. Under date, dated releases come first, newest
// first, and undated releases tie with each other. Releases left tied are
// ordered by descending version, then by label.
func sortReleases(releases []Release, criteria []string) {
	sort.SliceStable(releases, func(i, j int) bool {
		a, b := releases[i], releases[j]
		for _, c := range criteria {
			switch c {
			case config.SortByVersion:
				if cmp := semver.Compare(a.Version, b.Version); cmp != 0 {
					return cmp > 0
				}
			case config.SortByDate:
				if a.HasDate() != b.HasDate() {
					return a.HasDate()
				}
				if a.HasDate() && !a.Date.Equal(b.Date) {
					return a.Date.After(b.Date)
				}
			}
		}
		if cmp := semver.Compare(a.Version, b.Version); cmp != 0 {
			return cmp > 0
		}
		return a.Label < b.Label
	})
}
