// Package git reads repository metadata used to configure a changelog,
// such as the project URL behind a remote.
package git

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/go-git/go-git/v5"
)

// debugLogger is a function that logs debug messages when debug mode is enabled.
// By default, it's a no-op. Set it via SetDebugLogger to enable debug output.
var debugLogger func(format string, args ...any)

// SetDebugLogger configures the debug logger for git operations.
// Pass nil to disable debug logging. The logger function should format
// and output the message (similar to log.Printf signature).
func SetDebugLogger(logger func(format string, args ...any)) {
	debugLogger = logger
}

// logDebug logs a debug message if the debug logger is set.
func logDebug(format string, args ...any) {
	if debugLogger != nil {
		debugLogger(format, args...)
	}
}

// ErrNoRemoteURL is returned when a remote exists but has no URL configured.
var ErrNoRemoteURL = errors.New("remote has no URL")

// openRepo opens a git repository at the specified path or current working directory.
// It uses go-git's PlainOpenWithOptions with DetectDotGit enabled to traverse
// up the directory tree to find the repository root.
// If path is empty, the current working directory is used.
func openRepo(path string) (*git.Repository, error) {
	if path == "" {
		var err error
		path, err = os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getting current directory: %w", err)
		}
	}

	logDebug("[git] opening repository at %s", path)

	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{
		DetectDotGit: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening repository at %s: %w", path, err)
	}

	logDebug("[git] repository opened successfully")
	return repo, nil
}

// IsGitRepository checks if path is within a git repository.
func IsGitRepository(path string) bool {
	_, err := openRepo(path)
	result := err == nil
	logDebug("[git] IsGitRepository(%s): %v", path, result)
	return result
}

// RemoteURL returns the first URL configured for the named remote.
func RemoteURL(path, remote string) (string, error) {
	repo, err := openRepo(path)
	if err != nil {
		return "", err
	}

	r, err := repo.Remote(remote)
	if err != nil {
		return "", fmt.Errorf("looking up remote %s: %w", remote, err)
	}

	urls := r.Config().URLs
	if len(urls) == 0 {
		return "", fmt.Errorf("remote %s: %w", remote, ErrNoRemoteURL)
	}

	logDebug("[git] RemoteURL(%s): %s", remote, urls[0])
	return urls[0], nil
}

// ProjectURL returns the browsable https URL of the project behind the
// named remote, suitable as a base for issue links.
func ProjectURL(path, remote string) (string, error) {
	raw, err := RemoteURL(path, remote)
	if err != nil {
		return "", err
	}
	return NormalizeRemoteURL(raw)
}

// NormalizeRemoteURL converts a clone URL into an https project URL:
//
//	git@github.com:org/repo.git         -> https://github.com/org/repo
//	ssh://git@github.com/org/repo.git   -> https://github.com/org/repo
//	https://user@github.com/org/repo/   -> https://github.com/org/repo
func NormalizeRemoteURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", ErrNoRemoteURL
	}

	if isSCPLike(raw) {
		userHost, path, _ := strings.Cut(raw, ":")
		_, host, found := strings.Cut(userHost, "@")
		if !found {
			host = userHost
		}
		return buildProjectURL(host, path)
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("parsing remote URL %q: %w", raw, err)
	}
	if u.Host == "" {
		return "", fmt.Errorf("remote URL %q has no host", raw)
	}
	return buildProjectURL(u.Hostname(), u.Path)
}

func buildProjectURL(host, path string) (string, error) {
	path = strings.Trim(path, "/")
	path = strings.TrimSuffix(path, ".git")
	if host == "" || path == "" {
		return "", fmt.Errorf("cannot derive project URL from host %q and path %q", host, path)
	}
	return "https://" + host + "/" + path, nil
}

// isSCPLike reports whether raw uses the scp-style "user@host:path" syntax.
func isSCPLike(raw string) bool {
	if isSSHURL(raw) && !strings.HasPrefix(raw, "git@") {
		return false
	}
	if strings.Contains(raw, "://") {
		return false
	}
	colon := strings.Index(raw, ":")
	slash := strings.Index(raw, "/")
	return colon > 0 && (slash < 0 || colon < slash)
}

// isSSHURL checks if a URL is an SSH URL.
// Detects git@ (SCP-style), ssh://, and git+ssh:// schemes.
func isSSHURL(url string) bool {
	return strings.HasPrefix(url, "git@") ||
		strings.HasPrefix(url, "ssh://") ||
		strings.HasPrefix(url, "git+ssh://")
}
