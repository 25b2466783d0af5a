package gitvcs

import (
	"strings"

	"github.com/hxmtool/hxm/pkg/errors"
)

// RemoteName derives a remote name from a repository URL: the lower-cased
// "owner/repo" path segment. Using this instead of "origin" keeps remotes
// distinguishable when several forks of the same repository are in play.
//
// Handles https://host/owner/repo(.git), ssh://git@host/owner/repo(.git),
// and scp-style git@host:owner/repo(.git) URLs.
func RemoteName(url string) (string, error) {
	s := strings.TrimSpace(url)
	s = strings.TrimPrefix(s, "https://")
	s = strings.TrimPrefix(s, "http://")
	s = strings.TrimPrefix(s, "ssh://")
	s = strings.TrimPrefix(s, "git@")

	// scp-style URLs separate host and path with a colon.
	if i := strings.LastIndex(s, ":"); i >= 0 {
		s = s[i+1:]
	}

	parts := make([]string, 0, 4)
	for _, p := range strings.Split(s, "/") {
		if p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) < 2 {
		return "", errors.New(errors.ErrCodeInvalidManifest, "cannot parse owner/repo from url %q", url)
	}

	owner := parts[len(parts)-2]
	repo := strings.TrimSuffix(parts[len(parts)-1], ".git")
	return strings.ToLower(owner + "/" + repo), nil
}
