// Package registry installs registry-hosted dependencies: it derives the
// archive download URL, fetches it with progress reporting and retry,
// verifies the transfer size, and extracts the archive into the cache
// under a version-qualified subdirectory.
package registry

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/hxmtool/hxm/pkg/errors"
	"github.com/hxmtool/hxm/pkg/httputil"
	"github.com/hxmtool/hxm/pkg/libcache"
	"github.com/hxmtool/hxm/pkg/manifest"
)

// DefaultHost is the registry serving versioned library archives.
const DefaultHost = "lib.haxe.org"

// ProgressFunc receives transfer progress while an archive downloads.
// It is called with the running byte count and the expected total; a
// final call arrives with downloaded == total.
type ProgressFunc func(name string, downloaded, total int64)

// Client downloads and installs registry-hosted dependencies.
type Client struct {
	Host     string          // registry host or base URL; DefaultHost when empty
	HTTP     *http.Client    // nil means http.DefaultClient
	Cache    *libcache.Cache // destination cache
	Progress ProgressFunc    // nil disables progress reporting
	Logf     func(format string, args ...any)
}

func (c *Client) host() string {
	if c.Host == "" {
		return DefaultHost
	}
	return c.Host
}

func (c *Client) httpClient() *http.Client {
	if c.HTTP == nil {
		return http.DefaultClient
	}
	return c.HTTP
}

func (c *Client) logf(format string, args ...any) {
	if c.Logf != nil {
		c.Logf(format, args...)
	}
}

// DownloadURL derives the archive URL for a registry-hosted dependency.
// The dependency must have a version; unlocked entries cannot be fetched.
func (c *Client) DownloadURL(dep *manifest.Dependency) (string, error) {
	if dep.Kind != manifest.KindHaxelib {
		return "", errors.New(errors.ErrCodeUnsupported, "%s: no download URL for %s dependencies", dep.Name, dep.Kind)
	}
	version, err := dep.RequireVersion()
	if err != nil {
		return "", err
	}
	base := c.host()
	if !strings.Contains(base, "://") {
		base = "https://" + base
	}
	return fmt.Sprintf("%s/p/%s/%s/download", base, dep.Name, version), nil
}

// Install downloads the dependency's archive and extracts it into the
// cache, writing the .current marker with the resolved version. The
// download lands in a single temp file which is removed afterwards;
// nothing is cached across runs.
func (c *Client) Install(ctx context.Context, dep *manifest.Dependency) error {
	url, err := c.DownloadURL(dep)
	if err != nil {
		return err
	}
	version := dep.Version

	c.logf("downloading %s %s from %s", dep.Name, version, c.host())

	tmp, err := os.CreateTemp("", dep.Name+"-*.zip")
	if err != nil {
		return errors.Wrap(errors.ErrCodeDownload, err, "%s: creating temp file", dep.Name)
	}
	tmpPath := tmp.Name()
	tmp.Close()
	defer os.Remove(tmpPath)

	err = httputil.RetryWithBackoff(ctx, func() error {
		return c.fetch(ctx, dep.Name, url, tmpPath)
	})
	if err != nil {
		return err
	}

	if err := c.Cache.WriteCurrent(dep.Name, version); err != nil {
		return err
	}

	dest := c.Cache.VersionDir(dep.Name, version)
	if err := extractZip(tmpPath, dest); err != nil {
		return errors.Wrap(errors.ErrCodeDownload, err, "%s: extracting archive", dep.Name)
	}

	c.logf("installed %s %s", dep.Name, version)
	return nil
}

// fetch performs one download attempt into path, verifying the byte count
// against the server's declared content length. Network failures and 5xx
// responses are retryable; anything else is permanent.
func (c *Client) fetch(ctx context.Context, name, url, path string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return errors.Wrap(errors.ErrCodeDownload, err, "%s: building request", name)
	}

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return httputil.Retryable(errors.Wrap(errors.ErrCodeDownload, err, "%s: downloading", name))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		e := errors.New(errors.ErrCodeDownload, "%s: download failed: HTTP %d", name, resp.StatusCode)
		if resp.StatusCode >= 500 {
			return httputil.Retryable(e)
		}
		return e
	}

	total := resp.ContentLength
	if total < 0 {
		return errors.New(errors.ErrCodeDownload, "%s: server did not provide a content length", name)
	}

	out, err := os.Create(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeDownload, err, "%s: creating file", name)
	}
	defer out.Close()

	var downloaded int64
	buf := make([]byte, 32*1024)
	for {
		n, readErr := resp.Body.Read(buf)
		if n > 0 {
			if _, err := out.Write(buf[:n]); err != nil {
				return errors.Wrap(errors.ErrCodeDownload, err, "%s: writing archive", name)
			}
			downloaded += int64(n)
			if c.Progress != nil {
				c.Progress(name, downloaded, total)
			}
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			return httputil.Retryable(errors.Wrap(errors.ErrCodeDownload, readErr, "%s: reading response", name))
		}
	}

	if downloaded != total {
		return httputil.Retryable(errors.New(errors.ErrCodeDownload,
			"%s: download incomplete: expected %d bytes, got %d", name, total, downloaded))
	}
	return nil
}
