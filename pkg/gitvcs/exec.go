package gitvcs

import (
	"bytes"
	"context"
	"os/exec"
	"strings"

	"github.com/hxmtool/hxm/pkg/errors"
)

// ExecGit implements Git by shelling out to the git binary. Operations
// block until the external process exits; stderr is captured into the
// returned error when a command fails.
type ExecGit struct {
	// Logf receives progress messages. Nil disables logging.
	Logf func(format string, args ...any)
}

var _ Git = (*ExecGit)(nil)

func (g *ExecGit) logf(format string, args ...any) {
	if g.Logf != nil {
		g.Logf(format, args...)
	}
}

// run executes git with the given arguments and returns trimmed stdout.
func (g *ExecGit) run(ctx context.Context, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		// git reports some failures on stdout ("nothing to commit").
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = strings.TrimSpace(stdout.String())
		}
		if msg == "" {
			msg = err.Error()
		}
		return "", errors.New(errors.ErrCodeGit, "git %s: %s", strings.Join(args, " "), msg)
	}
	return strings.TrimSpace(stdout.String()), nil
}

// inDir executes git -C dir with the given arguments.
func (g *ExecGit) inDir(ctx context.Context, dir string, args ...string) (string, error) {
	return g.run(ctx, append([]string{"-C", dir}, args...)...)
}

// Clone prefers a blobless partial clone (fast download, full history) and
// falls back to a full clone when the remote rejects the filter. The
// default remote is renamed afterwards; a failed rename is not fatal.
func (g *ExecGit) Clone(ctx context.Context, url, dir string) error {
	if _, err := g.run(ctx, "clone", "--filter=blob:none", url, dir); err != nil {
		g.logf("blobless clone failed, retrying as full clone")
		if _, err := g.run(ctx, "clone", url, dir); err != nil {
			return err
		}
	}

	remote, err := RemoteName(url)
	if err != nil {
		return err
	}
	if _, err := g.inDir(ctx, dir, "remote", "rename", "origin", remote); err != nil {
		g.logf("could not rename origin remote: %v", err)
	}
	return nil
}

func (g *ExecGit) Checkout(ctx context.Context, dir, ref string) error {
	_, err := g.inDir(ctx, dir, "checkout", ref)
	return err
}

func (g *ExecGit) Fetch(ctx context.Context, dir, remote string) error {
	_, err := g.inDir(ctx, dir, "fetch", remote)
	return err
}

// EnsureRemote creates the remote if absent and repairs its URL if it has
// drifted from the manifest's.
func (g *ExecGit) EnsureRemote(ctx context.Context, dir, name, url string) error {
	existing, err := g.inDir(ctx, dir, "remote", "get-url", name)
	if err != nil {
		g.logf("adding remote %s", name)
		_, err := g.inDir(ctx, dir, "remote", "add", name, url)
		return err
	}
	if existing != url {
		g.logf("updating remote %s url", name)
		_, err := g.inDir(ctx, dir, "remote", "set-url", name, url)
		return err
	}
	return nil
}

func (g *ExecGit) SubmoduleUpdate(ctx context.Context, dir string) error {
	_, err := g.inDir(ctx, dir, "submodule", "update", "--init", "--recursive")
	return err
}

func (g *ExecGit) HeadCommit(ctx context.Context, dir string, short bool) (string, error) {
	if short {
		return g.inDir(ctx, dir, "rev-parse", "--short", "HEAD")
	}
	return g.inDir(ctx, dir, "rev-parse", "HEAD")
}

func (g *ExecGit) CurrentBranch(ctx context.Context, dir string) (string, error) {
	return g.inDir(ctx, dir, "rev-parse", "--abbrev-ref", "HEAD")
}

// ResolveCommit resolves branches, tags, and (abbreviated) commit ids to a
// full commit id. Only local refs are consulted; an unknown ref fails.
func (g *ExecGit) ResolveCommit(ctx context.Context, dir, ref string) (string, error) {
	return g.inDir(ctx, dir, "rev-parse", "--verify", "--quiet", ref+"^{commit}")
}

// IsDirty reports tracked modifications and staged changes. Untracked
// files are deliberately excluded from the dirtiness check.
func (g *ExecGit) IsDirty(ctx context.Context, dir string) (bool, error) {
	out, err := g.inDir(ctx, dir, "status", "--porcelain", "--untracked-files=no")
	if err != nil {
		return false, err
	}
	return out != "", nil
}

// DiffStat returns the working-tree diff summary for display. A failing
// diff is not an error; the placeholder keeps conflict prompts usable.
func (g *ExecGit) DiffStat(ctx context.Context, dir string) (string, error) {
	out, err := g.inDir(ctx, dir, "diff", "--stat")
	if err != nil {
		return "(unable to get diff)", nil
	}
	return out, nil
}

func (g *ExecGit) StashPush(ctx context.Context, dir, message string) error {
	_, err := g.inDir(ctx, dir, "stash", "push", "-m", message)
	return err
}

// StashPop restores the most recent stash. Merge conflicts during the pop
// are reported via the conflict flag instead of an error so the caller can
// warn and keep processing other dependencies.
func (g *ExecGit) StashPop(ctx context.Context, dir string) (bool, error) {
	_, err := g.inDir(ctx, dir, "stash", "pop")
	if err != nil {
		if strings.Contains(err.Error(), "CONFLICT") {
			return true, nil
		}
		return false, err
	}
	return false, nil
}

func (g *ExecGit) DiscardChanges(ctx context.Context, dir string) error {
	if _, err := g.inDir(ctx, dir, "reset", "--hard", "HEAD"); err != nil {
		return err
	}
	_, err := g.inDir(ctx, dir, "clean", "-fd")
	return err
}

// CommitAll stages everything and commits. Git reporting "nothing to
// commit" counts as success: the changes may already be staged or gone.
func (g *ExecGit) CommitAll(ctx context.Context, dir, message string) error {
	if _, err := g.inDir(ctx, dir, "add", "-A"); err != nil {
		return err
	}
	if _, err := g.inDir(ctx, dir, "commit", "-m", message); err != nil {
		if strings.Contains(err.Error(), "nothing to commit") {
			return nil
		}
		return err
	}
	return nil
}
