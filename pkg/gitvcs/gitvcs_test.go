package gitvcs

import (
	"context"
	"testing"

	"github.com/hxmtool/hxm/pkg/errors"
)

func TestRemoteName(t *testing.T) {
	tests := []struct {
		url     string
		want    string
		wantErr bool
	}{
		{"https://github.com/HaxeFlixel/flixel", "haxeflixel/flixel", false},
		{"https://github.com/HaxeFlixel/flixel.git", "haxeflixel/flixel", false},
		{"http://example.com/user/repo", "user/repo", false},
		{"git@github.com:User/Repo.git", "user/repo", false},
		{"ssh://git@github.com/openfl/lime.git", "openfl/lime", false},
		{"  https://github.com/a/b  ", "a/b", false},
		{"https://example.com/deep/path/owner/repo", "owner/repo", false},
		{"https://example.com/justrepo", "", true},
		{"nonsense", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			got, err := RemoteName(tt.url)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("RemoteName(%q) = %q, want error", tt.url, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("RemoteName(%q): %v", tt.url, err)
			}
			if got != tt.want {
				t.Errorf("RemoteName(%q) = %q, want %q", tt.url, got, tt.want)
			}
		})
	}
}

func TestIsHex(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"abc123", true},
		{"ABCDEF", true},
		{"1234567890abcdef1234567890abcdef12345678", true},
		{"", false},
		{"v5.0.0", false},
		{"main", false},
		{"1234567890abcdef1234567890abcdef123456789", false}, // 41 chars
	}
	for _, tt := range tests {
		if got := IsHex(tt.in); got != tt.want {
			t.Errorf("IsHex(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

// checkoutFake fails local checkouts until a fetch happens.
type checkoutFake struct {
	nullGit
	fetched      []string
	remotes      map[string]string
	checkouts    int
	failCheckout bool // fail even after fetch
}

func (f *checkoutFake) Checkout(ctx context.Context, dir, ref string) error {
	f.checkouts++
	if len(f.fetched) == 0 || f.failCheckout {
		return errors.New(errors.ErrCodeGit, "pathspec %q did not match", ref)
	}
	return nil
}

func (f *checkoutFake) EnsureRemote(ctx context.Context, dir, name, url string) error {
	if f.remotes == nil {
		f.remotes = map[string]string{}
	}
	f.remotes[name] = url
	return nil
}

func (f *checkoutFake) Fetch(ctx context.Context, dir, remote string) error {
	f.fetched = append(f.fetched, remote)
	return nil
}

func TestSmartCheckoutFetchesOnceThenRetries(t *testing.T) {
	f := &checkoutFake{}
	err := SmartCheckout(context.Background(), f, "repo", "https://github.com/HaxeFlixel/flixel", "v5.0.0")
	if err != nil {
		t.Fatalf("SmartCheckout: %v", err)
	}
	if f.checkouts != 2 {
		t.Errorf("checkouts = %d, want 2 (local try + post-fetch retry)", f.checkouts)
	}
	if len(f.fetched) != 1 || f.fetched[0] != "haxeflixel/flixel" {
		t.Errorf("fetched = %v, want the url-derived remote", f.fetched)
	}
	if f.remotes["haxeflixel/flixel"] != "https://github.com/HaxeFlixel/flixel" {
		t.Errorf("remote not ensured: %v", f.remotes)
	}
}

func TestSmartCheckoutFatalAfterFetch(t *testing.T) {
	f := &checkoutFake{failCheckout: true}
	err := SmartCheckout(context.Background(), f, "repo", "https://github.com/a/b", "deadbeef")
	if err == nil {
		t.Fatal("SmartCheckout should fail when the ref is unknown even after fetch")
	}
	if f.checkouts != 2 {
		t.Errorf("checkouts = %d, want exactly one retry", f.checkouts)
	}
}

type currentRefFake struct {
	nullGit
	branch string
	head   string
}

func (f *currentRefFake) CurrentBranch(ctx context.Context, dir string) (string, error) {
	return f.branch, nil
}

func (f *currentRefFake) HeadCommit(ctx context.Context, dir string, short bool) (string, error) {
	return f.head, nil
}

func TestCurrentRef(t *testing.T) {
	ctx := context.Background()

	onBranch := &currentRefFake{branch: "dev", head: "abc123"}
	if ref, _ := CurrentRef(ctx, onBranch, "repo"); ref != "dev" {
		t.Errorf("CurrentRef on branch = %q, want dev", ref)
	}

	detached := &currentRefFake{branch: "HEAD", head: "abc123"}
	if ref, _ := CurrentRef(ctx, detached, "repo"); ref != "abc123" {
		t.Errorf("CurrentRef detached = %q, want head commit", ref)
	}
}

// nullGit is an embeddable no-op Git implementation for tests.
type nullGit struct{}

func (nullGit) Clone(context.Context, string, string) error    { return nil }
func (nullGit) Checkout(context.Context, string, string) error { return nil }
func (nullGit) Fetch(context.Context, string, string) error    { return nil }
func (nullGit) EnsureRemote(context.Context, string, string, string) error {
	return nil
}
func (nullGit) SubmoduleUpdate(context.Context, string) error { return nil }
func (nullGit) HeadCommit(context.Context, string, bool) (string, error) {
	return "", nil
}
func (nullGit) CurrentBranch(context.Context, string) (string, error) { return "", nil }
func (nullGit) ResolveCommit(context.Context, string, string) (string, error) {
	return "", nil
}
func (nullGit) IsDirty(context.Context, string) (bool, error)    { return false, nil }
func (nullGit) DiffStat(context.Context, string) (string, error) { return "", nil }
func (nullGit) StashPush(context.Context, string, string) error  { return nil }
func (nullGit) StashPop(context.Context, string) (bool, error)   { return false, nil }
func (nullGit) DiscardChanges(context.Context, string) error     { return nil }
func (nullGit) CommitAll(context.Context, string, string) error  { return nil }
