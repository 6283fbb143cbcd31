package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/storage/memory"

	"github.com/alexisbeaulieu97/bookconnect/internal/config"
	bcerrors "github.com/alexisbeaulieu97/bookconnect/pkg/errors"
)

// maxDocumentSize bounds how much of a catalog blob is read from a repository.
const maxDocumentSize = 32 << 20

// GitOptions locates a catalog document inside a git repository.
type GitOptions struct {
	// URL is a remote URL or a local repository path.
	URL string
	// Ref is a branch, tag or commit. Empty means HEAD.
	Ref string
	// File is the slash-separated path of the document inside the tree.
	File string
}

func (o GitOptions) location() string {
	loc := o.URL
	if o.Ref != "" {
		loc += "@" + o.Ref
	}
	return loc + ":" + o.File
}

// LoadGit reads the catalog document from a git repository. Local repositories
// are opened in place; remote ones are cloned into memory.
func LoadGit(ctx context.Context, opts GitOptions) (*Catalog, error) {
	if strings.TrimSpace(opts.URL) == "" {
		return nil, bcerrors.NewSourceError("git", errors.New("repository url is required"))
	}
	if opts.File == "" {
		opts.File = "catalog.yaml"
	}
	loc := opts.location()

	repo, err := openRepository(ctx, opts)
	if err != nil {
		return nil, bcerrors.NewSourceError(loc, err)
	}

	data, err := readBlob(repo, opts.Ref, opts.File)
	if err != nil {
		return nil, bcerrors.NewSourceError(loc, err)
	}

	return Parse(data, loc)
}

func openRepository(ctx context.Context, opts GitOptions) (*git.Repository, error) {
	if dir, ok := localPath(opts.URL); ok {
		repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
		if err != nil {
			return nil, fmt.Errorf("open repository: %w", err)
		}
		return repo, nil
	}

	cloneOpts := &git.CloneOptions{URL: opts.URL, Depth: 1}
	if opts.Ref == "" {
		return cloneInMemory(ctx, cloneOpts)
	}

	// The ref may name a branch or a tag; try both before falling back to a
	// full clone for commit hashes.
	for _, name := range []plumbing.ReferenceName{
		plumbing.NewBranchReferenceName(opts.Ref),
		plumbing.NewTagReferenceName(opts.Ref),
	} {
		cloneOpts.ReferenceName = name
		cloneOpts.SingleBranch = true
		repo, err := cloneInMemory(ctx, cloneOpts)
		if err == nil {
			return repo, nil
		}
		if !isMissingRef(err) {
			return nil, err
		}
	}

	return cloneInMemory(ctx, &git.CloneOptions{URL: opts.URL})
}

func cloneInMemory(ctx context.Context, opts *git.CloneOptions) (*git.Repository, error) {
	repo, err := git.CloneContext(ctx, memory.NewStorage(), nil, opts)
	if err != nil {
		return nil, fmt.Errorf("clone %s: %w", opts.URL, err)
	}
	return repo, nil
}

func readBlob(repo *git.Repository, ref, file string) ([]byte, error) {
	rev := ref
	if rev == "" {
		rev = "HEAD"
	}

	hash, err := repo.ResolveRevision(plumbing.Revision(rev))
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", rev, err)
	}

	commit, err := repo.CommitObject(*hash)
	if err != nil {
		return nil, fmt.Errorf("load commit %s: %w", hash, err)
	}

	tree, err := commit.Tree()
	if err != nil {
		return nil, fmt.Errorf("load tree: %w", err)
	}

	f, err := tree.File(path.Clean(strings.TrimPrefix(file, "/")))
	if err != nil {
		return nil, fmt.Errorf("find %s at %s: %w", file, rev, err)
	}

	reader, err := f.Reader()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", file, err)
	}
	defer reader.Close()

	return io.ReadAll(io.LimitReader(reader, maxDocumentSize))
}

func isMissingRef(err error) bool {
	return errors.Is(err, plumbing.ErrReferenceNotFound) ||
		strings.Contains(err.Error(), "couldn't find remote ref")
}

// localPath reports whether raw points at a repository on this machine.
func localPath(raw string) (string, bool) {
	if strings.HasPrefix(raw, "file://") {
		u, err := url.Parse(raw)
		if err != nil || u.Path == "" {
			return "", false
		}
		return u.Path, true
	}
	if strings.HasPrefix(raw, "/") || strings.HasPrefix(raw, "./") || strings.HasPrefix(raw, "../") {
		return raw, true
	}
	return "", false
}

// Load resolves cfg to a catalog: a git repository when configured, otherwise
// a local file, otherwise the embedded sample.
func Load(ctx context.Context, cfg config.SourceConfig) (*Catalog, error) {
	switch {
	case cfg.UsesGit():
		return LoadGit(ctx, GitOptions{URL: cfg.Git.URL, Ref: cfg.Git.Ref, File: cfg.Git.File})
	case strings.TrimSpace(cfg.Path) != "":
		return LoadFile(cfg.Path)
	default:
		return Default()
	}
}
