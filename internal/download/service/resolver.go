package service

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	downloadDomain "github.com/opsdeck/filegate/internal/download/domain"
	apperrors "github.com/opsdeck/filegate/internal/errors"
)

// pathResolver implements PathResolver confined to a single resource root.
// Stored relative paths are treated as untrusted input: traversal sequences
// and symlink escapes are rejected before any existence check, so a probe
// for "../../etc/passwd" is reported as a path violation, never as a
// missing file.
type pathResolver struct {
	root string
}

// NewPathResolver creates a PathResolver rooted at the given directory.
// The root is canonicalized up front so the descendant check compares
// like with like.
func NewPathResolver(root string) (PathResolver, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to resolve resource root")
	}

	// Canonicalize the root itself. If the root does not exist yet (fresh
	// deployment), keep the cleaned absolute path; every lookup will fail
	// as not-found rather than unsafely succeed.
	canonical, err := filepath.EvalSymlinks(abs)
	if err != nil {
		canonical = filepath.Clean(abs)
	}

	return &pathResolver{root: canonical}, nil
}

// within reports whether path is the root or a descendant of it.
func (r *pathResolver) within(path string) bool {
	if path == r.root {
		return true
	}
	return strings.HasPrefix(path, r.root+string(filepath.Separator))
}

// Resolve maps the record's relative path to a canonical physical path.
//
// Order of checks matters: the lexical escape check runs before any
// filesystem access, so traversal attempts on nonexistent files still
// surface as path violations, and the symlink check runs after
// canonicalization so a link pointing outside the root cannot slip through.
func (r *pathResolver) Resolve(record *downloadDomain.ResourceRecord) (string, error) {
	// filepath.Join cleans the result, collapsing "." and ".." segments.
	candidate := filepath.Join(r.root, record.RelativePath)

	if !r.within(candidate) {
		return "", downloadDomain.ErrPathEscapesRoot
	}

	resolved, err := filepath.EvalSymlinks(candidate)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", downloadDomain.ErrResourceNotFound
		}
		return "", apperrors.Wrap(err, "failed to canonicalize resource path")
	}

	if !r.within(resolved) {
		return "", downloadDomain.ErrPathEscapesRoot
	}

	info, err := os.Stat(resolved)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", downloadDomain.ErrResourceNotFound
		}
		return "", apperrors.Wrap(err, "failed to stat resource path")
	}
	if !info.Mode().IsRegular() {
		return "", downloadDomain.ErrResourceNotFound
	}

	return resolved, nil
}
