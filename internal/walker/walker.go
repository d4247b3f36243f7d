// Package walker implements gofzy's built-in --walker producer: a
// directory listing that streams candidate paths the way a piped `find`
// would, but with .gitignore-aware filtering and the same default
// exclusions a code-search tool reaches for, so users don't need an
// external find/fd command on PATH.
//
// Grounded on the teacher's internal/scanner package's WalkDir traversal,
// trimmed to gofzy's domain: it no longer classifies language/content
// type or detects generated files, since the finder only needs the path
// string itself.
package walker

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/Aman-CERP/gofzy/internal/gitignore"
)

// gitignoreCacheSize bounds the per-directory matcher cache, the same
// way the teacher's scanner avoids unbounded growth over a long walk.
const gitignoreCacheSize = 1000

// Options configures one walk.
type Options struct {
	// Root is the directory to walk. Defaults to "." when empty.
	Root string

	// RespectGitignore enables .gitignore-aware exclusion.
	RespectGitignore bool

	// FilesOnly excludes directory entries from the stream.
	FilesOnly bool

	// FollowSymlinks includes symlinked entries in the walk.
	FollowSymlinks bool

	// ExcludeDirs are additional directory name exclusions layered on
	// top of defaultExcludeDirs.
	ExcludeDirs []string
}

// Walker streams file paths under a root directory into a byte stream a
// reader.Reader can consume directly as its producer.
type Walker struct {
	gitignoreCache *lru.Cache[string, *gitignore.Matcher]
	cacheMu        sync.RWMutex
}

// New creates a Walker with its gitignore matcher cache initialized.
func New() *Walker {
	cache, _ := lru.New[string, *gitignore.Matcher](gitignoreCacheSize)
	return &Walker{gitignoreCache: cache}
}

// Walk streams newline-terminated relative paths under opts.Root into the
// returned io.Reader via an os.Pipe, so it plugs directly into
// reader.Reader.Run the same way a piped external command would. The
// pipe's write end closes (terminating the reader's EOF) once the walk
// finishes or ctx is cancelled.
func (w *Walker) Walk(ctx context.Context, opts Options) (*os.File, error) {
	root := opts.Root
	if root == "" {
		root = "."
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}

	r, wr, err := os.Pipe()
	if err != nil {
		return nil, err
	}

	go func() {
		defer wr.Close()
		_ = filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, err error) error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			if err != nil {
				return nil
			}
			relPath, relErr := filepath.Rel(absRoot, path)
			if relErr != nil || relPath == "." {
				return nil
			}

			if d.IsDir() {
				if w.shouldExcludeDir(relPath, opts) {
					return filepath.SkipDir
				}
				if opts.FilesOnly {
					return nil
				}
			} else {
				if d.Type()&fs.ModeSymlink != 0 && !opts.FollowSymlinks {
					return nil
				}
				if opts.RespectGitignore && w.isGitignored(relPath, absRoot) {
					return nil
				}
			}

			if _, werr := wr.WriteString(relPath + "\n"); werr != nil {
				return werr
			}
			return nil
		})
	}()

	return r, nil
}

func (w *Walker) shouldExcludeDir(relPath string, opts Options) bool {
	base := filepath.Base(relPath)
	for _, name := range defaultExcludeDirs {
		if base == name {
			return true
		}
	}
	for _, name := range opts.ExcludeDirs {
		if base == name {
			return true
		}
	}
	return false
}

func (w *Walker) isGitignored(relPath, absRoot string) bool {
	if m := w.getGitignoreMatcher(absRoot, ""); m != nil && m.Match(relPath, false) {
		return true
	}

	dir := absRoot
	base := ""
	for _, part := range strings.Split(filepath.Dir(relPath), string(filepath.Separator)) {
		if part == "." || part == "" {
			continue
		}
		dir = filepath.Join(dir, part)
		if base == "" {
			base = part
		} else {
			base = filepath.Join(base, part)
		}
		if m := w.getGitignoreMatcher(dir, base); m != nil && m.Match(relPath, false) {
			return true
		}
	}
	return false
}

func (w *Walker) getGitignoreMatcher(dir, base string) *gitignore.Matcher {
	w.cacheMu.RLock()
	m, ok := w.gitignoreCache.Get(dir)
	w.cacheMu.RUnlock()
	if ok {
		return m
	}

	path := filepath.Join(dir, ".gitignore")
	if _, err := os.Stat(path); err != nil {
		return nil
	}

	m = gitignore.New()
	if err := m.AddFromFile(path, base); err != nil {
		return nil
	}

	w.cacheMu.Lock()
	w.gitignoreCache.Add(dir, m)
	w.cacheMu.Unlock()
	return m
}

// defaultExcludeDirs mirrors the pack's scanner defaults, trimmed to the
// directories a file-picker's walker should never descend into.
var defaultExcludeDirs = []string{
	"node_modules",
	".git",
	"vendor",
	"__pycache__",
	".aws",
	".gcp",
	".azure",
	".ssh",
}
