package codebase

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/tliron/commonlog"
	"golang.org/x/crypto/blake2b"

	"github.com/dhamidi/pyparse/python/grammar"
	"github.com/dhamidi/pyparse/python/parser"
	"github.com/dhamidi/pyparse/python/tree"
)

var log = commonlog.GetLogger("pyparse.codebase")

// Codebase keeps the recovered syntax tree of every Python file below a root
// directory.
type Codebase struct {
	mu      sync.RWMutex
	rootDir string
	grammar *grammar.Grammar
	files   map[string]*FileInfo
}

type FileInfo struct {
	Path    string
	Content []byte
	Hash    [32]byte
	Module  *tree.Module
	Errors  []*parser.SyntaxError
}

func New(rootDir string) *Codebase {
	return &Codebase{
		rootDir: rootDir,
		grammar: grammar.Python(),
		files:   make(map[string]*FileInfo),
	}
}

func (c *Codebase) RootDir() string {
	return c.rootDir
}

// IsSource reports whether path names a Python source file.
func IsSource(path string) bool {
	return filepath.Ext(path) == ".py"
}

func skipDir(path, root string, info os.FileInfo) bool {
	return path != root && strings.HasPrefix(info.Name(), ".")
}

func (c *Codebase) ScanAll() error {
	return filepath.Walk(c.rootDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if info.IsDir() {
			if skipDir(path, c.rootDir, info) {
				return filepath.SkipDir
			}
			return nil
		}
		if IsSource(path) {
			if err := c.ScanFile(path); err != nil {
				log.Errorf("scan %s: %s", path, err)
			}
		}
		return nil
	})
}

func (c *Codebase) ScanFile(path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return c.UpdateFile(path, content)
}

// UpdateFile parses content in recovering mode. Content whose hash matches the
// stored one is not parsed again.
func (c *Codebase) UpdateFile(path string, content []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.updateFileLocked(path, content)
}

func (c *Codebase) updateFileLocked(path string, content []byte) error {
	hash := blake2b.Sum256(content)
	if f, ok := c.files[path]; ok && f.Hash == hash {
		log.Debugf("unchanged: %s", path)
		return nil
	}

	p := parser.New(c.grammar, string(content), parser.WithRecovery(), parser.WithPath(path))
	if _, err := p.Parse(); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}

	c.files[path] = &FileInfo{
		Path:    path,
		Content: content,
		Hash:    hash,
		Module:  p.Module(),
		Errors:  p.SyntaxErrors(),
	}
	log.Debugf("parsed %s: %d syntax errors", path, len(p.SyntaxErrors()))
	return nil
}

func (c *Codebase) RemoveFile(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.files, path)
}

func (c *Codebase) GetFile(path string) *FileInfo {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.files[path]
}

// Paths returns the known files in lexical order.
func (c *Codebase) Paths() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	paths := make([]string, 0, len(c.files))
	for path := range c.files {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}

func (c *Codebase) Diagnostics(path string) []*parser.SyntaxError {
	f := c.GetFile(path)
	if f == nil {
		return nil
	}
	return f.Errors
}

type CompletionKind int

const (
	CompletionKindName CompletionKind = iota
	CompletionKindKeyword
)

type CompletionItem struct {
	Label      string
	Kind       CompletionKind
	Detail     string
	InsertText string
}

// Completions ranks the names used in path and the grammar keywords against
// prefix, closest match first.
func (c *Codebase) Completions(path, prefix string) []CompletionItem {
	f := c.GetFile(path)
	if f == nil {
		return nil
	}

	uses := make(map[string]int)
	for name, leaves := range f.Module.UsedNames {
		if name != prefix {
			uses[name] = len(leaves)
		}
	}
	targets := make([]string, 0, len(uses))
	for name := range uses {
		targets = append(targets, name)
	}
	for _, kw := range c.grammar.Keywords() {
		if _, ok := uses[kw]; !ok && kw != prefix {
			targets = append(targets, kw)
		}
	}
	sort.Strings(targets)

	ranks := fuzzy.RankFindFold(prefix, targets)
	sort.Stable(ranks)

	items := make([]CompletionItem, 0, len(ranks))
	for _, r := range ranks {
		item := CompletionItem{Label: r.Target, InsertText: r.Target}
		if n, ok := uses[r.Target]; ok {
			item.Kind = CompletionKindName
			item.Detail = pluralUses(n)
		} else {
			item.Kind = CompletionKindKeyword
			item.Detail = "keyword"
		}
		items = append(items, item)
	}
	return items
}

// CompletionsAtPoint completes the identifier that ends at the given 1-based
// line and 0-based column.
func (c *Codebase) CompletionsAtPoint(path string, line, column int) []CompletionItem {
	f := c.GetFile(path)
	if f == nil {
		return nil
	}
	return c.Completions(path, PrefixAt(f.Content, line, column))
}

// PrefixAt returns the identifier characters directly before line:column.
func PrefixAt(content []byte, line, column int) string {
	lines := strings.Split(string(content), "\n")
	if line < 1 || line > len(lines) {
		return ""
	}
	text := lines[line-1]
	if column > len(text) {
		column = len(text)
	}
	start := column
	for start > 0 && isIdentByte(text[start-1]) {
		start--
	}
	return text[start:column]
}

func isIdentByte(b byte) bool {
	return b == '_' || b >= 0x80 ||
		('a' <= b && b <= 'z') || ('A' <= b && b <= 'Z') || ('0' <= b && b <= '9')
}

func pluralUses(n int) string {
	if n == 1 {
		return "1 use"
	}
	return fmt.Sprintf("%d uses", n)
}
