package codebase

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"github.com/fiorevita/questlang/quest"
	"github.com/fiorevita/questlang/quest/parser"
)

type Codebase struct {
	mu      sync.RWMutex
	rootDir string
	files   map[string]*FileInfo
	quests  []*quest.Quest
}

type FileInfo struct {
	Path     string
	Content  []byte
	Quest    *quest.Quest
	ParseErr error
}

func New(rootDir string) *Codebase {
	return &Codebase{
		rootDir: rootDir,
		files:   make(map[string]*FileInfo),
	}
}

func (c *Codebase) RootDir() string {
	return c.rootDir
}

func (c *Codebase) ScanAll() error {
	return filepath.Walk(c.rootDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if info.IsDir() {
			return nil
		}
		if filepath.Ext(path) == ".quest" {
			c.ScanFile(path)
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

func (c *Codebase) UpdateFile(path string, content []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.updateFileLocked(path, content)
}

func (c *Codebase) updateFileLocked(path string, content []byte) error {
	q, parseErr := parser.Parse(string(content), parser.WithFile(filepath.Base(path)))

	c.files[path] = &FileInfo{
		Path:     path,
		Content:  content,
		Quest:    q,
		ParseErr: parseErr,
	}

	c.rebuildQuestsLocked()
	return nil
}

func (c *Codebase) rebuildQuestsLocked() {
	paths := make([]string, 0, len(c.files))
	for path := range c.files {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	var all []*quest.Quest
	for _, path := range paths {
		if q := c.files[path].Quest; q != nil {
			all = append(all, q)
		}
	}
	c.quests = all
}

func (c *Codebase) RemoveFile(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.files, path)
	c.rebuildQuestsLocked()
}

func (c *Codebase) GetFile(path string) *FileInfo {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.files[path]
}

func (c *Codebase) AllQuests() []*quest.Quest {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.quests
}

func (c *Codebase) FindQuest(name string) *quest.Quest {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, q := range c.quests {
		if q.Name == name {
			return q
		}
	}
	return nil
}

// BodyDepthAt reports how many quest bodies enclose the given point.
// Line and column are 1-based; braces inside string literals do not
// count.
func (c *Codebase) BodyDepthAt(path string, line, column int) int {
	c.mu.RLock()
	f := c.files[path]
	c.mu.RUnlock()
	if f == nil {
		return 0
	}
	return bodyDepthAt(f.Content, line, column)
}

func bodyDepthAt(content []byte, line, column int) int {
	depth := 0
	curLine, curCol := 1, 1
	inString := false
	for _, r := range string(content) {
		if curLine > line || (curLine == line && curCol >= column) {
			break
		}
		switch {
		case inString:
			if r == '"' {
				inString = false
			}
		case r == '"':
			inString = true
		case r == '{':
			depth++
		case r == '}':
			if depth > 0 {
				depth--
			}
		}
		if r == '\n' {
			curLine++
			curCol = 1
		} else {
			curCol++
		}
	}
	return depth
}

func (c *Codebase) CompletionsAtPoint(path string, line, column int) []CompletionItem {
	c.mu.RLock()
	f := c.files[path]
	c.mu.RUnlock()
	if f == nil {
		return nil
	}

	if bodyDepthAt(f.Content, line, column) == 0 {
		return []CompletionItem{
			{
				Label:      "quest",
				Kind:       CompletionKindKeyword,
				Detail:     "quest declaration",
				InsertText: "quest \"${1:Name}\" {\n\t$0\n}",
			},
		}
	}

	if wantsBoolValue(lineBeforePoint(f.Content, line, column)) {
		return []CompletionItem{
			{
				Label:      "true",
				Kind:       CompletionKindValue,
				Detail:     "Bool",
				InsertText: "true",
			},
			{
				Label:      "false",
				Kind:       CompletionKindValue,
				Detail:     "Bool",
				InsertText: "false",
			},
		}
	}

	return []CompletionItem{
		{
			Label:      "reward",
			Kind:       CompletionKindProperty,
			Detail:     "Number",
			InsertText: "reward: ${1:0}",
		},
		{
			Label:      "active",
			Kind:       CompletionKindProperty,
			Detail:     "Bool",
			InsertText: "active: ${1:true}",
		},
		{
			Label:      "step",
			Kind:       CompletionKindProperty,
			Detail:     "String",
			InsertText: "step: \"${1:description}\"",
		},
	}
}

// lineBeforePoint returns the target line's text up to the cursor
// column (1-based, exclusive).
func lineBeforePoint(content []byte, line, column int) string {
	curLine, curCol := 1, 1
	var b strings.Builder
	for _, r := range string(content) {
		if r == '\n' {
			if curLine == line {
				break
			}
			curLine++
			curCol = 1
			continue
		}
		if curLine == line {
			if curCol >= column {
				break
			}
			b.WriteRune(r)
		}
		curCol++
	}
	return b.String()
}

// wantsBoolValue reports whether the text before the cursor ends in an
// active: key, with at most a partly typed value after the colon.
func wantsBoolValue(prefix string) bool {
	s := strings.TrimRight(prefix, " \t")
	s = strings.TrimRightFunc(s, isIdentRune)
	s = strings.TrimRight(s, " \t")
	if !strings.HasSuffix(s, ":") {
		return false
	}
	s = strings.TrimRight(s[:len(s)-1], " \t")
	if !strings.HasSuffix(s, "active") {
		return false
	}
	rest := s[:len(s)-len("active")]
	if rest == "" {
		return true
	}
	r, _ := utf8.DecodeLastRuneInString(rest)
	return !isIdentRune(r)
}

func isIdentRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

type CompletionKind int

const (
	CompletionKindKeyword CompletionKind = iota
	CompletionKindProperty
	CompletionKindValue
)

type CompletionItem struct {
	Label      string
	Kind       CompletionKind
	Detail     string
	InsertText string
}
