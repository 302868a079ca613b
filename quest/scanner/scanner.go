package scanner

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fiorevita/questlang/quest"
	"github.com/fiorevita/questlang/quest/parser"
	"github.com/google/uuid"
)

type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// Request describes one scan job: a directory tree, an explicit list
// of .quest files, or a zip quest pack. Timeout, when set, bounds the
// parse of each individual file.
type Request struct {
	ID         string
	Path       string
	QuestFiles []string
	ZipFile    string
	Timeout    time.Duration
	CreatedAt  time.Time
}

// Entry pairs a parsed quest with the file it came from.
type Entry struct {
	Path  string
	Quest *quest.Quest
}

type Result struct {
	ID        string
	Status    Status
	Request   Request
	Quests    []Entry
	Error     string
	Errors    []string
	StartedAt time.Time
	EndedAt   time.Time
	Progress  int
	Total     int
}

func (s *Result) ProgressPercent() int {
	if s.Total == 0 {
		return 0
	}
	return (s.Progress * 100) / s.Total
}

func (s *Result) Done() bool {
	return s.Status == StatusCompleted || s.Status == StatusFailed
}

type Scanner struct {
	mu       sync.RWMutex
	scans    map[string]*Result
	requests chan Request
}

func New() *Scanner {
	s := &Scanner{
		scans:    make(map[string]*Result),
		requests: make(chan Request, 100),
	}
	go s.run()
	return s
}

func (s *Scanner) run() {
	for req := range s.requests {
		s.processScan(req)
	}
}

type scanResult struct {
	quests []Entry
	errors []string
}

func (s *Scanner) processScan(req Request) {
	s.mu.Lock()
	result := s.scans[req.ID]
	result.Status = StatusInProgress
	result.StartedAt = time.Now()
	s.mu.Unlock()

	var sr scanResult

	switch {
	case req.Path != "":
		sr = s.scanDirectory(req)
	case len(req.QuestFiles) > 0:
		sr = s.scanFiles(req, req.QuestFiles)
	case req.ZipFile != "":
		sr = s.scanZipFile(req)
	default:
		sr.errors = append(sr.errors, "no path, quest files, or zip file provided")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	result.EndedAt = time.Now()
	result.Quests = sr.quests
	result.Errors = sr.errors
	if len(sr.errors) > 0 && len(sr.quests) == 0 {
		result.Status = StatusFailed
		result.Error = sr.errors[0]
	} else {
		result.Status = StatusCompleted
	}
}

func (s *Scanner) scanDirectory(req Request) scanResult {
	var files []string
	var errors []string
	err := filepath.Walk(req.Path, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			errors = append(errors, fmt.Sprintf("walk %s: %v", p, err))
			return nil
		}
		if !info.IsDir() && filepath.Ext(p) == ".quest" {
			files = append(files, p)
		}
		return nil
	})
	if err != nil {
		errors = append(errors, fmt.Sprintf("walk %s: %v", req.Path, err))
	}
	sr := s.scanFiles(req, files)
	sr.errors = append(errors, sr.errors...)
	return sr
}

func (s *Scanner) scanFiles(req Request, files []string) scanResult {
	s.mu.Lock()
	s.scans[req.ID].Total = len(files)
	s.mu.Unlock()

	var sr scanResult
	for i, file := range files {
		data, err := os.ReadFile(file)
		if err != nil {
			sr.errors = append(sr.errors, fmt.Sprintf("read %s: %v", file, err))
		} else {
			q, err := s.parseSource(req, file, data)
			if err != nil {
				sr.errors = append(sr.errors, fmt.Sprintf("parse %s: %v", file, err))
			} else {
				sr.quests = append(sr.quests, Entry{Path: file, Quest: q})
			}
		}

		s.mu.Lock()
		s.scans[req.ID].Progress = i + 1
		s.mu.Unlock()
	}
	return sr
}

func (s *Scanner) scanZipFile(req Request) scanResult {
	r, err := zip.OpenReader(req.ZipFile)
	if err != nil {
		return scanResult{errors: []string{fmt.Sprintf("open zip: %v", err)}}
	}
	defer r.Close()

	var questFiles []*zip.File
	for _, f := range r.File {
		if f.FileInfo().IsDir() {
			continue
		}
		if filepath.Ext(f.Name) == ".quest" {
			questFiles = append(questFiles, f)
		}
	}

	s.mu.Lock()
	s.scans[req.ID].Total = len(questFiles)
	s.mu.Unlock()

	var sr scanResult
	for i, f := range questFiles {
		rc, err := f.Open()
		if err != nil {
			sr.errors = append(sr.errors, fmt.Sprintf("open %s: %v", f.Name, err))
		} else {
			data, err := io.ReadAll(rc)
			rc.Close()
			if err != nil {
				sr.errors = append(sr.errors, fmt.Sprintf("read %s: %v", f.Name, err))
			} else {
				q, err := s.parseSource(req, f.Name, data)
				if err != nil {
					sr.errors = append(sr.errors, fmt.Sprintf("parse %s: %v", f.Name, err))
				} else {
					sr.quests = append(sr.quests, Entry{Path: f.Name, Quest: q})
				}
			}
		}

		s.mu.Lock()
		s.scans[req.ID].Progress = i + 1
		s.mu.Unlock()
	}
	return sr
}

// parseSource parses one quest source, bounded by the request's
// per-file timeout when set.
func (s *Scanner) parseSource(req Request, name string, data []byte) (*quest.Quest, error) {
	if req.Timeout <= 0 {
		return parser.Parse(string(data), parser.WithFile(name))
	}

	ctx, cancel := context.WithTimeout(context.Background(), req.Timeout)
	defer cancel()

	done := make(chan struct{})
	var q *quest.Quest
	var parseErr error
	go func() {
		defer close(done)
		q, parseErr = parser.Parse(string(data), parser.WithFile(name))
	}()

	select {
	case <-done:
		return q, parseErr
	case <-ctx.Done():
		return nil, fmt.Errorf("timeout after %s", req.Timeout)
	}
}

func (s *Scanner) Submit(req Request) string {
	req.ID = uuid.New().String()
	req.CreatedAt = time.Now()

	s.mu.Lock()
	s.scans[req.ID] = &Result{
		ID:      req.ID,
		Status:  StatusPending,
		Request: req,
	}
	s.mu.Unlock()

	s.requests <- req
	return req.ID
}

// Get returns a snapshot of the scan's current state.
func (s *Scanner) Get(id string) (*Result, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result, ok := s.scans[id]
	if !ok {
		return nil, false
	}
	snapshot := *result
	return &snapshot, true
}

// Wait blocks until the scan finishes and returns its final result.
func (s *Scanner) Wait(id string) (*Result, bool) {
	for {
		result, ok := s.Get(id)
		if !ok {
			return nil, false
		}
		if result.Done() {
			return result, true
		}
		time.Sleep(50 * time.Millisecond)
	}
}

// List returns snapshots of all scans, newest first.
func (s *Scanner) List() []*Result {
	s.mu.RLock()
	defer s.mu.RUnlock()
	results := make([]*Result, 0, len(s.scans))
	for _, r := range s.scans {
		snapshot := *r
		results = append(results, &snapshot)
	}
	sort.Slice(results, func(i, j int) bool {
		return results[i].Request.CreatedAt.After(results[j].Request.CreatedAt)
	})
	return results
}

// AllQuests returns every quest from completed scans, sorted by name.
func (s *Scanner) AllQuests() []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var all []Entry
	for _, scan := range s.scans {
		if scan.Status == StatusCompleted {
			all = append(all, scan.Quests...)
		}
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].Quest.Name < all[j].Quest.Name
	})
	return all
}

func (s *Scanner) FindQuest(name string) *Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, scan := range s.scans {
		if scan.Status == StatusCompleted {
			for i := range scan.Quests {
				if scan.Quests[i].Quest.Name == name {
					return &scan.Quests[i]
				}
			}
		}
	}
	return nil
}
