package ui

import (
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"net/http"
	"os"
	"strings"

	"github.com/fiorevita/questlang/format"
	"github.com/fiorevita/questlang/quest/scanner"
)

//go:embed static templates
var embeddedFS embed.FS

type Server struct {
	scanner    *scanner.Scanner
	staticFS   fs.FS
	templates  *template.Template
	mux        *http.ServeMux
	templateFS fs.FS
	funcMap    template.FuncMap
}

func NewServer() (*Server, error) {
	staticFS := overlayFS("ui/static", mustSub(embeddedFS, "static"))
	templateFS := overlayFS("ui/templates", mustSub(embeddedFS, "templates"))

	funcMap := template.FuncMap{
		"add": func(a, b int) int {
			return a + b
		},
		"sub": func(a, b int) int {
			return a - b
		},
		"limit": func(n int, entries []scanner.Entry) []scanner.Entry {
			if n >= len(entries) {
				return entries
			}
			return entries[:n]
		},
		"statusClass": func(status scanner.Status) string {
			return "status-" + strings.ReplaceAll(string(status), "_", "-")
		},
	}

	tmpl, err := template.New("").Funcs(funcMap).ParseFS(templateFS, "*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	s := &Server{
		scanner:    scanner.New(),
		staticFS:   staticFS,
		templates:  tmpl,
		mux:        http.NewServeMux(),
		templateFS: templateFS,
		funcMap:    funcMap,
	}

	s.mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))
	s.mux.HandleFunc("POST /scan", s.handleScan)
	s.mux.HandleFunc("GET /scans/{id}", s.handleGetScan)
	s.mux.HandleFunc("GET /q/{questName...}", s.handleQuest)
	s.mux.HandleFunc("GET /sidebar", s.handleSidebar)
	s.mux.HandleFunc("GET /", s.handleIndex)

	if pack := os.Getenv("QUEST_PACK"); pack != "" {
		s.scanner.Submit(scanner.Request{ZipFile: pack})
	}

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) render(w http.ResponseWriter, name string, data any) {
	tmpl, err := template.New("").Funcs(s.funcMap).ParseFS(s.templateFS, "*.html")
	if err != nil {
		http.Error(w, "template error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	tmpl.ExecuteTemplate(w, name, data)
}

func (s *Server) handleScan(w http.ResponseWriter, r *http.Request) {
	var req scanner.Request

	contentType := r.Header.Get("Content-Type")
	if contentType == "application/json" {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid JSON: "+err.Error(), http.StatusBadRequest)
			return
		}
	} else {
		if err := r.ParseMultipartForm(32 << 20); err != nil {
			if err := r.ParseForm(); err != nil {
				http.Error(w, "invalid form data: "+err.Error(), http.StatusBadRequest)
				return
			}
		}

		req.Path = r.FormValue("path")

		if questFiles := r.Form["quest_files"]; len(questFiles) > 0 {
			req.QuestFiles = questFiles
		}

		if file, header, err := r.FormFile("zipfile"); err == nil {
			defer file.Close()
			tmpFile, err := os.CreateTemp("", "questlang-*.zip")
			if err != nil {
				http.Error(w, "failed to create temp file: "+err.Error(), http.StatusInternalServerError)
				return
			}
			if _, err := io.Copy(tmpFile, file); err != nil {
				tmpFile.Close()
				os.Remove(tmpFile.Name())
				http.Error(w, "failed to save zip file: "+err.Error(), http.StatusInternalServerError)
				return
			}
			tmpFile.Close()
			req.ZipFile = tmpFile.Name()
			_ = header
		}
	}

	if req.Path == "" && len(req.QuestFiles) == 0 && req.ZipFile == "" {
		http.Error(w, "must provide path, quest_files, or zipfile", http.StatusBadRequest)
		return
	}

	id := s.scanner.Submit(req)
	http.Redirect(w, r, "/scans/"+id, http.StatusSeeOther)
}

func (s *Server) handleGetScan(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	result, ok := s.scanner.Get(id)
	if !ok {
		http.Error(w, "scan not found", http.StatusNotFound)
		return
	}

	accept := r.Header.Get("Accept")
	if accept == "application/json" {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(result)
		return
	}

	s.render(w, "scan.html", result)
}

func mustSub(fsys fs.FS, dir string) fs.FS {
	sub, err := fs.Sub(fsys, dir)
	if err != nil {
		panic(err)
	}
	return sub
}

type overlayFSType struct {
	primary   fs.FS
	secondary fs.FS
}

func overlayFS(primaryPath string, secondary fs.FS) fs.FS {
	return &overlayFSType{
		primary:   os.DirFS(primaryPath),
		secondary: secondary,
	}
}

func (o *overlayFSType) Open(name string) (fs.File, error) {
	f, err := o.primary.Open(name)
	if err == nil {
		return f, nil
	}
	return o.secondary.Open(name)
}

func (o *overlayFSType) ReadDir(name string) ([]fs.DirEntry, error) {
	entries := make(map[string]fs.DirEntry)

	if rd, ok := o.secondary.(fs.ReadDirFS); ok {
		if list, err := rd.ReadDir(name); err == nil {
			for _, e := range list {
				entries[e.Name()] = e
			}
		}
	}

	if rd, ok := o.primary.(fs.ReadDirFS); ok {
		if list, err := rd.ReadDir(name); err == nil {
			for _, e := range list {
				entries[e.Name()] = e
			}
		}
	}

	result := make([]fs.DirEntry, 0, len(entries))
	for _, e := range entries {
		result = append(result, e)
	}
	return result, nil
}

type QuestViewData struct {
	Entries      []scanner.Entry
	ActiveEntry  *scanner.Entry
	ActiveName   string
	ActiveSource string
	TotalMatches int
	HasMore      bool
}

func (s *Server) handleQuest(w http.ResponseWriter, r *http.Request) {
	questName := r.PathValue("questName")
	allEntries := s.scanner.AllQuests()

	const maxResults = 20
	entries := allEntries
	if len(allEntries) > maxResults {
		entries = allEntries[:maxResults]
	}

	data := QuestViewData{
		Entries:      entries,
		ActiveName:   questName,
		TotalMatches: len(allEntries),
		HasMore:      len(allEntries) > maxResults,
	}

	if questName != "" {
		data.ActiveEntry = s.scanner.FindQuest(questName)
		if data.ActiveEntry == nil {
			http.Error(w, "quest not found", http.StatusNotFound)
			return
		}
		var buf strings.Builder
		if err := format.NewTextEncoder(&buf).Encode(data.ActiveEntry.Quest); err == nil {
			data.ActiveSource = buf.String()
		}
	}

	s.render(w, "quest.html", data)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path == "/" {
		if len(s.scanner.AllQuests()) > 0 {
			http.Redirect(w, r, "/q/", http.StatusSeeOther)
			return
		}
	}

	data := struct {
		Scans []*scanner.Result
	}{
		Scans: s.scanner.List(),
	}
	s.render(w, "index.html", data)
}

func (s *Server) handleSidebar(w http.ResponseWriter, r *http.Request) {
	query := strings.ToLower(r.URL.Query().Get("q"))
	activeName := r.URL.Query().Get("active")

	const maxResults = 20

	allEntries := s.scanner.AllQuests()

	var entries []scanner.Entry
	var totalMatches int
	if query == "" {
		totalMatches = len(allEntries)
		if len(allEntries) > maxResults {
			entries = allEntries[:maxResults]
		} else {
			entries = allEntries
		}
	} else {
		for _, e := range allEntries {
			if strings.Contains(strings.ToLower(e.Quest.Name), query) {
				totalMatches++
				if len(entries) < maxResults {
					entries = append(entries, e)
				}
			}
		}
	}

	data := struct {
		Entries      []scanner.Entry
		ActiveName   string
		TotalMatches int
		HasMore      bool
	}{
		Entries:      entries,
		ActiveName:   activeName,
		TotalMatches: totalMatches,
		HasMore:      totalMatches > maxResults,
	}
	s.render(w, "_sidebar.html", data)
}
