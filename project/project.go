package project

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// ManifestName is the file that marks a campaign root.
const ManifestName = "quest.toml"

// Project represents a quest campaign: a quest.toml manifest plus the
// chapter directories it declares.
type Project struct {
	RootDir  string
	Manifest string
	Campaign Campaign
	Chapters []*Chapter
}

// Campaign holds the [campaign] table of the manifest.
type Campaign struct {
	Name    string   `toml:"name"`
	Version string   `toml:"version"`
	Authors []string `toml:"authors"`
}

// Chapter represents a single [[chapter]] entry. Dir is relative to
// the campaign root; After names chapters that must come before this
// one.
type Chapter struct {
	Name    string
	Dir     string
	After   []string
	Project *Project
}

type manifest struct {
	Campaign Campaign      `toml:"campaign"`
	Chapters []chapterDecl `toml:"chapter"`
}

type chapterDecl struct {
	Name  string   `toml:"name"`
	Dir   string   `toml:"dir"`
	After []string `toml:"after"`
}

// Load finds and loads the campaign for the current directory.
func Load() (*Project, error) {
	return Find(".")
}

// Find walks up from start looking for a quest.toml manifest.
func Find(start string) (*Project, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return nil, err
	}
	for {
		path := filepath.Join(dir, ManifestName)
		if _, err := os.Stat(path); err == nil {
			return LoadFile(path)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return nil, fmt.Errorf("no %s found in %s or any parent directory", ManifestName, start)
		}
		dir = parent
	}
}

// LoadFile loads the manifest at the given path.
func LoadFile(path string) (*Project, error) {
	var m manifest
	if _, err := toml.DecodeFile(path, &m); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	if m.Campaign.Name == "" {
		return nil, fmt.Errorf("%s: campaign name is required", path)
	}

	proj := &Project{
		RootDir:  filepath.Dir(path),
		Manifest: path,
		Campaign: m.Campaign,
	}

	seen := make(map[string]bool)
	for _, decl := range m.Chapters {
		if decl.Name == "" {
			return nil, fmt.Errorf("%s: chapter without a name", path)
		}
		if seen[decl.Name] {
			return nil, fmt.Errorf("%s: duplicate chapter %q", path, decl.Name)
		}
		seen[decl.Name] = true

		dir := decl.Dir
		if dir == "" {
			dir = decl.Name
		}

		proj.Chapters = append(proj.Chapters, &Chapter{
			Name:    decl.Name,
			Dir:     dir,
			After:   decl.After,
			Project: proj,
		})
	}

	for _, ch := range proj.Chapters {
		for _, dep := range ch.After {
			if !seen[dep] {
				return nil, fmt.Errorf("%s: chapter %q comes after unknown chapter %q", path, ch.Name, dep)
			}
		}
	}

	return proj, nil
}

// Chapter returns the chapter with the given name, or nil if not found.
func (p *Project) Chapter(name string) *Chapter {
	for _, ch := range p.Chapters {
		if ch.Name == name {
			return ch
		}
	}
	return nil
}

// ChaptersInOrder returns chapters sorted so that a chapter comes after
// everything its after list names. Chapters without constraints keep
// their manifest order. A cycle falls back to the manifest order.
func (p *Project) ChaptersInOrder() []*Chapter {
	chapterSet := make(map[string]bool)
	for _, ch := range p.Chapters {
		chapterSet[ch.Name] = true
	}

	// Topological sort using Kahn's algorithm
	inDegree := make(map[string]int)
	for _, ch := range p.Chapters {
		inDegree[ch.Name] = 0
	}

	for _, ch := range p.Chapters {
		for _, dep := range ch.After {
			if chapterSet[dep] {
				inDegree[ch.Name]++
			}
		}
	}

	var queue []string
	for _, ch := range p.Chapters {
		if inDegree[ch.Name] == 0 {
			queue = append(queue, ch.Name)
		}
	}

	var result []*Chapter
	for len(queue) > 0 {
		name := queue[0]
		queue = queue[1:]

		if ch := p.Chapter(name); ch != nil {
			result = append(result, ch)
		}

		for _, ch := range p.Chapters {
			for _, dep := range ch.After {
				if dep == name {
					inDegree[ch.Name]--
					if inDegree[ch.Name] == 0 {
						queue = append(queue, ch.Name)
					}
				}
			}
		}
	}

	if len(result) != len(p.Chapters) {
		return p.Chapters
	}

	return result
}

// QuestFiles returns every .quest file in the campaign, chapter by
// chapter in dependency order. A campaign without chapters is treated
// as one chapter rooted at the manifest directory.
func (p *Project) QuestFiles() ([]string, error) {
	if len(p.Chapters) == 0 {
		return questFilesUnder(p.RootDir)
	}

	var files []string
	for _, ch := range p.ChaptersInOrder() {
		chFiles, err := ch.QuestFiles()
		if err != nil {
			return nil, err
		}
		files = append(files, chFiles...)
	}
	return files, nil
}

// SrcDir returns the chapter's directory resolved against the campaign
// root.
func (c *Chapter) SrcDir() string {
	return filepath.Join(c.Project.RootDir, c.Dir)
}

// QuestFiles returns all .quest files in this chapter, recursively.
func (c *Chapter) QuestFiles() ([]string, error) {
	return questFilesUnder(c.SrcDir())
}

func questFilesUnder(dir string) ([]string, error) {
	var files []string

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if !strings.HasSuffix(path, ".quest") {
			return nil
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan quest files in %s: %w", dir, err)
	}

	return files, nil
}
