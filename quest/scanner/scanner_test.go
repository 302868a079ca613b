package scanner

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"
)

func writeQuestFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func writeZip(t *testing.T, path string, entries map[string]string) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	zw := zip.NewWriter(f)
	for name, content := range entries {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := w.Write([]byte(content)); err != nil {
			t.Fatal(err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestScannerDirectory(t *testing.T) {
	dir := t.TempDir()
	writeQuestFile(t, dir, "dragon.quest", `quest "Dragon Hunt" { reward: 100, active: true }`)
	writeQuestFile(t, dir, filepath.Join("side", "herbs.quest"), `quest "Gather Herbs" { reward: 5 }`)
	writeQuestFile(t, dir, "broken.quest", `quest "Broken" { reward: }`)
	writeQuestFile(t, dir, "notes.txt", "not a quest")

	s := New()
	id := s.Submit(Request{Path: dir})

	result, ok := s.Wait(id)
	if !ok {
		t.Fatalf("Wait(%q) reported unknown scan", id)
	}
	if result.Status != StatusCompleted {
		t.Fatalf("Status = %q, want %q (errors: %v)", result.Status, StatusCompleted, result.Errors)
	}
	if len(result.Quests) != 2 {
		t.Fatalf("len(Quests) = %d, want 2", len(result.Quests))
	}
	if len(result.Errors) != 1 {
		t.Errorf("len(Errors) = %d, want 1 (got %v)", len(result.Errors), result.Errors)
	}
	if result.Total != 3 {
		t.Errorf("Total = %d, want 3", result.Total)
	}
	if result.Progress != 3 {
		t.Errorf("Progress = %d, want 3", result.Progress)
	}
	if got := result.ProgressPercent(); got != 100 {
		t.Errorf("ProgressPercent() = %d, want 100", got)
	}
}

func TestScannerQuestFiles(t *testing.T) {
	dir := t.TempDir()
	path := writeQuestFile(t, dir, "town.quest", `quest "Save the Town" { step: "Talk to mayor" }`)

	s := New()
	id := s.Submit(Request{QuestFiles: []string{path}})

	result, ok := s.Wait(id)
	if !ok {
		t.Fatalf("Wait(%q) reported unknown scan", id)
	}
	if result.Status != StatusCompleted {
		t.Fatalf("Status = %q, want %q", result.Status, StatusCompleted)
	}
	if len(result.Quests) != 1 {
		t.Fatalf("len(Quests) = %d, want 1", len(result.Quests))
	}
	entry := result.Quests[0]
	if entry.Path != path {
		t.Errorf("Path = %q, want %q", entry.Path, path)
	}
	if entry.Quest.Name != "Save the Town" {
		t.Errorf("Name = %q, want %q", entry.Quest.Name, "Save the Town")
	}
	if len(entry.Quest.Steps) != 1 || entry.Quest.Steps[0] != "Talk to mayor" {
		t.Errorf("Steps = %v, want [Talk to mayor]", entry.Quest.Steps)
	}
}

func TestScannerZipPack(t *testing.T) {
	dir := t.TempDir()
	pack := filepath.Join(dir, "pack.zip")
	writeZip(t, pack, map[string]string{
		"quests/dragon.quest": `quest "Dragon Hunt" { reward: 100 }`,
		"quests/herbs.quest":  `quest "Gather Herbs" { reward: 5 }`,
		"README.txt":          "quest pack",
	})

	s := New()
	id := s.Submit(Request{ZipFile: pack})

	result, ok := s.Wait(id)
	if !ok {
		t.Fatalf("Wait(%q) reported unknown scan", id)
	}
	if result.Status != StatusCompleted {
		t.Fatalf("Status = %q, want %q (errors: %v)", result.Status, StatusCompleted, result.Errors)
	}
	if len(result.Quests) != 2 {
		t.Fatalf("len(Quests) = %d, want 2", len(result.Quests))
	}
	if result.Total != 2 {
		t.Errorf("Total = %d, want 2", result.Total)
	}
	names := map[string]bool{}
	for _, entry := range result.Quests {
		names[entry.Quest.Name] = true
	}
	if !names["Dragon Hunt"] || !names["Gather Herbs"] {
		t.Errorf("quest names = %v, want Dragon Hunt and Gather Herbs", names)
	}
}

func TestScannerMissingPathFails(t *testing.T) {
	dir := t.TempDir()

	s := New()
	id := s.Submit(Request{Path: filepath.Join(dir, "does-not-exist")})

	result, ok := s.Wait(id)
	if !ok {
		t.Fatalf("Wait(%q) reported unknown scan", id)
	}
	if result.Status != StatusFailed {
		t.Fatalf("Status = %q, want %q", result.Status, StatusFailed)
	}
	if result.Error == "" {
		t.Error("Error is empty, want walk failure")
	}
}

func TestScannerEmptyRequestFails(t *testing.T) {
	s := New()
	id := s.Submit(Request{})

	result, ok := s.Wait(id)
	if !ok {
		t.Fatalf("Wait(%q) reported unknown scan", id)
	}
	if result.Status != StatusFailed {
		t.Fatalf("Status = %q, want %q", result.Status, StatusFailed)
	}
}

func TestScannerAllQuests(t *testing.T) {
	dir := t.TempDir()
	writeQuestFile(t, dir, "z.quest", `quest "Zarok" {}`)
	writeQuestFile(t, dir, "a.quest", `quest "Arena" {}`)
	other := t.TempDir()
	writeQuestFile(t, other, "m.quest", `quest "Mines" {}`)

	s := New()
	first := s.Submit(Request{Path: dir})
	second := s.Submit(Request{Path: other})
	s.Wait(first)
	s.Wait(second)

	all := s.AllQuests()
	if len(all) != 3 {
		t.Fatalf("len(AllQuests()) = %d, want 3", len(all))
	}
	want := []string{"Arena", "Mines", "Zarok"}
	for i, entry := range all {
		if entry.Quest.Name != want[i] {
			t.Errorf("AllQuests()[%d].Quest.Name = %q, want %q", i, entry.Quest.Name, want[i])
		}
	}

	if found := s.FindQuest("Mines"); found == nil {
		t.Error("FindQuest(Mines) = nil, want entry")
	}
	if found := s.FindQuest("Catacombs"); found != nil {
		t.Errorf("FindQuest(Catacombs) = %v, want nil", found)
	}
}

func TestScannerGetUnknown(t *testing.T) {
	s := New()
	if _, ok := s.Get("no-such-scan"); ok {
		t.Error("Get(no-such-scan) reported ok")
	}
	if _, ok := s.Wait("no-such-scan"); ok {
		t.Error("Wait(no-such-scan) reported ok")
	}
}

func TestScannerSubmitAssignsIDs(t *testing.T) {
	dir := t.TempDir()
	writeQuestFile(t, dir, "one.quest", `quest "One" {}`)

	s := New()
	first := s.Submit(Request{Path: dir})
	second := s.Submit(Request{Path: dir})
	if first == "" || second == "" {
		t.Fatal("Submit returned an empty ID")
	}
	if first == second {
		t.Fatalf("Submit returned duplicate ID %q", first)
	}

	result, ok := s.Get(first)
	if !ok {
		t.Fatalf("Get(%q) reported unknown scan", first)
	}
	if result.Request.CreatedAt.IsZero() {
		t.Error("Request.CreatedAt is zero")
	}
}

func TestResultProgressPercent(t *testing.T) {
	tests := []struct {
		progress int
		total    int
		want     int
	}{
		{0, 0, 0},
		{0, 4, 0},
		{1, 4, 25},
		{2, 3, 66},
		{3, 3, 100},
	}
	for _, test := range tests {
		r := &Result{Progress: test.progress, Total: test.total}
		if got := r.ProgressPercent(); got != test.want {
			t.Errorf("ProgressPercent() with %d/%d = %d, want %d",
				test.progress, test.total, got, test.want)
		}
	}
}
