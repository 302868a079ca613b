package format

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/fiorevita/questlang/quest"
)

func TestNewEncoder(t *testing.T) {
	var buf bytes.Buffer

	if _, err := NewEncoder(&buf, "text"); err != nil {
		t.Errorf("NewEncoder(text) error = %v", err)
	}
	if _, err := NewEncoder(&buf, "json"); err != nil {
		t.Errorf("NewEncoder(json) error = %v", err)
	}
	if _, err := NewEncoder(&buf, "yaml"); err == nil {
		t.Error("NewEncoder(yaml) error = nil, want error")
	}
}

func TestJSONEncoder(t *testing.T) {
	q := &quest.Quest{
		Name:   "Dragon Hunt",
		Steps:  []string{"Travel", "Slay"},
		Reward: 500,
		Active: true,
	}

	var buf bytes.Buffer
	if err := NewJSONEncoder(&buf).Encode(q); err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	var got struct {
		Name   string   `json:"name"`
		Steps  []string `json:"steps"`
		Reward int32    `json:"reward"`
		Active bool     `json:"active"`
	}
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("output is not valid JSON: %v\n%s", err, buf.String())
	}
	if got.Name != "Dragon Hunt" {
		t.Errorf("name = %q, want %q", got.Name, "Dragon Hunt")
	}
	if len(got.Steps) != 2 || got.Steps[0] != "Travel" || got.Steps[1] != "Slay" {
		t.Errorf("steps = %q, want [Travel Slay]", got.Steps)
	}
	if got.Reward != 500 {
		t.Errorf("reward = %d, want 500", got.Reward)
	}
	if !got.Active {
		t.Errorf("active = false, want true")
	}
}

func TestJSONEncoderIndented(t *testing.T) {
	var buf bytes.Buffer
	if err := NewJSONEncoder(&buf).Encode(&quest.Quest{Name: "X"}); err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	if !strings.Contains(buf.String(), "\n  ") {
		t.Errorf("output not indented:\n%s", buf.String())
	}
}
