package format

import (
	"bytes"
	"testing"

	"github.com/fiorevita/questlang/quest"
	"github.com/fiorevita/questlang/quest/parser"
)

func TestTextEncoder(t *testing.T) {
	q := &quest.Quest{
		Name:   "Dragon Hunt",
		Steps:  []string{"Travel to the Dark Forest", "Slay the dragon"},
		Reward: 500,
		Active: true,
	}

	var buf bytes.Buffer
	if err := NewTextEncoder(&buf).Encode(q); err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	want := `quest "Dragon Hunt" {
  reward: 500,
  active: true,
  step: "Travel to the Dark Forest",
  step: "Slay the dragon",
}
`
	if buf.String() != want {
		t.Errorf("Encode() =\n%s\nwant\n%s", buf.String(), want)
	}
}

func TestTextEncoderEmptyQuest(t *testing.T) {
	var buf bytes.Buffer
	if err := NewTextEncoder(&buf).Encode(&quest.Quest{Name: "Empty"}); err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	want := `quest "Empty" {
  reward: 0,
  active: false,
}
`
	if buf.String() != want {
		t.Errorf("Encode() =\n%s\nwant\n%s", buf.String(), want)
	}
}

func TestTextEncoderUnquotableName(t *testing.T) {
	var buf bytes.Buffer
	err := NewTextEncoder(&buf).Encode(&quest.Quest{Name: `say "hi"`})
	if err == nil {
		t.Fatal("Encode() error = nil, want error for name with quote")
	}
}

func TestFormatCanonicalizes(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			"reorders and quotes",
			`quest Hunt {step:"A",active:true,reward:7}`,
			"quest \"Hunt\" {\n  reward: 7,\n  active: true,\n  step: \"A\",\n}\n",
		},
		{
			"adds trailing comma",
			`quest "X" { reward: 1 }`,
			"quest \"X\" {\n  reward: 1,\n  active: false,\n}\n",
		},
		{
			"collapses duplicate reward",
			`quest "X" { reward: 1, reward: 2 }`,
			"quest \"X\" {\n  reward: 2,\n  active: false,\n}\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Format([]byte(tt.input))
			if err != nil {
				t.Fatalf("Format() error = %v", err)
			}
			if string(got) != tt.want {
				t.Errorf("Format() =\n%s\nwant\n%s", got, tt.want)
			}
		})
	}
}

func TestFormatRejectsBadInput(t *testing.T) {
	if _, err := Format([]byte(`quest "X" { reward: }`)); err == nil {
		t.Error("Format() error = nil, want parse error")
	}
}

// Canonical output parses back to the same quest.
func TestFormatRoundTrip(t *testing.T) {
	inputs := []string{
		`quest "Main Quest" { active: true, reward: 100, step: "Start" }`,
		`quest Hunt { step: "A" step: "A" step: "B" }`,
		`quest "with \ backslash" { reward: -42 }`,
		`quest "multi
line" { active: false }`,
	}

	for _, input := range inputs {
		q1, err := parser.Parse(input)
		if err != nil {
			t.Fatalf("Parse(%q) error = %v", input, err)
		}
		formatted, err := Format([]byte(input))
		if err != nil {
			t.Fatalf("Format(%q) error = %v", input, err)
		}
		q2, err := parser.Parse(string(formatted))
		if err != nil {
			t.Fatalf("reparse error = %v\noutput:\n%s", err, formatted)
		}
		if q1.Name != q2.Name || q1.Reward != q2.Reward || q1.Active != q2.Active {
			t.Errorf("round trip changed quest: %+v vs %+v", q1, q2)
		}
		if len(q1.Steps) != len(q2.Steps) {
			t.Fatalf("round trip changed steps: %q vs %q", q1.Steps, q2.Steps)
		}
		for i := range q1.Steps {
			if q1.Steps[i] != q2.Steps[i] {
				t.Errorf("step %d changed: %q vs %q", i, q1.Steps[i], q2.Steps[i])
			}
		}
	}
}

// Formatting canonical output again is a no-op.
func TestFormatIdempotent(t *testing.T) {
	input := `quest Hunt {step:"A",active:true,reward:7}`
	once, err := Format([]byte(input))
	if err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	twice, err := Format(once)
	if err != nil {
		t.Fatalf("Format(Format()) error = %v", err)
	}
	if !bytes.Equal(once, twice) {
		t.Errorf("not idempotent:\nonce:\n%s\ntwice:\n%s", once, twice)
	}
}
