package format

import (
	"encoding/json"
	"io"

	"github.com/fiorevita/questlang/quest"
)

type JSONEncoder struct {
	w     io.Writer
	quest *quest.Quest
}

func NewJSONEncoder(w io.Writer) *JSONEncoder {
	return &JSONEncoder{w: w}
}

func (e *JSONEncoder) Encode(q *quest.Quest) error {
	e.quest = q
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *JSONEncoder) MarshalText() ([]byte, error) {
	data := e.buildQuestData()
	return json.MarshalIndent(data, "", "  ")
}

type jsonQuest struct {
	Name   string   `json:"name"`
	Steps  []string `json:"steps,omitempty"`
	Reward int32    `json:"reward"`
	Active bool     `json:"active"`
}

func (e *JSONEncoder) buildQuestData() jsonQuest {
	q := e.quest
	return jsonQuest{
		Name:   q.Name,
		Steps:  q.Steps,
		Reward: q.Reward,
		Active: q.Active,
	}
}
