package types

import (
	"encoding/json"
	"fmt"
	"time"
)

// NoteType tags the variant held in Note.Content.
type NoteType string

// Note types.
const (
	NoteTypeFree       NoteType = "free"
	NoteTypePractice   NoteType = "practice"
	NoteTypeTournament NoteType = "tournament"
)

// Weather during the session a note describes.
type Weather int

// Weather values.
const (
	WeatherSunny Weather = iota
	WeatherCloudy
	WeatherRainy
)

// Valid reports whether w is a known weather value.
func (w Weather) Valid() bool {
	return w >= WeatherSunny && w <= WeatherRainy
}

// NoteContent is the variant part of a Note. It is implemented only by
// FreeContent, PracticeContent and TournamentContent.
type NoteContent interface {
	NoteType() NoteType
	isNoteContent()
}

// FreeContent is the permanent scratch note. Exactly one live free note
// exists per user and it can never be deleted.
type FreeContent struct {
	Title  string
	Detail string
}

// PracticeContent describes a practice session.
type PracticeContent struct {
	Purpose string
	Detail  string
}

// TournamentContent describes a match.
type TournamentContent struct {
	Target        string
	Consciousness string
	Result        string
}

// NoteType returns NoteTypeFree.
func (FreeContent) NoteType() NoteType { return NoteTypeFree }

// NoteType returns NoteTypePractice.
func (PracticeContent) NoteType() NoteType { return NoteTypePractice }

// NoteType returns NoteTypeTournament.
func (TournamentContent) NoteType() NoteType { return NoteTypeTournament }

func (FreeContent) isNoteContent()       {}
func (PracticeContent) isNoteContent()   {}
func (TournamentContent) isNoteContent() {}

// Note is a journal entry. Date, Weather, Temperature, Condition and
// Reflection are shared by every variant; the rest lives in Content.
type Note struct {
	Base
	Date        time.Time
	Weather     Weather
	Temperature int
	Condition   string
	Reflection  string
	Content     NoteContent
}

// Kind returns KindNote.
func (*Note) Kind() Kind { return KindNote }

// Type returns the variant tag, or "" when Content is unset.
func (n *Note) Type() NoteType {
	if n.Content == nil {
		return ""
	}
	return n.Content.NoteType()
}

// IsFree reports whether n is the scratch note.
func (n *Note) IsFree() bool {
	return n.Type() == NoteTypeFree
}

// noteJSON is the flat wire form of a Note. Variant fields that do not apply
// to the note type are omitted.
type noteJSON struct {
	Base
	NoteType      NoteType  `json:"note_type"`
	Date          time.Time `json:"date"`
	Weather       Weather   `json:"weather"`
	Temperature   int       `json:"temperature"`
	Condition     string    `json:"condition"`
	Reflection    string    `json:"reflection"`
	Title         string    `json:"title,omitempty"`
	Purpose       string    `json:"purpose,omitempty"`
	Detail        string    `json:"detail,omitempty"`
	Target        string    `json:"target,omitempty"`
	Consciousness string    `json:"consciousness,omitempty"`
	Result        string    `json:"result,omitempty"`
}

// MarshalJSON flattens the variant into note_type plus its fields.
func (n Note) MarshalJSON() ([]byte, error) {
	w := noteJSON{
		Base:        n.Base,
		NoteType:    n.Type(),
		Date:        n.Date,
		Weather:     n.Weather,
		Temperature: n.Temperature,
		Condition:   n.Condition,
		Reflection:  n.Reflection,
	}
	switch c := n.Content.(type) {
	case FreeContent:
		w.Title, w.Detail = c.Title, c.Detail
	case PracticeContent:
		w.Purpose, w.Detail = c.Purpose, c.Detail
	case TournamentContent:
		w.Target, w.Consciousness, w.Result = c.Target, c.Consciousness, c.Result
	}
	return json.Marshal(w)
}

// UnmarshalJSON rebuilds the variant from note_type.
func (n *Note) UnmarshalJSON(data []byte) error {
	var w noteJSON
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	content, err := NewNoteContent(w.NoteType, w.Title, w.Purpose, w.Detail, w.Target, w.Consciousness, w.Result)
	if err != nil {
		return err
	}
	*n = Note{
		Base:        w.Base,
		Date:        w.Date,
		Weather:     w.Weather,
		Temperature: w.Temperature,
		Condition:   w.Condition,
		Reflection:  w.Reflection,
		Content:     content,
	}
	return nil
}

// NewNoteContent builds the variant for t from the flattened field set.
// Fields that do not belong to the variant are ignored.
func NewNoteContent(t NoteType, title, purpose, detail, target, consciousness, result string) (NoteContent, error) {
	switch t {
	case NoteTypeFree:
		return FreeContent{Title: title, Detail: detail}, nil
	case NoteTypePractice:
		return PracticeContent{Purpose: purpose, Detail: detail}, nil
	case NoteTypeTournament:
		return TournamentContent{Target: target, Consciousness: consciousness, Result: result}, nil
	default:
		return nil, fmt.Errorf("%w: note type %q", ErrInvalidData, t)
	}
}
