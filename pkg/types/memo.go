package types

import "time"

// Memo records how a Measures went during the session written up in a Note.
// NoteDate is a copy of the parent Note's Date so memos can be listed by day
// without a join.
type Memo struct {
	Base
	MeasuresID string    `json:"measures_id"`
	NoteID     string    `json:"note_id"`
	Detail     string    `json:"detail"`
	NoteDate   time.Time `json:"note_date"`
}

// Kind returns KindMemo.
func (*Memo) Kind() Kind { return KindMemo }
