package notebook

import (
	"time"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/courtnote/pkg/types"
)

// Groups returns the live groups in display order.
func (s *Service) Groups() []*types.Group {
	return typed[*types.Group](s.List(types.KindGroup))
}

// AddGroup creates a group. Returns nil when the store refused it.
func (s *Service) AddGroup(title string, color int) *types.Group {
	g := &types.Group{Title: title, ColorIndex: color}
	if !s.create(g) {
		return nil
	}
	return g
}

// Tasks returns the live tasks of a group.
func (s *Service) Tasks(groupID string) []*types.Task {
	ts, err := s.store.TasksByGroup(groupID)
	return swallow(s, "list tasks", ts, err, zap.String("group_id", groupID))
}

// CompletedTasks returns the live, completed tasks of a group.
func (s *Service) CompletedTasks(groupID string) []*types.Task {
	ts, err := s.store.CompletedTasks(groupID)
	return swallow(s, "list completed tasks", ts, err, zap.String("group_id", groupID))
}

// AddTask creates a task under groupID.
func (s *Service) AddTask(groupID, title, cause string) *types.Task {
	t := &types.Task{GroupID: groupID, Title: title, Cause: cause}
	if !s.create(t) {
		return nil
	}
	return t
}

// SetTaskComplete marks a task done or open again.
func (s *Service) SetTaskComplete(taskID string, done bool) bool {
	t, ok := s.Get(types.KindTask, taskID).(*types.Task)
	if !ok {
		return false
	}
	t.IsComplete = done
	return s.Save(t)
}

// Measures returns the live measures of a task.
func (s *Service) Measures(taskID string) []*types.Measures {
	ms, err := s.store.MeasuresByTask(taskID)
	return swallow(s, "list measures", ms, err, zap.String("task_id", taskID))
}

// AddMeasures creates a corrective measure under taskID.
func (s *Service) AddMeasures(taskID, title string) *types.Measures {
	m := &types.Measures{TaskID: taskID, Title: title}
	if !s.create(m) {
		return nil
	}
	return m
}

// FreeNote returns the scratch note, or nil before bootstrap.
func (s *Service) FreeNote() *types.Note {
	n, err := s.store.FreeNote()
	return swallow(s, "free note", n, err)
}

// Notes returns the live notes in display order.
func (s *Service) Notes() []*types.Note {
	return typed[*types.Note](s.List(types.KindNote))
}

// SearchNotes returns the notes whose text contains query. The free note is
// always part of the result.
func (s *Service) SearchNotes(query string) []*types.Note {
	ns, err := s.store.SearchNotes(query)
	return swallow(s, "search notes", ns, err)
}

// NotesOnDay returns the practice and tournament notes dated on day.
func (s *Service) NotesOnDay(day time.Time) []*types.Note {
	ns, err := s.store.NotesOnDay(day)
	return swallow(s, "notes on day", ns, err, zap.Time("day", day))
}

// NoteInput carries the editable fields of a note.
type NoteInput struct {
	Date        time.Time
	Weather     types.Weather
	Temperature int
	Condition   string
	Reflection  string
	Content     types.NoteContent
}

// AddNote creates a practice or tournament note. A second free note is
// refused.
func (s *Service) AddNote(in NoteInput) *types.Note {
	if _, free := in.Content.(types.FreeContent); free && s.FreeNote() != nil {
		s.logger.Warn("refusing a second free note")
		return nil
	}
	n := &types.Note{
		Date:        in.Date,
		Weather:     in.Weather,
		Temperature: in.Temperature,
		Condition:   in.Condition,
		Reflection:  in.Reflection,
		Content:     in.Content,
	}
	if !s.create(n) {
		return nil
	}
	return n
}

// UpdateNote replaces the editable fields of a note. The variant may change
// between practice and tournament but never to or from free.
func (s *Service) UpdateNote(id string, in NoteInput) bool {
	n, ok := s.Get(types.KindNote, id).(*types.Note)
	if !ok {
		return false
	}
	_, toFree := in.Content.(types.FreeContent)
	if n.IsFree() != toFree {
		s.logger.Warn("refusing to change the free note variant", zap.String("id", id))
		return false
	}
	n.Date, n.Weather, n.Temperature = in.Date, in.Weather, in.Temperature
	n.Condition, n.Reflection, n.Content = in.Condition, in.Reflection, in.Content
	if !s.Save(n) {
		return false
	}
	s.redateMemos(n)
	return true
}

// redateMemos copies a note's date onto its memos.
func (s *Service) redateMemos(n *types.Note) {
	for _, m := range s.MemosByNote(n.ID) {
		if m.NoteDate.Equal(n.Date) {
			continue
		}
		m.NoteDate = n.Date
		s.Save(m)
	}
}

// AddMemo records how a measure went in the session written up in noteID.
func (s *Service) AddMemo(measuresID, noteID, detail string) *types.Memo {
	n, ok := s.Get(types.KindNote, noteID).(*types.Note)
	if !ok {
		return nil
	}
	m := &types.Memo{MeasuresID: measuresID, NoteID: noteID, Detail: detail, NoteDate: n.Date}
	if !s.create(m) {
		return nil
	}
	return m
}

// MemosByMeasures returns the memos of a measure oldest first.
func (s *Service) MemosByMeasures(measuresID string) []*types.Memo {
	ms, err := s.store.MemosByMeasures(measuresID)
	return swallow(s, "memos by measures", ms, err, zap.String("measures_id", measuresID))
}

// MemosByNote returns the memos written in a note oldest first.
func (s *Service) MemosByNote(noteID string) []*types.Memo {
	ms, err := s.store.MemosByNote(noteID)
	return swallow(s, "memos by note", ms, err, zap.String("note_id", noteID))
}

// MemoColor returns the color of the group a memo belongs to.
func (s *Service) MemoColor(memoID string) (int, bool) {
	c, err := s.store.GroupColor(memoID)
	return c, s.ok("memo color", err, zap.String("memo_id", memoID))
}

// SetYearlyTarget sets the target for year, replacing any previous one.
func (s *Service) SetYearlyTarget(year int, title string) *types.Target {
	return s.setTarget(&types.Target{Title: title, Year: year, IsYearlyTarget: true})
}

// SetMonthlyTarget sets the target for one month, replacing any previous one.
func (s *Service) SetMonthlyTarget(year, month int, title string) *types.Target {
	return s.setTarget(&types.Target{Title: title, Year: year, Month: month})
}

func (s *Service) setTarget(t *types.Target) *types.Target {
	t.Base = types.NewBase(s.users.UserID(), 0, s.now())
	if !s.ok("save target", s.store.SaveTarget(t), zap.Int("year", t.Year), zap.Int("month", t.Month)) {
		return nil
	}
	return t
}

// Targets returns the yearly and monthly targets of year.
func (s *Service) Targets(year int) []*types.Target {
	ts, err := s.store.TargetsForYear(year)
	return swallow(s, "targets", ts, err, zap.Int("year", year))
}

func typed[T types.Entity](es []types.Entity) []T {
	out := make([]T, 0, len(es))
	for _, e := range es {
		if v, ok := e.(T); ok {
			out = append(out, v)
		}
	}
	return out
}
