package remote

import (
	"fmt"
	"maps"
	"math"
	"time"

	"github.com/surrealdb/surrealdb.go/pkg/models"

	"github.com/mesh-intelligence/courtnote/pkg/types"
)

// Document is the flattened remote form of a record.
type Document map[string]any

// Field names shared by every kind. The entity id is stored under entity_id
// because SurrealDB reserves id for the record id.
const (
	FieldEntityID  = "entity_id"
	FieldUserID    = "user_id"
	FieldOrder     = "order"
	FieldIsDeleted = "is_deleted"
	FieldCreatedAt = "created_at"
	FieldUpdatedAt = "updated_at"
)

// DocumentID returns the document id of a record owned by userID.
func DocumentID(userID, entityID string) string {
	return userID + "_" + entityID
}

// Encode flattens e into a Document. Timestamps stay time.Time so the driver
// stores them as native datetimes.
func Encode(e types.Entity) (Document, error) {
	if e == nil {
		return nil, fmt.Errorf("%w: nil entity", types.ErrInvalidData)
	}
	m := e.Meta()
	doc := Document{
		FieldEntityID:  m.ID,
		FieldUserID:    m.UserID,
		FieldOrder:     m.Order,
		FieldIsDeleted: m.IsDeleted,
		FieldCreatedAt: m.CreatedAt.UTC(),
		FieldUpdatedAt: m.UpdatedAt.UTC(),
	}

	switch v := e.(type) {
	case *types.Group:
		doc["title"] = v.Title
		doc["color"] = v.ColorIndex
	case *types.Task:
		doc["group_id"] = v.GroupID
		doc["title"] = v.Title
		doc["cause"] = v.Cause
		doc["is_complete"] = v.IsComplete
	case *types.Measures:
		doc["task_id"] = v.TaskID
		doc["title"] = v.Title
	case *types.Memo:
		doc["measures_id"] = v.MeasuresID
		doc["note_id"] = v.NoteID
		doc["detail"] = v.Detail
		doc["note_date"] = v.NoteDate.UTC()
	case *types.Note:
		encodeNote(doc, v)
	case *types.Target:
		doc["title"] = v.Title
		doc["year"] = v.Year
		doc["month"] = v.Month
		doc["is_yearly_target"] = v.IsYearlyTarget
	default:
		return nil, fmt.Errorf("%w: %T", types.ErrUnknownKind, e)
	}
	return doc, nil
}

func encodeNote(doc Document, n *types.Note) {
	doc["note_type"] = string(n.Type())
	doc["date"] = n.Date.UTC()
	doc["weather"] = int(n.Weather)
	doc["temperature"] = n.Temperature
	doc["condition"] = n.Condition
	doc["reflection"] = n.Reflection
	switch c := n.Content.(type) {
	case types.FreeContent:
		doc["title"] = c.Title
		doc["detail"] = c.Detail
	case types.PracticeContent:
		doc["purpose"] = c.Purpose
		doc["detail"] = c.Detail
	case types.TournamentContent:
		doc["target"] = c.Target
		doc["consciousness"] = c.Consciousness
		doc["result"] = c.Result
	}
}

// Decode rebuilds a record of kind from doc. Missing fields take their zero
// value; fields of the wrong type are an error wrapping types.ErrInvalidData.
func Decode(kind types.Kind, doc Document) (types.Entity, error) {
	d := decoder{doc: doc}
	e := kind.New()
	if e == nil {
		return nil, fmt.Errorf("%w: %q", types.ErrUnknownKind, kind)
	}

	m := e.Meta()
	m.ID = d.str(FieldEntityID)
	m.UserID = d.str(FieldUserID)
	m.Order = d.int(FieldOrder)
	m.IsDeleted = d.bool(FieldIsDeleted)
	m.CreatedAt = d.time(FieldCreatedAt)
	m.UpdatedAt = d.time(FieldUpdatedAt)

	switch v := e.(type) {
	case *types.Group:
		v.Title = d.str("title")
		v.ColorIndex = d.int("color")
	case *types.Task:
		v.GroupID = d.str("group_id")
		v.Title = d.str("title")
		v.Cause = d.str("cause")
		v.IsComplete = d.bool("is_complete")
	case *types.Measures:
		v.TaskID = d.str("task_id")
		v.Title = d.str("title")
	case *types.Memo:
		v.MeasuresID = d.str("measures_id")
		v.NoteID = d.str("note_id")
		v.Detail = d.str("detail")
		v.NoteDate = d.time("note_date")
	case *types.Note:
		v.Date = d.time("date")
		v.Weather = types.Weather(d.int("weather"))
		v.Temperature = d.int("temperature")
		v.Condition = d.str("condition")
		v.Reflection = d.str("reflection")
		content, err := types.NewNoteContent(types.NoteType(d.str("note_type")),
			d.str("title"), d.str("purpose"), d.str("detail"),
			d.str("target"), d.str("consciousness"), d.str("result"))
		if err != nil {
			return nil, err
		}
		v.Content = content
	case *types.Target:
		v.Title = d.str("title")
		v.Year = d.int("year")
		v.Month = d.int("month")
		v.IsYearlyTarget = d.bool("is_yearly_target")
	}

	if d.err != nil {
		return nil, d.err
	}
	return e, nil
}

// Pick returns the subset of doc named by fields, or a copy of doc when
// fields is empty. The timestamp that orders writes always travels along.
func Pick(doc Document, fields []string) Document {
	if len(fields) == 0 {
		return maps.Clone(doc)
	}
	out := Document{FieldUpdatedAt: doc[FieldUpdatedAt]}
	for _, f := range fields {
		if v, ok := doc[f]; ok {
			out[f] = v
		}
	}
	return out
}

// decoder reads typed fields and keeps the first type error.
type decoder struct {
	doc Document
	err error
}

func (d *decoder) fail(field string, v any) {
	if d.err == nil {
		d.err = fmt.Errorf("%w: field %s has type %T", types.ErrInvalidData, field, v)
	}
}

func (d *decoder) str(field string) string {
	switch v := d.doc[field].(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		d.fail(field, v)
		return ""
	}
}

func (d *decoder) bool(field string) bool {
	switch v := d.doc[field].(type) {
	case nil:
		return false
	case bool:
		return v
	default:
		d.fail(field, v)
		return false
	}
}

// int accepts every numeric type a CBOR or JSON decoder may produce.
func (d *decoder) int(field string) int {
	switch v := d.doc[field].(type) {
	case nil:
		return 0
	case int:
		return v
	case int8:
		return int(v)
	case int16:
		return int(v)
	case int32:
		return int(v)
	case int64:
		return int(v)
	case uint8:
		return int(v)
	case uint16:
		return int(v)
	case uint32:
		return int(v)
	case uint64:
		if v > math.MaxInt {
			d.fail(field, v)
			return 0
		}
		return int(v)
	case float64:
		return int(v)
	case float32:
		return int(v)
	default:
		d.fail(field, v)
		return 0
	}
}

// time accepts native datetimes, the driver's datetime wrapper and RFC 3339
// text. Results are in UTC.
func (d *decoder) time(field string) time.Time {
	switch v := d.doc[field].(type) {
	case nil:
		return time.Time{}
	case time.Time:
		return v.UTC()
	case models.CustomDateTime:
		return v.Time.UTC()
	case *models.CustomDateTime:
		if v == nil {
			return time.Time{}
		}
		return v.Time.UTC()
	case string:
		t, err := time.Parse(time.RFC3339Nano, v)
		if err != nil {
			d.fail(field, v)
			return time.Time{}
		}
		return t.UTC()
	default:
		d.fail(field, v)
		return time.Time{}
	}
}
