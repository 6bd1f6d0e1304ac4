package remote

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/surrealdb/surrealdb.go/pkg/models"

	"github.com/mesh-intelligence/courtnote/pkg/types"
)

var t0 = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

func base(id string) types.Base {
	return types.Base{ID: id, UserID: "u1", Order: 2, CreatedAt: t0, UpdatedAt: t0.Add(time.Minute)}
}

func TestEncodeDecode(t *testing.T) {
	tests := []struct {
		name   string
		entity types.Entity
	}{
		{"group", &types.Group{Base: base("g1"), Title: "Serve", ColorIndex: 3}},
		{"task", &types.Task{Base: base("t1"), GroupID: "g1", Title: "toss", Cause: "wind", IsComplete: true}},
		{"measures", &types.Measures{Base: base("m1"), TaskID: "t1", Title: "lower toss"}},
		{"memo", &types.Memo{Base: base("memo1"), MeasuresID: "m1", NoteID: "n1", Detail: "better", NoteDate: t0}},
		{"free note", &types.Note{Base: base("n0"), Date: t0, Content: types.FreeContent{Title: "Free note", Detail: "x"}}},
		{"tournament note", &types.Note{
			Base: base("n1"), Date: t0, Weather: types.WeatherRainy, Temperature: -2,
			Condition: "cold", Reflection: "warm up longer",
			Content: types.TournamentContent{Target: "win", Consciousness: "breathe", Result: "lost"},
		}},
		{"target", &types.Target{Base: base("tg1"), Title: "top 8", Year: 2025, Month: 6}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := Encode(tt.entity)
			require.NoError(t, err)
			assert.Equal(t, tt.entity.Meta().ID, doc[FieldEntityID])
			assert.IsType(t, time.Time{}, doc[FieldUpdatedAt])

			got, err := Decode(tt.entity.Kind(), doc)
			require.NoError(t, err)
			assert.Equal(t, tt.entity, got)
		})
	}
}

func TestEncode_GroupColorField(t *testing.T) {
	doc, err := Encode(&types.Group{Base: base("g1"), Title: "Serve", ColorIndex: 5})
	require.NoError(t, err)
	assert.Equal(t, 5, doc["color"])
	assert.NotContains(t, doc, "color_index")
}

func TestDecode_DriverTypes(t *testing.T) {
	doc := Document{
		FieldEntityID:  "g1",
		FieldUserID:    "u1",
		FieldOrder:     uint64(4),
		FieldIsDeleted: true,
		FieldCreatedAt: models.CustomDateTime{Time: t0},
		FieldUpdatedAt: "2025-03-01T10:00:00.5Z",
		"title":        "Serve",
		"color":        float64(6),
		"id":           models.NewRecordID("groups", "u1_g1"),
	}

	e, err := Decode(types.KindGroup, doc)
	require.NoError(t, err)
	g := e.(*types.Group)
	assert.Equal(t, 4, g.Order)
	assert.True(t, g.IsDeleted)
	assert.Equal(t, t0, g.CreatedAt)
	assert.Equal(t, t0.Add(time.Hour+500*time.Millisecond), g.UpdatedAt)
	assert.Equal(t, 6, g.ColorIndex)
}

func TestDecode_Errors(t *testing.T) {
	_, err := Decode(types.KindGroup, Document{"title": 12})
	assert.ErrorIs(t, err, types.ErrInvalidData)

	_, err = Decode(types.KindGroup, Document{FieldUpdatedAt: "yesterday"})
	assert.ErrorIs(t, err, types.ErrInvalidData)

	_, err = Decode(types.Kind("crumbs"), Document{})
	assert.ErrorIs(t, err, types.ErrUnknownKind)
}

func TestPick(t *testing.T) {
	doc := Document{"title": "a", "color": 1, FieldUpdatedAt: t0}

	assert.Equal(t, Document{"title": "a", FieldUpdatedAt: t0}, Pick(doc, []string{"title", "missing"}))

	all := Pick(doc, nil)
	assert.Equal(t, doc, all)
	all["title"] = "changed"
	assert.Equal(t, "a", doc["title"], "Pick copies")
}

func TestDocumentID(t *testing.T) {
	assert.Equal(t, "u1_g1", DocumentID("u1", "g1"))
}
