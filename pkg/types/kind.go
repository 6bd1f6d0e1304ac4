package types

import (
	"fmt"
	"strings"
)

// Kind names one of the six record kinds. The value doubles as the SQLite
// table name and the remote collection name.
type Kind string

// Record kinds.
const (
	KindGroup    Kind = "groups"
	KindTask     Kind = "tasks"
	KindMeasures Kind = "measures"
	KindMemo     Kind = "memos"
	KindNote     Kind = "notes"
	KindTarget   Kind = "targets"
)

// Kinds lists every record kind in owner-before-owned order.
var Kinds = []Kind{
	KindGroup,
	KindTask,
	KindMeasures,
	KindNote,
	KindMemo,
	KindTarget,
}

var kindAliases = map[string]Kind{
	"group":    KindGroup,
	"groups":   KindGroup,
	"task":     KindTask,
	"tasks":    KindTask,
	"measure":  KindMeasures,
	"measures": KindMeasures,
	"memo":     KindMemo,
	"memos":    KindMemo,
	"note":     KindNote,
	"notes":    KindNote,
	"target":   KindTarget,
	"targets":  KindTarget,
}

// ParseKind resolves a singular or plural kind name, case-insensitively.
func ParseKind(s string) (Kind, error) {
	k, ok := kindAliases[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
	}
	return k, nil
}

// Valid reports whether k is one of the six record kinds.
func (k Kind) Valid() bool {
	_, ok := kindAliases[string(k)]
	return ok
}

// New returns a zero entity of kind k, or nil for an unknown kind.
func (k Kind) New() Entity {
	switch k {
	case KindGroup:
		return &Group{}
	case KindTask:
		return &Task{}
	case KindMeasures:
		return &Measures{}
	case KindMemo:
		return &Memo{}
	case KindNote:
		return &Note{}
	case KindTarget:
		return &Target{}
	default:
		return nil
	}
}
