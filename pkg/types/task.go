package types

// Task is an issue to improve, owned by a Group.
type Task struct {
	Base
	GroupID    string `json:"group_id"`
	Title      string `json:"title"`
	Cause      string `json:"cause"`
	IsComplete bool   `json:"is_complete"`
}

// Kind returns KindTask.
func (*Task) Kind() Kind { return KindTask }
