package types

// Measures is a corrective measure for a Task.
type Measures struct {
	Base
	TaskID string `json:"task_id"`
	Title  string `json:"title"`
}

// Kind returns KindMeasures.
func (*Measures) Kind() Kind { return KindMeasures }
