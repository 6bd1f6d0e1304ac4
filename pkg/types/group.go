package types

// ColorCount is the number of selectable group colors.
const ColorCount = 8

// Group is the top of the ownership tree. Tasks refer to it by GroupID.
type Group struct {
	Base
	Title      string `json:"title"`
	ColorIndex int    `json:"color"` // 0..ColorCount-1
}

// Kind returns KindGroup.
func (*Group) Kind() Kind { return KindGroup }
