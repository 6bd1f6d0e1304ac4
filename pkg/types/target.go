package types

// Target is a goal for a year or for one month of a year. At most one live
// yearly target exists per year and one live monthly target per (year, month);
// saving a new one tombstones the previous match.
type Target struct {
	Base
	Title          string `json:"title"`
	Year           int    `json:"year"`
	Month          int    `json:"month"`
	IsYearlyTarget bool   `json:"is_yearly_target"`
}

// Kind returns KindTarget.
func (*Target) Kind() Kind { return KindTarget }

// SameSlot reports whether t and other compete for the same period.
func (t *Target) SameSlot(other *Target) bool {
	if t.IsYearlyTarget != other.IsYearlyTarget || t.Year != other.Year {
		return false
	}
	return t.IsYearlyTarget || t.Month == other.Month
}
