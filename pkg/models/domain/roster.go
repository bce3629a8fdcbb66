package domain

// Roster is the fixed set of people a human step can be assigned to.
// The first entry is the default assignee.
type Roster []string

var DefaultRoster = Roster{"Femi Ibrahim", "Jason Mao"}

func (r Roster) Default() string {
	if len(r) == 0 {
		return ""
	}
	return r[0]
}

func (r Roster) Contains(name string) bool {
	for _, n := range r {
		if n == name {
			return true
		}
	}
	return false
}
