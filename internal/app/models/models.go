package models

// Section is a class section a student is enrolled in
type Section string

const (
	Section3CA Section = "3CA"
	Section3CB Section = "3CB"
	Section3CC Section = "3CC"
)

// DefaultSection is preselected for new records
const DefaultSection = Section3CA

// Sections lists the selectable sections in display order
var Sections = []Section{Section3CA, Section3CB, Section3CC}

// Valid reports whether s is one of the fixed sections
func (s Section) Valid() bool {
	for _, known := range Sections {
		if s == known {
			return true
		}
	}
	return false
}

// ParseSection converts text into a known Section
func ParseSection(text string) (Section, bool) {
	s := Section(text)
	return s, s.Valid()
}
