package domain

// Section is one of the five stages of the rosary, in reading order.
type Section string

const (
	SectionInitium  Section = "initium"
	SectionGaudiosa Section = "gaudiosa"
	SectionDolorosa Section = "dolorosa"
	SectionGloriosa Section = "gloriosa"
	SectionUltima   Section = "ultima"
)

// MysteriesPerSection is the number of mysteries in a mystery-bearing section.
const MysteriesPerSection = 5

var sectionOrder = [...]Section{
	SectionInitium,
	SectionGaudiosa,
	SectionDolorosa,
	SectionGloriosa,
	SectionUltima,
}

var sectionTitles = map[Section]string{
	SectionInitium:  "Prima Oratio",
	SectionGaudiosa: "Mysteria Gaudiosa",
	SectionDolorosa: "Mysteria Dolorosa",
	SectionGloriosa: "Mysteria Gloriosa",
	SectionUltima:   "Ultima Oratio",
}

// Sections returns the five sections in order.
func Sections() []Section {
	out := make([]Section, len(sectionOrder))
	copy(out, sectionOrder[:])
	return out
}

// MysterySections returns the three mystery-bearing sections in order.
func MysterySections() []Section {
	return []Section{SectionGaudiosa, SectionDolorosa, SectionGloriosa}
}

// SectionAt returns the section at index i of the reading order.
func SectionAt(i int) (Section, bool) {
	if i < 0 || i >= len(sectionOrder) {
		return "", false
	}
	return sectionOrder[i], true
}

// SectionCount is the number of sections.
func SectionCount() int {
	return len(sectionOrder)
}

// Valid reports whether s is one of the five sections.
func (s Section) Valid() bool {
	return s.Index() >= 0
}

// Index returns the position of s in the reading order, or -1.
func (s Section) Index() int {
	for i, v := range sectionOrder {
		if v == s {
			return i
		}
	}
	return -1
}

// MysteryBearing reports whether s contains five mysteries.
func (s Section) MysteryBearing() bool {
	switch s {
	case SectionGaudiosa, SectionDolorosa, SectionGloriosa:
		return true
	}
	return false
}

// AcceptsCustomPrayers reports whether users may attach their own prayers
// to s. Only the opening and closing prayers can be extended.
func (s Section) AcceptsCustomPrayers() bool {
	return s == SectionInitium || s == SectionUltima
}

// Title returns the Latin display title.
func (s Section) Title() string {
	if t, ok := sectionTitles[s]; ok {
		return t
	}
	return "Oratio"
}
