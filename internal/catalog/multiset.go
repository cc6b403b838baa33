package catalog

// Multiset maps a hero identifier to how many copies are required or held.
// Only positive counts are stored.
type Multiset map[string]int

// BuildMultiset counts the occurrences of every identifier in picks.
// The result does not depend on the order of picks.
func BuildMultiset(picks []string) Multiset {
	m := make(Multiset, len(picks))
	for _, id := range picks {
		if id == "" {
			continue
		}
		m[id]++
	}
	return m
}

func (m Multiset) Count(id string) int {
	return m[id]
}

func (m Multiset) Empty() bool {
	return len(m) == 0
}

// Size is the sum of all counts.
func (m Multiset) Size() int {
	n := 0
	for _, c := range m {
		n += c
	}
	return n
}
