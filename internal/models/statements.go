package models

// Period is one statement period as it appears in the raw export: the label
// line and the single body line that follows it.
type Period struct {
	Label string
	Body  string
}

// Statements is an insertion-ordered mapping from period label to raw
// statement body.
type Statements struct {
	periods []Period
	index   map[string]int
}

// NewStatements creates an empty mapping
func NewStatements() *Statements {
	return &Statements{
		periods: make([]Period, 0),
		index:   make(map[string]int),
	}
}

// Add appends a period. It reports false and leaves the mapping untouched
// when the label is already present.
func (s *Statements) Add(label, body string) bool {
	if _, exists := s.index[label]; exists {
		return false
	}
	s.index[label] = len(s.periods)
	s.periods = append(s.periods, Period{Label: label, Body: body})
	return true
}

// Get returns the body for a label
func (s *Statements) Get(label string) (string, bool) {
	i, ok := s.index[label]
	if !ok {
		return "", false
	}
	return s.periods[i].Body, true
}

// Labels returns the period labels in order of first appearance
func (s *Statements) Labels() []string {
	labels := make([]string, len(s.periods))
	for i, p := range s.periods {
		labels[i] = p.Label
	}
	return labels
}

// Periods returns a copy of the periods in insertion order
func (s *Statements) Periods() []Period {
	out := make([]Period, len(s.periods))
	copy(out, s.periods)
	return out
}

// Len returns the number of periods
func (s *Statements) Len() int {
	return len(s.periods)
}
