package domain

import "fmt"

// ID prefixes handed out by Sequence.
const (
	ProductPrefix  = "PRD"
	CustomerPrefix = "CUST"
	OrderPrefix    = "ORD"
)

// Sequence assigns identifiers of the form PREFIX-001. The next number is the
// collection size plus one, bumped past anything already issued so that a
// delete followed by a create never reuses an identifier.
type Sequence struct {
	prefix string
	last   int
}

func NewSequence(prefix string) *Sequence {
	return &Sequence{prefix: prefix}
}

func (s *Sequence) Next(size int) string {
	n := size + 1
	if n <= s.last {
		n = s.last + 1
	}
	s.last = n
	return fmt.Sprintf("%s-%03d", s.prefix, n)
}
