// Package roleid builds the human-readable identifiers given to portal
// accounts, e.g. STAL202601 for the first 2026 student with initials A.L.
//
// The format is {role prefix}{initials}{year}{sequence}. Uniqueness is not
// decided here: callers insert the candidate and let the database's unique
// constraint reject collisions, then ask for the next sequence.
package roleid

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/yigit/greenfield/internal/app/models"
)

const (
	// SequenceDigits is the fixed width of the sequence part.
	SequenceDigits = 2

	// MaxSequence is the largest sequence that fits in SequenceDigits.
	MaxSequence = 99
)

// ErrSequenceOverflow is returned when a base has used up every sequence.
var ErrSequenceOverflow = errors.New("role id sequence exhausted")

// Prefix is the two-letter role code: AD, FA or ST.
func Prefix(role models.Role) string {
	r := []rune(strings.ToUpper(string(role)))
	if len(r) < 2 {
		return "XX"
	}
	return string(r[:2])
}

// Initials returns the uppercased first letters of first and last name.
// Anything outside A-Z becomes X so the identifier stays ASCII.
func Initials(firstName, lastName string) string {
	return string(initial(firstName)) + string(initial(lastName))
}

func initial(name string) rune {
	for _, r := range strings.TrimSpace(name) {
		r = unicode.ToUpper(r)
		if r >= 'A' && r <= 'Z' {
			return r
		}
		break
	}
	return 'X'
}

// Base is the identifier without its sequence. Existing identifiers sharing
// a base are counted to pick the next sequence.
func Base(role models.Role, firstName, lastName string, year int) string {
	return fmt.Sprintf("%s%s%04d", Prefix(role), Initials(firstName, lastName), year)
}

// Compose builds a full candidate identifier. seq must be in 1..MaxSequence.
func Compose(role models.Role, firstName, lastName string, year, seq int) (string, error) {
	if seq < 1 || seq > MaxSequence {
		return "", fmt.Errorf("%w: sequence %d for %s", ErrSequenceOverflow, seq, Base(role, firstName, lastName, year))
	}
	return fmt.Sprintf("%s%0*d", Base(role, firstName, lastName, year), SequenceDigits, seq), nil
}

// Counters tracks the next sequence per base during bulk creation such as
// seeding, where nothing is committed until the end and the database count
// cannot be used.
type Counters map[string]int

// Next returns the next identifier for the given person and advances the counter.
func (c Counters) Next(role models.Role, firstName, lastName string, year int) (string, error) {
	base := Base(role, firstName, lastName, year)
	c[base]++
	return Compose(role, firstName, lastName, year, c[base])
}
