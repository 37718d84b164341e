package roleid

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/greenfield/internal/app/models"
)

func TestCompose(t *testing.T) {
	tests := []struct {
		name  string
		role  models.Role
		first string
		last  string
		seq   int
		want  string
	}{
		{name: "student", role: models.RoleStudent, first: "Ann", last: "Lee", seq: 1, want: "STAL202601"},
		{name: "faculty", role: models.RoleFaculty, first: "sarah", last: "johnson", seq: 12, want: "FASJ202612"},
		{name: "admin last sequence", role: models.RoleAdmin, first: "Ed", last: "Ng", seq: 99, want: "ADEN202699"},
		{name: "non ascii initials", role: models.RoleStudent, first: "Émile", last: " ", seq: 3, want: "STXX202603"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Compose(tt.role, tt.first, tt.last, 2026, tt.seq)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestComposeRejectsOutOfRangeSequence(t *testing.T) {
	for _, seq := range []int{0, MaxSequence + 1, 105} {
		_, err := Compose(models.RoleAdmin, "Ed", "Ng", 2026, seq)
		assert.ErrorIs(t, err, ErrSequenceOverflow, "seq %d", seq)
	}
}

func TestComposeMatchesStudentPattern(t *testing.T) {
	pattern := regexp.MustCompile(`^ST[A-Z]{2}\d{4,6}$`)
	for _, seq := range []int{1, MaxSequence} {
		id, err := Compose(models.RoleStudent, "Ann", "Lee", 2026, seq)
		require.NoError(t, err)
		assert.Regexp(t, pattern, id)
	}
}

func TestCountersAreIndependentPerBase(t *testing.T) {
	counters := Counters{}
	next := func(c Counters, role models.Role, first, last string) string {
		id, err := c.Next(role, first, last, 2026)
		require.NoError(t, err)
		return id
	}

	assert.Equal(t, "STAL202601", next(counters, models.RoleStudent, "Ann", "Lee"))
	assert.Equal(t, "STAL202602", next(counters, models.RoleStudent, "Amy", "Liu"))
	assert.Equal(t, "FAAL202601", next(counters, models.RoleFaculty, "Ann", "Lee"))

	other := Counters{}
	assert.Equal(t, "STAL202601", next(other, models.RoleStudent, "Ann", "Lee"))
}

func TestCountersOverflow(t *testing.T) {
	counters := Counters{}
	for i := 0; i < MaxSequence; i++ {
		_, err := counters.Next(models.RoleStudent, "Ann", "Lee", 2026)
		require.NoError(t, err)
	}
	_, err := counters.Next(models.RoleStudent, "Ann", "Lee", 2026)
	assert.ErrorIs(t, err, ErrSequenceOverflow)
}
