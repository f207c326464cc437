package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"pharma-console/internal/domain"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func sampleUser(id string) domain.User {
	return domain.User{
		ID:          id,
		Name:        "A",
		Email:       "a@x.com",
		ProcessArea: domain.ProcessAreaGDSD,
		Persona:     domain.PersonaScientist,
	}
}

func TestStore_StartsEmpty(t *testing.T) {
	s := NewStore()
	assert.Nil(t, s.CurrentUser())
	assert.False(t, s.IsAuthenticated())
	assert.Equal(t, Snapshot{}, s.Snapshot())
	assert.Empty(t, s.ID())
}

func TestStore_LoginThenCurrentUser(t *testing.T) {
	users := []domain.User{
		sampleUser("u1"),
		{ID: "u2", Name: "Dr. Sarah Chen", Email: "s@lab.org", ProcessArea: domain.ProcessAreaGAD, Persona: domain.PersonaManager},
		{ID: "u3", Name: "B", Email: "b@x.com", ProcessArea: domain.ProcessAreaGDPD, Persona: domain.PersonaScientist},
	}
	for _, u := range users {
		t.Run(u.ID, func(t *testing.T) {
			s := NewStore()
			s.Login(u)

			got := s.CurrentUser()
			require.NotNil(t, got)
			assert.Equal(t, u, *got)
			assert.True(t, s.IsAuthenticated())
		})
	}
}

func TestStore_LoginReplacesPreviousUser(t *testing.T) {
	s := NewStore()
	s.Login(sampleUser("first"))
	s.Login(sampleUser("second"))

	require.NotNil(t, s.CurrentUser())
	assert.Equal(t, "second", s.CurrentUser().ID)
}

func TestStore_LogoutAfterLogins(t *testing.T) {
	s := NewStore()
	s.Login(sampleUser("a"))
	s.Login(sampleUser("b"))
	s.Logout()

	assert.Nil(t, s.CurrentUser())
	assert.False(t, s.IsAuthenticated())
}

func TestStore_LogoutIsIdempotent(t *testing.T) {
	once := NewStore()
	once.Login(sampleUser("a"))
	once.Logout()

	twice := NewStore()
	twice.Login(sampleUser("a"))
	twice.Logout()
	twice.Logout()

	assert.Equal(t, once.Snapshot(), twice.Snapshot())

	empty := NewStore()
	empty.Logout()
	assert.False(t, empty.IsAuthenticated())
}

func TestStore_CurrentUserIsACopy(t *testing.T) {
	s := NewStore()
	s.Login(sampleUser("a"))

	u := s.CurrentUser()
	u.Name = "mutated"

	assert.Equal(t, "A", s.CurrentUser().Name)
}
