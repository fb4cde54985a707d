package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGuest_derivesSeats(t *testing.T) {
	now := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)

	t.Run("individual with plus-one", func(t *testing.T) {
		g := NewGuest("ev-1", GuestInput{DisplayName: " Ana ", Allocation: Individual{AllowPlusOne: true}}, "secret", now)
		assert.Equal(t, GuestKindIndividual, g.Kind)
		assert.Equal(t, 2, g.SeatsReserved)
		assert.Equal(t, 0, g.SeatsConfirmed)
		assert.Equal(t, GuestStatusPending, g.Status)
		assert.Equal(t, "Ana", g.DisplayName)
		assert.Empty(t, g.MemberNames)
	})

	t.Run("individual alone", func(t *testing.T) {
		g := NewGuest("ev-1", GuestInput{DisplayName: "Luis", Allocation: Individual{}}, "secret", now)
		assert.Equal(t, 1, g.SeatsReserved)
	})

	t.Run("group keeps member names", func(t *testing.T) {
		g := NewGuest("ev-1", GuestInput{
			DisplayName: "Familia Pérez",
			Allocation:  Group{SeatsReserved: 4, MemberNames: []string{"Juan", " ", "Rosa"}},
		}, "secret", now)
		assert.Equal(t, GuestKindGroup, g.Kind)
		assert.Equal(t, 4, g.SeatsReserved)
		assert.False(t, g.AllowPlusOne)
		assert.Equal(t, []string{"Juan", "Rosa"}, g.MemberNames)
	})
}

func TestGuestInput_Validate(t *testing.T) {
	tests := []struct {
		name      string
		in        GuestInput
		wantField string
	}{
		{name: "valid individual", in: GuestInput{DisplayName: "Ana", Allocation: Individual{}}},
		{name: "missing name", in: GuestInput{Allocation: Individual{}}, wantField: "display_name"},
		{name: "missing kind", in: GuestInput{DisplayName: "Ana"}, wantField: "type"},
		{name: "group without seats", in: GuestInput{DisplayName: "Fam", Allocation: Group{}}, wantField: "seats_reserved"},
		{name: "bad email", in: GuestInput{DisplayName: "Ana", Contact: Contact{Email: "nope"}, Allocation: Individual{}}, wantField: "contact_email"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.in.Validate()
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}
			ve, ok := IsValidation(err)
			require.True(t, ok, "expected ValidationError, got %v", err)
			assert.Contains(t, ve.Fields, tt.wantField)
		})
	}
}

func TestGuest_Reallocate(t *testing.T) {
	now := time.Now()

	t.Run("kind cannot change", func(t *testing.T) {
		g := &Guest{Kind: GuestKindIndividual, SeatsReserved: 1}
		err := g.Reallocate(GuestInput{DisplayName: "x", Allocation: Group{SeatsReserved: 3}}, now)
		ve, ok := IsValidation(err)
		require.True(t, ok)
		assert.Contains(t, ve.Fields, "type")
		assert.Equal(t, 1, g.SeatsReserved)
	})

	t.Run("revoking plus-one drops companion and clamps confirmed", func(t *testing.T) {
		g := &Guest{
			Kind: GuestKindIndividual, AllowPlusOne: true, SeatsReserved: 2, SeatsConfirmed: 2,
			Status: GuestStatusConfirmed, MemberNames: []string{"Carla"},
		}
		require.NoError(t, g.Reallocate(GuestInput{DisplayName: "Ana", Allocation: Individual{AllowPlusOne: false}}, now))
		assert.Equal(t, 1, g.SeatsReserved)
		assert.Equal(t, 1, g.SeatsConfirmed)
		assert.Empty(t, g.MemberNames)
	})

	t.Run("shrinking a group clamps confirmed", func(t *testing.T) {
		g := &Guest{Kind: GuestKindGroup, SeatsReserved: 5, SeatsConfirmed: 5, Status: GuestStatusConfirmed}
		require.NoError(t, g.Reallocate(GuestInput{DisplayName: "Fam", Allocation: Group{SeatsReserved: 3}}, now))
		assert.Equal(t, 3, g.SeatsReserved)
		assert.Equal(t, 3, g.SeatsConfirmed)
		assert.Equal(t, GuestStatusConfirmed, g.Status)
	})
}
