package share

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"guestrsvp/internal/domain"
)

func TestMessageRenderer_Render(t *testing.T) {
	r, err := NewMessageRenderer()
	require.NoError(t, err)

	t.Run("individual", func(t *testing.T) {
		msg, err := r.Render(domain.ShareMessageData{
			GuestName:     "Ana",
			Kind:          domain.GuestKindIndividual,
			AllowPlusOne:  true,
			EventName:     "Graduation",
			EventDate:     "2026-07-04",
			EventTime:     "19:30",
			VenueName:     "Salón Real",
			InvitationURL: "https://app.test/i/graduation-maria?g=1&s=abc",
		})
		require.NoError(t, err)
		assert.Contains(t, msg, "Hi Ana, you are invited to *Graduation*")
		assert.Contains(t, msg, "You may bring one companion.")
		assert.Contains(t, msg, "⏰ 19:30")
		assert.Contains(t, msg, "Confirm here: https://app.test/i/graduation-maria?g=1&s=abc")
		assert.NotContains(t, msg, "reserved")
	})

	t.Run("group mentions seats", func(t *testing.T) {
		msg, err := r.Render(domain.ShareMessageData{
			GuestName:     "Familia Pérez",
			Kind:          domain.GuestKindGroup,
			SeatsReserved: 4,
			EventName:     "Graduation",
			EventDate:     "2026-07-04",
			VenueName:     "Salón Real",
			RSVPDeadline:  "2026-06-30",
			InvitationURL: "https://app.test/i/x",
		})
		require.NoError(t, err)
		assert.Contains(t, msg, "You have 4 seats reserved.")
		assert.Contains(t, msg, "Please reply by 2026-06-30.")
	})

	t.Run("unknown kind", func(t *testing.T) {
		_, err := r.Render(domain.ShareMessageData{Kind: "couple"})
		assert.Error(t, err)
	})
}

func TestMessageRenderer_WhatsAppURL(t *testing.T) {
	r, err := NewMessageRenderer()
	require.NoError(t, err)

	tests := []struct {
		name  string
		phone string
		msg   string
		want  string
	}{
		{name: "international number", phone: "+52 (55) 1234-5678", msg: "Hi Ana & co", want: "https://wa.me/525512345678?text=Hi%20Ana%20%26%20co"},
		{name: "no phone", phone: "", msg: "a+b", want: "https://wa.me/?text=a%2Bb"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, r.WhatsAppURL(tt.phone, tt.msg))
		})
	}
}
