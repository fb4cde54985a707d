package domain

// ShareMessageData is what a per-guest share message is rendered from.
type ShareMessageData struct {
	GuestName     string
	Kind          GuestKind
	SeatsReserved int
	AllowPlusOne  bool
	EventName     string
	HostName      string
	EventDate     string
	EventTime     string
	VenueName     string
	InvitationURL string
	RSVPURL       string
	RSVPDeadline  string
}

// ShareMessageRenderer renders the text sent to a guest and the WhatsApp link carrying it.
type ShareMessageRenderer interface {
	Render(data ShareMessageData) (string, error)
	WhatsAppURL(phone, message string) string
}
