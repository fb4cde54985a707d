package share

import (
	"bytes"
	"embed"
	"fmt"
	"net/url"
	"strings"
	"text/template"

	"guestrsvp/internal/domain"
)

//go:embed templates/*
var templateFS embed.FS

const whatsAppBase = "https://wa.me/"

// messageRenderer implements domain.ShareMessageRenderer using embedded template files, one per guest kind.
type messageRenderer struct {
	templates map[domain.GuestKind]*template.Template
}

// NewMessageRenderer parses the embedded templates once. It fails only if a template is malformed.
func NewMessageRenderer() (domain.ShareMessageRenderer, error) {
	r := &messageRenderer{templates: make(map[domain.GuestKind]*template.Template)}
	for _, kind := range []domain.GuestKind{domain.GuestKindIndividual, domain.GuestKindGroup} {
		name := string(kind) + ".txt"
		t, err := template.ParseFS(templateFS, "templates/"+name)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		r.templates[kind] = t
	}
	return r, nil
}

// Render executes the template for data.Kind.
func (r *messageRenderer) Render(data domain.ShareMessageData) (string, error) {
	t, ok := r.templates[data.Kind]
	if !ok {
		return "", fmt.Errorf("no share template for guest type %q", data.Kind)
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render share message: %w", err)
	}
	return strings.TrimSpace(buf.String()), nil
}

// WhatsAppURL builds a wa.me link. The phone keeps digits only; without one the user picks the chat.
func (r *messageRenderer) WhatsAppURL(phone, message string) string {
	text := strings.ReplaceAll(url.QueryEscape(message), "+", "%20")
	digits := strings.Map(func(c rune) rune {
		if c >= '0' && c <= '9' {
			return c
		}
		return -1
	}, phone)
	return whatsAppBase + digits + "?text=" + text
}
