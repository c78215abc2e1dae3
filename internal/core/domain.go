package core

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/badoux/checkmail"
)

const (
	Classic Theme = "classic"
	Playful Theme = "playful"

	// DefaultTheme applies when a visitor has no stored preference.
	DefaultTheme = Classic
)

type (
	// Theme is the visual presentation variant of the site.
	Theme string

	// ChecklistItem is a single onboarding task shown on the checklist page.
	ChecklistItem struct {
		ID        string `yaml:"id"`
		Slug      string `yaml:"slug"`
		Title     string `yaml:"title"`
		Explainer string `yaml:"explainer"`
	}

	// ContactMessage is a submission of the contact form.
	ContactMessage struct {
		ID        int64
		Name      string
		Email     string
		Subject   string
		Body      string
		CreatedAt time.Time
		Relayed   bool
	}
)

var (
	ErrEmptyName    = errors.New("empty name")
	ErrInvalidEmail = errors.New("invalid email")
	ErrEmptyMessage = errors.New("empty message")
	ErrFieldTooLong = errors.New("field too long")
)

// ParseTheme maps a stored or submitted value to a Theme.
func ParseTheme(s string) (Theme, bool) {
	switch Theme(strings.ToLower(strings.TrimSpace(s))) {
	case Classic:
		return Classic, true
	case Playful:
		return Playful, true
	default:
		return "", false
	}
}

// Toggle returns the other theme.
func (t Theme) Toggle() Theme {
	if t == Playful {
		return Classic
	}
	return Playful
}

func (t Theme) String() string {
	return string(t)
}

func (m ContactMessage) Validate() error {
	if strings.TrimSpace(m.Name) == "" {
		return ErrEmptyName
	}
	if utf8.RuneCountInString(m.Name) > 200 || utf8.RuneCountInString(m.Subject) > 200 {
		return ErrFieldTooLong
	}
	if err := checkmail.ValidateFormat(strings.TrimSpace(m.Email)); err != nil {
		return ErrInvalidEmail
	}
	if strings.TrimSpace(m.Body) == "" {
		return ErrEmptyMessage
	}
	if utf8.RuneCountInString(m.Body) > 5000 {
		return ErrFieldTooLong
	}
	return nil
}
