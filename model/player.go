package model

import "strings"

const DefaultLevel = "BEGINNER"

// Player is the minimal profile the ladder needs to seat someone in a tier.
type Player struct {
	ID    string `json:"id" yaml:"id"`
	Name  string `json:"name" yaml:"name"`
	Email string `json:"email,omitempty" yaml:"email"`
	Level string `json:"level,omitempty" yaml:"level"`
}

// Normalize trims the fields and fills in the defaults. Players without an explicit
// id are identified by their email, or by their name when there is no email either.
func (p *Player) Normalize() {
	p.Name = strings.TrimSpace(p.Name)
	p.Email = strings.ToLower(strings.TrimSpace(p.Email))
	p.Level = strings.ToUpper(strings.TrimSpace(p.Level))
	if p.Level == "" {
		p.Level = DefaultLevel
	}

	p.ID = strings.TrimSpace(p.ID)
	if p.ID == "" {
		if p.Email != "" {
			p.ID = p.Email
		} else {
			p.ID = slug(p.Name)
		}
	}
}

func slug(name string) string {
	var sb strings.Builder
	for _, r := range strings.ToLower(name) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
