package domain

import "strings"

// ProcessArea is the organizational unit a user signs in under. It only drives labels.
type ProcessArea string

const (
	ProcessAreaGDSD ProcessArea = "GDSD"
	ProcessAreaGDPD ProcessArea = "GDPD"
	ProcessAreaGAD  ProcessArea = "GAD"
)

// Persona is the role a user picks at sign in.
type Persona string

const (
	PersonaScientist Persona = "Scientist"
	PersonaManager   Persona = "Manager"
)

// User is the signed-in identity. It is built from the login form and never verified.
type User struct {
	ID          string
	Name        string
	Email       string
	ProcessArea ProcessArea
	Persona     Persona
}

// ProcessAreas lists the selectable areas in display order.
func ProcessAreas() []ProcessArea {
	return []ProcessArea{ProcessAreaGDSD, ProcessAreaGDPD, ProcessAreaGAD}
}

// Personas lists the selectable personas in display order.
func Personas() []Persona {
	return []Persona{PersonaScientist, PersonaManager}
}

func (a ProcessArea) Valid() bool {
	switch a {
	case ProcessAreaGDSD, ProcessAreaGDPD, ProcessAreaGAD:
		return true
	}
	return false
}

// Label is the text shown in the login form selector.
func (a ProcessArea) Label() string {
	switch a {
	case ProcessAreaGDSD:
		return "Gene & Cell Discovery (Upstream)"
	case ProcessAreaGDPD:
		return "Gene & Drug Product Development (Downstream)"
	case ProcessAreaGAD:
		return "Global Analytical Development"
	}
	return string(a)
}

func (a ProcessArea) FullName() string {
	switch a {
	case ProcessAreaGDSD:
		return "Gene & Cell Discovery Sciences"
	case ProcessAreaGDPD:
		return "Gene & Drug Product Development"
	case ProcessAreaGAD:
		return "Global Analytical Development"
	}
	return "Unknown Area"
}

func (a ProcessArea) Focus() string {
	switch a {
	case ProcessAreaGDSD:
		return "Upstream Process Development"
	case ProcessAreaGDPD:
		return "Downstream Process Development"
	case ProcessAreaGAD:
		return "Analytical Method Development"
	}
	return "General"
}

// Tone is the color family used for the area badge and welcome card.
func (a ProcessArea) Tone() string {
	switch a {
	case ProcessAreaGDSD:
		return "blue"
	case ProcessAreaGDPD:
		return "green"
	case ProcessAreaGAD:
		return "yellow"
	}
	return "gray"
}

func (p Persona) Valid() bool {
	return p == PersonaScientist || p == PersonaManager
}

// Initials returns the first letter of every word in the user's name.
func (u User) Initials() string {
	var b strings.Builder
	for _, part := range strings.Fields(u.Name) {
		for _, r := range part {
			b.WriteRune(r)
			break
		}
	}
	return strings.ToUpper(b.String())
}
