package ui

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Palette is a pair of tailwind classes for a status badge.
type Palette struct {
	Background string
	Text       string
}

func (p Palette) Classes() string {
	return p.Background + " " + p.Text
}

var DefaultPalette = Palette{Background: "bg-gray-100", Text: "text-gray-800"}

var statusPalettes = map[string]Palette{
	// internship
	"open":   {Background: "bg-green-100", Text: "text-green-800"},
	"closed": {Background: "bg-red-100", Text: "text-red-800"},
	"filled": {Background: "bg-blue-100", Text: "text-blue-800"},

	// student side of an application
	"applied":   {Background: "bg-blue-100", Text: "text-blue-800"},
	"withdrawn": {Background: "bg-gray-100", Text: "text-gray-600"},
	"accepted":  {Background: "bg-green-100", Text: "text-green-800"},
	"declined":  {Background: "bg-orange-100", Text: "text-orange-800"},

	// company side of an application
	"pending":      {Background: "bg-yellow-100", Text: "text-yellow-800"},
	"reviewing":    {Background: "bg-blue-100", Text: "text-blue-800"},
	"interviewing": {Background: "bg-purple-100", Text: "text-purple-800"},
	"offered":      {Background: "bg-indigo-100", Text: "text-indigo-800"},
	"rejected":     {Background: "bg-red-100", Text: "text-red-800"},
	"hired":        {Background: "bg-green-100", Text: "text-green-800"},
}

// StatusPalette maps any known status to its colors and everything else to
// DefaultPalette. Matching ignores case and surrounding space.
func StatusPalette(status string) Palette {
	if p, ok := statusPalettes[normalizeStatus(status)]; ok {
		return p
	}
	return DefaultPalette
}

// StatusColor returns the badge classes for status.
func StatusColor(status string) string {
	return StatusPalette(status).Classes()
}

// StatusLabel title-cases a status for display.
func StatusLabel(status string) string {
	s := normalizeStatus(status)
	if s == "" {
		return "Unknown"
	}
	return upperFirst(s)
}

// Initial is the upper-cased first letter of name, or "?" for a blank name.
func Initial(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "?"
	}
	r, _ := utf8.DecodeRuneInString(name)
	return string(unicode.ToUpper(r))
}

func upperFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + s[size:]
}

func normalizeStatus(status string) string {
	return strings.ToLower(strings.TrimSpace(status))
}
