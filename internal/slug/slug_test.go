package slug

import (
	"regexp"
	"testing"
)

// TestGenerate exercises the slug generator with a broad range of inputs
// covering typical titles, special characters, unicode, edge cases, and
// boundary conditions.
func TestGenerate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		// --- Room titles ---
		{name: "two words", input: "Deluxe Room", want: "deluxe-room"},
		{name: "title with number", input: "Suite 2026", want: "suite-2026"},
		{name: "already lowercase", input: "standard twin", want: "standard-twin"},
		{name: "single word", input: "Penthouse", want: "penthouse"},
		{name: "long title", input: "Family Room With Garden View And Balcony", want: "family-room-with-garden-view-and-balcony"},

		// --- Special characters collapse to one separator ---
		{name: "punctuation marks", input: "Hello, World! How's it going?", want: "hello-world-how-s-it-going"},
		{name: "ampersand", input: "Bed & Breakfast", want: "bed-breakfast"},
		{name: "parentheses", input: "Deluxe (Sea View)", want: "deluxe-sea-view"},
		{name: "slashes", input: "Single/Double Room", want: "single-double-room"},
		{name: "hash and dollar", input: "Room #42 from $100", want: "room-42-from-100"},
		{name: "dots", input: "Version 2.0.1", want: "version-2-0-1"},

		// --- Unicode ---
		{name: "accented letters become separators", input: "Café Suite", want: "caf-suite"},
		{name: "only unicode", input: "ห้องพัก", want: ""},
		{name: "emoji", input: "Sunny 🌞 Room", want: "sunny-room"},

		// --- Whitespace ---
		{name: "leading and trailing spaces", input: "  deluxe room  ", want: "deluxe-room"},
		{name: "multiple spaces", input: "deluxe    room", want: "deluxe-room"},
		{name: "tabs", input: "deluxe\troom", want: "deluxe-room"},
		{name: "newlines", input: "deluxe\nroom", want: "deluxe-room"},

		// --- Separators ---
		{name: "leading hyphens", input: "---deluxe", want: "deluxe"},
		{name: "trailing hyphens", input: "deluxe---", want: "deluxe"},
		{name: "hyphen runs", input: "deluxe---room", want: "deluxe-room"},
		{name: "hyphens and spaces mixed", input: "  --deluxe -- room--  ", want: "deluxe-room"},
		{name: "underscores", input: "deluxe_room", want: "deluxe-room"},

		// --- Edge cases ---
		{name: "empty string", input: "", want: ""},
		{name: "only spaces", input: "     ", want: ""},
		{name: "only special characters", input: "!@#$%^&*()", want: ""},
		{name: "single character", input: "A", want: "a"},
		{name: "digits only", input: "123456", want: "123456"},
		{name: "date-like", input: "2026-02-25", want: "2026-02-25"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Generate(tt.input)
			if got != tt.want {
				t.Errorf("Generate(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

// TestGenerate_Idempotent verifies that re-applying the generator to its own
// output changes nothing.
func TestGenerate_Idempotent(t *testing.T) {
	inputs := []string{
		"Deluxe Room",
		"  --Bed & Breakfast!!  ",
		"Café Suite",
		"a",
		"123",
		"",
		"x__y..z",
	}

	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			once := Generate(in)
			twice := Generate(once)
			if once != twice {
				t.Errorf("Generate(Generate(%q)) = %q, want %q", in, twice, once)
			}
		})
	}
}

// TestGenerate_Shape checks the character set and separator placement of
// the output for a spread of inputs.
func TestGenerate_Shape(t *testing.T) {
	valid := regexp.MustCompile(`^([a-z0-9]+(-[a-z0-9]+)*)?$`)
	inputs := []string{
		"HELLO WORLD",
		"hElLo---WoRlD",
		"\t\n  mixed \r\n whitespace ",
		"Ünïcödé Nämé",
		"-a-",
		"a - - b",
		"100% Cotton / Linen",
	}

	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			got := Generate(in)
			if !valid.MatchString(got) {
				t.Errorf("Generate(%q) = %q, not a well-formed slug", in, got)
			}
		})
	}
}
