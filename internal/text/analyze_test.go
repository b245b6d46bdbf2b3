package text

import "testing"

func TestIsBulgarian(t *testing.T) {
	tests := []struct {
		name string
		text string
		want bool
	}{
		{
			name: "pure Bulgarian word",
			text: "Здравей",
			want: true,
		},
		{
			name: "pure Bulgarian sentence",
			text: "Добър ден, как си?",
			want: true,
		},
		{
			name: "pure English",
			text: "Hello",
			want: false,
		},
		{
			name: "mostly English with one Cyrillic letter",
			text: "helloworldи",
			want: false,
		},
		{
			name: "exactly at the threshold",
			text: "абвdefghij", // 3 of 10 letters are Cyrillic
			want: true,
		},
		{
			name: "just below the threshold",
			text: "абdefghij", // 2 of 9 letters are Cyrillic
			want: false,
		},
		{
			name: "mixed with Bulgarian majority",
			text: "Здравей hello",
			want: true,
		},
		{
			name: "digits and punctuation only",
			text: "123 !?",
			want: false,
		},
		{
			name: "empty string",
			text: "",
			want: false,
		},
		{
			name: "non-letters do not dilute the ratio",
			text: "да!!! 12345",
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsBulgarian(tt.text); got != tt.want {
				t.Errorf("IsBulgarian(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestClean(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{
			name: "plain text unchanged",
			text: "Добър ден",
			want: "Добър ден",
		},
		{
			name: "strips HTML tags",
			text: "<b>дума</b> <br/>втора",
			want: "дума втора",
		},
		{
			name: "removes bracketed pronunciation",
			text: "Добър [ˈdɔbɤr] ден",
			want: "Добър ден",
		},
		{
			name: "removes parenthesized translation",
			text: "говоря (I speak)",
			want: "говоря",
		},
		{
			name: "collapses whitespace",
			text: "  много \t  хубаво \n ",
			want: "много хубаво",
		},
		{
			name: "pads a single character",
			text: "а",
			want: "а.",
		},
		{
			name: "pads two characters",
			text: "да",
			want: "да.",
		},
		{
			name: "already padded short text stays unchanged",
			text: "а.",
			want: "а.",
		},
		{
			name: "three characters are not padded",
			text: "три",
			want: "три",
		},
		{
			name: "multiple spans removed",
			text: "<i>вода</i> [voda] (water)",
			want: "вода",
		},
		{
			name: "everything removed leaves empty string",
			text: "<br/>[x](y)",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Clean(tt.text)
			if got != tt.want {
				t.Errorf("Clean(%q) = %q, want %q", tt.text, got, tt.want)
			}

			// Cleaning is idempotent; running it twice must not change
			// the result again.
			if again := Clean(got); again != got {
				t.Errorf("Clean(Clean(%q)) = %q, want %q", tt.text, again, got)
			}
		})
	}
}

func TestSuitability(t *testing.T) {
	tests := []struct {
		name       string
		text       string
		suitable   bool
		wantReason string
	}{
		{
			name:       "Bulgarian text is suitable",
			text:       "Здравей",
			suitable:   true,
			wantReason: "OK",
		},
		{
			name:       "empty string",
			text:       "",
			suitable:   false,
			wantReason: "no text",
		},
		{
			name:       "whitespace only",
			text:       "   ",
			suitable:   false,
			wantReason: "no text",
		},
		{
			name:       "punctuation only",
			text:       "?! ...",
			suitable:   false,
			wantReason: "only punctuation or symbols",
		},
		{
			name:       "English text",
			text:       "Hello world",
			suitable:   false,
			wantReason: "not Bulgarian",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			suitable, reason := Suitability(tt.text)
			if suitable != tt.suitable {
				t.Errorf("Suitability(%q) = %v, want %v", tt.text, suitable, tt.suitable)
			}
			if reason != tt.wantReason {
				t.Errorf("Suitability(%q) reason = %q, want %q", tt.text, reason, tt.wantReason)
			}
		})
	}
}
