package slug

import (
	"regexp"
	"testing"
)

func TestMake(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"Calmer ses pensées", "calmer-ses-pensees"},
		{"  Anxiété & Stress  ", "anxiete-stress"},
		{"Déjà vu: l'été!", "deja-vu-lete"},
		{"hello_world", "hello-world"},
		{"a  --  b", "a-b"},
		{"---leading and trailing---", "leading-and-trailing"},
		{"ÇA MARCHE", "ca-marche"},
		{"100% naturel", "100-naturel"},
		{"!!!", ""},
		{"tab\tand\nnewline", "tab-and-newline"},
		{"Ωmega", "mega"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := Make(tt.in); got != tt.want {
				t.Errorf("Make(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

var canonical = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

func TestMakeProperties(t *testing.T) {
	inputs := []string{
		"Calmer ses pensées",
		"  -- __ weird ___ input -- ",
		"Ça va? Très bien, merci!",
		"ａｂｃ fullwidth",
		"emoji 🎉 party",
		"multiple non-breaking spaces",
		"MiXeD CaSe 123",
		"_",
		"-",
	}
	for _, in := range inputs {
		once := Make(in)
		if twice := Make(once); twice != once {
			t.Errorf("Make not idempotent for %q: %q then %q", in, once, twice)
		}
		if once != "" && !canonical.MatchString(once) {
			t.Errorf("Make(%q) = %q is not canonical", in, once)
		}
	}
}

func TestValid(t *testing.T) {
	if !Valid("calmer-ses-pensees") {
		t.Error("expected canonical slug to be valid")
	}
	for _, s := range []string{"", "Calmer", "a--b", "-a", "a-", "a b"} {
		if Valid(s) {
			t.Errorf("Valid(%q) = true, want false", s)
		}
	}
}
