package domain

import (
	"reflect"
	"testing"
)

func TestCleanTag(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Chess", "chess"},
		{"  GoLang!  ", "golang"},
		{"c++", "c"},
		{"snake_case-tag", "snake_case-tag"},
		{"!!!", ""},
		{"aaaaaaaaaaaaaaaaaaaaaaaaaaaaaa", "aaaaaaaaaaaaaaaaaaaaaaaa"}, // 24 cap
	}
	for _, c := range cases {
		if got := CleanTag(c.in); got != c.want {
			t.Errorf("CleanTag(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestParseTags(t *testing.T) {
	cases := []struct {
		in   string
		want []string
	}{
		{"chess, go music", []string{"chess", "go", "music"}},
		{"Chess,chess,CHESS", []string{"chess"}},
		{"", []string{}},
		{" , ,, ", []string{}},
		{"a\tb\nc", []string{"a", "b", "c"}},
	}
	for _, c := range cases {
		if got := ParseTags(c.in); !reflect.DeepEqual(got, c.want) {
			t.Errorf("ParseTags(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestSanitizeText(t *testing.T) {
	if got := SanitizeText("  hello  ", 500); got != "hello" {
		t.Errorf("trim: got %q", got)
	}
	if got := SanitizeText("   ", 500); got != "" {
		t.Errorf("blank should clean away, got %q", got)
	}
	long := make([]rune, 600)
	for i := range long {
		long[i] = 'x'
	}
	if got := SanitizeText(string(long), 500); len([]rune(got)) != 500 {
		t.Errorf("cap: got %d runes", len([]rune(got)))
	}
}

func TestClampWait(t *testing.T) {
	cases := []struct{ in, want int }{
		{0, DefaultWaitMs},
		{-5, DefaultWaitMs},
		{100, MinWaitMs},
		{30_000, 30_000},
		{10_000_000, MaxWaitMs},
	}
	for _, c := range cases {
		if got := ClampWait(c.in); got != c.want {
			t.Errorf("ClampWait(%d) = %d, want %d", c.in, got, c.want)
		}
	}
}
