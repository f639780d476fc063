package utils

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestTruncate(t *testing.T) {
	if Truncate("hello", 10) != "hello" {
		t.Error("short string unchanged")
	}
	if Truncate("hello world", 5) != "hello..." {
		t.Errorf("got %s", Truncate("hello world", 5))
	}
	if Truncate("x", 0) != "x" {
		t.Error("maxLen 0 returns as-is")
	}
}

func TestTruncate_multibyte(t *testing.T) {
	// The cut must land on a rune boundary, not a byte offset inside a
	// diacritic, or the output is invalid UTF-8.
	if got := Truncate("máy lọc nước Karofi", 7); got != "máy lọc..." {
		t.Errorf("got %q, want %q", got, "máy lọc...")
	}
	long := strings.Repeat("giá rẻ ", 30)
	got := Truncate(long, 150)
	if !utf8.ValidString(got) {
		t.Errorf("truncated string is not valid UTF-8: %q", got)
	}
	if utf8.RuneCountInString(got) != 153 {
		t.Errorf("got %d runes, want 150 plus ellipsis", utf8.RuneCountInString(got))
	}
}

func TestGroupThousands(t *testing.T) {
	cases := []struct {
		in   int64
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{19500000, "19,500,000"},
		{6800000, "6,800,000"},
		{-4500, "-4,500"},
	}
	for _, c := range cases {
		if got := GroupThousands(c.in); got != c.want {
			t.Errorf("GroupThousands(%d) = %q, want %q", c.in, got, c.want)
		}
	}
}
