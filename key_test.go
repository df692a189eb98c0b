package gotcat

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestKey_Concatenation(t *testing.T) {
	tests := []struct {
		name     string
		msgID    string
		domain   string
		context  string
		locale   string
		offset   int
		expected string
	}{
		{name: "msgid only", msgID: "Yes", expected: "Yes"},
		{name: "with domain", msgID: "Yes", domain: "dom1", expected: "Yes.dom1"},
		{name: "with context", msgID: "Welcome", domain: "dom1", context: "Howdy", expected: "Welcome.dom1.Howdy"},
		{name: "context without domain", msgID: "Welcome", context: "Howdy", expected: "Welcome.Howdy"},
		{name: "locale", msgID: "Yes", domain: "dom1", locale: "es", expected: "Yes.dom1.es"},
		{name: "locale with country", msgID: "Yes", domain: "dom1", locale: "es_MX", expected: "Yes.dom1.es.MX"},
		{name: "offset zero", msgID: "%d items", locale: "es", offset: 0, expected: "%d items.es"},
		{name: "offset one is default plural", msgID: "%d items", locale: "es", offset: 1, expected: "%d items.es"},
		{name: "offset two", msgID: "%d items", locale: "ru", offset: 2, expected: "%d items.ru.2"},
		{name: "all components", msgID: "Save", domain: "app", context: "menu", locale: "de_ch", offset: 3, expected: "Save.app.menu.de.ch.3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Key(tt.msgID, tt.domain, tt.context, tt.locale, tt.offset, false)
			if got != tt.expected {
				t.Errorf("Key() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestKey_NoCleaningKeepsRawString(t *testing.T) {
	msgID := strings.Repeat("a very long message id with spaces ", 10)
	got := Key(msgID, "dom", "", "es", 0, false)

	if got != msgID+".dom.es" {
		t.Errorf("uncleaned key was modified: %q", got)
	}
}

func TestKey_CleaningReplacesWhitespaceRuns(t *testing.T) {
	got := Key("Hello  big\tworld", "dom", "", "es", 0, true)
	if got != "Hello_big_world.dom.es" {
		t.Errorf("Key() = %q, want %q", got, "Hello_big_world.dom.es")
	}
}

func TestKey_CleaningBoundsLength(t *testing.T) {
	inputs := []string{
		strings.Repeat("x", 65),
		strings.Repeat("word ", 40),
		"<b>Results:</b> 1 %s found. And some more text so this is definitely long",
		strings.Repeat("é", 80),
	}

	for _, in := range inputs {
		key := Key(in, "qcubed.i18n", "some context", "es_MX", 2, true)
		if len(key) > MaxKeyLength {
			t.Errorf("Key(%q) length = %d, want <= %d", in, len(key), MaxKeyLength)
		}
		if !utf8.ValidString(key) {
			t.Errorf("Key(%q) = %q is not valid UTF-8", in, key)
		}
	}
}

func TestKey_TruncatedKeysCarryHashOfRawKey(t *testing.T) {
	msgID := strings.Repeat("abcdefghij", 8)
	raw := Key(msgID, "dom", "", "es", 0, false)

	got := Key(msgID, "dom", "", "es", 0, true)
	want := raw[:31] + "." + HashKey(raw)

	if got != want {
		t.Errorf("Key() = %q, want %q", got, want)
	}
}

func TestKey_SharedPrefixDiffers(t *testing.T) {
	prefix := strings.Repeat("p", 40)
	a := Key(prefix+" first tail that is long enough", "dom", "", "es", 0, true)
	b := Key(prefix+" second tail that is long enough", "dom", "", "es", 0, true)

	if a == b {
		t.Fatalf("distinct long ids produced the same key %q", a)
	}
	if a[:31] != b[:31] {
		t.Errorf("expected shared truncated prefix, got %q and %q", a, b)
	}
}

func TestKey_Deterministic(t *testing.T) {
	for i := 0; i < 3; i++ {
		a := Key("Line 1\nLine 2", "dom2", "ctx", "es", 4, true)
		b := Key("Line 1\nLine 2", "dom2", "ctx", "es", 4, true)
		if a != b {
			t.Fatalf("Key not deterministic: %q != %q", a, b)
		}
	}
}

// The leading-pattern strip matches only an uppercase letter, a lowercase
// letter, a digit or period, then whitespace. A match always forces hashing.
func TestKey_StrayPrefixEdgeCase(t *testing.T) {
	t.Run("matching prefix is stripped and hashed", func(t *testing.T) {
		got := Key("Ab1 hello", "", "", "", 0, true)
		want := "hello." + HashKey("Ab1 hello")
		if got != want {
			t.Errorf("Key() = %q, want %q", got, want)
		}
	})

	t.Run("period variant", func(t *testing.T) {
		got := Key("Mr. Smith", "", "", "", 0, true)
		want := "Smith." + HashKey("Mr. Smith")
		if got != want {
			t.Errorf("Key() = %q, want %q", got, want)
		}
	})

	t.Run("non-matching prefix is a no-op", func(t *testing.T) {
		for _, in := range []string{"AB1 hello", "ab1 hello", "Abc hello", "Ab1hello"} {
			got := Key(in, "", "", "", 0, true)
			want := whitespace.ReplaceAllString(in, "_")
			if got != want {
				t.Errorf("Key(%q) = %q, want %q", in, got, want)
			}
		}
	})
}

func TestKey_EmptyMessageID(t *testing.T) {
	if got := Key("", "", "", "", 0, true); got != "" {
		t.Errorf("Key(\"\") = %q, want empty", got)
	}
}

func TestHashKey(t *testing.T) {
	if got := HashKey("hello"); got != "5d41402abc4b2a76b9719d911017c592" {
		t.Errorf("HashKey(hello) = %q", got)
	}
	if len(HashKey("")) != 32 {
		t.Error("HashKey should return 32 hex characters")
	}
}

func TestTruncateUTF8(t *testing.T) {
	s := "aé" + strings.Repeat("ü", 20)
	for n := 0; n < len(s); n++ {
		got := truncateUTF8(s, n)
		if len(got) > n {
			t.Errorf("truncateUTF8(%d) length %d", n, len(got))
		}
		if !utf8.ValidString(got) {
			t.Errorf("truncateUTF8(%d) = %q is not valid UTF-8", n, got)
		}
	}
}

func TestFreshnessKey(t *testing.T) {
	if got := freshnessKey("es_MX", "dom1"); got != "es_MX.dom1" {
		t.Errorf("freshnessKey() = %q", got)
	}
}
