package catalog

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func findEntry(entries []Entry, msgID, ctx string) (Entry, bool) {
	for _, e := range entries {
		if e.MsgID == msgID && e.Context == ctx {
			return e, true
		}
	}
	return Entry{}, false
}

func TestPOReader_ReadFile(t *testing.T) {
	entries, err := NewPOReader().ReadFile(filepath.Join("testdata", "es.po"))
	require.NoError(t, err)

	yes, ok := findEntry(entries, "Yes", "")
	require.True(t, ok, "Yes entry missing")
	assert.Equal(t, []string{"Si"}, yes.Translations)
	assert.False(t, yes.IsPlural())

	panel, ok := findEntry(entries, "Welcome", "Welcome panel")
	require.True(t, ok, "context entry missing")
	assert.Equal(t, "Bienvenidos", panel.Translations[0])

	howdy, ok := findEntry(entries, "Welcome", "Howdy")
	require.True(t, ok, "second context entry missing")
	assert.Equal(t, "Hola", howdy.Translations[0])

	item, ok := findEntry(entries, "1 item", "")
	require.True(t, ok, "plural entry missing")
	assert.True(t, item.IsPlural())
	assert.Equal(t, "%d items", item.MsgIDPlural)
	assert.Equal(t, []string{"1 artículo", "%d artículos"}, item.Translations)

	multi, ok := findEntry(entries, "Line 1\nLine 2", "")
	require.True(t, ok, "multiline entry missing")
	assert.Equal(t, "Línea 1\nLínea 2", multi.Translations[0])

	untranslated, ok := findEntry(entries, "Untranslated", "")
	if ok {
		assert.False(t, untranslated.HasTranslation())
	}

	_, ok = findEntry(entries, "", "")
	assert.False(t, ok, "header entry must be omitted")
}

func TestPOReader_Ordering(t *testing.T) {
	entries, err := NewPOReader().ReadFile(filepath.Join("testdata", "es.po"))
	require.NoError(t, err)

	for i := 1; i < len(entries); i++ {
		prev, cur := entries[i-1], entries[i]
		if prev.Context == cur.Context {
			assert.LessOrEqual(t, prev.MsgID, cur.MsgID)
		} else {
			assert.Less(t, prev.Context, cur.Context)
		}
	}
}

func TestPOReader_MissingFile(t *testing.T) {
	_, err := NewPOReader().ReadFile(filepath.Join(t.TempDir(), "missing.po"))
	assert.Error(t, err)
}

func TestEntry_HasTranslation(t *testing.T) {
	assert.False(t, Entry{MsgID: "x"}.HasTranslation())
	assert.False(t, Entry{MsgID: "x", Translations: []string{"", ""}}.HasTranslation())
	assert.True(t, Entry{MsgID: "x", Translations: []string{"", "y"}}.HasTranslation())
}

func TestReaderFunc(t *testing.T) {
	var called string
	r := ReaderFunc(func(path string) ([]Entry, error) {
		called = path
		return []Entry{{MsgID: "a", Translations: []string{"b"}}}, nil
	})

	entries, err := r.ReadFile("x.po")
	require.NoError(t, err)
	assert.Equal(t, "x.po", called)
	assert.Len(t, entries, 1)
}

func TestPOReader_ContextAfterMsgID(t *testing.T) {
	data := []byte(`msgid ""
msgstr ""
"Language: es\n"

msgid "Yes"
msgctxt ""
msgstr "Si"

msgid "Open"
msgctxt "menu"
msgstr "Abrir"

msgctxt "dialog"
msgid "Open"
msgstr "Abre"
msgid "Close"
msgctxt ""
"menu"
msgstr "Cerrar"
`)

	entries := NewPOReader().Parse(data)

	yes, ok := findEntry(entries, "Yes", "")
	require.True(t, ok, "entry with trailing empty msgctxt missing")
	assert.Equal(t, []string{"Si"}, yes.Translations)

	menu, ok := findEntry(entries, "Open", "menu")
	require.True(t, ok, "entry with trailing msgctxt missing")
	assert.Equal(t, "Abrir", menu.Translations[0])

	dialog, ok := findEntry(entries, "Open", "dialog")
	require.True(t, ok, "leading msgctxt entry missing")
	assert.Equal(t, "Abre", dialog.Translations[0])

	closeEntry, ok := findEntry(entries, "Close", "menu")
	require.True(t, ok, "multi-line trailing msgctxt missing")
	assert.Equal(t, "Cerrar", closeEntry.Translations[0])
}

func TestContextFirst(t *testing.T) {
	in := "# comment\nmsgid \"Yes\"\nmsgctxt \"\"\nmsgstr \"Si\"\n"
	want := "# comment\nmsgctxt \"\"\nmsgid \"Yes\"\nmsgstr \"Si\"\n"
	assert.Equal(t, want, string(contextFirst([]byte(in))))

	standard := "msgctxt \"a\"\nmsgid \"b\"\nmsgstr \"c\"\n"
	assert.Equal(t, standard, string(contextFirst([]byte(standard))))
}
