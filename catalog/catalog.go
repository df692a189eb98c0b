// Package catalog reads translation catalog source files into entries.
package catalog

// Entry is one message of a translation catalog.
type Entry struct {
	MsgID        string   // Source-language message id
	MsgIDPlural  string   // Plural message id, empty for singular entries
	Context      string   // Disambiguation context (msgctxt)
	Translations []string // Translated strings indexed by plural form
}

// IsPlural reports whether the entry carries a plural message id.
func (e Entry) IsPlural() bool {
	return e.MsgIDPlural != ""
}

// HasTranslation reports whether at least one translated form is non-empty.
func (e Entry) HasTranslation() bool {
	for _, s := range e.Translations {
		if s != "" {
			return true
		}
	}
	return false
}

// Reader turns one catalog source file into an ordered sequence of entries.
type Reader interface {
	ReadFile(path string) ([]Entry, error)
}

// ReaderFunc adapts a function to the Reader interface.
type ReaderFunc func(path string) ([]Entry, error)

// ReadFile calls f(path).
func (f ReaderFunc) ReadFile(path string) ([]Entry, error) {
	return f(path)
}
