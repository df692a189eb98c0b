package catalog

import (
	"fmt"
	"os"
	"slices"
	"sort"
	"strings"

	"github.com/leonelquinteros/gotext"
)

// Extension is the file extension of gettext catalog sources.
const Extension = ".po"

// POReader reads gettext .po files using gotext.
type POReader struct{}

// NewPOReader creates a new .po catalog reader.
func NewPOReader() *POReader {
	return &POReader{}
}

// ReadFile parses the .po file at path. Entries are ordered by context and
// then message id. The header entry (empty msgid) is omitted.
func (r *POReader) ReadFile(path string) ([]Entry, error) {
	data, err := os.ReadFile(path) // #nosec G304 - catalog paths come from bound domains
	if err != nil {
		return nil, fmt.Errorf("reading catalog: %w", err)
	}
	return r.Parse(data), nil
}

// Parse converts raw .po content into entries. A msgctxt written after its
// msgid is accepted and treated as if it preceded it.
func (r *POReader) Parse(data []byte) []Entry {
	po := gotext.NewPo()
	po.Parse(contextFirst(data))
	domain := po.GetDomain()

	var entries []Entry
	for _, tr := range domain.GetTranslations() {
		if tr.ID == "" {
			continue
		}
		entries = append(entries, toEntry(tr, ""))
	}
	for ctx, trs := range domain.GetCtxTranslations() {
		for _, tr := range trs {
			if tr.ID == "" {
				continue
			}
			entries = append(entries, toEntry(tr, ctx))
		}
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Context != entries[j].Context {
			return entries[i].Context < entries[j].Context
		}
		return entries[i].MsgID < entries[j].MsgID
	})

	return entries
}

// contextFirst moves a msgctxt field that follows its entry's msgid in front
// of that msgid. gotext treats msgctxt as the start of a new entry, so the
// trailing form would otherwise detach the context and lose the msgstr.
func contextFirst(data []byte) []byte {
	lines := strings.Split(string(data), "\n")
	out := make([]string, 0, len(lines))

	msgidAt := -1 // index in out of the current entry's msgid, -1 when none
	seenStr := false

	for i := 0; i < len(lines); {
		trimmed := strings.TrimSpace(lines[i])
		keyword, _, _ := strings.Cut(trimmed, " ")

		// A field is its keyword line plus any continuation strings.
		end := i + 1
		if strings.HasPrefix(keyword, "msg") {
			for end < len(lines) && strings.HasPrefix(strings.TrimSpace(lines[end]), `"`) {
				end++
			}
		}
		field := lines[i:end]
		i = end

		switch {
		case keyword == "msgctxt" && msgidAt >= 0 && !seenStr:
			out = slices.Insert(out, msgidAt, field...)
			msgidAt += len(field)
			continue
		case keyword == "msgctxt", trimmed == "":
			msgidAt, seenStr = -1, false
		case keyword == "msgid":
			if msgidAt < 0 || seenStr {
				msgidAt, seenStr = len(out), false
			}
		case strings.HasPrefix(keyword, "msgstr"):
			seenStr = true
		case strings.HasPrefix(trimmed, "#"):
			if seenStr {
				msgidAt, seenStr = -1, false
			}
		}
		out = append(out, field...)
	}

	return []byte(strings.Join(out, "\n"))
}

// toEntry flattens gotext's form map into a dense slice.
func toEntry(tr *gotext.Translation, ctx string) Entry {
	size := 0
	for idx := range tr.Trs {
		if idx+1 > size {
			size = idx + 1
		}
	}

	forms := make([]string, size)
	for idx, s := range tr.Trs {
		if idx >= 0 {
			forms[idx] = s
		}
	}

	return Entry{
		MsgID:        tr.ID,
		MsgIDPlural:  tr.PluralID,
		Context:      ctx,
		Translations: forms,
	}
}

// Verify POReader implements Reader
var _ Reader = (*POReader)(nil)
