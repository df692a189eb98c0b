package gotcat

import "sort"

// DiffResult represents the difference between two compiled catalogs.
type DiffResult struct {
	// Added contains keys present only in the new catalog.
	Added []string

	// Removed contains keys present only in the old catalog.
	Removed []string

	// Unchanged contains keys with the same text in both catalogs.
	Unchanged []string

	// Modified contains keys whose text changed.
	Modified []ModifiedEntry
}

// ModifiedEntry is a key whose translated text changed.
type ModifiedEntry struct {
	Key string
	Old string
	New string
}

// Stats returns summary statistics for the diff.
func (d *DiffResult) Stats() DiffStats {
	return DiffStats{
		Added:     len(d.Added),
		Removed:   len(d.Removed),
		Unchanged: len(d.Unchanged),
		Modified:  len(d.Modified),
	}
}

// DiffStats contains summary statistics for a diff.
type DiffStats struct {
	Added     int
	Removed   int
	Unchanged int
	Modified  int
}

// HasChanges returns true if there are any differences.
func (d *DiffResult) HasChanges() bool {
	return len(d.Added) > 0 || len(d.Removed) > 0 || len(d.Modified) > 0
}

// DiffCatalogs compares two key to text maps, such as two BuildCatalog
// results for successive revisions of a .po file. All slices are sorted by key.
func DiffCatalogs(oldCatalog, newCatalog map[string]string) *DiffResult {
	result := &DiffResult{}

	for key, oldText := range oldCatalog {
		newText, exists := newCatalog[key]
		switch {
		case !exists:
			result.Removed = append(result.Removed, key)
		case newText == oldText:
			result.Unchanged = append(result.Unchanged, key)
		default:
			result.Modified = append(result.Modified, ModifiedEntry{Key: key, Old: oldText, New: newText})
		}
	}

	for key := range newCatalog {
		if _, exists := oldCatalog[key]; !exists {
			result.Added = append(result.Added, key)
		}
	}

	sort.Strings(result.Added)
	sort.Strings(result.Removed)
	sort.Strings(result.Unchanged)
	sort.Slice(result.Modified, func(i, j int) bool {
		return result.Modified[i].Key < result.Modified[j].Key
	})

	return result
}
