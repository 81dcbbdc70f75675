package ledger

// Entry is a single recorded income, expense, asset or liability. Label holds
// the source/description/name and Category the category/type, depending on
// the kind of the collection it lives in.
type Entry struct {
	ID       int64   `json:"id"`
	Label    string  `json:"label"`
	Category string  `json:"category"`
	Amount   float64 `json:"amount"`
}

// Fields are the caller-supplied parts of an entry.
type Fields struct {
	Label    string
	Category string
	Amount   float64
}

func (f Fields) entry(id int64) Entry {
	return Entry{ID: id, Label: f.Label, Category: f.Category, Amount: f.Amount}
}

func indexOf(entries []Entry, id int64) int {
	for i := range entries {
		if entries[i].ID == id {
			return i
		}
	}
	return -1
}

func cloneEntries(entries []Entry) []Entry {
	out := make([]Entry, len(entries))
	copy(out, entries)
	return out
}
