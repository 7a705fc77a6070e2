package storage

// Keys selects the items Get returns. It's one of Key, KeyList or Defaults.
// A nil Keys selects every stored item.
type Keys interface {
	keys() []string
}

type (
	// Key selects a single item, it's absent from the result if not stored.
	Key string
	// KeyList selects several items, each absent from the result if not
	// stored.
	KeyList []string
	// Defaults selects its keys, items that are not stored (or can't be
	// parsed) take the value given here.
	Defaults map[string]any
	// Items is a set of storage values by key.
	Items map[string]any
)

func (k Key) keys() []string {
	return []string{string(k)}
}

func (l KeyList) keys() []string {
	return l
}

func (d Defaults) keys() []string {
	res := make([]string, 0, len(d))
	for k := range d {
		res = append(res, k)
	}
	return res
}
