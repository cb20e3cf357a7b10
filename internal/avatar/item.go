package avatar

import "github.com/google/uuid"

// Item is one resolved avatar URL for a given identity and pixel size.
type Item struct {
	UUID         string `json:"uuid"`
	Size         int    `json:"size"`
	URL          string `json:"url"`
	CacheControl int    `json:"cacheControl"`
}

// Query selects stored entries. Size 0 on Remove targets every size of UUID.
type Query struct {
	UUID string `json:"uuid"`
	Size int    `json:"size"`
}

// Query returns the lookup for this item's key.
func (i *Item) Query() *Query {
	return &Query{UUID: i.UUID, Size: i.Size}
}

// Key identifies one stored entry. The parsed UUID makes differently
// formatted spellings of the same identity compare equal.
type Key struct {
	ID   uuid.UUID
	Size int
}

func newKey(id string, size int) (Key, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return Key{}, err
	}
	return Key{ID: parsed, Size: size}, nil
}
