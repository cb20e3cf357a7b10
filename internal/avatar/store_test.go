package avatar

import (
	"strconv"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	uuid1 = "88888888-4444-4444-4444-aaaaaaaaaaa0"
	uuid2 = "88888888-4444-4444-4444-aaaaaaaaaaa1"
	uuid3 = "88888888-4444-4444-4444-aaaaaaaaaaa2"
)

func item(id string, size int, url string) *Item {
	return &Item{UUID: id, Size: size, URL: url, CacheControl: 300}
}

func TestStoreAddFailures(t *testing.T) {
	tests := []struct {
		name    string
		item    *Item
		message string
		kind    error
	}{
		{"nil item", nil, "`item` is required", ErrMissingArgument},
		{"empty item", &Item{}, "`uuid` is required", ErrMissingArgument},
		{"missing size", &Item{UUID: "id1"}, "`size` is required", ErrMissingArgument},
		{"malformed uuid", &Item{UUID: "id1", Size: 80}, "`uuid` does not appear to be a uuid", ErrInvalidFormat},
		{"missing url", &Item{UUID: uuid1, Size: 80}, "`url` is required", ErrMissingArgument},
		{"missing cache control", &Item{UUID: uuid1, Size: 80, URL: "http://www.example.com"}, "`cacheControl` is required", ErrMissingArgument},
		{"negative size", &Item{UUID: uuid1, Size: -40, URL: "http://www.example.com", CacheControl: 300}, "`size` is required", ErrMissingArgument},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := NewStore(nil)

			err := store.Add(tt.item)
			require.Error(t, err)
			assert.EqualError(t, err, tt.message)
			assert.ErrorIs(t, err, tt.kind)
			assert.Equal(t, 0, store.Len())
		})
	}
}

func TestStoreGetFailures(t *testing.T) {
	tests := []struct {
		name    string
		query   *Query
		message string
		kind    error
	}{
		{"nil query", nil, "`item` is required", ErrMissingArgument},
		{"empty query", &Query{}, "`item.uuid` is required", ErrMissingArgument},
		{"missing size", &Query{UUID: "id1"}, "`item.size` is required", ErrMissingArgument},
		{"malformed uuid", &Query{UUID: "id1", Size: 80}, "`item.uuid` does not appear to be a uuid", ErrInvalidFormat},
		{"never added", &Query{UUID: uuid1, Size: 80}, "No URL found by specified id", ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := NewStore(nil)

			url, err := store.Get(tt.query)
			assert.Empty(t, url)
			assert.EqualError(t, err, tt.message)
			assert.ErrorIs(t, err, tt.kind)
		})
	}
}

func TestStoreFailedAddLeavesContentUnchanged(t *testing.T) {
	store := NewStore(nil)
	require.NoError(t, store.Add(item(uuid1, 80, "http://www.example.com")))

	err := store.Add(&Item{UUID: uuid1, Size: 80, URL: "http://other.example.com"})
	assert.ErrorIs(t, err, ErrMissingArgument)

	url, err := store.Get(&Query{UUID: uuid1, Size: 80})
	require.NoError(t, err)
	assert.Equal(t, "http://www.example.com", url)
	assert.Equal(t, 1, store.Len())
}

func TestStoreRoundTrip(t *testing.T) {
	store := NewStore(nil)

	require.NoError(t, store.Add(item(uuid1, 80, "http://www.example.com")))

	url, err := store.Get(&Query{UUID: uuid1, Size: 80})
	require.NoError(t, err)
	assert.Equal(t, "http://www.example.com", url)

	store.Remove(&Query{UUID: uuid1})

	_, err = store.Get(&Query{UUID: uuid1, Size: 80})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStoreAddOverwritesSameKey(t *testing.T) {
	store := NewStore(nil)

	require.NoError(t, store.Add(item(uuid1, 80, "http://old.example.com")))
	require.NoError(t, store.Add(item(uuid1, 80, "http://new.example.com")))

	url, err := store.Get(&Query{UUID: uuid1, Size: 80})
	require.NoError(t, err)
	assert.Equal(t, "http://new.example.com", url)
	assert.Equal(t, 1, store.Len())
}

func TestStoreSetGetRemove(t *testing.T) {
	store := NewStore(nil)

	item1 := item(uuid1, 80, "http://www.example.com")
	item2 := item(uuid2, 80, "http://www2.example.com")
	item3 := item(uuid3, 80, "http://www3.example.com")

	for _, it := range []*Item{item1, item2, item3} {
		require.NoError(t, store.Add(it))
	}
	for _, it := range []*Item{item1, item2, item3} {
		url, err := store.Get(it.Query())
		require.NoError(t, err)
		assert.Equal(t, it.URL, url)
	}

	store.Remove(item2.Query())
	store.Remove(item3.Query())

	_, err := store.Get(item2.Query())
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = store.Get(item3.Query())
	assert.ErrorIs(t, err, ErrNotFound)

	url, err := store.Get(item1.Query())
	require.NoError(t, err)
	assert.Equal(t, item1.URL, url)
}

func TestStoreSizesAreIndependent(t *testing.T) {
	store := NewStore(nil)
	sizes := []int{40, 50, 80, 110, 192, 640, 1600}

	for _, size := range sizes {
		require.NoError(t, store.Add(item(uuid1, size, "http://www-"+strconv.Itoa(size)+".example.com")))
	}
	require.NoError(t, store.Add(item(uuid2, 80, "http://www2.example.com")))

	for _, size := range sizes {
		url, err := store.Get(&Query{UUID: uuid1, Size: size})
		require.NoError(t, err)
		assert.Equal(t, "http://www-"+strconv.Itoa(size)+".example.com", url)
	}

	store.Remove(&Query{UUID: uuid1, Size: 110})

	_, err := store.Get(&Query{UUID: uuid1, Size: 110})
	assert.ErrorIs(t, err, ErrNotFound)
	url, err := store.Get(&Query{UUID: uuid1, Size: 640})
	require.NoError(t, err)
	assert.Equal(t, "http://www-640.example.com", url)

	store.Remove(&Query{UUID: uuid1})

	for _, size := range sizes {
		_, err := store.Get(&Query{UUID: uuid1, Size: size})
		assert.ErrorIs(t, err, ErrNotFound)
	}

	url, err = store.Get(&Query{UUID: uuid2, Size: 80})
	require.NoError(t, err)
	assert.Equal(t, "http://www2.example.com", url)
	assert.Equal(t, 1, store.Len())
}

func TestStoreRemoveIsIdempotent(t *testing.T) {
	store := NewStore(nil)
	require.NoError(t, store.Add(item(uuid1, 80, "http://www.example.com")))

	assert.NotPanics(t, func() {
		store.Remove(&Query{UUID: uuid1, Size: 80})
		store.Remove(&Query{UUID: uuid1, Size: 80})
		store.Remove(&Query{UUID: uuid2})
		store.Remove(&Query{UUID: "id1"})
		store.Remove(nil)
	})
	assert.Equal(t, 0, store.Len())
}

func TestStoreConcurrentAccess(t *testing.T) {
	store := NewStore(nil)
	var wg sync.WaitGroup

	for i := 1; i <= 50; i++ {
		wg.Add(1)
		go func(size int) {
			defer wg.Done()
			it := item(uuid1, size, "http://www.example.com")
			assert.NoError(t, store.Add(it))
			_, err := store.Get(it.Query())
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 50, store.Len())

	store.Clear()
	assert.Equal(t, 0, store.Len())
}
