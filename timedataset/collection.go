package timedataset

import (
	"errors"
	"sort"
)

var ErrKeyNotFound = errors.New("key not found in collection")

// Collection groups datasets by a category key so the forecasting core can be
// applied per group.
type Collection struct {
	datasets map[string]*TimeDataset
}

func NewCollection() *Collection {
	return &Collection{
		datasets: make(map[string]*TimeDataset),
	}
}

// Set stores a dataset under the given key replacing any previous entry.
func (c *Collection) Set(key string, td *TimeDataset) {
	c.datasets[key] = td
}

// Get returns the dataset stored under the given key.
func (c *Collection) Get(key string) (*TimeDataset, error) {
	td, exists := c.datasets[key]
	if !exists {
		return nil, ErrKeyNotFound
	}
	return td, nil
}

// Len returns the number of grouped datasets.
func (c *Collection) Len() int {
	return len(c.datasets)
}

// Keys returns all group keys in sorted order.
func (c *Collection) Keys() []string {
	keys := make([]string, 0, len(c.datasets))
	for key := range c.datasets {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Apply runs fn against every dataset in sorted key order stopping at the
// first error.
func (c *Collection) Apply(fn func(key string, td *TimeDataset) error) error {
	for _, key := range c.Keys() {
		if err := fn(key, c.datasets[key]); err != nil {
			return err
		}
	}
	return nil
}
