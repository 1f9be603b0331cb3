package store

import (
	"bytes"

	"github.com/google/btree"
)

// ascend collects the cached items in [start, end) in ascending order.
// The snapshot is taken eagerly, so the cache may be written while the
// iterator is alive.
func ascend(bt *btree.BTree, start, end []byte) []btree.Item {
	var items []btree.Item
	collect := func(i btree.Item) bool {
		items = append(items, i)
		return true
	}
	switch {
	case start == nil && end == nil:
		bt.Ascend(collect)
	case start == nil:
		bt.AscendLessThan(bkey{end}, collect)
	case end == nil:
		bt.AscendGreaterOrEqual(bkey{start}, collect)
	default:
		bt.AscendRange(bkey{start}, bkey{end}, collect)
	}
	return items
}

// descend collects the cached items in [start, end) in descending order.
func descend(bt *btree.BTree, start, end []byte) []btree.Item {
	items := ascend(bt, start, end)
	for i, j := 0, len(items)-1; i < j; i, j = i+1, j-1 {
		items[i], items[j] = items[j], items[i]
	}
	return items
}

// mergeIterator combines cached items with the parent iterator, taking
// into consideration overwrites and deletes.
type mergeIterator struct {
	cached  []btree.Item
	parent  Iterator
	reverse bool
}

var _ Iterator = (*mergeIterator)(nil)

func newMergeIterator(cached []btree.Item, parent Iterator, reverse bool) *mergeIterator {
	it := &mergeIterator{cached: cached, parent: parent, reverse: reverse}
	it.skipDeleted()
	return it
}

// source marks where the current item comes from
type source int32

const (
	none source = iota
	us
	parent
	both
)

// first selects the iterator with the next key in iteration order.
func (i *mergeIterator) first() source {
	usValid := len(i.cached) > 0
	parentValid := i.parent.Valid()
	switch {
	case !usValid && !parentValid:
		return none
	case !parentValid:
		return us
	case !usValid:
		return parent
	}

	cmp := bytes.Compare(i.parent.Key(), i.cached[0].(keyer).Key())
	if i.reverse {
		cmp = -cmp
	}
	switch {
	case cmp < 0:
		return parent
	case cmp > 0:
		return us
	default:
		return both
	}
}

// skipDeleted jumps over all deleted cache entries, together with the
// parent entries they shadow.
func (i *mergeIterator) skipDeleted() {
	for {
		src := i.first()
		if src != us && src != both {
			return
		}
		if _, ok := i.cached[0].(deletedItem); !ok {
			return
		}
		i.cached = i.cached[1:]
		if src == both {
			i.parent.Next()
		}
	}
}

// Valid implements Iterator and returns true iff it can be read
func (i *mergeIterator) Valid() bool {
	return i.first() != none
}

// Next moves the iterator to the next sequential key in the database, as
// defined by order of iteration.
//
// If Valid returns false, this method will panic.
func (i *mergeIterator) Next() {
	switch i.first() {
	case us:
		i.cached = i.cached[1:]
	case both:
		i.cached = i.cached[1:]
		i.parent.Next()
	case parent:
		i.parent.Next()
	default:
		panic("Advanced past the end!")
	}
	i.skipDeleted()
}

// Key returns the key of the cursor.
func (i *mergeIterator) Key() []byte {
	switch i.first() {
	case us, both:
		return i.cached[0].(keyer).Key()
	case parent:
		return i.parent.Key()
	default:
		panic("Advanced past the end!")
	}
}

// Value returns the value of the cursor.
func (i *mergeIterator) Value() []byte {
	switch i.first() {
	case us, both:
		return i.cached[0].(setItem).value
	case parent:
		return i.parent.Value()
	default:
		panic("Advanced past the end!")
	}
}

// Close releases the Iterator.
func (i *mergeIterator) Close() {
	i.parent.Close()
	i.cached = nil
}
