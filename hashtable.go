package raster

import "math/rand"

// HashEntry is implemented by every entry stored in a HashTable. The hash
// must be cheap, it is consulted on every probe. Entries double as lookup
// keys: a key is an entry carrying at least the hash and whatever the
// keysEqual function inspects.
type HashEntry interface {
	Hash() uint64
}

type deadMarker struct{}

func (deadMarker) Hash() uint64 { return 0 }

// deadEntry marks a slot whose entry was removed. Unlike a free slot it does
// not terminate a probe chain.
var deadEntry HashEntry = deadMarker{}

// hashTableSizes is a sequence of primes p for which p-2 is also usable as a
// double-hashing step modulus, growing roughly by doubling.
var hashTableSizes = []uint64{
	43,
	73,
	151,
	283,
	571,
	1153,
	2269,
	4519,
	9013,
	18043,
	36109,
	72091,
	144409,
	288361,
	576883,
	1153459,
	2307163,
	4613893,
	9227641,
	18455029,
	36911011,
	73819861,
	147639589,
	295279081,
	590559793,
}

// HashTable is an open-addressed hash table with double hashing. Slots
// cycle through free, live, and dead: a dead slot keeps probe chains intact
// until the next resize rehashes the survivors.
type HashTable struct {
	keysEqual func(a, b HashEntry) bool

	cache [8]HashEntry

	sizeIndex int
	entries   []HashEntry

	liveEntries uint64
	freeEntries uint64
	iterating   int
}

func entryIsLive(e HashEntry) bool {
	return e != nil && e != deadEntry
}

// NewHashTable creates an empty hash table comparing keys with keysEqual.
// A nil keysEqual considers two keys equal whenever their hashes are,
// for keys whose hash fully describes them.
func NewHashTable(keysEqual func(a, b HashEntry) bool) *HashTable {
	if keysEqual == nil {
		keysEqual = func(a, b HashEntry) bool { return true }
	}
	return &HashTable{
		keysEqual:   keysEqual,
		entries:     make([]HashEntry, hashTableSizes[0]),
		freeEntries: hashTableSizes[0],
	}
}

// Len returns the number of live entries.
func (t *HashTable) Len() int {
	return int(t.liveEntries)
}

// lookupUniqueKey finds the slot where key belongs, assuming no entry with
// an equal key is present. The table always holds free slots, so the probe
// terminates.
func (t *HashTable) lookupUniqueKey(key HashEntry) *HashEntry {
	tableSize := uint64(len(t.entries))
	hash := key.Hash()
	idx := hash % tableSize

	if !entryIsLive(t.entries[idx]) {
		return &t.entries[idx]
	}

	step := 1 + hash%(tableSize-2)
	for i := uint64(1); i < tableSize; i++ {
		idx += step
		if idx >= tableSize {
			idx -= tableSize
		}
		if !entryIsLive(t.entries[idx]) {
			return &t.entries[idx]
		}
	}

	panic("raster: hash table has no free slot")
}

// manage resizes the table when the live count leaves the [12.5%, 50%] band
// or fewer than 25% of the slots are free, rehashing all live entries and
// discarding the dead ones.
func (t *HashTable) manage() {
	liveHigh := uint64(len(t.entries)) >> 1
	liveLow := liveHigh >> 2
	freeLow := liveHigh >> 1

	newIndex := t.sizeIndex
	if liveHigh < t.liveEntries {
		newIndex++
		if newIndex == len(hashTableSizes) {
			panic("raster: hash table cannot grow further")
		}
	} else if t.liveEntries < liveLow && 0 < t.sizeIndex {
		newIndex--
	}

	if newIndex == t.sizeIndex && freeLow < t.freeEntries {
		return
	}

	old := t.entries
	t.sizeIndex = newIndex
	t.entries = make([]HashEntry, hashTableSizes[newIndex])
	t.freeEntries = hashTableSizes[newIndex] - t.liveEntries

	for _, e := range old {
		if entryIsLive(e) {
			*t.lookupUniqueKey(e) = e
		}
	}
}

// Lookup returns the entry whose key matches key, or nil. A repeated hit on
// the same entry is served from a small direct-mapped cache.
func (t *HashTable) Lookup(key HashEntry) HashEntry {
	hash := key.Hash()

	entry := t.cache[hash&7]
	if entry != nil && entry.Hash() == hash && t.keysEqual(key, entry) {
		return entry
	}

	tableSize := uint64(len(t.entries))
	idx := hash % tableSize

	entry = t.entries[idx]
	if entryIsLive(entry) {
		if entry.Hash() == hash && t.keysEqual(key, entry) {
			t.cache[hash&7] = entry
			return entry
		}
	} else if entry == nil {
		return nil
	}

	step := 1 + hash%(tableSize-2)
	for i := uint64(1); i < tableSize; i++ {
		idx += step
		if idx >= tableSize {
			idx -= tableSize
		}

		entry = t.entries[idx]
		if entryIsLive(entry) {
			if entry.Hash() == hash && t.keysEqual(key, entry) {
				t.cache[hash&7] = entry
				return entry
			}
		} else if entry == nil {
			return nil
		}
	}

	panic("raster: hash table probe did not terminate")
}

// RandomEntry returns a pseudo-random live entry satisfying predicate, or
// nil. The probe sequence of a random hash visits the table in a scattered
// order, avoiding the bias towards entries following gaps that a linear walk
// would have.
func (t *HashTable) RandomEntry(predicate func(HashEntry) bool) HashEntry {
	if predicate == nil {
		panic("raster: RandomEntry requires a predicate")
	}

	tableSize := uint64(len(t.entries))
	hash := rand.Uint64()
	idx := hash % tableSize

	entry := t.entries[idx]
	if entryIsLive(entry) && predicate(entry) {
		return entry
	}

	step := 1 + hash%(tableSize-2)
	for i := uint64(1); i < tableSize; i++ {
		idx += step
		if idx >= tableSize {
			idx -= tableSize
		}

		entry = t.entries[idx]
		if entryIsLive(entry) && predicate(entry) {
			return entry
		}
	}

	return nil
}

// Insert adds entry to the table. There must be no existing entry with a
// matching key; edit the entry returned by Lookup instead of re-inserting.
// Insert must not be called while a Foreach is running.
func (t *HashTable) Insert(entry HashEntry) {
	if t.iterating != 0 {
		panic("raster: insert during iteration")
	}

	t.manage()

	slot := t.lookupUniqueKey(entry)
	if *slot == nil {
		t.freeEntries--
	}
	*slot = entry
	t.cache[entry.Hash()&7] = entry
	t.liveEntries++
}

// lookupExactKey finds the slot holding exactly key, which must be present.
func (t *HashTable) lookupExactKey(key HashEntry) *HashEntry {
	tableSize := uint64(len(t.entries))
	hash := key.Hash()
	idx := hash % tableSize

	if t.entries[idx] == key {
		return &t.entries[idx]
	}

	step := 1 + hash%(tableSize-2)
	for i := uint64(1); i < tableSize; i++ {
		idx += step
		if idx >= tableSize {
			idx -= tableSize
		}
		if t.entries[idx] == key {
			return &t.entries[idx]
		}
	}

	panic("raster: removing an entry that is not present")
}

// Remove deletes the given entry, which must be in the table. The slot is
// marked dead so probe chains through it keep working until the next
// resize.
func (t *HashTable) Remove(key HashEntry) {
	*t.lookupExactKey(key) = deadEntry
	t.liveEntries--
	t.cache[key.Hash()&7] = nil

	// resizing while iterating would reorder the table under the iteration
	if t.iterating == 0 {
		t.manage()
	}
}

// Foreach calls f for each live entry in unspecified order. f may remove
// entries but must not insert.
func (t *HashTable) Foreach(f func(HashEntry)) {
	t.iterating++
	for _, e := range t.entries {
		if entryIsLive(e) {
			f(e)
		}
	}
	t.iterating--
	if t.iterating == 0 {
		t.manage()
	}
}
