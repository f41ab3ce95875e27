package resource

import (
	"sync"

	"github.com/LouLouLibs/NickelEval/errors"
)

// Table owns every result handed across the boundary. It is a slot
// array with a free list; each slot carries a generation counter so a
// released handle stays identifiable after its slot is reused, which is
// what turns double release from undefined behavior into a reported
// error.
//
// A Table is safe for concurrent use and may be shared by sessions on
// different goroutines.
type Table struct {
	mu        sync.Mutex
	entries   []entry
	freeList  []uint32
	observers []Observer
	obsMu     sync.RWMutex
	closed    bool
}

type entry struct {
	data   []byte
	typeID uint32
	gen    uint32
	live   bool
}

// NewTable creates an empty result table.
func NewTable() *Table {
	return &Table{
		entries:  make([]entry, 0, 16),
		freeList: make([]uint32, 0, 8),
	}
}

func makeHandle(idx, gen uint32) Handle {
	return Handle(uint64(gen)<<32 | uint64(idx+1))
}

func splitHandle(h Handle) (idx, gen uint32, ok bool) {
	low := uint32(h)
	if low == 0 {
		return 0, 0, false
	}
	return low - 1, uint32(h >> 32), true
}

// Insert stores a result and returns its handle. Returns 0 if the
// table is closed.
func (t *Table) Insert(typeID uint32, data []byte) Handle {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return 0
	}

	var idx uint32
	if n := len(t.freeList); n > 0 {
		idx = t.freeList[n-1]
		t.freeList = t.freeList[:n-1]
		e := &t.entries[idx]
		e.data = data
		e.typeID = typeID
		e.live = true
	} else {
		idx = uint32(len(t.entries))
		t.entries = append(t.entries, entry{data: data, typeID: typeID, live: true})
	}
	h := makeHandle(idx, t.entries[idx].gen)
	t.mu.Unlock()

	t.notify(Event{Type: EventCreated, Handle: h, TypeID: typeID, Size: len(data)})
	return h
}

// Get retrieves a live result by handle, checking the type ID.
func (t *Table) Get(h Handle, typeID uint32) ([]byte, bool) {
	idx, gen, ok := splitHandle(h)
	if !ok {
		return nil, false
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if int(idx) >= len(t.entries) {
		return nil, false
	}
	e := t.entries[idx]
	if !e.live || e.gen != gen || e.typeID != typeID {
		return nil, false
	}
	return e.data, true
}

// Release frees a result. Releasing the zero handle is a safe no-op.
// Releasing a handle twice reports double_release; a handle this table
// never issued reports invalid_handle. The wrong-type release path is
// also invalid_handle: a text handle cannot release a binary result.
func (t *Table) Release(h Handle, typeID uint32) *errors.Error {
	idx, gen, ok := splitHandle(h)
	if !ok {
		return nil // zero handle, no-op
	}

	t.mu.Lock()
	if int(idx) >= len(t.entries) {
		t.mu.Unlock()
		return errors.InvalidHandle("handle was not issued by this table")
	}
	e := &t.entries[idx]
	switch {
	case gen < e.gen || (gen == e.gen && !e.live):
		t.mu.Unlock()
		return errors.DoubleRelease("result")
	case gen > e.gen:
		t.mu.Unlock()
		return errors.InvalidHandle("handle was not issued by this table")
	case e.typeID != typeID:
		t.mu.Unlock()
		return errors.InvalidHandle("handle type does not match release operation")
	}

	size := len(e.data)
	released := e.typeID
	e.data = nil
	e.live = false
	e.gen++
	t.freeList = append(t.freeList, idx)
	t.mu.Unlock()

	t.notify(Event{Type: EventReleased, Handle: h, TypeID: released, Size: size})
	return nil
}

// Len returns the number of live results.
func (t *Table) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	count := 0
	for _, e := range t.entries {
		if e.live {
			count++
		}
	}
	return count
}

// Subscribe adds an observer for lifecycle events.
func (t *Table) Subscribe(o Observer) {
	t.obsMu.Lock()
	defer t.obsMu.Unlock()
	t.observers = append(t.observers, o)
}

// Unsubscribe removes an observer.
func (t *Table) Unsubscribe(o Observer) {
	t.obsMu.Lock()
	defer t.obsMu.Unlock()
	for i, obs := range t.observers {
		if obs == o {
			t.observers = append(t.observers[:i], t.observers[i+1:]...)
			return
		}
	}
}

// Close releases all live results and stops accepting inserts.
func (t *Table) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return nil
	}
	t.closed = true

	for i := range t.entries {
		if t.entries[i].live {
			t.entries[i].data = nil
			t.entries[i].live = false
			t.entries[i].gen++
		}
	}
	t.entries = nil
	t.freeList = nil
	return nil
}

func (t *Table) notify(e Event) {
	t.obsMu.RLock()
	defer t.obsMu.RUnlock()
	for _, o := range t.observers {
		o.OnResultEvent(e)
	}
}
