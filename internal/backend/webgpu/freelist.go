package webgpu

// freeList keeps released buffers by size category. Each entry records the
// capacity the buffer was created with, which may exceed the size it was
// last acquired for.
type freeList[B any, U comparable] struct {
	lists [3][]freeEntry[B, U] // indexed by BufferSize
}

type freeEntry[B any, U comparable] struct {
	buf      B
	capacity uint64
	usage    U
}

// take removes a buffer with at least size bytes and the given usage,
// searching the size's category and the larger ones.
func (f *freeList[B, U]) take(size uint64, usage U) (buf B, capacity uint64, ok bool) {
	for c := Categorize(size); c <= LargeBuffer; c++ {
		list := f.lists[c]
		for i, e := range list {
			if e.capacity >= size && e.usage == usage {
				f.lists[c] = append(list[:i], list[i+1:]...)
				return e.buf, e.capacity, true
			}
		}
	}
	return buf, 0, false
}

// put files buf under its capacity. It returns false, keeping nothing, when
// that category is full.
func (f *freeList[B, U]) put(buf B, capacity uint64, usage U) bool {
	c := Categorize(capacity)
	if len(f.lists[c]) >= maxPoolSize {
		return false
	}
	f.lists[c] = append(f.lists[c], freeEntry[B, U]{buf: buf, capacity: capacity, usage: usage})
	return true
}

// drain empties the list and returns every buffer it held.
func (f *freeList[B, U]) drain() []B {
	var out []B
	for c := range f.lists {
		for _, e := range f.lists[c] {
			out = append(out, e.buf)
		}
		f.lists[c] = nil
	}
	return out
}

func (f *freeList[B, U]) len() int {
	n := 0
	for _, list := range f.lists {
		n += len(list)
	}
	return n
}
