// Package params holds the CPU copies of the uniform blocks read by the
// compute and render kernels.
//
// Every block carries a dirty flag. Any mutation marks the block dirty,
// whether or not the value actually changed; Flush hands the encoded bytes
// to a writer only when the block is dirty and clears the flag once the
// write succeeded. Several mutations between two flushes therefore cost a
// single transfer.
package params

// Encoder is implemented by values with a fixed GPU memory layout.
type Encoder interface {
	Bytes() []byte
}

// Block is a uniform block with a dirty flag.
//
// Block is NOT safe for concurrent use.
type Block[T Encoder] struct {
	data  T
	dirty bool
}

// NewBlock returns a block holding v. The block starts dirty so the first
// flush uploads the initial value.
func NewBlock[T Encoder](v T) *Block[T] {
	return &Block[T]{data: v, dirty: true}
}

// Get returns a copy of the current value.
func (b *Block[T]) Get() T {
	return b.data
}

// Set replaces the value and marks the block dirty.
func (b *Block[T]) Set(v T) {
	b.data = v
	b.dirty = true
}

// Update mutates the value in place and marks the block dirty.
func (b *Block[T]) Update(fn func(*T)) {
	fn(&b.data)
	b.dirty = true
}

// Dirty reports whether the block has changes not yet flushed.
func (b *Block[T]) Dirty() bool {
	return b.dirty
}

// Flush writes the encoded block through write if it is dirty.
// It reports whether a write happened. On a write error the block stays
// dirty so the next flush retries.
func (b *Block[T]) Flush(write func([]byte) error) (bool, error) {
	if !b.dirty {
		return false, nil
	}
	if err := write(b.data.Bytes()); err != nil {
		return false, err
	}
	b.dirty = false
	return true, nil
}
