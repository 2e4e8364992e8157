// Package entity contains the core business objects of the project.
package entity

import (
	"math/bits"
	"strings"

	"flagpole/internal/errors"
)

// Flag view alphabet. Every bit renders as exactly one of these runes.
const (
	FlagSetRune   = 'T'
	FlagUnsetRune = 'F'
)

const wordSize = 64

// MaxFlagSize is the largest size NewMultipleBinaryFlag accepts (2 MiB of words).
// WithMaxSize can only lower it.
const MaxFlagSize = 1 << 24

// Domain-specific errors for binary flags.
var (
	// ErrInvalidFlagSize is returned when a size is negative or above the maximum.
	ErrInvalidFlagSize = errors.New("invalid flag size")
	// ErrFlagIndexOutOfRange is returned when a bit index is outside [0, size).
	ErrFlagIndexOutOfRange = errors.New("flag index out of range")
	// ErrMalformedFlagView is returned when a view contains runes outside the T/F alphabet.
	ErrMalformedFlagView = errors.New("malformed flag view")
)

// MultipleBinaryFlag is an ordered, fixed-size sequence of boolean bits.
// It is owned by a single goroutine and is not safe for concurrent mutation.
type MultipleBinaryFlag struct {
	words []uint64
	size  int
	rule  AggregateRule
}

// FlagOption customizes a MultipleBinaryFlag at construction time.
type FlagOption func(*flagOptions)

type flagOptions struct {
	initial bool
	rule    AggregateRule
	maxSize int
}

// WithInitialValue sets the value every bit starts with. Defaults to true.
func WithInitialValue(value bool) FlagOption {
	return func(o *flagOptions) {
		o.initial = value
	}
}

// WithAggregateRule sets the reduction used by GetFlag. Defaults to AllSet.
func WithAggregateRule(rule AggregateRule) FlagOption {
	return func(o *flagOptions) {
		if rule != nil {
			o.rule = rule
		}
	}
}

// WithMaxSize lowers the size limit below MaxFlagSize. Non-positive or larger
// values keep MaxFlagSize.
func WithMaxSize(maxSize int) FlagOption {
	return func(o *flagOptions) {
		if maxSize > 0 && maxSize < MaxFlagSize {
			o.maxSize = maxSize
		}
	}
}

// NewMultipleBinaryFlag allocates size bits, all set to the initial value.
func NewMultipleBinaryFlag(size int, opts ...FlagOption) (*MultipleBinaryFlag, error) {
	options := flagOptions{initial: true, rule: AllSet, maxSize: MaxFlagSize}
	for _, opt := range opts {
		opt(&options)
	}

	if size < 0 || size > options.maxSize {
		return nil, errors.Wrapf(ErrInvalidFlagSize, "size %d, max %d", size, options.maxSize)
	}

	flag := &MultipleBinaryFlag{
		words: make([]uint64, (size+wordSize-1)/wordSize),
		size:  size,
		rule:  options.rule,
	}
	if options.initial {
		flag.SetAll()
	}

	return flag, nil
}

// ParseMultipleBinaryFlag decodes a view produced by String.
func ParseMultipleBinaryFlag(view string, opts ...FlagOption) (*MultipleBinaryFlag, error) {
	if err := ValidateFlagView(view); err != nil {
		return nil, err
	}

	flag, err := NewMultipleBinaryFlag(len(view), append([]FlagOption{WithInitialValue(false)}, opts...)...)
	if err != nil {
		return nil, err
	}
	for i := 0; i < len(view); i++ {
		if view[i] == FlagSetRune {
			flag.set(i)
		}
	}

	return flag, nil
}

// ValidateFlagView reports ErrMalformedFlagView if view holds anything but T and F.
func ValidateFlagView(view string) error {
	for i, r := range view {
		if r != FlagSetRune && r != FlagUnsetRune {
			return errors.Wrapf(ErrMalformedFlagView, "unexpected %q at offset %d", r, i)
		}
	}

	return nil
}

// Len returns the number of bits.
func (f *MultipleBinaryFlag) Len() int {
	return f.size
}

// Get returns the bit at index.
func (f *MultipleBinaryFlag) Get(index int) (bool, error) {
	if err := f.checkIndex(index); err != nil {
		return false, err
	}

	return f.test(index), nil
}

// SetFlag sets the bit at index to true.
func (f *MultipleBinaryFlag) SetFlag(index int) error {
	if err := f.checkIndex(index); err != nil {
		return err
	}
	f.set(index)

	return nil
}

// ResetFlag sets the bit at index to false.
func (f *MultipleBinaryFlag) ResetFlag(index int) error {
	if err := f.checkIndex(index); err != nil {
		return err
	}
	f.words[index/wordSize] &^= 1 << uint(index%wordSize)

	return nil
}

// SetAll sets every bit to true.
func (f *MultipleBinaryFlag) SetAll() {
	for i := range f.words {
		f.words[i] = ^uint64(0)
	}
	// bits past size stay zero so OnesCount stays exact
	if rem := f.size % wordSize; rem != 0 {
		f.words[len(f.words)-1] = (1 << uint(rem)) - 1
	}
}

// ResetAll sets every bit to false.
func (f *MultipleBinaryFlag) ResetAll() {
	clear(f.words)
}

// SetCount returns how many bits are true.
func (f *MultipleBinaryFlag) SetCount() int {
	count := 0
	for _, w := range f.words {
		count += bits.OnesCount64(w)
	}

	return count
}

// GetFlag reduces the bits to a single value with the configured rule.
func (f *MultipleBinaryFlag) GetFlag() bool {
	return f.rule(f)
}

// String renders the view: one T or F per bit, in index order.
func (f *MultipleBinaryFlag) String() string {
	var view strings.Builder
	view.Grow(f.size)

	for i := 0; i < f.size; i++ {
		if f.test(i) {
			view.WriteByte(FlagSetRune)
		} else {
			view.WriteByte(FlagUnsetRune)
		}
	}

	return view.String()
}

// Equal reports whether both flags hold the same bits.
func (f *MultipleBinaryFlag) Equal(other *MultipleBinaryFlag) bool {
	if other == nil || f.size != other.size {
		return false
	}
	for i := range f.words {
		if f.words[i] != other.words[i] {
			return false
		}
	}

	return true
}

func (f *MultipleBinaryFlag) checkIndex(index int) error {
	if index < 0 || index >= f.size {
		return errors.Wrapf(ErrFlagIndexOutOfRange, "index %d, size %d", index, f.size)
	}

	return nil
}

func (f *MultipleBinaryFlag) set(index int) {
	f.words[index/wordSize] |= 1 << uint(index%wordSize)
}

func (f *MultipleBinaryFlag) test(index int) bool {
	return f.words[index/wordSize]&(1<<uint(index%wordSize)) != 0
}
