// Package flags implements the compressed movement flags byte sent with every move. Each movement
// modifier owns exactly one bit of the byte; ownership is recorded in a Registry so two modifiers can
// never share a bit.
package flags

import (
	"github.com/oomph-ac/predmove/assert"
	"github.com/oomph-ac/predmove/game"
)

// Flags is the compressed flags byte. It is passed by value: every encoder receives the byte built so
// far and returns it with its own bit applied.
type Flags uint8

// Bit is the position of a flag inside Flags.
type Bit uint8

// Bit layout of the compressed flags byte. Bits 0-3 belong to the base movement component and
// bits 4-7 are available to custom modifiers.
const (
	BitJump Bit = iota
	BitCrouch
	BitReserved1
	BitReserved2
	BitCustom0
	BitCustom1
	BitCustom2
	BitCustom3

	// BitProne is the bit carrying the wants-to-prone intent.
	BitProne = BitCustom0
	// BitStrafe is the bit carrying the wants-to-strafe intent.
	BitStrafe = BitCustom1
)

// Size is the number of bits available in Flags.
const Size = 8

// Mask returns the Flags value with only b set.
func (b Bit) Mask() Flags {
	return Flags(1) << b
}

// Has returns true if bit b is set.
func (f Flags) Has(b Bit) bool {
	return f&b.Mask() != 0
}

// With returns f with bit b set to v. Other bits are untouched.
func (f Flags) With(b Bit, v bool) Flags {
	if v {
		return f | b.Mask()
	}
	return f &^ b.Mask()
}

// Registry records which modifier owns each bit of the compressed flags byte.
type Registry struct {
	owners [Size]string
}

// NewRegistry returns a Registry with the base component bits already claimed.
func NewRegistry() *Registry {
	r := &Registry{}
	r.Claim(BitJump, "jump")
	r.Claim(BitCrouch, "crouch")
	r.Claim(BitReserved1, "reserved1")
	r.Claim(BitReserved2, "reserved2")
	return r
}

// Claim assigns bit b to owner. It panics if the bit is out of range or already owned, since two owners
// of the same bit would silently overwrite each other's intent on the wire.
func (r *Registry) Claim(b Bit, owner string) {
	assert.IsTrue(b < Size, game.ErrorFlagBitOutOfRange, b)
	assert.IsTrue(r.owners[b] == "", game.ErrorDuplicateFlagBit, b, r.owners[b], owner)
	r.owners[b] = owner
}

// Owner returns the owner of bit b, or false if nobody claimed it.
func (r *Registry) Owner(b Bit) (string, bool) {
	if b >= Size || r.owners[b] == "" {
		return "", false
	}
	return r.owners[b], true
}

// Free returns the custom bits that have not been claimed yet, lowest first.
func (r *Registry) Free() []Bit {
	var free []Bit
	for b := BitCustom0; b < Size; b++ {
		if r.owners[b] == "" {
			free = append(free, b)
		}
	}
	return free
}
