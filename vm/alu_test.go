package vm_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcamarena/ttpc/vm"
)

func TestAddSetsCarryOnOverflow(t *testing.T) {
	m := vm.New()
	m.A, m.B = 250, 10
	require.NoError(t, m.Load([]byte{0x81})) // add a,b
	m.Step()

	assert.Equal(t, byte(4), m.A, "250+10 wraps to 4 mod 256")
	assert.True(t, m.Flags.Carry, "sum exceeds 255, carry must be set")
	assert.False(t, m.Flags.Zero)
}

func TestCmpHardwareCarryQuirk(t *testing.T) {
	// cmp a,b with A=200 (signed -56), B=10: the documented hardware
	// quirk sets carry whenever the wrapped 8-bit difference exceeds 128
	// or L_signed > R_signed, not on the usual unsigned-borrow rule.
	// Here -56-10 = -66 wraps to 190, so carry is set although 200-10
	// needs no unsigned borrow.
	m := vm.New()
	m.A, m.B = 200, 10
	require.NoError(t, m.Load([]byte{0xE1})) // cmp a,b: 1110 00 01
	m.Step()

	assert.True(t, m.Flags.Carry, "wrapped difference 190 exceeds 128, so the quirk sets carry")
	assert.True(t, m.Flags.Sign || m.Flags.LessThan, "200-10 signed is negative-ish under int8 wraparound")
}

func TestAndOrPreserveCarryAndOverflow(t *testing.T) {
	m := vm.New()
	m.A, m.B = 0x0F, 0xF0
	m.Flags.Carry = true
	m.Flags.Overflow = true
	require.NoError(t, m.Load([]byte{0xC1})) // and a,b
	m.Step()

	assert.Equal(t, byte(0x00), m.A)
	assert.True(t, m.Flags.Carry, "and must not clear a carry flag set before it ran")
	assert.True(t, m.Flags.Overflow, "and must not clear an overflow flag set before it ran")
}
