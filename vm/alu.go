package vm

// msb is the top bit of an 8-bit value, per §4.5's msb(v) = (v>>7)&1.
func msb(v byte) bool { return v&0x80 != 0 }

// aluAdd computes L+R and its flag effects. Pure function of its
// inputs; callers are responsible for writing the result back into a
// register and the flags into vm.Flags.
func aluAdd(l, r byte) (byte, Flags) {
	sum := int(l) + int(r)
	result := byte(sum)

	var f Flags
	f.Carry = sum > 255
	f.Sign = int8(result) < 0
	f.Zero = result == 0
	lm, rm, rm2 := msb(l), msb(r), msb(result)
	f.Overflow = (lm && rm && !rm2) || (!lm && !rm && rm2)
	f.LessThan = msb(result) != f.Overflow
	return result, f
}

// aluCmp computes the flags for cmp(L, R) without touching either
// register. sub reuses this before performing the subtraction.
//
// The carry rule mixes an unsigned check on the (wrapped) difference
// with a signed comparison of the original operands — a documented
// hardware quirk, reproduced bit-for-bit.
func aluCmp(l, r byte) Flags {
	d := int(int8(l)) - int(int8(r))

	var f Flags
	f.Zero = d == 0
	f.Sign = int8(d) < 0

	du8 := wrap8(d)
	lm, rm, dm := msb(l), msb(r), msb(du8)
	f.Overflow = (lm && !rm && !dm) || (!lm && rm && dm)
	f.LessThan = f.Overflow != dm
	f.Carry = du8 > 128 || int8(l) > int8(r)
	return f
}

// aluSub performs sub(L, R): cmp's flags, then the wrapped subtraction.
func aluSub(l, r byte) (byte, Flags) {
	f := aluCmp(l, r)
	result := wrap8(int(l) - int(r))
	return result, f
}

// aluBitwise computes the three-flag update shared by and/or: carry
// and overflow are left untouched by the caller.
func aluBitwise(l, r, result byte) Flags {
	var f Flags
	f.LessThan = int8(l) < int8(r)
	f.Zero = result == 0
	f.Sign = int8(result) < 0
	return f
}

// aluUnary computes the three-flag update shared by not and rsh: x is
// the pre-operation operand, result the post-operation value.
func aluUnary(x, result byte) Flags {
	var f Flags
	f.LessThan = int8(x) < int8(result)
	f.Zero = result == 0
	f.Sign = int8(result) < 0
	return f
}
