package cpu

import "github.com/verlato/go-dotmatrix/dotmatrix/bit"

// Flag is one of the 4 possible flags used in the flag register (low part of AF).
type Flag uint8

const (
	zeroFlag      Flag = 0x80
	subFlag       Flag = 0x40
	halfCarryFlag Flag = 0x20
	carryFlag     Flag = 0x10

	allFlags = zeroFlag | subFlag | halfCarryFlag | carryFlag
)

// flagUpdate is the outcome of an ALU primitive: the value to store, the flag
// bits to set, and a mask naming which flag bits the instruction affects.
// Bits outside the mask keep their current value, which is how per-instruction
// preservation rules (INC keeps C, ADD HL keeps Z, ...) fall out without
// special cases at the call sites.
type flagUpdate struct {
	value uint8
	flags Flag
	mask  Flag
}

// commitFlags merges a flag update into F. The low nibble of F always reads
// back as zero.
func (c *CPU) commitFlags(u flagUpdate) {
	c.f = (c.f &^ uint8(u.mask)) | uint8(u.flags&u.mask)
	c.f &= 0xF0
}

// add8 computes a+b+carryIn with full ZNHC semantics. The half and full
// carries account for the carry-in.
func add8(a, b, carryIn uint8) flagUpdate {
	result := a + b + carryIn

	flags := Flag(0)
	if result == 0 {
		flags |= zeroFlag
	}
	if (a&0xF)+(b&0xF)+carryIn > 0xF {
		flags |= halfCarryFlag
	}
	if uint16(a)+uint16(b)+uint16(carryIn) > 0xFF {
		flags |= carryFlag
	}

	return flagUpdate{value: result, flags: flags, mask: allFlags}
}

// sub8 computes a-b-carryIn with full ZNHC semantics (N set).
func sub8(a, b, carryIn uint8) flagUpdate {
	result := a - b - carryIn

	flags := subFlag
	if result == 0 {
		flags |= zeroFlag
	}
	if (a & 0xF) < (b&0xF)+carryIn {
		flags |= halfCarryFlag
	}
	if uint16(a) < uint16(b)+uint16(carryIn) {
		flags |= carryFlag
	}

	return flagUpdate{value: result, flags: flags, mask: allFlags}
}

func and8(a, b uint8) flagUpdate {
	result := a & b
	flags := halfCarryFlag
	if result == 0 {
		flags |= zeroFlag
	}
	return flagUpdate{value: result, flags: flags, mask: allFlags}
}

func or8(a, b uint8) flagUpdate {
	result := a | b
	flags := Flag(0)
	if result == 0 {
		flags |= zeroFlag
	}
	return flagUpdate{value: result, flags: flags, mask: allFlags}
}

func xor8(a, b uint8) flagUpdate {
	result := a ^ b
	flags := Flag(0)
	if result == 0 {
		flags |= zeroFlag
	}
	return flagUpdate{value: result, flags: flags, mask: allFlags}
}

// inc8 leaves the carry flag untouched.
func inc8(v uint8) flagUpdate {
	result := v + 1
	flags := Flag(0)
	if result == 0 {
		flags |= zeroFlag
	}
	if v&0xF == 0xF {
		flags |= halfCarryFlag
	}
	return flagUpdate{value: result, flags: flags, mask: zeroFlag | subFlag | halfCarryFlag}
}

// dec8 leaves the carry flag untouched.
func dec8(v uint8) flagUpdate {
	result := v - 1
	flags := subFlag
	if result == 0 {
		flags |= zeroFlag
	}
	if v&0xF == 0 {
		flags |= halfCarryFlag
	}
	return flagUpdate{value: result, flags: flags, mask: zeroFlag | subFlag | halfCarryFlag}
}

// addHL16 computes HL+rr. The zero flag is preserved; H comes from the bit-11
// carry, C from bit 15.
func addHL16(hl, rr uint16) (uint16, flagUpdate) {
	result := hl + rr

	flags := Flag(0)
	if (hl&0xFFF)+(rr&0xFFF) > 0xFFF {
		flags |= halfCarryFlag
	}
	if uint32(hl)+uint32(rr) > 0xFFFF {
		flags |= carryFlag
	}

	return result, flagUpdate{flags: flags, mask: subFlag | halfCarryFlag | carryFlag}
}

// addSPe computes SP+e for a signed 8 bit offset. H and C come from an 8-bit
// add of SP's low byte with e's raw byte, regardless of e's sign; Z and N are
// cleared. This matches documented hardware behavior, not a 16-bit add.
func addSPe(sp uint16, e uint8) (uint16, flagUpdate) {
	result := sp + uint16(int16(int8(e)))

	flags := Flag(0)
	if (sp&0xF)+uint16(e&0xF) > 0xF {
		flags |= halfCarryFlag
	}
	if (sp&0xFF)+uint16(e) > 0xFF {
		flags |= carryFlag
	}

	return result, flagUpdate{flags: flags, mask: allFlags}
}

// daa applies the BCD correction to A after an addition or subtraction.
// The half-carry flag is consumed and cleared; carry is preserved if set.
func daa(a uint8, f uint8) flagUpdate {
	value := a
	carry := f&uint8(carryFlag) != 0
	half := f&uint8(halfCarryFlag) != 0
	sub := f&uint8(subFlag) != 0

	newCarry := false
	if !sub {
		if carry || value > 0x99 {
			value += 0x60
			newCarry = true
		}
		if half || value&0x0F > 0x09 {
			value += 0x06
		}
	} else {
		if carry {
			value -= 0x60
			newCarry = true
		}
		if half {
			value -= 0x06
		}
	}

	flags := Flag(0)
	if value == 0 {
		flags |= zeroFlag
	}
	if newCarry {
		flags |= carryFlag
	}

	return flagUpdate{value: value, flags: flags, mask: zeroFlag | halfCarryFlag | carryFlag}
}

// rlc8 rotates left; bit 7 moves to both bit 0 and the carry flag.
// zeroFromResult selects between the CB-page semantics (Z from the result)
// and the base-page RLCA semantics (Z always cleared).
func rlc8(v uint8, zeroFromResult bool) flagUpdate {
	result := (v << 1) | (v >> 7)
	return rotFlags(result, v>>7 == 1, zeroFromResult)
}

// rl8 rotates left through the carry flag.
func rl8(v, carryIn uint8, zeroFromResult bool) flagUpdate {
	result := (v << 1) | carryIn
	return rotFlags(result, v>>7 == 1, zeroFromResult)
}

// rrc8 rotates right; bit 0 moves to both bit 7 and the carry flag.
func rrc8(v uint8, zeroFromResult bool) flagUpdate {
	result := (v >> 1) | ((v & 1) << 7)
	return rotFlags(result, v&1 == 1, zeroFromResult)
}

// rr8 rotates right through the carry flag.
func rr8(v, carryIn uint8, zeroFromResult bool) flagUpdate {
	result := (v >> 1) | (carryIn << 7)
	return rotFlags(result, v&1 == 1, zeroFromResult)
}

// sla8 shifts left; bit 0 becomes 0.
func sla8(v uint8) flagUpdate {
	return rotFlags(v<<1, v>>7 == 1, true)
}

// sra8 shifts right arithmetically; bit 7 is preserved.
func sra8(v uint8) flagUpdate {
	return rotFlags((v>>1)|(v&0x80), v&1 == 1, true)
}

// srl8 shifts right logically; bit 7 becomes 0.
func srl8(v uint8) flagUpdate {
	return rotFlags(v>>1, v&1 == 1, true)
}

// swap8 exchanges the nibbles; all flags clear except Z.
func swap8(v uint8) flagUpdate {
	result := (v << 4) | (v >> 4)
	flags := Flag(0)
	if result == 0 {
		flags |= zeroFlag
	}
	return flagUpdate{value: result, flags: flags, mask: allFlags}
}

// bitTest sets Z to the complement of the tested bit; C is preserved.
func bitTest(index, v uint8) flagUpdate {
	flags := halfCarryFlag
	if !bit.IsSet(index, v) {
		flags |= zeroFlag
	}
	return flagUpdate{value: v, flags: flags, mask: zeroFlag | subFlag | halfCarryFlag}
}

func rotFlags(result uint8, carryOut, zeroFromResult bool) flagUpdate {
	flags := Flag(0)
	if carryOut {
		flags |= carryFlag
	}
	if zeroFromResult && result == 0 {
		flags |= zeroFlag
	}
	return flagUpdate{value: result, flags: flags, mask: allFlags}
}
