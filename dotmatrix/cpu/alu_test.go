package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAdd8(t *testing.T) {
	testCases := []struct {
		desc    string
		a, b    uint8
		carryIn uint8
		want    uint8
		flags   Flag
	}{
		{desc: "adds", a: 0x01, b: 0x02, want: 0x03},
		{desc: "sets zero", a: 0x00, b: 0x00, want: 0x00, flags: zeroFlag},
		{desc: "half carry from low nibble", a: 0x01, b: 0x0F, want: 0x10, flags: halfCarryFlag},
		{desc: "full carry", a: 0xFF, b: 0x02, want: 0x01, flags: halfCarryFlag | carryFlag},
		{desc: "wraps to zero", a: 0x80, b: 0x80, want: 0x00, flags: zeroFlag | carryFlag},
		{desc: "carry-in counts toward half carry", a: 0x0F, b: 0x00, carryIn: 1, want: 0x10, flags: halfCarryFlag},
		{desc: "carry-in counts toward full carry", a: 0xFF, b: 0x00, carryIn: 1, want: 0x00, flags: zeroFlag | halfCarryFlag | carryFlag},
	}
	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			fl := add8(tC.a, tC.b, tC.carryIn)
			assert.Equal(t, tC.want, fl.value)
			assert.Equal(t, tC.flags, fl.flags, "flags")
			assert.Equal(t, allFlags, fl.mask)
		})
	}
}

func TestSub8(t *testing.T) {
	testCases := []struct {
		desc    string
		a, b    uint8
		carryIn uint8
		want    uint8
		flags   Flag
	}{
		{desc: "subtracts", a: 0x03, b: 0x01, want: 0x02, flags: subFlag},
		{desc: "sets zero on equal operands", a: 0x42, b: 0x42, want: 0x00, flags: subFlag | zeroFlag},
		{desc: "half borrow", a: 0x10, b: 0x01, want: 0x0F, flags: subFlag | halfCarryFlag},
		{desc: "full borrow", a: 0x00, b: 0x01, want: 0xFF, flags: subFlag | halfCarryFlag | carryFlag},
		{desc: "borrow-in counts", a: 0x10, b: 0x0F, carryIn: 1, want: 0x00, flags: subFlag | zeroFlag | halfCarryFlag},
	}
	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			fl := sub8(tC.a, tC.b, tC.carryIn)
			assert.Equal(t, tC.want, fl.value)
			assert.Equal(t, tC.flags, fl.flags, "flags")
		})
	}
}

func TestLogicOps(t *testing.T) {
	fl := and8(0xF0, 0x0F)
	assert.Equal(t, uint8(0), fl.value)
	assert.Equal(t, zeroFlag|halfCarryFlag, fl.flags)

	fl = and8(0xFF, 0x0F)
	assert.Equal(t, uint8(0x0F), fl.value)
	assert.Equal(t, halfCarryFlag, fl.flags)

	fl = or8(0xF0, 0x0F)
	assert.Equal(t, uint8(0xFF), fl.value)
	assert.Equal(t, Flag(0), fl.flags)

	fl = xor8(0xAA, 0xAA)
	assert.Equal(t, uint8(0), fl.value)
	assert.Equal(t, zeroFlag, fl.flags)
}

func TestInc8PreservesCarryBit(t *testing.T) {
	fl := inc8(0xFF)
	assert.Equal(t, uint8(0x00), fl.value)
	assert.Equal(t, zeroFlag|halfCarryFlag, fl.flags)
	// The mask excludes carry so the current C survives the commit.
	assert.Equal(t, zeroFlag|subFlag|halfCarryFlag, fl.mask)

	fl = inc8(0x0F)
	assert.Equal(t, uint8(0x10), fl.value)
	assert.Equal(t, halfCarryFlag, fl.flags)
}

func TestDec8PreservesCarryBit(t *testing.T) {
	fl := dec8(0x00)
	assert.Equal(t, uint8(0xFF), fl.value)
	assert.Equal(t, subFlag|halfCarryFlag, fl.flags)
	assert.Equal(t, zeroFlag|subFlag|halfCarryFlag, fl.mask)

	fl = dec8(0x01)
	assert.Equal(t, uint8(0x00), fl.value)
	assert.Equal(t, subFlag|zeroFlag, fl.flags)
}

func TestAddHL16(t *testing.T) {
	testCases := []struct {
		desc   string
		hl, rr uint16
		want   uint16
		flags  Flag
	}{
		{desc: "adds", hl: 0x0100, rr: 0x0200, want: 0x0300},
		{desc: "half carry from bit 11", hl: 0x0FFF, rr: 0x0001, want: 0x1000, flags: halfCarryFlag},
		{desc: "carry from bit 15", hl: 0x8000, rr: 0x8000, want: 0x0000, flags: carryFlag},
		{desc: "both carries", hl: 0xFFFF, rr: 0x0001, want: 0x0000, flags: halfCarryFlag | carryFlag},
	}
	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			result, fl := addHL16(tC.hl, tC.rr)
			assert.Equal(t, tC.want, result)
			assert.Equal(t, tC.flags, fl.flags, "flags")
			// Z is outside the mask: preserved.
			assert.Equal(t, subFlag|halfCarryFlag|carryFlag, fl.mask)
		})
	}
}

func TestAddSPe(t *testing.T) {
	testCases := []struct {
		desc  string
		sp    uint16
		e     uint8
		want  uint16
		flags Flag
	}{
		{desc: "positive offset", sp: 0xFFF8, e: 0x08, want: 0x0000, flags: halfCarryFlag | carryFlag},
		{desc: "negative offset has 8-bit flag semantics", sp: 0x0000, e: 0xFF, want: 0xFFFF},
		{desc: "half carry only", sp: 0x000F, e: 0x01, want: 0x0010, flags: halfCarryFlag},
		{desc: "carry from low byte", sp: 0x00FF, e: 0x01, want: 0x0100, flags: halfCarryFlag | carryFlag},
	}
	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			result, fl := addSPe(tC.sp, tC.e)
			assert.Equal(t, tC.want, result)
			assert.Equal(t, tC.flags, fl.flags, "flags")
		})
	}
}

func TestDaa(t *testing.T) {
	testCases := []struct {
		desc  string
		a     uint8
		f     Flag
		want  uint8
		flags Flag
	}{
		{desc: "BCD sum 45+38", a: 0x7D, f: 0, want: 0x83, flags: 0},
		{desc: "low nibble correction after add", a: 0x0A, f: 0, want: 0x10, flags: 0},
		{desc: "high correction sets carry", a: 0x9A, f: 0, want: 0x00, flags: zeroFlag | carryFlag},
		{desc: "half carry forces low correction", a: 0x10, f: halfCarryFlag, want: 0x16, flags: 0},
		{desc: "after subtraction with borrow", a: 0xFA, f: subFlag | carryFlag, want: 0x9A, flags: carryFlag},
		{desc: "after subtraction with half borrow", a: 0x0F, f: subFlag | halfCarryFlag, want: 0x09, flags: 0},
	}
	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			fl := daa(tC.a, uint8(tC.f))
			assert.Equal(t, tC.want, fl.value)
			assert.Equal(t, tC.flags, fl.flags, "flags")
			// N is outside the mask: preserved; H is always cleared.
			assert.Equal(t, zeroFlag|halfCarryFlag|carryFlag, fl.mask)
		})
	}
}

func TestRotatesAndShifts(t *testing.T) {
	t.Run("rlc", func(t *testing.T) {
		fl := rlc8(0x80, true)
		assert.Equal(t, uint8(0x01), fl.value)
		assert.Equal(t, carryFlag, fl.flags)

		fl = rlc8(0x00, true)
		assert.Equal(t, zeroFlag, fl.flags)

		// base-page variant never sets Z
		fl = rlc8(0x00, false)
		assert.Equal(t, Flag(0), fl.flags)
	})

	t.Run("rl uses carry-in", func(t *testing.T) {
		fl := rl8(0x80, 1, true)
		assert.Equal(t, uint8(0x01), fl.value)
		assert.Equal(t, carryFlag, fl.flags)

		fl = rl8(0x00, 1, true)
		assert.Equal(t, uint8(0x01), fl.value)
		assert.Equal(t, Flag(0), fl.flags)
	})

	t.Run("rrc", func(t *testing.T) {
		fl := rrc8(0x01, true)
		assert.Equal(t, uint8(0x80), fl.value)
		assert.Equal(t, carryFlag, fl.flags)
	})

	t.Run("rr uses carry-in", func(t *testing.T) {
		fl := rr8(0x02, 1, true)
		assert.Equal(t, uint8(0x81), fl.value)
		assert.Equal(t, Flag(0), fl.flags)
	})

	t.Run("sla", func(t *testing.T) {
		fl := sla8(0x81)
		assert.Equal(t, uint8(0x02), fl.value)
		assert.Equal(t, carryFlag, fl.flags)
	})

	t.Run("sra preserves bit 7", func(t *testing.T) {
		fl := sra8(0x81)
		assert.Equal(t, uint8(0xC0), fl.value)
		assert.Equal(t, carryFlag, fl.flags)
	})

	t.Run("srl clears bit 7", func(t *testing.T) {
		fl := srl8(0x81)
		assert.Equal(t, uint8(0x40), fl.value)
		assert.Equal(t, carryFlag, fl.flags)
	})

	t.Run("swap", func(t *testing.T) {
		fl := swap8(0xAB)
		assert.Equal(t, uint8(0xBA), fl.value)
		assert.Equal(t, Flag(0), fl.flags)

		fl = swap8(0x00)
		assert.Equal(t, uint8(0x00), fl.value)
		assert.Equal(t, zeroFlag, fl.flags)
	})

	t.Run("bit test", func(t *testing.T) {
		fl := bitTest(7, 0x80)
		assert.Equal(t, halfCarryFlag, fl.flags)

		fl = bitTest(7, 0x00)
		assert.Equal(t, zeroFlag|halfCarryFlag, fl.flags)
		// C is outside the mask: preserved.
		assert.Equal(t, zeroFlag|subFlag|halfCarryFlag, fl.mask)
	})
}

func TestCommitFlagsKeepsLowNibbleClear(t *testing.T) {
	mmu := newTestMMU(t)
	c := New(mmu)

	c.f = 0xFF // corrupted on purpose
	c.commitFlags(flagUpdate{flags: zeroFlag, mask: zeroFlag})
	assert.Equal(t, uint8(0), c.f&0x0F)
	assert.True(t, c.isSetFlag(zeroFlag))
	// bits outside the mask survive
	assert.True(t, c.isSetFlag(carryFlag))
}
