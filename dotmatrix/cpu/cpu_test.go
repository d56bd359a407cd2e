package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCPU_resetState(t *testing.T) {
	c := New(newTestMMU(t))

	af, bc, de, hl, sp, pc := c.Registers()
	assert.Equal(t, uint16(0x01B0), af)
	assert.Equal(t, uint16(0x0013), bc)
	assert.Equal(t, uint16(0x00D8), de)
	assert.Equal(t, uint16(0x014D), hl)
	assert.Equal(t, uint16(0xFFFE), sp)
	assert.Equal(t, uint16(0x0100), pc)
	assert.False(t, c.Halted())
}

func TestCPU_pairViews(t *testing.T) {
	c := New(newTestMMU(t))

	c.setBC(0x1234)
	assert.Equal(t, uint8(0x12), c.b)
	assert.Equal(t, uint8(0x34), c.c)
	assert.Equal(t, uint16(0x1234), c.getBC())

	c.setDE(0xABCD)
	assert.Equal(t, uint16(0xABCD), c.getDE())

	c.setHL(0xFF01)
	assert.Equal(t, uint16(0xFF01), c.getHL())
}

func TestCPU_afMasksLowNibble(t *testing.T) {
	c := New(newTestMMU(t))

	c.setAF(0x12FF)
	assert.Equal(t, uint8(0x12), c.a)
	assert.Equal(t, uint8(0xF0), c.f)
	assert.Equal(t, uint16(0x12F0), c.getAF())
}

func TestCPU_flagHelpers(t *testing.T) {
	c := New(newTestMMU(t))
	c.f = 0

	c.setFlag(carryFlag)
	assert.True(t, c.isSetFlag(carryFlag))
	assert.Equal(t, uint8(1), c.flagToBit(carryFlag))

	c.resetFlag(carryFlag)
	assert.False(t, c.isSetFlag(carryFlag))
	assert.Equal(t, uint8(0), c.flagToBit(carryFlag))

	c.setFlagToCondition(zeroFlag, true)
	assert.True(t, c.isSetFlag(zeroFlag))
	c.setFlagToCondition(zeroFlag, false)
	assert.False(t, c.isSetFlag(zeroFlag))
}

func TestCPU_conditionCodes(t *testing.T) {
	c := New(newTestMMU(t))
	c.f = 0

	assert.True(t, c.condition(0))  // NZ
	assert.False(t, c.condition(1)) // Z
	assert.True(t, c.condition(2))  // NC
	assert.False(t, c.condition(3)) // C

	c.setFlag(zeroFlag)
	c.setFlag(carryFlag)
	assert.False(t, c.condition(0))
	assert.True(t, c.condition(1))
	assert.False(t, c.condition(2))
	assert.True(t, c.condition(3))
}
