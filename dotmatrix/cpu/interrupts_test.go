package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verlato/go-dotmatrix/dotmatrix/addr"
)

func TestInterruptHandling(t *testing.T) {
	t.Run("no acknowledgement while IME is off", func(t *testing.T) {
		c, mmu := newTestCPU(t, 0x00) // NOP
		mmu.SetIME(false)
		require.NoError(t, mmu.Write(addr.IF, 0x01))
		require.NoError(t, mmu.Write(addr.IE, 0x01))

		step(t, c)
		assert.Equal(t, uint16(0x101), c.pc)
	})

	t.Run("acknowledgement clears IME and the IF bit", func(t *testing.T) {
		c, mmu := newTestCPU(t, 0x00)
		mmu.SetIME(true)
		require.NoError(t, mmu.Write(addr.IF, 0x01))
		require.NoError(t, mmu.Write(addr.IE, 0x01))

		cycles := step(t, c)
		assert.Equal(t, 5, cycles)
		assert.Equal(t, uint16(0x40), c.pc)
		assert.False(t, mmu.IME())

		iflags, err := mmu.Read(addr.IF)
		require.NoError(t, err)
		assert.Equal(t, uint8(0), iflags&0x1F)
	})

	t.Run("acknowledgement pushes the interrupted PC", func(t *testing.T) {
		c, mmu := newTestCPU(t, 0x00)
		mmu.SetIME(true)
		require.NoError(t, mmu.Write(addr.IF, 0x04))
		require.NoError(t, mmu.Write(addr.IE, 0x04))

		step(t, c)
		assert.Equal(t, uint16(0x50), c.pc)

		popped, err := c.popStack()
		require.NoError(t, err)
		assert.Equal(t, uint16(0x100), popped)
	})

	t.Run("priority order favors the lowest bit", func(t *testing.T) {
		c, mmu := newTestCPU(t, 0x00)
		mmu.SetIME(true)
		require.NoError(t, mmu.Write(addr.IF, 0x1F))
		require.NoError(t, mmu.Write(addr.IE, 0x1F))

		step(t, c)
		assert.Equal(t, uint16(0x40), c.pc)

		iflags, err := mmu.Read(addr.IF)
		require.NoError(t, err)
		assert.Equal(t, uint8(0x1E), iflags&0x1F)
	})

	t.Run("masked interrupts are not acknowledged", func(t *testing.T) {
		c, mmu := newTestCPU(t, 0x00)
		mmu.SetIME(true)
		require.NoError(t, mmu.Write(addr.IF, 0x01))
		require.NoError(t, mmu.Write(addr.IE, 0x10))

		step(t, c)
		assert.Equal(t, uint16(0x101), c.pc)
	})
}

func TestEIDelay(t *testing.T) {
	t.Run("IME turns on only after the following instruction", func(t *testing.T) {
		c, mmu := newTestCPU(t, 0xFB, 0x00, 0x00) // EI ; NOP ; NOP
		require.NoError(t, mmu.Write(addr.IF, 0x01))
		require.NoError(t, mmu.Write(addr.IE, 0x01))

		step(t, c) // EI: staged only
		assert.False(t, mmu.IME())

		step(t, c) // NOP: IME commits at this boundary, no ack yet
		assert.True(t, mmu.IME())
		assert.Equal(t, uint16(0x102), c.pc)

		cycles := step(t, c) // acknowledgement happens here
		assert.Equal(t, 5, cycles)
		assert.Equal(t, uint16(0x40), c.pc)
	})

	t.Run("EI then DI acknowledges nothing", func(t *testing.T) {
		c, mmu := newTestCPU(t, 0xFB, 0xF3, 0x00) // EI ; DI ; NOP
		require.NoError(t, mmu.Write(addr.IF, 0x01))
		require.NoError(t, mmu.Write(addr.IE, 0x01))

		step(t, c) // EI
		step(t, c) // DI: cancels the staged enable
		step(t, c) // NOP
		assert.False(t, mmu.IME())
		assert.Equal(t, uint16(0x103), c.pc)
	})

	t.Run("DI takes effect immediately", func(t *testing.T) {
		c, mmu := newTestCPU(t, 0xF3, 0x00) // DI ; NOP
		mmu.SetIME(true)
		step(t, c)
		assert.False(t, mmu.IME())
	})
}

func TestRETI(t *testing.T) {
	c, mmu := newTestCPU(t, 0xD9) // RETI
	mmu.SetIME(false)
	require.NoError(t, c.pushStack(0x0150))

	cycles := step(t, c)
	assert.Equal(t, 4, cycles)
	assert.Equal(t, uint16(0x0150), c.pc)
	// no EI-style delay
	assert.True(t, mmu.IME())
}

func TestHALTBehavior(t *testing.T) {
	t.Run("HALT idles one M-cycle per tick", func(t *testing.T) {
		c, _ := newTestCPU(t, 0x76) // HALT
		step(t, c)
		assert.True(t, c.Halted())

		cycles := step(t, c)
		assert.Equal(t, 1, cycles)
		assert.True(t, c.Halted())
	})

	t.Run("pending interrupt wakes with IME off, ISR not entered", func(t *testing.T) {
		c, mmu := newTestCPU(t, 0x76, 0x00) // HALT ; NOP
		mmu.SetIME(false)
		require.NoError(t, mmu.Write(addr.IE, 0x04))

		step(t, c)
		assert.True(t, c.Halted())
		step(t, c)
		assert.True(t, c.Halted())

		mmu.RequestInterrupt(addr.TimerInterrupt)

		step(t, c) // wakes and runs the NOP after HALT
		assert.False(t, c.Halted())
		assert.Equal(t, uint16(0x102), c.pc)
	})

	t.Run("pending interrupt with IME on services the ISR", func(t *testing.T) {
		c, mmu := newTestCPU(t, 0x76) // HALT
		mmu.SetIME(true)
		require.NoError(t, mmu.Write(addr.IE, 0x04))

		step(t, c)
		assert.True(t, c.Halted())

		mmu.RequestInterrupt(addr.TimerInterrupt)

		cycles := step(t, c)
		assert.Equal(t, 5, cycles)
		assert.False(t, c.Halted())
		assert.Equal(t, uint16(0x50), c.pc)

		// PC after the HALT was pushed
		popped, err := c.popStack()
		require.NoError(t, err)
		assert.Equal(t, uint16(0x101), popped)
	})

	t.Run("stays halted with nothing pending", func(t *testing.T) {
		c, mmu := newTestCPU(t, 0x76)
		require.NoError(t, mmu.Write(addr.IE, 0x01))

		step(t, c)
		for i := 0; i < 10; i++ {
			cycles := step(t, c)
			assert.Equal(t, 1, cycles)
		}
		assert.True(t, c.Halted())
	})

	t.Run("STOP behaves as HALT", func(t *testing.T) {
		c, _ := newTestCPU(t, 0x10)
		step(t, c)
		assert.True(t, c.Halted())
	})
}
