package memory

import "github.com/verlato/go-dotmatrix/dotmatrix/addr"

// tacPeriods maps TAC bits [1:0] to the TIMA period in T-cycles.
var tacPeriods = [4]int{1024, 16, 64, 256}

// divPeriod is the number of M-cycles between DIV increments (256 T-cycles,
// one step of the 16384 Hz divider).
const divPeriod = 64

// Timer encapsulates the DIV/TIMA/TMA/TAC behavior. It is driven with the
// M-cycle count of each executed instruction and requests the Timer
// interrupt through a callback when TIMA overflows.
type Timer struct {
	div  byte
	tima byte
	tma  byte
	tac  byte

	divCounter  int // M-cycles accumulated toward the next DIV step
	timaCounter int // T-cycles accumulated toward the next TIMA step

	// IRQ requester callback
	TimerInterruptHandler func()
}

// Tick advances the timer by the specified number of M-cycles.
func (t *Timer) Tick(mcycles int) {
	t.divCounter += mcycles
	for t.divCounter >= divPeriod {
		t.divCounter -= divPeriod
		t.div++
	}

	if t.tac&0x04 == 0 {
		return
	}

	period := tacPeriods[t.tac&0x03]
	t.timaCounter += mcycles * 4
	for t.timaCounter >= period {
		t.timaCounter -= period
		t.tima++
		if t.tima == 0 {
			// Overflow: reload from TMA and raise the Timer interrupt.
			t.tima = t.tma
			if t.TimerInterruptHandler != nil {
				t.TimerInterruptHandler()
			}
		}
	}
}

func (t *Timer) Read(address uint16) byte {
	switch address {
	case addr.DIV:
		return t.div
	case addr.TIMA:
		return t.tima
	case addr.TMA:
		return t.tma
	case addr.TAC:
		return t.tac
	default:
		return 0xFF
	}
}

func (t *Timer) Write(address uint16, value byte) {
	switch address {
	case addr.DIV:
		// Writing to DIV resets the register and its sub-counter, regardless
		// of the value written.
		t.div = 0
		t.divCounter = 0
	case addr.TIMA:
		t.tima = value
	case addr.TMA:
		t.tma = value
	case addr.TAC:
		t.tac = value
	}
}
