package dotmatrix

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/verlato/go-dotmatrix/dotmatrix/addr"
	"github.com/verlato/go-dotmatrix/dotmatrix/cpu"
	"github.com/verlato/go-dotmatrix/dotmatrix/memory"
	"github.com/verlato/go-dotmatrix/dotmatrix/serial"
)

// Emulator is the root struct and entry point for running the emulation: a
// headless DMG core built from the CPU, the MMU and the serial port. All
// components advance in lockstep; one Step executes one instruction (or one
// halted M-cycle) and feeds the consumed cycles to the timer.
type Emulator struct {
	cpu    *cpu.CPU
	mmu    *memory.MMU
	serial *serial.LogSink
	log    *slog.Logger

	instructionCount uint64
}

// Snapshot is a read-only view of core state, taken between steps.
type Snapshot struct {
	AF, BC, DE, HL, SP, PC uint16
	DIV, TIMA, TMA, TAC    byte
	IF, IE                 byte
	IME, Halted            bool
	Instructions           uint64
}

func (e *Emulator) init(mmu *memory.MMU, log *slog.Logger) {
	if log == nil {
		log = slog.Default()
	}
	e.log = log
	e.mmu = mmu
	e.mmu.SetLogger(log)
	e.serial = serial.NewLogSink(func() { mmu.RequestInterrupt(addr.SerialInterrupt) }, log)
	e.mmu.SetSerial(e.serial)
	e.cpu = cpu.New(mmu)
	e.cpu.SetLogger(log)
}

// New creates an emulator with no cartridge loaded; useful for tests.
func New() *Emulator {
	e := &Emulator{}
	e.init(memory.New(), nil)
	return e
}

// NewWithData creates an emulator from a ROM byte buffer.
func NewWithData(data []byte) (*Emulator, error) {
	cart, err := memory.NewCartridgeWithData(data)
	if err != nil {
		return nil, fmt.Errorf("loading ROM: %w", err)
	}
	mmu, err := memory.NewWithCartridge(cart)
	if err != nil {
		return nil, fmt.Errorf("loading ROM: %w", err)
	}

	e := &Emulator{}
	e.init(mmu, nil)
	e.log.Info("loaded cartridge",
		"title", cart.Title(),
		"mbc", cart.MBCKind().String(),
		"size", len(data))
	return e, nil
}

// NewWithFile creates an emulator and loads the ROM file specified into it.
func NewWithFile(path string) (*Emulator, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return NewWithData(data)
}

// AttachSerial registers a peripheral callback that receives each transferred
// serial byte. Multiple peripherals may be attached.
func (e *Emulator) AttachSerial(fn func(byte)) {
	e.serial.Attach(fn)
}

// SetTrace toggles per-instruction debug logging.
func (e *Emulator) SetTrace(enabled bool) {
	e.cpu.SetTrace(enabled)
}

// Step advances the core by one instruction (or one halted M-cycle) and
// returns the M-cycles consumed. The timer observes the instruction's memory
// effects within the same step.
func (e *Emulator) Step() (int, error) {
	cycles, err := e.cpu.Tick()
	if err != nil {
		return 0, err
	}
	e.mmu.Tick(cycles)
	e.instructionCount++
	return cycles, nil
}

// Run steps the core until the instruction budget is exhausted or a fatal
// error surfaces.
func (e *Emulator) Run(maxInstructions uint64) error {
	for i := uint64(0); i < maxInstructions; i++ {
		if _, err := e.Step(); err != nil {
			return err
		}
	}
	return nil
}

// CPU returns the CPU, for observers.
func (e *Emulator) CPU() *cpu.CPU {
	return e.cpu
}

// MMU returns the memory unit, for observers.
func (e *Emulator) MMU() *memory.MMU {
	return e.mmu
}

// InstructionCount returns the number of steps executed so far.
func (e *Emulator) InstructionCount() uint64 {
	return e.instructionCount
}

// Snapshot captures the register file, timer and interrupt state.
func (e *Emulator) Snapshot() Snapshot {
	af, bc, de, hl, sp, pc := e.cpu.Registers()
	div, tima, tma, tac := e.mmu.TimerState()
	iflags, _ := e.mmu.Read(addr.IF)
	ie, _ := e.mmu.Read(addr.IE)

	return Snapshot{
		AF: af, BC: bc, DE: de, HL: hl, SP: sp, PC: pc,
		DIV: div, TIMA: tima, TMA: tma, TAC: tac,
		IF: iflags, IE: ie,
		IME:          e.mmu.IME(),
		Halted:       e.cpu.Halted(),
		Instructions: e.instructionCount,
	}
}
