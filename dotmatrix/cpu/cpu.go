package cpu

import (
	"fmt"
	"log/slog"

	"github.com/verlato/go-dotmatrix/dotmatrix/bit"
	"github.com/verlato/go-dotmatrix/dotmatrix/memory"
)

// CPU holds the LR35902 register file plus the halt state. It is the sole
// writer of PC and SP and drives the MMU on every step.
type CPU struct {
	memory *memory.MMU
	log    *slog.Logger

	a, f uint8
	b, c uint8
	d, e uint8
	h, l uint8
	sp   uint16
	pc   uint16

	halted    bool
	eiPending bool

	// Pre-fetched immediate window: the two bytes following the current
	// opcode, read before PC advances.
	n  uint8
	nn uint16

	// Address of the opcode currently executing, for error reports and traces.
	instrAddr uint16

	trace bool
}

// New returns a CPU wired to the given MMU, with registers in the DMG
// post-boot-ROM state.
func New(mmu *memory.MMU) *CPU {
	c := &CPU{
		memory: mmu,
		log:    slog.Default(),
	}
	c.Reset()
	return c
}

// SetLogger injects the logger used for trace output.
func (c *CPU) SetLogger(log *slog.Logger) {
	if log != nil {
		c.log = log
	}
}

// SetTrace toggles per-instruction debug logging.
func (c *CPU) SetTrace(enabled bool) {
	c.trace = enabled
}

// Reset puts the register file into the state the DMG boot ROM leaves behind.
func (c *CPU) Reset() {
	c.a, c.f = 0x01, 0xB0
	c.b, c.c = 0x00, 0x13
	c.d, c.e = 0x00, 0xD8
	c.h, c.l = 0x01, 0x4D
	c.sp = 0xFFFE
	c.pc = 0x0100
	c.halted = false
	c.eiPending = false
}

// GetPC returns the current program counter.
func (c *CPU) GetPC() uint16 {
	return c.pc
}

// GetSP returns the current stack pointer.
func (c *CPU) GetSP() uint16 {
	return c.sp
}

// Halted reports whether the CPU is waiting for an interrupt.
func (c *CPU) Halted() bool {
	return c.halted
}

// Registers returns a snapshot of the register file for observers.
func (c *CPU) Registers() (af, bc, de, hl, sp, pc uint16) {
	return c.getAF(), c.getBC(), c.getDE(), c.getHL(), c.sp, c.pc
}

// Tick executes one step: interrupt acknowledgement, the EI commit, the HALT
// wait, or a single fetched instruction. It returns the M-cycles consumed.
func (c *CPU) Tick() (int, error) {
	if cycles, err := c.acknowledgeInterrupt(); err != nil {
		return 0, err
	} else if cycles > 0 {
		return cycles, nil
	}

	// EI takes effect one instruction late: the flag staged by the previous
	// instruction commits here, after the acknowledgement check above.
	if c.eiPending {
		c.eiPending = false
		c.memory.SetIME(true)
	}

	if c.halted {
		if !c.memory.AnyPending() {
			return 1, nil
		}
		// Wake regardless of IME; execution resumes after the HALT.
		c.halted = false
	}

	instr, err := c.fetch()
	if err != nil {
		return 0, err
	}

	cycles, err := c.execute(instr)
	if err != nil {
		return 0, fmt.Errorf("cpu: %s (opcode 0x%02X at 0x%04X): %w",
			instr.Mnemonic, instr.Opcode, c.instrAddr, err)
	}

	if c.trace {
		c.log.Debug("exec",
			"pc", fmt.Sprintf("0x%04X", c.instrAddr),
			"op", fmt.Sprintf("0x%02X", instr.Opcode),
			"mnemonic", instr.Mnemonic.String(),
			"af", fmt.Sprintf("0x%04X", c.getAF()),
			"bc", fmt.Sprintf("0x%04X", c.getBC()),
			"de", fmt.Sprintf("0x%04X", c.getDE()),
			"hl", fmt.Sprintf("0x%04X", c.getHL()),
			"sp", fmt.Sprintf("0x%04X", c.sp))
	}

	return cycles, nil
}

// acknowledgeInterrupt services the highest-priority pending interrupt when
// IME is set. Acknowledgement clears IME and the IF bit, pushes PC and jumps
// to the ISR vector, consuming 5 M-cycles.
func (c *CPU) acknowledgeInterrupt() (int, error) {
	if !c.memory.IME() {
		return 0, nil
	}
	kind, ok := c.memory.Pending()
	if !ok {
		return 0, nil
	}

	c.memory.SetIME(false)
	c.memory.SetIFBit(kind, false)
	c.halted = false

	if err := c.pushStack(c.pc); err != nil {
		return 0, err
	}
	c.pc = kind.ISRVector()

	return 5, nil
}

// fetch reads the opcode (and CB follow byte) at PC, pre-fetches the two-byte
// immediate window, and advances PC past the whole instruction. Evaluators
// run with PC already pointing at the next instruction.
func (c *CPU) fetch() (Instruction, error) {
	c.instrAddr = c.pc

	opcode, err := c.memory.Read(c.pc)
	if err != nil {
		return Instruction{}, err
	}

	var follow byte
	if opcode == CBPrefix {
		if follow, err = c.memory.Read(c.pc + 1); err != nil {
			return Instruction{}, err
		}
	} else {
		if c.n, err = c.memory.Read(c.pc + 1); err != nil {
			return Instruction{}, err
		}
		high, err := c.memory.Read(c.pc + 2)
		if err != nil {
			return Instruction{}, err
		}
		c.nn = bit.Combine(high, c.n)
	}

	instr := Decode(opcode, follow)
	c.pc += 1 + uint16(instr.Size)
	return instr, nil
}

// execute dispatches the descriptor to its family evaluator and returns the
// M-cycles consumed, including the taken/not-taken difference for branches.
func (c *CPU) execute(in Instruction) (int, error) {
	switch in.Mnemonic {
	case LdRR, LdRN, LdABC, LdADE, LdANN, LdBCA, LdDEA, LdNNA,
		LdhAN, LdhNA, LdACio, LdCioA, LdHLIA, LdAHLI, LdHLDA, LdAHLD,
		LdRRNN, LdNNSP, LdSPHL, LdHLSPE:
		return c.execLoad(in)
	case AddAR, AddAN, AdcAR, AdcAN, SubR, SubN, SbcAR, SbcAN,
		AndR, AndN, XorR, XorN, OrR, OrN, CpR, CpN,
		IncR, DecR, Daa, Cpl, AddHLRR, AddSPE, IncRR, DecRR:
		return c.execALU(in)
	case Rlca, Rla, Rrca, Rra,
		RlcR, RlR, RrcR, RrR, SlaR, SraR, SrlR, SwapR,
		BitNR, SetNR, ResNR:
		return c.execBitwise(in)
	case Nop, Halt, Stop, Di, Ei, Ccf, Scf:
		return c.execControl(in)
	case JpNN, JpHL, JpCCNN, JrE, JrCCE, CallNN, CallCCNN, Ret, RetCC, Reti, Rst:
		return c.execBranch(in)
	case PushRR, PopRR:
		return c.execStack(in)
	case Illegal:
		return 0, ErrIllegalOpcode
	default:
		return 0, ErrUnsupportedInstruction
	}
}

// flag helpers

func (c *CPU) setFlag(flag Flag) {
	c.f |= uint8(flag)
}

func (c *CPU) resetFlag(flag Flag) {
	c.f &^= uint8(flag)
}

func (c *CPU) isSetFlag(flag Flag) bool {
	return c.f&uint8(flag) != 0
}

func (c *CPU) setFlagToCondition(flag Flag, condition bool) {
	if condition {
		c.setFlag(flag)
	} else {
		c.resetFlag(flag)
	}
}

// flagToBit returns 1 if the flag is set, 0 otherwise.
func (c *CPU) flagToBit(flag Flag) uint8 {
	if c.isSetFlag(flag) {
		return 1
	}
	return 0
}

// register pair views

func (c *CPU) getAF() uint16 { return bit.Combine(c.a, c.f&0xF0) }
func (c *CPU) getBC() uint16 { return bit.Combine(c.b, c.c) }
func (c *CPU) getDE() uint16 { return bit.Combine(c.d, c.e) }
func (c *CPU) getHL() uint16 { return bit.Combine(c.h, c.l) }

func (c *CPU) setAF(v uint16) {
	c.a = bit.High(v)
	// The low nibble of F does not exist in hardware.
	c.f = bit.Low(v) & 0xF0
}

func (c *CPU) setBC(v uint16) {
	c.b, c.c = bit.High(v), bit.Low(v)
}

func (c *CPU) setDE(v uint16) {
	c.d, c.e = bit.High(v), bit.Low(v)
}

func (c *CPU) setHL(v uint16) {
	c.h, c.l = bit.High(v), bit.Low(v)
}

// readReg8 reads the register named by a 3-bit selector; selector 6 reads
// memory at (HL).
func (c *CPU) readReg8(sel uint8) (uint8, error) {
	switch sel {
	case SelB:
		return c.b, nil
	case SelC:
		return c.c, nil
	case SelD:
		return c.d, nil
	case SelE:
		return c.e, nil
	case SelH:
		return c.h, nil
	case SelL:
		return c.l, nil
	case SelHLMem:
		return c.memory.Read(c.getHL())
	default:
		return c.a, nil
	}
}

// writeReg8 writes the register named by a 3-bit selector; selector 6 writes
// memory at (HL).
func (c *CPU) writeReg8(sel uint8, v uint8) error {
	switch sel {
	case SelB:
		c.b = v
	case SelC:
		c.c = v
	case SelD:
		c.d = v
	case SelE:
		c.e = v
	case SelH:
		c.h = v
	case SelL:
		c.l = v
	case SelHLMem:
		return c.memory.Write(c.getHL(), v)
	default:
		c.a = v
	}
	return nil
}

// getPair reads a dd-selector pair: 00=BC, 01=DE, 10=HL, 11=SP.
func (c *CPU) getPair(sel uint8) uint16 {
	switch sel & 0x03 {
	case 0:
		return c.getBC()
	case 1:
		return c.getDE()
	case 2:
		return c.getHL()
	default:
		return c.sp
	}
}

func (c *CPU) setPair(sel uint8, v uint16) {
	switch sel & 0x03 {
	case 0:
		c.setBC(v)
	case 1:
		c.setDE(v)
	case 2:
		c.setHL(v)
	default:
		c.sp = v
	}
}

// getPairStack reads a qq-selector pair: as dd but 11=AF.
func (c *CPU) getPairStack(sel uint8) uint16 {
	if sel&0x03 == 3 {
		return c.getAF()
	}
	return c.getPair(sel)
}

func (c *CPU) setPairStack(sel uint8, v uint16) {
	if sel&0x03 == 3 {
		c.setAF(v)
		return
	}
	c.setPair(sel, v)
}

// stack helpers. PUSH stores the high byte at SP-1 and the low byte at SP-2;
// POP mirrors it.
func (c *CPU) pushStack(v uint16) error {
	c.sp -= 2
	return c.memory.WriteWord(c.sp, v)
}

func (c *CPU) popStack() (uint16, error) {
	v, err := c.memory.ReadWord(c.sp)
	if err != nil {
		return 0, err
	}
	c.sp += 2
	return v, nil
}

// condition evaluates a 2-bit condition code: 00=NZ, 01=Z, 10=NC, 11=C.
func (c *CPU) condition(cc uint8) bool {
	switch cc & 0x03 {
	case 0:
		return !c.isSetFlag(zeroFlag)
	case 1:
		return c.isSetFlag(zeroFlag)
	case 2:
		return !c.isSetFlag(carryFlag)
	default:
		return c.isSetFlag(carryFlag)
	}
}
