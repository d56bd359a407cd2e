package disasm

import (
	"fmt"

	"github.com/verlato/go-dotmatrix/dotmatrix/cpu"
	"github.com/verlato/go-dotmatrix/dotmatrix/memory"
)

var regNames = [8]string{"B", "C", "D", "E", "H", "L", "(HL)", "A"}
var pairNames = [4]string{"BC", "DE", "HL", "SP"}
var stackPairNames = [4]string{"BC", "DE", "HL", "AF"}
var condNames = [4]string{"NZ", "Z", "NC", "C"}

// Line represents a single disassembled instruction.
type Line struct {
	Address     uint16
	Instruction string
	Length      int
}

// At disassembles the instruction at the given program counter. It is a
// read-only observer: decoding failures render as data bytes, never errors.
func At(pc uint16, mmu *memory.MMU) Line {
	opcode, err := mmu.Read(pc)
	if err != nil {
		return Line{Address: pc, Instruction: fmt.Sprintf("db 0x%02X", opcode), Length: 1}
	}

	var follow byte
	if opcode == cpu.CBPrefix {
		follow, _ = mmu.Read(pc + 1)
	}
	in := cpu.Decode(opcode, follow)

	n, _ := mmu.Read(pc + 1)
	high, _ := mmu.Read(pc + 2)
	nn := uint16(high)<<8 | uint16(n)

	return Line{
		Address:     pc,
		Instruction: Format(in, n, nn),
		Length:      1 + int(in.Size),
	}
}

// Range disassembles count instructions starting from the given PC.
func Range(startPC uint16, count int, mmu *memory.MMU) []Line {
	lines := make([]Line, 0, count)
	pc := startPC

	for i := 0; i < count; i++ {
		line := At(pc, mmu)
		lines = append(lines, line)
		next := uint32(pc) + uint32(line.Length)
		if next > 0xFFFF {
			break
		}
		pc = uint16(next)
	}

	return lines
}

// Format renders a decoded descriptor with its immediate window as assembly
// text.
func Format(in cpu.Instruction, n byte, nn uint16) string {
	hi, lo := in.Hi, in.Lo

	switch in.Mnemonic {
	case cpu.LdRR:
		return fmt.Sprintf("LD %s,%s", regNames[hi], regNames[lo])
	case cpu.LdRN:
		return fmt.Sprintf("LD %s,0x%02X", regNames[hi], n)
	case cpu.LdABC:
		return "LD A,(BC)"
	case cpu.LdADE:
		return "LD A,(DE)"
	case cpu.LdANN:
		return fmt.Sprintf("LD A,(0x%04X)", nn)
	case cpu.LdBCA:
		return "LD (BC),A"
	case cpu.LdDEA:
		return "LD (DE),A"
	case cpu.LdNNA:
		return fmt.Sprintf("LD (0x%04X),A", nn)
	case cpu.LdhAN:
		return fmt.Sprintf("LDH A,(0xFF%02X)", n)
	case cpu.LdhNA:
		return fmt.Sprintf("LDH (0xFF%02X),A", n)
	case cpu.LdACio:
		return "LD A,(FF00+C)"
	case cpu.LdCioA:
		return "LD (FF00+C),A"
	case cpu.LdHLIA:
		return "LD (HL+),A"
	case cpu.LdAHLI:
		return "LD A,(HL+)"
	case cpu.LdHLDA:
		return "LD (HL-),A"
	case cpu.LdAHLD:
		return "LD A,(HL-)"
	case cpu.LdRRNN:
		return fmt.Sprintf("LD %s,0x%04X", pairNames[hi>>1], nn)
	case cpu.LdNNSP:
		return fmt.Sprintf("LD (0x%04X),SP", nn)
	case cpu.LdSPHL:
		return "LD SP,HL"
	case cpu.LdHLSPE:
		return fmt.Sprintf("LD HL,SP%+d", int8(n))
	case cpu.AddAR:
		return fmt.Sprintf("ADD A,%s", regNames[lo])
	case cpu.AddAN:
		return fmt.Sprintf("ADD A,0x%02X", n)
	case cpu.AdcAR:
		return fmt.Sprintf("ADC A,%s", regNames[lo])
	case cpu.AdcAN:
		return fmt.Sprintf("ADC A,0x%02X", n)
	case cpu.SubR:
		return fmt.Sprintf("SUB %s", regNames[lo])
	case cpu.SubN:
		return fmt.Sprintf("SUB 0x%02X", n)
	case cpu.SbcAR:
		return fmt.Sprintf("SBC A,%s", regNames[lo])
	case cpu.SbcAN:
		return fmt.Sprintf("SBC A,0x%02X", n)
	case cpu.AndR:
		return fmt.Sprintf("AND %s", regNames[lo])
	case cpu.AndN:
		return fmt.Sprintf("AND 0x%02X", n)
	case cpu.XorR:
		return fmt.Sprintf("XOR %s", regNames[lo])
	case cpu.XorN:
		return fmt.Sprintf("XOR 0x%02X", n)
	case cpu.OrR:
		return fmt.Sprintf("OR %s", regNames[lo])
	case cpu.OrN:
		return fmt.Sprintf("OR 0x%02X", n)
	case cpu.CpR:
		return fmt.Sprintf("CP %s", regNames[lo])
	case cpu.CpN:
		return fmt.Sprintf("CP 0x%02X", n)
	case cpu.IncR:
		return fmt.Sprintf("INC %s", regNames[hi])
	case cpu.DecR:
		return fmt.Sprintf("DEC %s", regNames[hi])
	case cpu.AddHLRR:
		return fmt.Sprintf("ADD HL,%s", pairNames[hi>>1])
	case cpu.AddSPE:
		return fmt.Sprintf("ADD SP,%+d", int8(n))
	case cpu.IncRR:
		return fmt.Sprintf("INC %s", pairNames[hi>>1])
	case cpu.DecRR:
		return fmt.Sprintf("DEC %s", pairNames[hi>>1])
	case cpu.RlcR:
		return fmt.Sprintf("RLC %s", regNames[lo])
	case cpu.RlR:
		return fmt.Sprintf("RL %s", regNames[lo])
	case cpu.RrcR:
		return fmt.Sprintf("RRC %s", regNames[lo])
	case cpu.RrR:
		return fmt.Sprintf("RR %s", regNames[lo])
	case cpu.SlaR:
		return fmt.Sprintf("SLA %s", regNames[lo])
	case cpu.SraR:
		return fmt.Sprintf("SRA %s", regNames[lo])
	case cpu.SrlR:
		return fmt.Sprintf("SRL %s", regNames[lo])
	case cpu.SwapR:
		return fmt.Sprintf("SWAP %s", regNames[lo])
	case cpu.BitNR:
		return fmt.Sprintf("BIT %d,%s", hi, regNames[lo])
	case cpu.SetNR:
		return fmt.Sprintf("SET %d,%s", hi, regNames[lo])
	case cpu.ResNR:
		return fmt.Sprintf("RES %d,%s", hi, regNames[lo])
	case cpu.JpNN:
		return fmt.Sprintf("JP 0x%04X", nn)
	case cpu.JpHL:
		return "JP (HL)"
	case cpu.JpCCNN:
		return fmt.Sprintf("JP %s,0x%04X", condNames[hi&0x03], nn)
	case cpu.JrE:
		return fmt.Sprintf("JR %+d", int8(n))
	case cpu.JrCCE:
		return fmt.Sprintf("JR %s,%+d", condNames[hi&0x03], int8(n))
	case cpu.CallNN:
		return fmt.Sprintf("CALL 0x%04X", nn)
	case cpu.CallCCNN:
		return fmt.Sprintf("CALL %s,0x%04X", condNames[hi&0x03], nn)
	case cpu.Ret:
		return "RET"
	case cpu.RetCC:
		return fmt.Sprintf("RET %s", condNames[hi&0x03])
	case cpu.Reti:
		return "RETI"
	case cpu.Rst:
		return fmt.Sprintf("RST 0x%02X", hi*8)
	case cpu.PushRR:
		return fmt.Sprintf("PUSH %s", stackPairNames[hi>>1])
	case cpu.PopRR:
		return fmt.Sprintf("POP %s", stackPairNames[hi>>1])
	case cpu.Illegal:
		return fmt.Sprintf("db 0x%02X", in.Opcode)
	default:
		return in.Mnemonic.String()
	}
}
