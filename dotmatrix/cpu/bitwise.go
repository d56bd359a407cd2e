package cpu

// execBitwise evaluates rotates, shifts, swap and the single-bit operations,
// on both the base page (A only, Z cleared) and the CB page (any register
// selector, Z from the result).
func (c *CPU) execBitwise(in Instruction) (int, error) {
	switch in.Mnemonic {
	case Rlca:
		fl := rlc8(c.a, false)
		c.a = fl.value
		c.commitFlags(fl)
		return 1, nil

	case Rla:
		fl := rl8(c.a, c.flagToBit(carryFlag), false)
		c.a = fl.value
		c.commitFlags(fl)
		return 1, nil

	case Rrca:
		fl := rrc8(c.a, false)
		c.a = fl.value
		c.commitFlags(fl)
		return 1, nil

	case Rra:
		fl := rr8(c.a, c.flagToBit(carryFlag), false)
		c.a = fl.value
		c.commitFlags(fl)
		return 1, nil
	}

	// CB page: the target register comes from the lo field, the bit index
	// (for BIT/SET/RES) from the hi field.
	v, err := c.readReg8(in.Lo)
	if err != nil {
		return 0, err
	}

	var fl flagUpdate
	writeBack := true

	switch in.Mnemonic {
	case RlcR:
		fl = rlc8(v, true)
	case RlR:
		fl = rl8(v, c.flagToBit(carryFlag), true)
	case RrcR:
		fl = rrc8(v, true)
	case RrR:
		fl = rr8(v, c.flagToBit(carryFlag), true)
	case SlaR:
		fl = sla8(v)
	case SraR:
		fl = sra8(v)
	case SrlR:
		fl = srl8(v)
	case SwapR:
		fl = swap8(v)
	case BitNR:
		fl = bitTest(in.Hi, v)
		writeBack = false
	case SetNR:
		fl = flagUpdate{value: v | 1<<in.Hi}
	case ResNR:
		fl = flagUpdate{value: v &^ (1 << in.Hi)}
	default:
		return 0, ErrUnsupportedInstruction
	}

	if writeBack {
		if err := c.writeReg8(in.Lo, fl.value); err != nil {
			return 0, err
		}
	}
	c.commitFlags(fl)

	if in.Lo != SelHLMem {
		return 2, nil
	}
	if in.Mnemonic == BitNR {
		return 3, nil
	}
	return 4, nil
}
