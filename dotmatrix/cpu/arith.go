package cpu

// execALU evaluates the arithmetic/logic family for both register and
// immediate operand forms. Binary ops take their left operand from A; the
// flag math lives in the alu primitives.
func (c *CPU) execALU(in Instruction) (int, error) {
	// Binary ops on A: fetch the right-hand operand.
	switch in.Mnemonic {
	case AddAR, AdcAR, SubR, SbcAR, AndR, XorR, OrR, CpR:
		operand, err := c.readReg8(in.Lo)
		if err != nil {
			return 0, err
		}
		c.binaryOp(in.Mnemonic, operand)
		if in.Lo == SelHLMem {
			return 2, nil
		}
		return 1, nil

	case AddAN, AdcAN, SubN, SbcAN, AndN, XorN, OrN, CpN:
		c.binaryOp(in.Mnemonic, c.n)
		return 2, nil

	case IncR:
		v, err := c.readReg8(in.Hi)
		if err != nil {
			return 0, err
		}
		fl := inc8(v)
		if err := c.writeReg8(in.Hi, fl.value); err != nil {
			return 0, err
		}
		c.commitFlags(fl)
		if in.Hi == SelHLMem {
			return 3, nil
		}
		return 1, nil

	case DecR:
		v, err := c.readReg8(in.Hi)
		if err != nil {
			return 0, err
		}
		fl := dec8(v)
		if err := c.writeReg8(in.Hi, fl.value); err != nil {
			return 0, err
		}
		c.commitFlags(fl)
		if in.Hi == SelHLMem {
			return 3, nil
		}
		return 1, nil

	case Daa:
		fl := daa(c.a, c.f)
		c.a = fl.value
		c.commitFlags(fl)
		return 1, nil

	case Cpl:
		c.a = ^c.a
		c.setFlag(subFlag)
		c.setFlag(halfCarryFlag)
		return 1, nil

	case AddHLRR:
		result, fl := addHL16(c.getHL(), c.getPair(in.Hi>>1))
		c.setHL(result)
		c.commitFlags(fl)
		return 2, nil

	case AddSPE:
		result, fl := addSPe(c.sp, c.n)
		c.sp = result
		c.commitFlags(fl)
		return 4, nil

	case IncRR:
		sel := in.Hi >> 1
		c.setPair(sel, c.getPair(sel)+1)
		return 2, nil

	case DecRR:
		sel := in.Hi >> 1
		c.setPair(sel, c.getPair(sel)-1)
		return 2, nil
	}

	return 0, ErrUnsupportedInstruction
}

// binaryOp applies an 8-bit binary ALU operation to A. CP discards the
// result but keeps the flags.
func (c *CPU) binaryOp(m Mnemonic, operand uint8) {
	var fl flagUpdate

	switch m {
	case AddAR, AddAN:
		fl = add8(c.a, operand, 0)
	case AdcAR, AdcAN:
		fl = add8(c.a, operand, c.flagToBit(carryFlag))
	case SubR, SubN:
		fl = sub8(c.a, operand, 0)
	case SbcAR, SbcAN:
		fl = sub8(c.a, operand, c.flagToBit(carryFlag))
	case AndR, AndN:
		fl = and8(c.a, operand)
	case XorR, XorN:
		fl = xor8(c.a, operand)
	case OrR, OrN:
		fl = or8(c.a, operand)
	case CpR, CpN:
		fl = sub8(c.a, operand, 0)
		c.commitFlags(fl)
		return
	}

	c.a = fl.value
	c.commitFlags(fl)
}
