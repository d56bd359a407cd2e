package cpu

// execLoad evaluates the 8 and 16 bit load family. PC already points past the
// immediate bytes; c.n and c.nn hold the pre-fetched window.
func (c *CPU) execLoad(in Instruction) (int, error) {
	switch in.Mnemonic {
	case LdRR:
		v, err := c.readReg8(in.Lo)
		if err != nil {
			return 0, err
		}
		if err := c.writeReg8(in.Hi, v); err != nil {
			return 0, err
		}
		if in.Hi == SelHLMem || in.Lo == SelHLMem {
			return 2, nil
		}
		return 1, nil

	case LdRN:
		if err := c.writeReg8(in.Hi, c.n); err != nil {
			return 0, err
		}
		if in.Hi == SelHLMem {
			return 3, nil
		}
		return 2, nil

	case LdABC:
		v, err := c.memory.Read(c.getBC())
		if err != nil {
			return 0, err
		}
		c.a = v
		return 2, nil

	case LdADE:
		v, err := c.memory.Read(c.getDE())
		if err != nil {
			return 0, err
		}
		c.a = v
		return 2, nil

	case LdANN:
		v, err := c.memory.Read(c.nn)
		if err != nil {
			return 0, err
		}
		c.a = v
		return 4, nil

	case LdBCA:
		return 2, c.memory.Write(c.getBC(), c.a)

	case LdDEA:
		return 2, c.memory.Write(c.getDE(), c.a)

	case LdNNA:
		return 4, c.memory.Write(c.nn, c.a)

	case LdhAN:
		v, err := c.memory.Read(0xFF00 + uint16(c.n))
		if err != nil {
			return 0, err
		}
		c.a = v
		return 3, nil

	case LdhNA:
		return 3, c.memory.Write(0xFF00+uint16(c.n), c.a)

	case LdACio:
		v, err := c.memory.Read(0xFF00 + uint16(c.c))
		if err != nil {
			return 0, err
		}
		c.a = v
		return 2, nil

	case LdCioA:
		return 2, c.memory.Write(0xFF00+uint16(c.c), c.a)

	case LdHLIA:
		hl := c.getHL()
		if err := c.memory.Write(hl, c.a); err != nil {
			return 0, err
		}
		c.setHL(hl + 1)
		return 2, nil

	case LdAHLI:
		hl := c.getHL()
		v, err := c.memory.Read(hl)
		if err != nil {
			return 0, err
		}
		c.a = v
		c.setHL(hl + 1)
		return 2, nil

	case LdHLDA:
		hl := c.getHL()
		if err := c.memory.Write(hl, c.a); err != nil {
			return 0, err
		}
		c.setHL(hl - 1)
		return 2, nil

	case LdAHLD:
		hl := c.getHL()
		v, err := c.memory.Read(hl)
		if err != nil {
			return 0, err
		}
		c.a = v
		c.setHL(hl - 1)
		return 2, nil

	case LdRRNN:
		// Hi bits [5:4] select the dd pair.
		c.setPair(in.Hi>>1, c.nn)
		return 3, nil

	case LdNNSP:
		return 5, c.memory.WriteWord(c.nn, c.sp)

	case LdSPHL:
		c.sp = c.getHL()
		return 2, nil

	case LdHLSPE:
		result, fl := addSPe(c.sp, c.n)
		c.setHL(result)
		c.commitFlags(fl)
		return 3, nil
	}

	return 0, ErrUnsupportedInstruction
}
