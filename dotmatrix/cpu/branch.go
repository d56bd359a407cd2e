package cpu

// execBranch evaluates jumps, calls, returns and restarts. PC already points
// past the instruction, so relative jumps offset from here, and CALL/RST push
// the address of the following instruction. Taken and not-taken paths return
// their documented cycle counts.
func (c *CPU) execBranch(in Instruction) (int, error) {
	switch in.Mnemonic {
	case JpNN:
		c.pc = c.nn
		return 4, nil

	case JpHL:
		c.pc = c.getHL()
		return 1, nil

	case JpCCNN:
		if !c.condition(in.Hi) {
			return 3, nil
		}
		c.pc = c.nn
		return 4, nil

	case JrE:
		c.pc += uint16(int16(int8(c.n)))
		return 3, nil

	case JrCCE:
		if !c.condition(in.Hi) {
			return 2, nil
		}
		c.pc += uint16(int16(int8(c.n)))
		return 3, nil

	case CallNN:
		if err := c.pushStack(c.pc); err != nil {
			return 0, err
		}
		c.pc = c.nn
		return 6, nil

	case CallCCNN:
		if !c.condition(in.Hi) {
			return 3, nil
		}
		if err := c.pushStack(c.pc); err != nil {
			return 0, err
		}
		c.pc = c.nn
		return 6, nil

	case Ret:
		pc, err := c.popStack()
		if err != nil {
			return 0, err
		}
		c.pc = pc
		return 4, nil

	case RetCC:
		if !c.condition(in.Hi) {
			return 2, nil
		}
		pc, err := c.popStack()
		if err != nil {
			return 0, err
		}
		c.pc = pc
		return 5, nil

	case Reti:
		pc, err := c.popStack()
		if err != nil {
			return 0, err
		}
		c.pc = pc
		// Unlike EI, RETI re-enables interrupts with no delay.
		c.memory.SetIME(true)
		return 4, nil

	case Rst:
		if err := c.pushStack(c.pc); err != nil {
			return 0, err
		}
		c.pc = uint16(in.Hi) * 8
		return 4, nil
	}

	return 0, ErrUnsupportedInstruction
}
