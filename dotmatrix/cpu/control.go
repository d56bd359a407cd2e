package cpu

// execControl evaluates the CPU control family.
func (c *CPU) execControl(in Instruction) (int, error) {
	switch in.Mnemonic {
	case Nop:
		return 1, nil

	case Halt, Stop:
		// STOP is conflated with HALT: this core has no low-power state to
		// model and no test ROM exercises the difference.
		c.halted = true
		return 1, nil

	case Di:
		// DI takes effect immediately, and cancels a staged EI.
		c.eiPending = false
		c.memory.SetIME(false)
		return 1, nil

	case Ei:
		// Staged: IME turns on only at the boundary after the next
		// instruction completes.
		c.eiPending = true
		return 1, nil

	case Ccf:
		c.setFlagToCondition(carryFlag, !c.isSetFlag(carryFlag))
		c.resetFlag(subFlag)
		c.resetFlag(halfCarryFlag)
		return 1, nil

	case Scf:
		c.setFlag(carryFlag)
		c.resetFlag(subFlag)
		c.resetFlag(halfCarryFlag)
		return 1, nil
	}

	return 0, ErrUnsupportedInstruction
}
