package cpu

// execStack evaluates PUSH and POP over the qq pair selector. POP AF masks
// the loaded flags so the low nibble of F stays zero.
func (c *CPU) execStack(in Instruction) (int, error) {
	sel := in.Hi >> 1

	switch in.Mnemonic {
	case PushRR:
		if err := c.pushStack(c.getPairStack(sel)); err != nil {
			return 0, err
		}
		return 4, nil

	case PopRR:
		v, err := c.popStack()
		if err != nil {
			return 0, err
		}
		// setPairStack applies the F mask for AF.
		c.setPairStack(sel, v)
		return 3, nil
	}

	return 0, ErrUnsupportedInstruction
}
