package cpu

import "errors"

var (
	// ErrIllegalOpcode is returned when execution reaches one of the opcode
	// bytes the LR35902 does not define. The run cannot continue.
	ErrIllegalOpcode = errors.New("illegal opcode")

	// ErrUnsupportedInstruction is returned when a decoded mnemonic has no
	// evaluator. A complete build never produces it.
	ErrUnsupportedInstruction = errors.New("unsupported instruction")
)
