package memory

import "errors"

var (
	// ErrUnmappedAddress is returned when an MBC receives an address outside
	// the regions it owns. The MMU never delegates such an address, so seeing
	// this error means a mapping bug, not an in-game event.
	ErrUnmappedAddress = errors.New("address not mapped to cartridge")

	// ErrUnsupportedMBC is returned when the cartridge type byte names a
	// controller this core does not implement.
	ErrUnsupportedMBC = errors.New("unsupported memory bank controller")

	// ErrROMTooSmall is returned when the ROM buffer is too short to contain
	// a cartridge header.
	ErrROMTooSmall = errors.New("ROM image smaller than cartridge header")
)
