package memory

import "fmt"

// MBC represents a Memory Bank Controller. The MMU delegates every access in
// the ROM window (0x0000-0x7FFF) and the external RAM window (0xA000-0xBFFF)
// to the cartridge's controller.
type MBC interface {
	// Read reads a byte from the specified address.
	Read(addr uint16) (uint8, error)
	// Write writes a byte to the specified address. Writes into the ROM
	// window act as control-register updates, not data writes.
	Write(addr uint16, value uint8) error
}

// NewMBC constructs the controller for the cartridge's type byte. Only plain
// ROM and MBC1 cartridges are supported; the rest fail by name.
func NewMBC(cart *Cartridge) (MBC, error) {
	switch cart.MBCKind() {
	case NoMBCKind:
		return NewNoMBC(cart.data), nil
	case MBC1Kind:
		return NewMBC1(cart.data), nil
	default:
		return nil, fmt.Errorf("%w: %s (type byte 0x%02X)", ErrUnsupportedMBC, cart.MBCKind(), cart.Type())
	}
}

// NoMBC represents cartridges with no memory banking capabilities.
// These are typically smaller games (32KB or less) that fit entirely in the
// base memory region. The cartridge ROM is directly mapped to 0x0000-0x7FFF
// and cannot be banked/switched. An 8KB RAM buffer backs the external RAM
// window.
type NoMBC struct {
	rom []uint8
	ram [0x2000]uint8
}

// NewNoMBC creates a new NoMBC controller.
func NewNoMBC(romData []uint8) *NoMBC {
	return &NoMBC{rom: romData}
}

func (m *NoMBC) Read(addr uint16) (uint8, error) {
	switch {
	case addr <= 0x7FFF:
		if int(addr) >= len(m.rom) {
			return 0xFF, nil
		}
		return m.rom[addr], nil
	case addr >= 0xA000 && addr <= 0xBFFF:
		return m.ram[addr-0xA000], nil
	default:
		return 0, fmt.Errorf("%w: read 0x%04X", ErrUnmappedAddress, addr)
	}
}

func (m *NoMBC) Write(addr uint16, value uint8) error {
	switch {
	case addr <= 0x7FFF:
		// ROM writes are no-ops without a banking controller.
		return nil
	case addr >= 0xA000 && addr <= 0xBFFF:
		m.ram[addr-0xA000] = value
		return nil
	default:
		return fmt.Errorf("%w: write 0x%04X", ErrUnmappedAddress, addr)
	}
}

// MBC1 is the first and most common MBC chip. Features include:
//   - Supports up to 2MB ROM (125 16KB banks)
//   - Up to 32KB RAM (4 8KB banks)
//   - Bank 0 always mapped to 0x0000-0x3FFF
//   - Switchable ROM bank at 0x4000-0x7FFF
//   - Optional RAM banking at 0xA000-0xBFFF
//   - Two banking modes:
//     Mode 0 (ROM): upper bank bits extend the ROM bank number
//     Mode 1 (RAM): upper bank bits select the RAM bank
type MBC1 struct {
	rom         []uint8
	ram         []uint8
	romBank     uint8
	ramBank     uint8
	ramEnabled  bool
	bankingMode uint8
}

// NewMBC1 creates a new MBC1 controller with the full 32KB of bankable RAM.
func NewMBC1(romData []uint8) *MBC1 {
	return &MBC1{
		rom:     romData,
		ram:     make([]uint8, 4*0x2000),
		romBank: 1,
	}
}

func (m *MBC1) Read(addr uint16) (uint8, error) {
	switch {
	case addr <= 0x3FFF:
		// ROM bank 0, always mapped.
		if int(addr) >= len(m.rom) {
			return 0xFF, nil
		}
		return m.rom[addr], nil
	case addr >= 0x4000 && addr <= 0x7FFF:
		offset := uint32(m.romBank) * 0x4000
		if offset >= uint32(len(m.rom)) {
			offset = offset % uint32(len(m.rom))
		}
		return m.rom[offset+uint32(addr-0x4000)], nil
	case addr >= 0xA000 && addr <= 0xBFFF:
		if !m.ramEnabled {
			return 0xFF, nil
		}
		offset := uint32(m.ramBank)*0x2000 + uint32(addr-0xA000)
		return m.ram[offset], nil
	default:
		return 0, fmt.Errorf("%w: read 0x%04X", ErrUnmappedAddress, addr)
	}
}

func (m *MBC1) Write(addr uint16, value uint8) error {
	switch {
	case addr <= 0x1FFF:
		// RAM enable: any value with 0xA in the low nibble enables.
		m.ramEnabled = (value & 0x0F) == 0x0A
	case addr >= 0x2000 && addr <= 0x3FFF:
		// ROM bank number, lower 5 bits. Bank 0 is never selectable into
		// the switchable slot: writing 0 selects 1.
		bank := value & 0x1F
		if bank == 0 {
			bank = 1
		}
		m.romBank = (m.romBank & 0x60) | bank
	case addr >= 0x4000 && addr <= 0x5FFF:
		if m.bankingMode == 0 {
			// ROM banking mode: value becomes bits 5-6 of the ROM bank.
			m.romBank = (m.romBank & 0x1F) | ((value & 0x03) << 5)
		} else {
			// RAM banking mode: value selects the RAM bank.
			m.ramBank = value & 0x03
		}
	case addr >= 0x6000 && addr <= 0x7FFF:
		m.bankingMode = value & 0x01
		if m.bankingMode == 1 {
			m.romBank &= 0x1F
		}
	case addr >= 0xA000 && addr <= 0xBFFF:
		if !m.ramEnabled {
			return nil
		}
		offset := uint32(m.ramBank)*0x2000 + uint32(addr-0xA000)
		m.ram[offset] = value
	default:
		return fmt.Errorf("%w: write 0x%04X", ErrUnmappedAddress, addr)
	}
	return nil
}
