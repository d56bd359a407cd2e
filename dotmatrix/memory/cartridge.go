package memory

import (
	"fmt"
	"strings"
	"unicode"
)

const titleLength = 16

const (
	entryPointAddress     = 0x100
	titleAddress          = 0x134
	cartridgeTypeAddress  = 0x147
	romSizeAddress        = 0x148
	ramSizeAddress        = 0x149
	versionNumberAddress  = 0x14C
	headerChecksumAddress = 0x14D
)

// MBCKind identifies the memory bank controller wired into a cartridge.
type MBCKind uint8

const (
	NoMBCKind MBCKind = iota
	MBC1Kind
	MBC2Kind
	MBC3Kind
	MBC5Kind
	UnknownMBCKind
)

func (k MBCKind) String() string {
	switch k {
	case NoMBCKind:
		return "ROM"
	case MBC1Kind:
		return "MBC1"
	case MBC2Kind:
		return "MBC2"
	case MBC3Kind:
		return "MBC3"
	case MBC5Kind:
		return "MBC5"
	}
	return "unknown"
}

// mbcKindFor maps the cartridge type byte at 0x147 to a controller kind.
func mbcKindFor(cartType uint8) MBCKind {
	switch cartType {
	case 0x00, 0x08, 0x09:
		return NoMBCKind
	case 0x01, 0x02, 0x03:
		return MBC1Kind
	case 0x05, 0x06:
		return MBC2Kind
	case 0x0F, 0x10, 0x11, 0x12, 0x13:
		return MBC3Kind
	case 0x19, 0x1A, 0x1B, 0x1C, 0x1D, 0x1E:
		return MBC5Kind
	}
	return UnknownMBCKind
}

// Cartridge holds a loaded ROM image plus the header fields the core uses.
type Cartridge struct {
	data     []byte
	title    string
	cartType uint8
	mbcKind  MBCKind
	romSize  uint8
	ramSize  uint8
	version  uint8
}

// NewCartridge creates an empty cartridge, useful only for tests and
// debugging. Equivalent to powering on with no cartridge inserted.
func NewCartridge() *Cartridge {
	return &Cartridge{
		data:    make([]byte, 0x8000),
		mbcKind: NoMBCKind,
		title:   "(Untitled)",
	}
}

// NewCartridgeWithData initializes a new Cartridge from a slice of bytes.
func NewCartridgeWithData(bytes []byte) (*Cartridge, error) {
	if len(bytes) < headerChecksumAddress+1 {
		return nil, fmt.Errorf("%w: %d bytes", ErrROMTooSmall, len(bytes))
	}

	cartType := bytes[cartridgeTypeAddress]

	cart := &Cartridge{
		data:     make([]byte, len(bytes)),
		title:    cleanTitle(bytes[titleAddress : titleAddress+titleLength]),
		cartType: cartType,
		mbcKind:  mbcKindFor(cartType),
		romSize:  bytes[romSizeAddress],
		ramSize:  bytes[ramSizeAddress],
		version:  bytes[versionNumberAddress],
	}
	copy(cart.data, bytes)

	return cart, nil
}

// Title returns the cleaned cartridge title.
func (c *Cartridge) Title() string {
	return c.title
}

// MBCKind returns the controller kind parsed from the type byte.
func (c *Cartridge) MBCKind() MBCKind {
	return c.mbcKind
}

// Type returns the raw cartridge type byte at 0x147.
func (c *Cartridge) Type() uint8 {
	return c.cartType
}

// ROMSizeCode and RAMSizeCode return the raw header size codes. The core does
// not rely on them; the MBC uses only the loaded bytes.
func (c *Cartridge) ROMSizeCode() uint8 { return c.romSize }
func (c *Cartridge) RAMSizeCode() uint8 { return c.ramSize }

// EntryPoint returns the address of the first executed instruction.
func (c *Cartridge) EntryPoint() uint16 {
	return entryPointAddress
}

// cleanTitle processes a raw title field: NULL bytes become spaces,
// non-printable characters become '?', and the result is trimmed.
func cleanTitle(titleBytes []byte) string {
	runes := make([]rune, 0, len(titleBytes))
	for _, b := range titleBytes {
		r := rune(b)
		if r == 0 {
			r = ' '
		} else if !unicode.IsPrint(r) {
			r = '?'
		}
		runes = append(runes, r)
	}

	title := strings.TrimSpace(string(runes))
	if title == "" {
		return "(Untitled)"
	}
	return title
}
