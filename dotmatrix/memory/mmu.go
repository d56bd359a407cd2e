package memory

import (
	"fmt"
	"log/slog"

	"github.com/verlato/go-dotmatrix/dotmatrix/addr"
	"github.com/verlato/go-dotmatrix/dotmatrix/bit"
)

type memRegion uint8

const (
	regionROM memRegion = iota
	regionVRAM
	regionExtRAM
	regionWRAM
	regionEcho
	regionOAM
	regionIO
)

// SerialPort is the minimal interface for a serial device connected to SB/SC.
// Implementations MUST only accept reads/writes to addr.SB and addr.SC.
type SerialPort interface {
	Write(address uint16, value byte)
	Read(address uint16) byte
	Reset()
}

// MMU routes the 16-bit address space across the cartridge controller and the
// internal regions it owns: work RAM, high RAM, the hardware-register block,
// IF, IE, and the master interrupt-enable flag.
type MMU struct {
	cart *Cartridge
	mbc  MBC

	wram [0x2000]byte // 0xC000-0xDFFF, mirrored at 0xE000-0xFDFF
	hram [0x7F]byte   // 0xFF80-0xFFFE
	io   [0x80]byte   // 0xFF00-0xFF7F backing store for plain registers
	ie   byte
	ime  bool

	serial SerialPort
	timer  Timer

	regionMap [256]memRegion
	log       *slog.Logger
}

// New creates a memory unit with no cartridge loaded. Equivalent to turning
// on the console with an empty slot; useful for tests.
func New() *MMU {
	m := &MMU{
		cart: NewCartridge(),
		log:  slog.Default(),
	}
	m.mbc = NewNoMBC(m.cart.data)
	m.serial = &nullSerial{}
	m.timer.TimerInterruptHandler = func() { m.RequestInterrupt(addr.TimerInterrupt) }
	m.initRegionMap()
	return m
}

// NewWithCartridge creates a memory unit with the provided cartridge loaded,
// constructing the matching bank controller.
func NewWithCartridge(cart *Cartridge) (*MMU, error) {
	mbc, err := NewMBC(cart)
	if err != nil {
		return nil, err
	}

	m := New()
	m.cart = cart
	m.mbc = mbc
	return m, nil
}

// nullSerial is the default device: it stores SB/SC but never transfers.
// A real sink is installed through SetSerial.
type nullSerial struct{ sb, sc byte }

func (n *nullSerial) Write(address uint16, value byte) {
	switch address {
	case addr.SB:
		n.sb = value
	case addr.SC:
		n.sc = value
	}
}

func (n *nullSerial) Read(address uint16) byte {
	switch address {
	case addr.SB:
		return n.sb
	case addr.SC:
		return n.sc
	}
	return 0xFF
}

func (n *nullSerial) Reset() { n.sb, n.sc = 0, 0 }

// SetSerial replaces the serial device. The device owns SB/SC storage.
func (m *MMU) SetSerial(s SerialPort) {
	if s != nil {
		m.serial = s
	}
}

// SetLogger replaces the MMU's logger.
func (m *MMU) SetLogger(log *slog.Logger) {
	if log != nil {
		m.log = log
	}
}

// Cartridge returns the loaded cartridge.
func (m *MMU) Cartridge() *Cartridge {
	return m.cart
}

// Tick advances the timer by the given number of M-cycles.
func (m *MMU) Tick(mcycles int) {
	m.timer.Tick(mcycles)
}

// TimerState exposes the raw timer registers for observers.
func (m *MMU) TimerState() (div, tima, tma, tac byte) {
	return m.timer.div, m.timer.tima, m.timer.tma, m.timer.tac
}

func (m *MMU) initRegionMap() {
	for i := 0x00; i <= 0x7F; i++ {
		m.regionMap[i] = regionROM
	}
	for i := 0x80; i <= 0x9F; i++ {
		m.regionMap[i] = regionVRAM
	}
	for i := 0xA0; i <= 0xBF; i++ {
		m.regionMap[i] = regionExtRAM
	}
	for i := 0xC0; i <= 0xDF; i++ {
		m.regionMap[i] = regionWRAM
	}
	for i := 0xE0; i <= 0xFD; i++ {
		m.regionMap[i] = regionEcho
	}
	// OAM + unusable area: 0xFE00-0xFEFF
	m.regionMap[0xFE] = regionOAM
	// IO + HRAM + IE: 0xFF00-0xFFFF
	m.regionMap[0xFF] = regionIO
}

// Read returns the byte at the given address. Only cartridge accesses can
// fail; every internal region is total by construction.
func (m *MMU) Read(address uint16) (byte, error) {
	switch m.regionMap[address>>8] {
	case regionROM, regionExtRAM:
		v, err := m.mbc.Read(address)
		if err != nil {
			return 0, fmt.Errorf("mmu: %w", err)
		}
		return v, nil
	case regionVRAM:
		// No PPU: VRAM reads are stubbed.
		return 0, nil
	case regionWRAM:
		return m.wram[address-addr.WRAMStart], nil
	case regionEcho:
		return m.wram[address-addr.EchoStart], nil
	case regionOAM:
		// OAM and the prohibited area both read as zero.
		return 0, nil
	default:
		return m.readHigh(address), nil
	}
}

// readHigh serves 0xFF00-0xFFFF: hardware registers, HRAM, IE.
func (m *MMU) readHigh(address uint16) byte {
	switch {
	case address == addr.IE:
		return m.ie
	case address >= addr.HRAMStart:
		return m.hram[address-addr.HRAMStart]
	case address == addr.SB || address == addr.SC:
		return m.serial.Read(address)
	case address >= addr.DIV && address <= addr.TAC:
		return m.timer.Read(address)
	case address == addr.LY:
		// Stub: a fixed LY keeps ROMs that poll for VBlank progressing.
		return addr.LYStubValue
	case address == addr.IF:
		// The upper 3 bits of IF are unused and always read as 1.
		return m.io[address-addr.IOStart] | 0xE0
	default:
		return m.io[address-addr.IOStart]
	}
}

// Write stores a byte at the given address. Only cartridge accesses can fail.
func (m *MMU) Write(address uint16, value byte) error {
	switch m.regionMap[address>>8] {
	case regionROM, regionExtRAM:
		if err := m.mbc.Write(address, value); err != nil {
			return fmt.Errorf("mmu: %w", err)
		}
		return nil
	case regionVRAM:
		// No PPU: VRAM writes are dropped.
		return nil
	case regionWRAM:
		m.wram[address-addr.WRAMStart] = value
		return nil
	case regionEcho:
		m.wram[address-addr.EchoStart] = value
		return nil
	case regionOAM:
		// OAM and the prohibited area swallow writes.
		return nil
	default:
		m.writeHigh(address, value)
		return nil
	}
}

func (m *MMU) writeHigh(address uint16, value byte) {
	switch {
	case address == addr.IE:
		m.ie = value
	case address >= addr.HRAMStart:
		m.hram[address-addr.HRAMStart] = value
	case address == addr.SB || address == addr.SC:
		m.serial.Write(address, value)
	case address >= addr.DIV && address <= addr.TAC:
		m.timer.Write(address, value)
	case address == addr.IF:
		m.io[address-addr.IOStart] = value & 0x1F
	default:
		m.io[address-addr.IOStart] = value
	}
}

// ReadWord reads a little-endian 16 bit value at the given address.
func (m *MMU) ReadWord(address uint16) (uint16, error) {
	low, err := m.Read(address)
	if err != nil {
		return 0, err
	}
	high, err := m.Read(address + 1)
	if err != nil {
		return 0, err
	}
	return bit.Combine(high, low), nil
}

// WriteWord writes a 16 bit value little-endian: low byte first.
func (m *MMU) WriteWord(address uint16, value uint16) error {
	if err := m.Write(address, bit.Low(value)); err != nil {
		return err
	}
	return m.Write(address+1, bit.High(value))
}

// RequestInterrupt sets the interrupt's flag bit in IF.
func (m *MMU) RequestInterrupt(interrupt addr.Interrupt) {
	m.SetIFBit(interrupt, true)
}

// SetIFBit updates one interrupt's bit in the IF register.
func (m *MMU) SetIFBit(interrupt addr.Interrupt, state bool) {
	flags := m.io[addr.IF-addr.IOStart]
	if state {
		flags = bit.Set(interrupt.Bit(), flags)
	} else {
		flags = bit.Reset(interrupt.Bit(), flags)
	}
	m.io[addr.IF-addr.IOStart] = flags & 0x1F
}

// Pending returns the highest-priority interrupt whose IE and IF bits are
// both set. It does not consult IME; the caller gates on it.
func (m *MMU) Pending() (addr.Interrupt, bool) {
	masked := m.ie & m.io[addr.IF-addr.IOStart] & 0x1F
	if masked == 0 {
		return 0, false
	}
	for b := uint8(0); b < 5; b++ {
		if bit.IsSet(b, masked) {
			return addr.Interrupt(1 << b), true
		}
	}
	return 0, false
}

// AnyPending reports whether any enabled interrupt is flagged, regardless of
// IME. Used to wake the CPU from HALT.
func (m *MMU) AnyPending() bool {
	_, ok := m.Pending()
	return ok
}

// IME returns the master interrupt-enable flag.
func (m *MMU) IME() bool {
	return m.ime
}

// SetIME updates the master interrupt-enable flag.
func (m *MMU) SetIME(enabled bool) {
	m.ime = enabled
}
