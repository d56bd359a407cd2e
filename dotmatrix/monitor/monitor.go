// Package monitor provides a tcell dashboard over a running core: the
// register file, timer and interrupt registers, a disassembly window around
// PC, and the serial output tail. It observes state between steps and never
// writes to the core.
package monitor

import (
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/verlato/go-dotmatrix/dotmatrix"
	"github.com/verlato/go-dotmatrix/dotmatrix/disasm"
)

const (
	// instructions executed between screen refreshes
	stepsPerFrame = 20000
	frameTime     = time.Second / 30

	serialTailLines = 12
	disasmLines     = 9
)

// Monitor runs an emulator while drawing its state to the terminal.
type Monitor struct {
	emu    *dotmatrix.Emulator
	screen tcell.Screen

	serialTail []string
	line       []byte

	paused bool
}

// New creates a monitor for the emulator and hooks its serial stream.
func New(emu *dotmatrix.Emulator) (*Monitor, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize terminal: %w", err)
	}
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize terminal: %w", err)
	}

	m := &Monitor{
		emu:    emu,
		screen: screen,
	}
	emu.AttachSerial(m.onSerialByte)
	return m, nil
}

func (m *Monitor) onSerialByte(b byte) {
	if b == 0 || b == '\n' || b == '\r' {
		if len(m.line) > 0 {
			m.serialTail = append(m.serialTail, string(m.line))
			if len(m.serialTail) > serialTailLines {
				m.serialTail = m.serialTail[1:]
			}
			m.line = m.line[:0]
		}
		return
	}
	m.line = append(m.line, b)
}

// Run drives the emulator until q/Esc/Ctrl-C is pressed or the core errors.
// Space toggles pause.
func (m *Monitor) Run() error {
	defer m.screen.Fini()

	events := make(chan tcell.Event, 8)
	quit := make(chan struct{})
	go m.screen.ChannelEvents(events, quit)

	ticker := time.NewTicker(frameTime)
	defer ticker.Stop()

	for {
		select {
		case ev := <-events:
			switch ev := ev.(type) {
			case *tcell.EventKey:
				if isQuitKey(ev) {
					close(quit)
					return nil
				}
				if ev.Rune() == ' ' {
					m.paused = !m.paused
				}
			case *tcell.EventResize:
				m.screen.Sync()
			}
		case <-ticker.C:
			if !m.paused {
				for i := 0; i < stepsPerFrame; i++ {
					if _, err := m.emu.Step(); err != nil {
						close(quit)
						return err
					}
				}
			}
			m.draw()
		}
	}
}

func isQuitKey(ev *tcell.EventKey) bool {
	return ev.Key() == tcell.KeyEscape ||
		ev.Key() == tcell.KeyCtrlC ||
		ev.Rune() == 'q'
}

func (m *Monitor) draw() {
	m.screen.Clear()
	snap := m.emu.Snapshot()

	titleStyle := tcell.StyleDefault.Bold(true)
	style := tcell.StyleDefault

	m.drawText(0, 0, titleStyle, "dotmatrix monitor — q quits, space pauses")

	m.drawText(0, 2, titleStyle, "registers")
	m.drawText(2, 3, style, fmt.Sprintf("AF %04X  BC %04X  DE %04X  HL %04X", snap.AF, snap.BC, snap.DE, snap.HL))
	m.drawText(2, 4, style, fmt.Sprintf("SP %04X  PC %04X", snap.SP, snap.PC))
	m.drawText(2, 5, style, fmt.Sprintf("Z=%d N=%d H=%d C=%d  halted=%v",
		flagBit(snap.AF, 7), flagBit(snap.AF, 6), flagBit(snap.AF, 5), flagBit(snap.AF, 4), snap.Halted))

	m.drawText(0, 7, titleStyle, "timer / interrupts")
	m.drawText(2, 8, style, fmt.Sprintf("DIV %02X  TIMA %02X  TMA %02X  TAC %02X", snap.DIV, snap.TIMA, snap.TMA, snap.TAC))
	m.drawText(2, 9, style, fmt.Sprintf("IF %02X  IE %02X  IME=%v", snap.IF, snap.IE, snap.IME))
	m.drawText(2, 10, style, fmt.Sprintf("instructions %d", snap.Instructions))

	m.drawText(0, 12, titleStyle, "disassembly")
	for i, line := range disasm.Range(snap.PC, disasmLines, m.emu.MMU()) {
		marker := "  "
		if i == 0 {
			marker = "> "
		}
		m.drawText(2, 13+i, style, fmt.Sprintf("%s0x%04X: %s", marker, line.Address, line.Instruction))
	}

	serialY := 13 + disasmLines + 1
	m.drawText(0, serialY, titleStyle, "serial")
	for i, line := range m.serialTail {
		m.drawText(2, serialY+1+i, style, line)
	}
	if len(m.line) > 0 {
		m.drawText(2, serialY+1+len(m.serialTail), style, string(m.line))
	}

	m.screen.Show()
}

func (m *Monitor) drawText(x, y int, style tcell.Style, text string) {
	width, height := m.screen.Size()
	if y >= height {
		return
	}
	for i, ch := range text {
		if x+i >= width {
			break
		}
		m.screen.SetContent(x+i, y, ch, nil, style)
	}
}

func flagBit(af uint16, index uint8) int {
	if af&(1<<index) != 0 {
		return 1
	}
	return 0
}
