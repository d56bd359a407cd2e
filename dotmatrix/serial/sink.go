package serial

import (
	"log/slog"

	"github.com/verlato/go-dotmatrix/dotmatrix/addr"
	"github.com/verlato/go-dotmatrix/dotmatrix/bit"
)

// Sink implements the serial port as a one-way peripheral: every transferred
// byte is handed to the registered callbacks. Test ROMs use this channel to
// report pass/fail text.
//
// Transfers complete immediately: a write of a value with bits 7 and 0 set to
// SC delivers SB, clears the start bit, and requests the Serial interrupt.
type Sink struct {
	irqHandler func()
	callbacks  []func(byte)
	sb, sc     byte

	defaultRX byte // value left in SB after a transfer (no peer connected)
}

// NewSink creates a new serial sink. The passed function is called when a
// transfer completes and should be wired to request the Serial interrupt.
func NewSink(irq func()) *Sink {
	s := &Sink{
		irqHandler: irq,
		defaultRX:  0xFF,
	}
	s.Reset()
	return s
}

// Attach registers a callback invoked with each transferred byte.
func (s *Sink) Attach(fn func(byte)) {
	if fn != nil {
		s.callbacks = append(s.callbacks, fn)
	}
}

func (s *Sink) Write(address uint16, value byte) {
	switch address {
	case addr.SB:
		s.sb = value
	case addr.SC:
		s.sc = value
		s.maybeTransfer()
	}
}

func (s *Sink) Read(address uint16) byte {
	switch address {
	case addr.SB:
		return s.sb
	case addr.SC:
		return s.sc
	default:
		return 0xFF
	}
}

func (s *Sink) Reset() {
	s.sb = 0x00
	s.sc = 0x00
}

func (s *Sink) maybeTransfer() {
	// A transfer starts when bit 7 (start) and bit 0 (internal clock) of SC
	// are both set.
	if !bit.IsSet(7, s.sc) || !bit.IsSet(0, s.sc) {
		return
	}

	b := s.sb
	for _, fn := range s.callbacks {
		fn(b)
	}

	s.sb = s.defaultRX
	s.sc = 0x00
	if s.irqHandler != nil {
		s.irqHandler()
	}
}

// LogSink decorates a Sink with line-buffered logging of the outgoing bytes.
// Handy for debugging test roms that output to serial.
type LogSink struct {
	*Sink
	logger *slog.Logger
	line   []byte
}

// NewLogSink creates a serial sink that also logs complete lines of text.
func NewLogSink(irq func(), logger *slog.Logger) *LogSink {
	if logger == nil {
		logger = slog.Default()
	}
	s := &LogSink{
		Sink:   NewSink(irq),
		logger: logger,
	}
	s.Attach(s.logByte)
	return s
}

func (s *LogSink) logByte(b byte) {
	if b == 0 || b == '\n' || b == '\r' {
		if len(s.line) > 0 {
			s.logger.Info("serial", "line", string(s.line))
			s.line = s.line[:0]
		}
		return
	}
	s.line = append(s.line, b)
}
