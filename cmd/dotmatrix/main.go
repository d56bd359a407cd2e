package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/urfave/cli"

	"github.com/verlato/go-dotmatrix/dotmatrix"
	"github.com/verlato/go-dotmatrix/dotmatrix/monitor"
)

func main() {
	app := cli.NewApp()
	app.Name = "dotmatrix"
	app.Description = "A headless DMG emulator core"
	app.Usage = "dotmatrix [options] <ROM file>"
	app.Version = "1.0.0"
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "rom",
			Usage: "Path to the ROM file",
		},
		cli.Uint64Flag{
			Name:  "max-instructions",
			Usage: "Number of instructions to execute before stopping",
			Value: 50_000_000,
		},
		cli.BoolFlag{
			Name:  "debug",
			Usage: "Enable debug logging",
		},
		cli.BoolFlag{
			Name:  "trace",
			Usage: "Log every executed instruction (implies --debug)",
		},
		cli.BoolFlag{
			Name:  "monitor",
			Usage: "Show a live terminal dashboard while running",
		},
		cli.BoolFlag{
			Name:  "serial-stdout",
			Usage: "Copy serial output bytes to stdout",
		},
	}
	app.Action = runEmulator

	err := app.Run(os.Args)
	if err != nil {
		slog.Error("Error running emulator", "error", err)
		os.Exit(1)
	}
}

func runEmulator(c *cli.Context) error {
	romPath := c.String("rom")
	if romPath == "" {
		if c.NArg() > 0 {
			romPath = c.Args().Get(0)
		} else {
			cli.ShowAppHelp(c)
			return errors.New("no ROM path provided")
		}
	}

	level := slog.LevelInfo
	if c.Bool("debug") || c.Bool("trace") {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))

	emu, err := dotmatrix.NewWithFile(romPath)
	if err != nil {
		return err
	}
	emu.SetTrace(c.Bool("trace"))

	if c.Bool("serial-stdout") {
		emu.AttachSerial(func(b byte) {
			fmt.Print(string(rune(b)))
		})
	}

	// Test ROMs report through the serial port; watch for a verdict so the
	// process exit code reflects it.
	var serialText strings.Builder
	emu.AttachSerial(func(b byte) {
		serialText.WriteByte(b)
	})

	if c.Bool("monitor") {
		mon, err := monitor.New(emu)
		if err != nil {
			return err
		}
		if err := mon.Run(); err != nil {
			return err
		}
	} else {
		if err := emu.Run(c.Uint64("max-instructions")); err != nil {
			return err
		}
	}

	slog.Info("Run finished", "instructions", emu.InstructionCount())

	if strings.Contains(serialText.String(), "Failed") {
		return errors.New("test ROM reported failure on the serial port")
	}
	return nil
}
