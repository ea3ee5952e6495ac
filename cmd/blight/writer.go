package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/godbus/dbus/v5"
	"golang.org/x/sys/unix"
)

// BrightnessWriter performs the single privileged write of an invocation.
// Failures are reported, never retried.
type BrightnessWriter interface {
	SetBrightness(subsystem, name string, value uint32) error
}

// logind D-Bus coordinates for the session brightness call.
const (
	logindDest      = "org.freedesktop.login1"
	logindSelfPath  = "/org/freedesktop/login1/session/self"
	logindSetMethod = "org.freedesktop.login1.Session.SetBrightness"
)

// LogindWriter asks the caller's logind session to perform the write, so an
// unprivileged user in the session seat can adjust brightness.
type LogindWriter struct {
	logger *slog.Logger
}

func NewLogindWriter(logger *slog.Logger) *LogindWriter {
	return &LogindWriter{logger: logger}
}

func (w *LogindWriter) SetBrightness(subsystem, name string, value uint32) error {
	conn, err := dbus.ConnectSystemBus()
	if err != nil {
		return fmt.Errorf("connect system bus: %w", err)
	}
	defer conn.Close()

	w.logger.Debug("calling logind SetBrightness",
		"subsystem", subsystem, "name", name, "value", value)

	obj := conn.Object(logindDest, dbus.ObjectPath(logindSelfPath))
	if call := obj.Call(logindSetMethod, 0, subsystem, name, value); call.Err != nil {
		return fmt.Errorf("logind SetBrightness: %w", call.Err)
	}
	return nil
}

// SysfsWriter writes the brightness attribute directly. Only usable when
// the process can write the sysfs file (root, or a udev ACL on the seat).
type SysfsWriter struct {
	Root   string
	logger *slog.Logger
}

func NewSysfsWriter(root string, logger *slog.Logger) *SysfsWriter {
	return &SysfsWriter{Root: root, logger: logger}
}

func brightnessPath(root, subsystem, name string) string {
	return filepath.Join(root, "class", subsystem, name, "brightness")
}

func (w *SysfsWriter) SetBrightness(subsystem, name string, value uint32) error {
	path := brightnessPath(w.Root, subsystem, name)
	w.logger.Debug("writing brightness attribute", "path", path, "value", value)

	if err := os.WriteFile(path, []byte(strconv.FormatUint(uint64(value), 10)), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// writable reports whether the current process may write the given file.
// Checked with faccessat rather than by opening, so probing has no side
// effects on the attribute.
func writable(path string) bool {
	return unix.Access(path, unix.W_OK) == nil
}

// pickWriter chooses the writer implementation for this invocation.
// Mode "auto" takes the direct sysfs path when the attribute is writable
// and falls back to the logind session call otherwise. probe decides
// writability; pass the writable function outside of tests.
func pickWriter(mode, root, subsystem, name string, probe func(string) bool, logger *slog.Logger) (BrightnessWriter, error) {
	switch mode {
	case "logind":
		return NewLogindWriter(logger), nil
	case "sysfs":
		return NewSysfsWriter(root, logger), nil
	case "", "auto":
		if probe(brightnessPath(root, subsystem, name)) {
			return NewSysfsWriter(root, logger), nil
		}
		logger.Debug("brightness attribute not writable, using logind",
			"subsystem", subsystem, "name", name)
		return NewLogindWriter(logger), nil
	}
	return nil, fmt.Errorf("invalid writer mode %q (must be auto, logind, or sysfs)", mode)
}
