package main

import (
	"fmt"
	"io"
	"log/slog"
)

// env bundles the collaborators one invocation works against, so commands
// stay testable with fakes.
type env struct {
	dir    DeviceDirectory
	cfg    Config
	logger *slog.Logger

	// newWriter resolves the writer for a target device. Swappable in
	// tests to capture the (subsystem, name, value) triple.
	newWriter func(subsystem, name string) (BrightnessWriter, error)

	// stdout receives query output.
	stdout io.Writer
}

// resolveDevice picks the target device: the config/flag identifier when
// present, otherwise the default-device heuristic.
func (e *env) resolveDevice() (*Device, error) {
	if e.cfg.Device != "" {
		return selectNamed(e.dir, e.cfg.Device)
	}
	return selectDefault(e.dir, e.logger)
}

// readDeviceInfo snapshots the attributes the evaluators consume. A missing
// "type" attribute is fine (many devices have none); missing brightness
// attributes are not.
func readDeviceInfo(dev *Device) (DeviceInfo, error) {
	cur, err := dev.IntAttr("brightness")
	if err != nil {
		return DeviceInfo{}, err
	}
	max, err := dev.IntAttr("max_brightness")
	if err != nil {
		return DeviceInfo{}, err
	}
	devType, _ := dev.Attr("type")

	return DeviceInfo{
		Cur:       cur,
		Max:       max,
		Type:      devType,
		Subsystem: dev.Subsystem,
	}, nil
}

func (e *env) write(dev *Device, value int) error {
	if value < 0 {
		return fmt.Errorf("%w: computed brightness %d is negative", ErrInvalidValue, value)
	}

	writer, err := e.newWriter(dev.Subsystem, dev.Name)
	if err != nil {
		return err
	}
	return writer.SetBrightness(dev.Subsystem, dev.Name, uint32(value))
}

// runSet performs one read-evaluate-write cycle for "set <value>".
func runSet(e *env, target string) error {
	dev, err := e.resolveDevice()
	if err != nil {
		return err
	}
	info, err := readDeviceInfo(dev)
	if err != nil {
		return err
	}

	expr, err := ParseSetExpr(target)
	if err != nil {
		return err
	}
	value, err := EvalSet(expr, info)
	if err != nil {
		return err
	}

	e.logger.Debug("set", "device", dev, "expr", target, "from", info.Cur, "to", value)
	return e.write(dev, value)
}

// runToggle performs one read-evaluate-write cycle for "toggle [value]".
func runToggle(e *env, target string) error {
	dev, err := e.resolveDevice()
	if err != nil {
		return err
	}
	info, err := readDeviceInfo(dev)
	if err != nil {
		return err
	}

	value, err := EvalToggle(target, info)
	if err != nil {
		return err
	}

	e.logger.Debug("toggle", "device", dev, "expr", target, "from", info.Cur, "to", value)
	return e.write(dev, value)
}

// runGet answers "get [value]" on stdout, one line per result.
func runGet(e *env, query string) error {
	var dev *Device
	if e.cfg.Device != "" {
		var err error
		dev, err = selectNamed(e.dir, e.cfg.Device)
		if err != nil {
			return err
		}
	}

	lines, err := EvalQuery(e.dir, dev, query, e.logger)
	if err != nil {
		return err
	}
	for _, line := range lines {
		fmt.Fprintln(e.stdout, line)
	}
	return nil
}
