package main

import (
	"fmt"
	"log/slog"
	"strings"
)

// selectNamed resolves an explicit device identifier: either "name" (the
// backlight subsystem is implied) or "subsystem/name".
func selectNamed(dir DeviceDirectory, identifier string) (*Device, error) {
	subsystem, name := "backlight", identifier
	if strings.Contains(identifier, "/") {
		parts := strings.Split(identifier, "/")
		if len(parts) != 2 {
			return nil, fmt.Errorf("%w: invalid device name %q", ErrDeviceNotFound, identifier)
		}
		subsystem, name = parts[0], parts[1]
	}

	dev, err := dir.ByName(subsystem, name)
	if err != nil {
		return nil, fmt.Errorf("no such device %q: %w", identifier, ErrDeviceNotFound)
	}
	return dev, nil
}

// selectDefault picks the default backlight device with a three-pass
// priority scan over a single enumeration:
//
//  1. firmware devices
//  2. platform devices
//  3. raw devices whose parent DRM connector reports "enabled"
//
// A lower tier is only considered when every higher tier came up empty.
func selectDefault(dir DeviceDirectory, logger *slog.Logger) (*Device, error) {
	devices, err := dir.BySubsystem("backlight")
	if err != nil {
		return nil, err
	}

	// Prefer firmware
	for _, dev := range devices {
		if t, err := dev.Attr("type"); err == nil && t == "firmware" {
			logger.Debug("selected firmware backlight", "device", dev)
			return dev, nil
		}
	}

	// ... then platform
	for _, dev := range devices {
		if t, err := dev.Attr("type"); err == nil && t == "platform" {
			logger.Debug("selected platform backlight", "device", dev)
			return dev, nil
		}
	}

	// ... then raw under enabled drm-connectors
	for _, dev := range devices {
		if t, err := dev.Attr("type"); err != nil || t != "raw" {
			continue
		}
		parent, err := dir.Parent(dev)
		if err != nil {
			continue
		}
		enabled, err := parent.Attr("enabled")
		if err != nil {
			continue
		}
		if enabled == "enabled" {
			logger.Debug("selected raw backlight", "device", dev, "connector", parent.Name)
			return dev, nil
		}
	}

	return nil, ErrNoSuitableDevice
}
