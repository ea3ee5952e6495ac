package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Device is a read-only snapshot of one sysfs class device, identified by
// the (subsystem, name) pair. Attribute reads hit the filesystem directly;
// nothing is cached across reads.
type Device struct {
	Subsystem string
	Name      string

	// path is the resolved device node under <root>/devices (symlinks
	// from /sys/class are followed at enumeration time so parent lookup
	// can walk the devices tree).
	path string
}

// String renders the canonical "subsystem/name" identifier.
func (d *Device) String() string {
	return d.Subsystem + "/" + d.Name
}

// Attr reads a sysfs attribute file and returns its trimmed contents.
func (d *Device) Attr(name string) (string, error) {
	b, err := os.ReadFile(filepath.Join(d.path, name))
	if err != nil {
		return "", fmt.Errorf("read attr %s of %s: %w", name, d, err)
	}
	return strings.TrimSpace(string(b)), nil
}

// IntAttr reads a sysfs attribute file as a base-10 integer.
func (d *Device) IntAttr(name string) (int, error) {
	s, err := d.Attr(name)
	if err != nil {
		return 0, err
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("attr %s of %s is not an integer: %w", name, d, err)
	}
	return v, nil
}

// DeviceDirectory is the device-enumeration collaborator. Implementations
// must keep enumeration order stable within a single call.
type DeviceDirectory interface {
	// BySubsystem lists every device of a subsystem. A subsystem that
	// does not exist on this host enumerates to an empty list, not an
	// error.
	BySubsystem(subsystem string) ([]*Device, error)

	// ByName looks a device up directly by subsystem and name.
	ByName(subsystem, name string) (*Device, error)

	// Parent returns the device's parent node in the devices tree.
	// For a raw backlight this is the DRM connector carrying "enabled".
	Parent(dev *Device) (*Device, error)
}

// SysfsDirectory implements DeviceDirectory on top of a sysfs mount.
// Root is normally "/sys"; tests point it at a fake tree.
type SysfsDirectory struct {
	Root string
}

// NewSysfsDirectory creates a directory rooted at the given sysfs mount.
func NewSysfsDirectory(root string) *SysfsDirectory {
	return &SysfsDirectory{Root: root}
}

func (s *SysfsDirectory) classDir(subsystem string) string {
	return filepath.Join(s.Root, "class", subsystem)
}

// resolve follows the /sys/class symlink to the real device node.
// Fake test trees may use plain directories; those resolve to themselves.
func resolve(link string) (string, error) {
	p, err := filepath.EvalSymlinks(link)
	if err != nil {
		return "", err
	}
	return p, nil
}

func (s *SysfsDirectory) BySubsystem(subsystem string) ([]*Device, error) {
	entries, err := os.ReadDir(s.classDir(subsystem))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("enumerate subsystem %s: %w", subsystem, err)
	}

	devices := make([]*Device, 0, len(entries))
	for _, e := range entries {
		path, err := resolve(filepath.Join(s.classDir(subsystem), e.Name()))
		if err != nil {
			// Dangling symlink; the device vanished mid-enumeration.
			continue
		}
		devices = append(devices, &Device{
			Subsystem: subsystem,
			Name:      e.Name(),
			path:      path,
		})
	}
	return devices, nil
}

func (s *SysfsDirectory) ByName(subsystem, name string) (*Device, error) {
	path, err := resolve(filepath.Join(s.classDir(subsystem), name))
	if err != nil {
		return nil, fmt.Errorf("%w: %s/%s", ErrDeviceNotFound, subsystem, name)
	}
	return &Device{Subsystem: subsystem, Name: name, path: path}, nil
}

// Parent walks one level up the devices tree. The parent's subsystem is
// read from its "subsystem" symlink when present; only its attributes
// matter to callers, so a missing link leaves the field empty.
func (s *SysfsDirectory) Parent(dev *Device) (*Device, error) {
	parentPath := filepath.Dir(dev.path)
	if parentPath == dev.path || parentPath == "/" {
		return nil, fmt.Errorf("device %s has no parent", dev)
	}

	subsystem := ""
	if target, err := resolve(filepath.Join(parentPath, "subsystem")); err == nil {
		subsystem = filepath.Base(target)
	}

	return &Device{
		Subsystem: subsystem,
		Name:      filepath.Base(parentPath),
		path:      parentPath,
	}, nil
}
