package main

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeSysfs builds sysfs trees under a temp dir, mirroring the real layout:
// device nodes live under devices/, class/<subsystem>/<name> symlinks to them.
type fakeSysfs struct {
	t    *testing.T
	root string
}

func newFakeSysfs(t *testing.T) *fakeSysfs {
	t.Helper()
	return &fakeSysfs{t: t, root: t.TempDir()}
}

// addDevice creates a device node at devices/<nodePath> with the given
// attribute files and links it into class/<subsystem>/<name>.
func (f *fakeSysfs) addDevice(subsystem, name, nodePath string, attrs map[string]string) {
	f.t.Helper()

	node := filepath.Join(f.root, "devices", nodePath)
	if err := os.MkdirAll(node, 0o755); err != nil {
		f.t.Fatal(err)
	}
	for attr, value := range attrs {
		if err := os.WriteFile(filepath.Join(node, attr), []byte(value+"\n"), 0o644); err != nil {
			f.t.Fatal(err)
		}
	}

	classDir := filepath.Join(f.root, "class", subsystem)
	if err := os.MkdirAll(classDir, 0o755); err != nil {
		f.t.Fatal(err)
	}
	if err := os.Symlink(node, filepath.Join(classDir, name)); err != nil {
		f.t.Fatal(err)
	}
}

// setAttr writes an attribute on an existing node (e.g. a parent dir).
func (f *fakeSysfs) setAttr(nodePath, attr, value string) {
	f.t.Helper()
	path := filepath.Join(f.root, "devices", nodePath)
	if err := os.MkdirAll(path, 0o755); err != nil {
		f.t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(path, attr), []byte(value+"\n"), 0o644); err != nil {
		f.t.Fatal(err)
	}
}

func (f *fakeSysfs) dir() *SysfsDirectory {
	return NewSysfsDirectory(f.root)
}

func TestSelectDefault_FirmwareWins(t *testing.T) {
	fs := newFakeSysfs(t)
	fs.setAttr("pci0/drm/card0/card0-eDP-1", "enabled", "enabled")
	fs.addDevice("backlight", "intel_backlight", "pci0/drm/card0/card0-eDP-1/intel_backlight",
		map[string]string{"type": "raw", "brightness": "200", "max_brightness": "937"})
	fs.addDevice("backlight", "thinkpad_screen", "platform/thinkpad_acpi/backlight/thinkpad_screen",
		map[string]string{"type": "platform", "brightness": "5", "max_brightness": "15"})
	fs.addDevice("backlight", "acpi_video0", "pci0/acpi_video/backlight/acpi_video0",
		map[string]string{"type": "firmware", "brightness": "50", "max_brightness": "100"})

	dev, err := selectDefault(fs.dir(), discardLogger())
	if err != nil {
		t.Fatalf("selectDefault: %v", err)
	}
	if dev.Name != "acpi_video0" {
		t.Errorf("selected %s, want acpi_video0", dev.Name)
	}
}

func TestSelectDefault_PlatformBeatsRaw(t *testing.T) {
	fs := newFakeSysfs(t)
	fs.setAttr("pci0/drm/card0/card0-eDP-1", "enabled", "enabled")
	fs.addDevice("backlight", "intel_backlight", "pci0/drm/card0/card0-eDP-1/intel_backlight",
		map[string]string{"type": "raw", "brightness": "200", "max_brightness": "937"})
	fs.addDevice("backlight", "thinkpad_screen", "platform/thinkpad_acpi/backlight/thinkpad_screen",
		map[string]string{"type": "platform", "brightness": "5", "max_brightness": "15"})

	dev, err := selectDefault(fs.dir(), discardLogger())
	if err != nil {
		t.Fatalf("selectDefault: %v", err)
	}
	if dev.Name != "thinkpad_screen" {
		t.Errorf("selected %s, want thinkpad_screen", dev.Name)
	}
}

func TestSelectDefault_RawNeedsEnabledConnector(t *testing.T) {
	fs := newFakeSysfs(t)
	fs.setAttr("pci0/drm/card0/card0-eDP-1", "enabled", "enabled")
	fs.addDevice("backlight", "intel_backlight", "pci0/drm/card0/card0-eDP-1/intel_backlight",
		map[string]string{"type": "raw", "brightness": "200", "max_brightness": "937"})

	dev, err := selectDefault(fs.dir(), discardLogger())
	if err != nil {
		t.Fatalf("selectDefault: %v", err)
	}
	if dev.Name != "intel_backlight" {
		t.Errorf("selected %s, want intel_backlight", dev.Name)
	}
}

func TestSelectDefault_DisabledConnectorNeverChosen(t *testing.T) {
	fs := newFakeSysfs(t)
	fs.setAttr("pci0/drm/card0/card0-DP-2", "enabled", "disabled")
	fs.addDevice("backlight", "ddc_backlight", "pci0/drm/card0/card0-DP-2/ddc_backlight",
		map[string]string{"type": "raw", "brightness": "10", "max_brightness": "100"})

	_, err := selectDefault(fs.dir(), discardLogger())
	if !errors.Is(err, ErrNoSuitableDevice) {
		t.Errorf("expected ErrNoSuitableDevice, got %v", err)
	}
}

func TestSelectDefault_NoDevices(t *testing.T) {
	fs := newFakeSysfs(t)

	_, err := selectDefault(fs.dir(), discardLogger())
	if !errors.Is(err, ErrNoSuitableDevice) {
		t.Errorf("expected ErrNoSuitableDevice, got %v", err)
	}
}

// A device without a readable type attribute never matches any tier.
func TestSelectDefault_MissingTypeSkipped(t *testing.T) {
	fs := newFakeSysfs(t)
	fs.addDevice("backlight", "odd_backlight", "platform/odd/backlight/odd_backlight",
		map[string]string{"brightness": "10", "max_brightness": "100"})
	fs.addDevice("backlight", "thinkpad_screen", "platform/thinkpad_acpi/backlight/thinkpad_screen",
		map[string]string{"type": "platform", "brightness": "5", "max_brightness": "15"})

	dev, err := selectDefault(fs.dir(), discardLogger())
	if err != nil {
		t.Fatalf("selectDefault: %v", err)
	}
	if dev.Name != "thinkpad_screen" {
		t.Errorf("selected %s, want thinkpad_screen", dev.Name)
	}
}

func TestSelectNamed(t *testing.T) {
	fs := newFakeSysfs(t)
	fs.addDevice("backlight", "intel_backlight", "pci0/drm/card0/card0-eDP-1/intel_backlight",
		map[string]string{"type": "raw", "brightness": "200", "max_brightness": "937"})
	fs.addDevice("leds", "input3::capslock", "platform/i8042/input/input3/input3::capslock",
		map[string]string{"brightness": "0", "max_brightness": "1"})

	tests := []struct {
		identifier    string
		wantSubsystem string
		wantName      string
	}{
		{"intel_backlight", "backlight", "intel_backlight"},
		{"backlight/intel_backlight", "backlight", "intel_backlight"},
		{"leds/input3::capslock", "leds", "input3::capslock"},
	}

	for _, tt := range tests {
		t.Run(tt.identifier, func(t *testing.T) {
			dev, err := selectNamed(fs.dir(), tt.identifier)
			if err != nil {
				t.Fatalf("selectNamed(%q): %v", tt.identifier, err)
			}
			if dev.Subsystem != tt.wantSubsystem || dev.Name != tt.wantName {
				t.Errorf("selectNamed(%q) = %s, want %s/%s",
					tt.identifier, dev, tt.wantSubsystem, tt.wantName)
			}
		})
	}
}

func TestSelectNamed_Errors(t *testing.T) {
	fs := newFakeSysfs(t)
	fs.addDevice("backlight", "intel_backlight", "pci0/drm/card0/card0-eDP-1/intel_backlight",
		map[string]string{"type": "raw"})

	for _, identifier := range []string{
		"nope",
		"leds/nope",
		"a/b/c", // more than one separator
	} {
		if _, err := selectNamed(fs.dir(), identifier); !errors.Is(err, ErrDeviceNotFound) {
			t.Errorf("selectNamed(%q): expected ErrDeviceNotFound, got %v", identifier, err)
		}
	}
}

func TestSysfsDirectory_Attrs(t *testing.T) {
	fs := newFakeSysfs(t)
	fs.addDevice("backlight", "intel_backlight", "pci0/drm/card0/card0-eDP-1/intel_backlight",
		map[string]string{"type": "raw", "brightness": "200", "max_brightness": "937"})

	dev, err := fs.dir().ByName("backlight", "intel_backlight")
	if err != nil {
		t.Fatalf("ByName: %v", err)
	}

	if got, _ := dev.Attr("type"); got != "raw" {
		t.Errorf("Attr(type) = %q, want raw", got)
	}
	if got, err := dev.IntAttr("max_brightness"); err != nil || got != 937 {
		t.Errorf("IntAttr(max_brightness) = %d, %v; want 937", got, err)
	}
	if _, err := dev.Attr("missing"); err == nil {
		t.Error("Attr(missing): expected error")
	}
	if got := dev.String(); got != "backlight/intel_backlight" {
		t.Errorf("String() = %q", got)
	}
}

func TestSysfsDirectory_Parent(t *testing.T) {
	fs := newFakeSysfs(t)
	fs.setAttr("pci0/drm/card0/card0-eDP-1", "enabled", "enabled")
	fs.addDevice("backlight", "intel_backlight", "pci0/drm/card0/card0-eDP-1/intel_backlight",
		map[string]string{"type": "raw"})

	dev, err := fs.dir().ByName("backlight", "intel_backlight")
	if err != nil {
		t.Fatalf("ByName: %v", err)
	}

	parent, err := fs.dir().Parent(dev)
	if err != nil {
		t.Fatalf("Parent: %v", err)
	}
	if parent.Name != "card0-eDP-1" {
		t.Errorf("parent name = %q, want card0-eDP-1", parent.Name)
	}
	if got, _ := parent.Attr("enabled"); got != "enabled" {
		t.Errorf("parent enabled = %q", got)
	}
}

func TestSysfsDirectory_MissingSubsystemIsEmpty(t *testing.T) {
	fs := newFakeSysfs(t)

	devices, err := fs.dir().BySubsystem("backlight")
	if err != nil {
		t.Fatalf("BySubsystem: %v", err)
	}
	if len(devices) != 0 {
		t.Errorf("expected empty enumeration, got %d devices", len(devices))
	}
}
