package main

import (
	"flag"
	"fmt"
	"os"
)

const version = "1.0.0"

func printVersion() {
	fmt.Printf("blight v%s\n", version)
	fmt.Println("Backlight and LED brightness control")
}

func printUsage() {
	printVersion()
	fmt.Println()
	fmt.Println("USAGE:")
	fmt.Println("  blight [OPTIONS] set <value>")
	fmt.Println("  blight [OPTIONS] get [value]")
	fmt.Println("  blight [OPTIONS] toggle [value]")
	fmt.Println()
	fmt.Println("DESCRIPTION:")
	fmt.Println("  Adjusts the brightness of a backlight or LED class device. Without")
	fmt.Println("  -device, a suitable backlight is picked automatically (firmware,")
	fmt.Println("  then platform, then raw devices on enabled display connectors).")
	fmt.Println("  Writes go through the logind session service, so no root is needed")
	fmt.Println("  from an active seat.")
	fmt.Println()
	fmt.Println("OPTIONS:")
	fmt.Println("  -d, -device string")
	fmt.Println("        Device to control, as \"name\" (backlight subsystem implied)")
	fmt.Println("        or \"subsystem/name\" (e.g. \"leds/input3::capslock\")")
	fmt.Println()
	fmt.Println("  -config string")
	fmt.Println("        Config file path (default \"~/.config/blight/config.yaml\";")
	fmt.Println("        a missing default file is fine)")
	fmt.Println()
	fmt.Println("  -writer string")
	fmt.Println("        How to perform the write: auto, logind, sysfs (default \"auto\")")
	fmt.Println()
	fmt.Println("  -log-level string")
	fmt.Println("        Log level: error, warn, info, debug (default \"info\")")
	fmt.Println()
	fmt.Println("  -version")
	fmt.Println("        Print version and exit")
	fmt.Println()
	fmt.Println("  -help")
	fmt.Println("        Print this help message")
	fmt.Println()
	fmt.Println("SET VALUES:")
	fmt.Println("  70        Set to 70")
	fmt.Println("  70%       Set to 70% of the device maximum")
	fmt.Println("  +10 -10%  Adjust relative to the current level")
	fmt.Println("  x1.5 /1.5 Multiply or divide the current level")
	fmt.Println("  +/10 -/10 Step along a 10-division linear grid")
	fmt.Println("  +//8 -//8 Step along an 8-step logarithmic scale")
	fmt.Println()
	fmt.Println("GET VALUES:")
	fmt.Println("  brightness, max-brightness, default-device, help")
	fmt.Println("  (no value reads the current brightness)")
	fmt.Println()
	fmt.Println("TOGGLE VALUES:")
	fmt.Println("  (none)    Cycle to the next level, wrapping to 0 past the maximum")
	fmt.Println("  +N, -N    Shift by N with the same wraparound")
	fmt.Println("  N         Set to N, or to 0 when the device already shows N")
	fmt.Println()
	fmt.Println("EXAMPLES:")
	fmt.Println("  # Dim the default backlight one perceptual step")
	fmt.Println("  blight set -//8")
	fmt.Println()
	fmt.Println("  # Half brightness on a named device")
	fmt.Println("  blight -d intel_backlight set 50%")
	fmt.Println()
	fmt.Println("  # Blink the caps-lock LED")
	fmt.Println("  blight -d leds/input3::capslock toggle 1")
	fmt.Println()
	fmt.Println("NOTES:")
	fmt.Println("  - Options must come before the subcommand; that is also what makes")
	fmt.Println("    negative values like \"set -10\" work without escaping")
	fmt.Println("  - Writing directly to sysfs (writer mode sysfs, or auto as root)")
	fmt.Println("    bypasses logind's session checks")
	fmt.Println()
}

func main() {
	// Check for help/version flags early, before flag parsing can trip
	// over a malformed command line.
	for _, arg := range os.Args[1:] {
		if arg == "-version" || arg == "--version" {
			printVersion()
			return
		}
		if arg == "-help" || arg == "--help" || arg == "-h" {
			printUsage()
			return
		}
		if arg == "set" || arg == "get" || arg == "toggle" {
			break
		}
	}

	var (
		deviceFlag  string
		configPath  = flag.String("config", "", "Config file path")
		writerMode  = flag.String("writer", "", "Writer mode: auto, logind, sysfs")
		logLevelStr = flag.String("log-level", "", "Log level: error, warn, info, debug")
		showVersion = flag.Bool("version", false, "Print version and exit")
		showHelp    = flag.Bool("help", false, "Print help message")
	)
	flag.StringVar(&deviceFlag, "d", "", "Device to control (\"name\" or \"subsystem/name\")")
	flag.StringVar(&deviceFlag, "device", "", "Device to control (\"name\" or \"subsystem/name\")")

	flag.Usage = printUsage
	flag.Parse()

	if *showHelp {
		printUsage()
		return
	}
	if *showVersion {
		printVersion()
		return
	}

	// Load config: an explicit -config must exist, the default path is
	// optional.
	var cfg Config
	if *configPath != "" {
		var err error
		cfg, err = LoadConfigFile(*configPath)
		if err != nil {
			die(err)
		}
	} else if _, err := os.Stat(DefaultConfigPath()); err == nil {
		cfg, err = LoadConfigFile(DefaultConfigPath())
		if err != nil {
			die(err)
		}
	} else {
		cfg = DefaultConfig()
	}

	overrides := FlagOverrides{}
	if deviceFlag != "" {
		overrides.Device = &deviceFlag
	}
	if *writerMode != "" {
		overrides.WriterMode = writerMode
	}
	if *logLevelStr != "" {
		overrides.LogLevel = logLevelStr
	}
	overrides.Apply(&cfg)

	if err := cfg.Validate(); err != nil {
		die(err)
	}

	logLevel, err := parseLogLevel(cfg.Logging.Level)
	if err != nil {
		die(err)
	}
	logger := setupLogger(logLevel)

	e := &env{
		dir:    NewSysfsDirectory(cfg.Sysfs.Root),
		cfg:    cfg,
		logger: logger,
		stdout: os.Stdout,
		newWriter: func(subsystem, name string) (BrightnessWriter, error) {
			return pickWriter(cfg.Writer.Mode, cfg.Sysfs.Root, subsystem, name, writable, logger)
		},
	}

	args := flag.Args()
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "blight: missing command (set, get, or toggle)")
		printUsage()
		os.Exit(1)
	}

	switch args[0] {
	case "set":
		if len(args) < 2 {
			die(fmt.Errorf("set requires a brightness value"))
		}
		err = runSet(e, args[1])

	case "toggle":
		target := ""
		if len(args) > 1 {
			target = args[1]
		}
		err = runToggle(e, target)

	case "get":
		query := ""
		if len(args) > 1 {
			query = args[1]
		}
		err = runGet(e, query)

	default:
		fmt.Fprintf(os.Stderr, "blight: unknown command: %s\n", args[0])
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		die(err)
	}
}

func die(err error) {
	fmt.Fprintf(os.Stderr, "blight: %v\n", err)
	os.Exit(1)
}
