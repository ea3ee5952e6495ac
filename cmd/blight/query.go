package main

import (
	"fmt"
	"log/slog"
)

// queryNames lists the recognized "get" arguments, in the order "get help"
// prints them.
var queryNames = []string{"default-device", "brightness", "max-brightness"}

// EvalQuery answers a "get" invocation. dev may be nil, in which case the
// default-device heuristic runs on demand. The result is one line per
// output value ("help" is the only multi-line query).
func EvalQuery(dir DeviceDirectory, dev *Device, query string, logger *slog.Logger) ([]string, error) {
	switch query {
	case "default-device":
		// Always reports the heuristic winner, even when a device was
		// named explicitly.
		def, err := selectDefault(dir, logger)
		if err != nil {
			return nil, err
		}
		return []string{def.String()}, nil

	case "help":
		return queryNames, nil
	}

	if dev == nil {
		var err error
		dev, err = selectDefault(dir, logger)
		if err != nil {
			return nil, err
		}
	}

	switch query {
	case "", "brightness":
		v, err := dev.Attr("brightness")
		if err != nil {
			return nil, err
		}
		return []string{v}, nil

	case "max-brightness":
		v, err := dev.Attr("max_brightness")
		if err != nil {
			return nil, err
		}
		return []string{v}, nil
	}

	return nil, fmt.Errorf("%w: %q", ErrUnknownQuery, query)
}
