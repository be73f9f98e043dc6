package fsutil

import (
	"fmt"
	"runtime"
	"strings"
)

// Platform identifies which filesystem-legality rules apply to a
// proposed name. Tests exercise both variants regardless of the host
// OS; cmd/rebatch picks CurrentPlatform() at runtime.
type Platform string

const (
	PlatformPOSIX   Platform = "posix"
	PlatformWindows Platform = "windows"
)

// CurrentPlatform returns the Platform matching runtime.GOOS.
func CurrentPlatform() Platform {
	if runtime.GOOS == "windows" {
		return PlatformWindows
	}
	return PlatformPOSIX
}

var windowsReservedNames = map[string]bool{
	"CON": true, "PRN": true, "AUX": true, "NUL": true,
	"COM1": true, "COM2": true, "COM3": true, "COM4": true, "COM5": true,
	"COM6": true, "COM7": true, "COM8": true, "COM9": true,
	"LPT1": true, "LPT2": true, "LPT3": true, "LPT4": true, "LPT5": true,
	"LPT6": true, "LPT7": true, "LPT8": true, "LPT9": true,
}

const windowsForbiddenChars = `<>:"/\|?*`

// MaxNameBytes is the length limit (in UTF-8 bytes) a proposed base
// name + extension must not exceed, per spec §4.4 / §6.
const MaxNameBytes = 255

// ValidateName checks a proposed base name (without extension) against
// the filesystem-legality rules for p, returning a non-empty reason
// string (e.g. "empty", "reserved_device_name", "illegal_char:?",
// "leading_or_trailing_whitespace", "length") when illegal, or "" when
// the name is legal.
func ValidateName(name string, p Platform) string {
	if name == "" {
		return "empty"
	}
	if name != strings.TrimSpace(name) || strings.HasPrefix(name, " ") || strings.HasSuffix(name, " ") {
		return "leading_or_trailing_whitespace"
	}
	trimmedDots := strings.Trim(name, ".")
	if trimmedDots != name {
		return "leading_or_trailing_dot"
	}
	if len(name) > MaxNameBytes {
		return "length"
	}
	if p == PlatformWindows {
		if windowsReservedNames[strings.ToUpper(name)] {
			return "reserved_device_name"
		}
		for _, c := range windowsForbiddenChars {
			if strings.ContainsRune(name, c) {
				return fmt.Sprintf("illegal_char:%c", c)
			}
		}
	} else {
		if strings.ContainsRune(name, '/') {
			return "illegal_char:/"
		}
		if strings.ContainsRune(name, 0) {
			return "illegal_char:\\x00"
		}
	}
	return ""
}
