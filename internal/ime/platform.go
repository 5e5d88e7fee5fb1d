package ime

import (
	"fmt"
	"strings"
)

// Platform identifies the host operating system of the IME.
type Platform string

// Supported platforms.
const (
	Android Platform = "android"
	IOS     Platform = "ios"
	MacOS   Platform = "macos"
	Windows Platform = "windows"
	Linux   Platform = "linux"
	Web     Platform = "web"
)

var platforms = []Platform{Android, IOS, MacOS, Windows, Linux, Web}

// ParsePlatform resolves a platform name, ignoring case.
func ParsePlatform(name string) (Platform, error) {
	for _, p := range platforms {
		if strings.EqualFold(string(p), name) {
			return p, nil
		}
	}
	return "", fmt.Errorf("%q: %w", name, ErrUnknownPlatform)
}

// NewlineViaDelta reports whether the platform reports the Enter key as an
// inserted "\n" delta. Other platforms send a "\n" delta that must be ignored
// and then report Enter as a "newline" action.
func (p Platform) NewlineViaDelta() bool {
	return p == Android || p == Web
}
