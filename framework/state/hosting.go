package state

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
)

// HostMode selects how state containers are shared.
type HostMode int

const (
	// HostAuto detects the mode from the running platform.
	HostAuto HostMode = iota
	// HostBrowser is a single-process WebAssembly host: one container per process.
	HostBrowser
	// HostServer serves many clients: one container per request scope.
	HostServer
)

// ErrUnknownHostMode is returned by ParseHostMode.
var ErrUnknownHostMode = errors.New("state: unknown host mode")

// RunningInBrowser reports whether the binary was compiled for js/wasm.
func RunningInBrowser() bool {
	return runtime.GOOS == "js"
}

// IsBrowser resolves HostAuto against the running platform.
func (m HostMode) IsBrowser() bool {
	switch m {
	case HostBrowser:
		return true
	case HostServer:
		return false
	default:
		return RunningInBrowser()
	}
}

func (m HostMode) String() string {
	switch m {
	case HostBrowser:
		return "browser"
	case HostServer:
		return "server"
	default:
		return "auto"
	}
}

// ParseHostMode parses "auto", "browser" or "server" (case-insensitive).
// An empty string means HostAuto.
func ParseHostMode(s string) (HostMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return HostAuto, nil
	case "browser", "wasm":
		return HostBrowser, nil
	case "server":
		return HostServer, nil
	default:
		return HostAuto, fmt.Errorf("%w: %q", ErrUnknownHostMode, s)
	}
}
