// Package arch maps (OS, CPU family) pairs to compatibility rankings.
// Feeds and implementations are tagged with the architecture they target;
// the rank tables decide which tags the host can run at all, and which it
// prefers. Lower ranks are better. An empty tag means "any" and is always
// acceptable.
package arch

import "runtime"

// SourceMachine is the pseudo machine tag for source code. It never appears
// in a binary ranking table; selecting source requires the SourceOnly
// wrapper.
const SourceMachine = "src"

// Ranks maps an architecture tag to its preference rank. Absence from the
// table means the tag is incompatible with the host.
type Ranks map[string]int

// Supports reports whether tag is compatible under this ranking.
func (r Ranks) Supports(tag string) bool {
	_, ok := r[tag]
	return ok
}

// Rank returns the preference rank for tag, and whether it is supported.
func (r Ranks) Rank(tag string) (int, bool) {
	rank, ok := r[tag]
	return rank, ok
}

// Architecture pairs the OS and machine rankings used to filter and order
// candidate feeds and implementations.
type Architecture struct {
	OSRanks      Ranks
	MachineRanks Ranks
}

// SourceOnly returns a copy of the architecture whose machine ranking
// accepts only source code. Used when the resolution root must itself be
// source while its dependencies may still be binary.
func (a Architecture) SourceOnly() Architecture {
	return Architecture{
		OSRanks:      a.OSRanks,
		MachineRanks: Ranks{SourceMachine: 1},
	}
}

// Host returns the architecture of the running system.
func Host() Architecture {
	return Architecture{
		OSRanks:      OSRanks(runtime.GOOS),
		MachineRanks: MachineRanks(runtime.GOARCH),
	}
}

// OSRanks returns the OS ranking table for the given GOOS value. The host's
// native tag ranks best; compatibility layers rank behind it.
func OSRanks(goos string) Ranks {
	ranks := Ranks{"": 1}
	switch goos {
	case "linux":
		ranks["Linux"] = 2
	case "darwin":
		ranks["Darwin"] = 2
		ranks["MacOSX"] = 3
	case "windows":
		ranks["Windows"] = 2
		ranks["Cygwin"] = 3
	case "freebsd":
		ranks["FreeBSD"] = 2
	default:
		ranks[goos] = 2
	}
	if goos != "windows" {
		ranks["POSIX"] = len(ranks) + 1
	}
	return ranks
}

// MachineRanks returns the CPU ranking table for the given GOARCH value.
// Narrower instruction sets the host can still execute rank behind the
// native one. Source is deliberately absent; see SourceOnly.
func MachineRanks(goarch string) Ranks {
	ranks := Ranks{"": 1}
	switch goarch {
	case "amd64":
		ranks["x86_64"] = 2
		ranks["i686"] = 3
		ranks["i586"] = 4
		ranks["i486"] = 5
		ranks["i386"] = 6
	case "386":
		ranks["i686"] = 2
		ranks["i586"] = 3
		ranks["i486"] = 4
		ranks["i386"] = 5
	case "arm64":
		ranks["aarch64"] = 2
		ranks["armv7l"] = 3
		ranks["armv6l"] = 4
	case "arm":
		ranks["armv7l"] = 2
		ranks["armv6l"] = 3
	default:
		ranks[goarch] = 2
	}
	return ranks
}
