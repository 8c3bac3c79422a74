package arch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOSRanks(t *testing.T) {
	linux := OSRanks("linux")
	assert.True(t, linux.Supports(""))
	assert.True(t, linux.Supports("Linux"))
	assert.True(t, linux.Supports("POSIX"))
	assert.False(t, linux.Supports("Darwin"))

	rank, ok := linux.Rank("Linux")
	require.True(t, ok)
	native, _ := linux.Rank("")
	posix, _ := linux.Rank("POSIX")
	assert.Less(t, native, rank)
	assert.Less(t, rank, posix)

	windows := OSRanks("windows")
	assert.True(t, windows.Supports("Windows"))
	assert.True(t, windows.Supports("Cygwin"))
	assert.False(t, windows.Supports("POSIX"))
}

func TestMachineRanks(t *testing.T) {
	amd64 := MachineRanks("amd64")
	assert.True(t, amd64.Supports("x86_64"))
	assert.True(t, amd64.Supports("i386"))
	assert.False(t, amd64.Supports("aarch64"))
	assert.False(t, amd64.Supports(SourceMachine))

	// Narrower instruction sets rank behind the native one.
	native, _ := amd64.Rank("x86_64")
	legacy, _ := amd64.Rank("i686")
	assert.Less(t, native, legacy)

	arm := MachineRanks("arm64")
	assert.True(t, arm.Supports("aarch64"))
	assert.True(t, arm.Supports("armv7l"))
	assert.False(t, arm.Supports("x86_64"))
}

func TestSourceOnly(t *testing.T) {
	host := Architecture{
		OSRanks:      OSRanks("linux"),
		MachineRanks: MachineRanks("amd64"),
	}
	src := host.SourceOnly()

	assert.True(t, src.MachineRanks.Supports(SourceMachine))
	assert.False(t, src.MachineRanks.Supports("x86_64"))
	// The OS ranking is untouched.
	assert.True(t, src.OSRanks.Supports("Linux"))
	// The original is not mutated.
	assert.False(t, host.MachineRanks.Supports(SourceMachine))
}

func TestHost(t *testing.T) {
	h := Host()
	assert.True(t, h.OSRanks.Supports(""))
	assert.True(t, h.MachineRanks.Supports(""))
}
