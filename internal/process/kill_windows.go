//go:build windows

package process

import (
	"os/exec"
	"strconv"
)

// KillProcessGroup terminates pid and its child tree via taskkill
// (/F force, /T tree). Best effort: the error is discarded because the
// processes may already be gone.
func KillProcessGroup(pid int) {
	_ = exec.Command("taskkill", "/F", "/T", "/PID", strconv.Itoa(pid)).Run()
}
