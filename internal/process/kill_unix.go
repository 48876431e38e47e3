//go:build !windows

package process

import "syscall"

// KillProcessGroup sends SIGKILL to pid's whole process group. Chrome forks
// renderer and GPU helpers that can survive a graceful browser close; killing
// the group (negative pid) sweeps them up too. Best effort: the error is
// discarded because the group may already be gone.
func KillProcessGroup(pid int) {
	_ = syscall.Kill(-pid, syscall.SIGKILL)
}
