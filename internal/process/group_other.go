//go:build !unix

package process

import "os/exec"

// killGroupOnCancel keeps the default cancellation, which kills the shell only.
func killGroupOnCancel(*exec.Cmd) {}
