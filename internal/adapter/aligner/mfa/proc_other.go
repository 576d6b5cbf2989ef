//go:build !unix

package mfa

import "os/exec"

func configureProcessGroup(cmd *exec.Cmd) {}
