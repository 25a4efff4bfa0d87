//go:build !windows

package markmap

import "os/exec"

func hideWindow(*exec.Cmd) {}

// lookupCommand resolves command through the POSIX shell builtin. The name is
// passed as a positional parameter so it is never parsed by the shell.
func lookupCommand(command string) (string, []string) {
	return "sh", []string{"-c", `command -v -- "$1"`, "sh", command}
}

func renderCommand(command, out, in string) (string, []string) {
	return command, []string{"--offline", "--no-open", "--output", out, in}
}
