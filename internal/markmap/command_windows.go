//go:build windows

package markmap

import (
	"os/exec"
	"path/filepath"
	"strings"
	"syscall"
)

const createNoWindow = 0x08000000

// hideWindow also takes over command-line construction for cmd.exe, whose
// parser treats & | ^ ( ) < > outside quotes as operators.
func hideWindow(cmd *exec.Cmd) {
	attr := &syscall.SysProcAttr{HideWindow: true, CreationFlags: createNoWindow}
	if len(cmd.Args) > 2 && strings.EqualFold(filepath.Base(cmd.Args[0]), "cmd.exe") && strings.EqualFold(cmd.Args[1], "/c") {
		attr.CmdLine = cmdExeLine(cmd.Args[2:])
	}
	cmd.SysProcAttr = attr
}

// cmdExeLine quotes every operand and wraps the whole command in one more
// pair of quotes, which /s strips again.
func cmdExeLine(args []string) string {
	parts := make([]string, len(args))
	for i, a := range args {
		if strings.HasPrefix(a, "-") {
			parts[i] = a
			continue
		}
		parts[i] = `"` + a + `"`
	}
	return `cmd.exe /s /c "` + strings.Join(parts, " ") + `"`
}

func lookupCommand(command string) (string, []string) {
	return "cmd.exe", []string{"/c", "where", command}
}

// renderCommand goes through the npm-installed .cmd wrapper, which cmd.exe
// has to launch.
func renderCommand(command, out, in string) (string, []string) {
	wrapper := command
	if filepath.Ext(wrapper) == "" {
		wrapper += ".cmd"
	}
	return "cmd.exe", []string{"/c", wrapper, "--offline", "--no-open", "--output", out, in}
}
