package notify

import (
	"fmt"
	"os/exec"
	"strings"
)

// execNotifier shells out to a platform notification tool.
type execNotifier struct {
	bin  string
	args func(title, message string, sound bool) []string
}

func (n *execNotifier) Send(title, message string) error {
	return n.run(title, message, false)
}

func (n *execNotifier) SendWithSound(title, message string) error {
	return n.run(title, message, true)
}

// IsSupported returns true if the tool is on PATH.
func (n *execNotifier) IsSupported() bool {
	_, err := exec.LookPath(n.bin)
	return err == nil
}

func (n *execNotifier) run(title, message string, sound bool) error {
	cmd := exec.Command(n.bin, n.args(title, message, sound)...)
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s failed: %w", n.bin, err)
	}
	return nil
}

// notifySendArgs builds the notify-send command line. Whether sound plays
// depends on the notification daemon.
func notifySendArgs(title, message string, sound bool) []string {
	args := []string{"--app-name=habitstreak"}
	if sound {
		args = append(args, "--urgency=normal")
	}
	return append(args, title, message)
}

// osascriptArgs builds the AppleScript used on macOS.
func osascriptArgs(title, message string, sound bool) []string {
	script := fmt.Sprintf(`display notification "%s" with title "%s"`,
		escapeAppleScript(message), escapeAppleScript(title))
	if sound {
		script += ` sound name "default"`
	}
	return []string{"-e", script}
}

// escapeAppleScript escapes special characters for AppleScript strings.
func escapeAppleScript(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "\"", "\\\"")
	return s
}
