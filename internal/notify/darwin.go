//go:build darwin

package notify

func newPlatformNotifier() Notifier {
	return &execNotifier{bin: "osascript", args: osascriptArgs}
}
