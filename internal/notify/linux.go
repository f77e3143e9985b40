//go:build linux

package notify

func newPlatformNotifier() Notifier {
	return &execNotifier{bin: "notify-send", args: notifySendArgs}
}
