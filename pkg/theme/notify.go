package theme

import (
	"github.com/godbus/dbus/v5"
	"github.com/rs/zerolog"

	"github.com/arthur-debert/dotlink/pkg/logging"
)

// Notifier posts desktop notifications about palette changes.
type Notifier interface {
	Notify(summary, body string)
}

// NoopNotifier discards notifications.
type NoopNotifier struct{}

func (NoopNotifier) Notify(string, string) {}

// DesktopNotifier posts to org.freedesktop.Notifications on the session
// bus. Bus problems are logged at debug and otherwise ignored; reloads
// never depend on a notification daemon being present.
type DesktopNotifier struct {
	logger zerolog.Logger
}

// NewDesktopNotifier creates a session-bus notifier.
func NewDesktopNotifier() *DesktopNotifier {
	return &DesktopNotifier{logger: logging.GetLogger("theme.notify")}
}

func (n *DesktopNotifier) Notify(summary, body string) {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		n.logger.Debug().Err(err).Msg("Failed to connect to session bus")
		return
	}
	defer conn.Close()

	obj := conn.Object("org.freedesktop.Notifications", "/org/freedesktop/Notifications")
	call := obj.Call("org.freedesktop.Notifications.Notify", 0,
		"dotlink",
		uint32(0), // no prior notification to replace
		"preferences-desktop-theme",
		summary,
		body,
		[]string{},
		map[string]dbus.Variant{},
		int32(5000), // expire after 5s
	)
	if call.Err != nil {
		n.logger.Debug().Err(call.Err).Msg("Notification call failed")
	}
}
