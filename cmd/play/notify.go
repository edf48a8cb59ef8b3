package play

import (
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gen2brain/beeep"
	"github.com/karaniscooked/music-player/cmd/play/metadata"
)

type notifier interface {
	Notify(title, body string) error
}

// desktopNotifier shows "now playing" popups through the OS notification
// service.
type desktopNotifier struct{}

func (desktopNotifier) Notify(title, body string) error {
	return beeep.Notify(title, body, "")
}

// notifyCmd announces a track. Failures only get logged.
func notifyCmd(n notifier, md metadata.Metadata) tea.Cmd {
	return func() tea.Msg {
		if err := n.Notify("Now playing: "+md.Title, md.Artist); err != nil {
			slog.Debug("notification failed", "error", err)
		}
		return nil
	}
}
