package notify

import (
	"github.com/lawnchairsociety/wavecrawler/internal/logger"
	"github.com/lawnchairsociety/wavecrawler/internal/wave"
)

// LogNotifier writes wave messages to the game log.
type LogNotifier struct{}

func (LogNotifier) WaveDisplayChanged(level int, boss bool) {
	logger.Info(WaveText(level, boss), "level", level, "boss", boss)
}

func (LogNotifier) HostileCountChanged(count int) {
	logger.Debug(HostilesText(count), "count", count)
}

func (LogNotifier) ClearedMessage(boss bool) {
	logger.Info(ClearedText(boss), "boss", boss)
}

func (LogNotifier) PortalSearchMessage() {
	logger.Info(PortalText())
}

// Multi fans every message out to each notifier in order.
type Multi []wave.Notifier

func (m Multi) WaveDisplayChanged(level int, boss bool) {
	for _, n := range m {
		n.WaveDisplayChanged(level, boss)
	}
}

func (m Multi) HostileCountChanged(count int) {
	for _, n := range m {
		n.HostileCountChanged(count)
	}
}

func (m Multi) ClearedMessage(boss bool) {
	for _, n := range m {
		n.ClearedMessage(boss)
	}
}

func (m Multi) PortalSearchMessage() {
	for _, n := range m {
		n.PortalSearchMessage()
	}
}

var (
	_ wave.Notifier = LogNotifier{}
	_ wave.Notifier = Multi(nil)
	_ wave.Notifier = (*Hub)(nil)
)
