package notify

import (
	"fmt"
	"time"
)

// MessageType tags a spectator message.
type MessageType string

const (
	TypeWave     MessageType = "wave"
	TypeHostiles MessageType = "hostiles"
	TypeCleared  MessageType = "cleared"
	TypePortal   MessageType = "portal"
)

// Message is the JSON frame pushed to spectators.
type Message struct {
	Type  MessageType `json:"type"`
	Level int         `json:"level,omitempty"`
	Boss  bool        `json:"boss,omitempty"`
	Count int         `json:"count"`
	Text  string      `json:"text"`
	At    time.Time   `json:"at"`
}

func WaveText(level int, boss bool) string {
	if boss {
		return fmt.Sprintf("BOSS WAVE %d", level)
	}
	return fmt.Sprintf("Wave %d", level)
}

func HostilesText(count int) string {
	return fmt.Sprintf("Enemies: %d", count)
}

func ClearedText(boss bool) string {
	if boss {
		return "BOSS DEFEATED!"
	}
	return "All enemies cleared!!"
}

func PortalText() string {
	return "Search for the portal"
}
