package embed

import (
	"encoding/json"
)

// Origin allowed to post player state messages
const YouTubeOrigin = "https://www.youtube.com"

// YouTube player states carried in "info"
const (
	youTubePlaying = 1
	youTubePaused  = 2
)

type PlayState string

const (
	Playing PlayState = "playing"
	Paused  PlayState = "paused"
)

type playerMessage struct {
	Event string `json:"event"`
	Info  any    `json:"info"`
}

// ParsePlayerMessage reads a message posted by the YouTube iframe.
// Only playing and paused state changes from the YouTube origin are accepted,
// everything else reports false.
func ParsePlayerMessage(origin, data string) (PlayState, bool) {

	if origin != YouTubeOrigin {
		return "", false
	}

	var msg playerMessage
	if err := json.Unmarshal([]byte(data), &msg); err != nil {
		return "", false
	}

	if msg.Event != "onStateChange" {
		return "", false
	}

	// JSON numbers decode as float64
	info, ok := msg.Info.(float64)
	if !ok {
		return "", false
	}

	switch info {
	case youTubePlaying:
		return Playing, true
	case youTubePaused:
		return Paused, true
	}

	return "", false
}
