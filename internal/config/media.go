package config

import "time"

// MediaConfig holds the LiveKit credentials used to provision rooms,
// issue join tokens, record sessions and join rooms as a server-side
// participant.
type MediaConfig struct {
	URL           string        // LIVEKIT_URL, e.g. wss://sekai.livekit.cloud
	APIKey        string        // LIVEKIT_API_KEY
	APISecret     string        // LIVEKIT_API_SECRET
	RecordingPath string        // egress file path template
	EmptyTimeout  time.Duration // how long an empty room is kept alive
	TokenTTL      time.Duration // validity of issued join tokens
}

// Configured reports whether all credentials are present.
func (m MediaConfig) Configured() bool {
	return m.URL != "" && m.APIKey != "" && m.APISecret != ""
}

func LoadMediaConfig() MediaConfig {
	return MediaConfig{
		URL:           envStr("LIVEKIT_URL", ""),
		APIKey:        envStr("LIVEKIT_API_KEY", ""),
		APISecret:     envStr("LIVEKIT_API_SECRET", ""),
		RecordingPath: envStr("LIVEKIT_RECORDING_PATH", "recordings/{room_name}-{time}.mp4"),
		EmptyTimeout:  envDur("LIVEKIT_EMPTY_TIMEOUT", 10*time.Minute),
		TokenTTL:      envDur("LIVEKIT_TOKEN_TTL", 2*time.Hour),
	}
}
