// Package notify extracts side-channel notification payloads smuggled inside
// tool results and emits each one at most once per session lifetime.
package notify

import (
	"strings"
	"time"

	"github.com/docker/agentsync/pkg/chat"
)

// Level is the notification severity.
type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Metadata keys recognized on a tool result.
const (
	notificationKey = "webapp_notification"
	imageFileKey    = "image_file"
	audioClipKey    = "audio_clip"

	// legacyAudioMarker is the inline content marker used before audio clips
	// moved into result metadata.
	legacyAudioMarker = "A2_AUDIO_CLIP_ID:"
)

// Event is one user-facing notification derived from a tool result.
type Event struct {
	SessionID   string
	Title       string
	Message     string
	Level       Level
	CreatedAt   time.Time
	AudioClipID string
	ImagePath   string
	ImageURL    string
	AutoPlay    bool
}

// Identity is what makes a payload "the same one" across re-renders: the
// carrying message's timestamp plus the tool call it belongs to. Payload
// content deliberately plays no part, so an unchanged historical result is
// never re-emitted.
type Identity struct {
	Timestamp  int64
	ToolCallID string
}

func identityOf(msg *chat.Message, res *chat.ToolResult) Identity {
	return Identity{
		Timestamp:  msg.CreatedAt.UnixMilli(),
		ToolCallID: res.ToolCallID,
	}
}

// parsePayload reads a notification payload out of one tool result. It
// returns false when the result carries no valid payload; a payload without a
// message is invalid and dropped.
func parsePayload(msg *chat.Message, res *chat.ToolResult) (Event, bool) {
	raw, ok := res.Metadata[notificationKey].(map[string]any)
	if !ok {
		return Event{}, false
	}

	text, _ := raw["message"].(string)
	if text == "" {
		return Event{}, false
	}

	ev := Event{
		Message:   text,
		Level:     LevelInfo,
		CreatedAt: msg.CreatedAt,
		AutoPlay:  true,
	}
	if title, ok := raw["title"].(string); ok {
		ev.Title = title
	}
	if level, ok := raw["level"].(string); ok && level != "" {
		ev.Level = Level(level)
	}
	if clip, ok := raw["audio_clip_id"].(string); ok {
		ev.AudioClipID = clip
	}
	if path, ok := raw["image_path"].(string); ok {
		ev.ImagePath = path
	}
	if url, ok := raw["image_url"].(string); ok {
		ev.ImageURL = url
	}
	if auto, ok := raw["auto_play_audio"].(bool); ok {
		ev.AutoPlay = auto
	}

	// Sibling metadata keys enrich the notification when the payload itself
	// left the reference empty.
	if ev.ImagePath == "" {
		if img, ok := res.Metadata[imageFileKey].(map[string]any); ok {
			if path, ok := img["path"].(string); ok {
				ev.ImagePath = path
			}
		}
	}
	if ev.AudioClipID == "" {
		if clip, ok := res.Metadata[audioClipKey].(map[string]any); ok {
			if id, ok := clip["clip_id"].(string); ok {
				ev.AudioClipID = id
			}
			if auto, ok := clip["auto_play"].(bool); ok {
				ev.AutoPlay = auto
			}
		}
	}
	if ev.AudioClipID == "" {
		ev.AudioClipID = legacyAudioClipID(res.Content)
	}

	return ev, true
}

// legacyAudioClipID recognizes the inline "A2_AUDIO_CLIP_ID:<id>" marker in
// result content, used when metadata is absent.
func legacyAudioClipID(content string) string {
	idx := strings.Index(content, legacyAudioMarker)
	if idx < 0 {
		return ""
	}
	rest := content[idx+len(legacyAudioMarker):]
	if end := strings.IndexAny(rest, " \t\r\n"); end >= 0 {
		rest = rest[:end]
	}
	return strings.TrimSpace(rest)
}
