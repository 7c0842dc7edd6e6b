package chat

import "strings"

// VoiceRoute is what a recognized utterance should trigger.
type VoiceRoute int

const (
	RouteMessage VoiceRoute = iota
	RouteConfirm
	RouteCancel
)

func (r VoiceRoute) String() string {
	switch r {
	case RouteConfirm:
		return "confirm"
	case RouteCancel:
		return "cancel"
	default:
		return "message"
	}
}

// Route decides between confirm, cancel and a new message. Without a pending
// action every utterance is a new message.
func Route(utterance string, pending bool) VoiceRoute {
	if !pending {
		return RouteMessage
	}
	lower := strings.ToLower(strings.TrimSpace(utterance))
	switch {
	case lower == "yes" || strings.Contains(lower, "confirm") || strings.Contains(lower, "save"):
		return RouteConfirm
	case lower == "no" || strings.Contains(lower, "cancel"):
		return RouteCancel
	default:
		return RouteMessage
	}
}
