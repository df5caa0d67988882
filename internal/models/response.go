package models

import "fmt"

// ReplyKind tags the variant held by a Reply
type ReplyKind int

const (
	ReplyUnrecognized ReplyKind = iota
	ReplyPlain
	ReplyOptions
	ReplyStructured
	ReplyFailure
)

// String returns a short name for the kind
func (k ReplyKind) String() string {
	switch k {
	case ReplyPlain:
		return "plain"
	case ReplyOptions:
		return "options"
	case ReplyStructured:
		return "structured"
	case ReplyFailure:
		return "failure"
	default:
		return "unrecognized"
	}
}

// Reply is a decoded backend answer.
// Exactly one variant is meaningful, selected by Kind.
type Reply struct {
	Kind    ReplyKind
	Text    string   // Plain, Structured and Failure
	Options []string // Options
	Raw     string   // original body, kept for diagnostics
}

// PlainReply is a bare JSON string answer
func PlainReply(text string) Reply {
	return Reply{Kind: ReplyPlain, Text: text}
}

// OptionsReply is a multi-choice answer
func OptionsReply(options []string) Reply {
	return Reply{Kind: ReplyOptions, Options: options}
}

// StructuredReply is an answer carried in the "response" field
func StructuredReply(text string) Reply {
	return Reply{Kind: ReplyStructured, Text: text}
}

// FailureReply is a backend-reported error carried in the "error" field
func FailureReply(text string) Reply {
	return Reply{Kind: ReplyFailure, Text: text}
}

// UnrecognizedReply wraps a body that matched no variant
func UnrecognizedReply(raw string) Reply {
	return Reply{Kind: ReplyUnrecognized, Raw: raw}
}

// Bubbles returns the robot-side bubbles this reply renders to.
// The user bubble is the caller's concern since it depends on the dispatch path.
func (r Reply) Bubbles() []Bubble {
	switch r.Kind {
	case ReplyPlain, ReplyStructured:
		return []Bubble{RobotBubble(r.Text)}
	case ReplyOptions:
		return []Bubble{OptionsBubble(r.Options)}
	case ReplyFailure:
		return []Bubble{ErrorBubble(r.Text)}
	default:
		return nil
	}
}

// EchoesInput reports whether the primary path renders the user's own bubble
// before this reply. Backend-reported errors do not echo the input.
func (r Reply) EchoesInput() bool {
	switch r.Kind {
	case ReplyPlain, ReplyOptions, ReplyStructured:
		return true
	default:
		return false
	}
}

// String returns the robot text of the reply, or a summary for options
func (r Reply) String() string {
	switch r.Kind {
	case ReplyOptions:
		return fmt.Sprintf("%d options", len(r.Options))
	case ReplyFailure:
		return ErrorPrefix + r.Text
	case ReplyUnrecognized:
		return ""
	default:
		return r.Text
	}
}
