package models

// Role marks who a bubble belongs to
type Role string

const (
	RoleUser  Role = "user"
	RoleRobot Role = "robot"
)

// Bubble is one rendered entry of the message log.
// A robot bubble with Options set is an options bubble; its Text is empty.
type Bubble struct {
	Role    Role
	Text    string
	Options []string
	// Failed marks a backend-reported error; Text already carries ErrorPrefix
	Failed bool
}

// UserBubble creates a user text bubble
func UserBubble(text string) Bubble {
	return Bubble{Role: RoleUser, Text: text}
}

// RobotBubble creates a robot text bubble
func RobotBubble(text string) Bubble {
	return Bubble{Role: RoleRobot, Text: text}
}

// ErrorBubble creates a robot bubble for a backend-reported error
func ErrorBubble(text string) Bubble {
	return Bubble{Role: RoleRobot, Text: ErrorPrefix + text, Failed: true}
}

// OptionsBubble creates a robot bubble holding an option set
func OptionsBubble(options []string) Bubble {
	opts := make([]string, len(options))
	copy(opts, options)
	return Bubble{Role: RoleRobot, Options: opts}
}

// IsOptions reports whether the bubble carries an option set
func (b Bubble) IsOptions() bool {
	return b.Options != nil
}
