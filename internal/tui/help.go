package tui

import (
	"github.com/diogo/formchat/internal/render"
)

const helpText = `# formchat keys

| Key | Action |
|---|---|
| Enter | send the input, empty included |
| Tab | move between the input and the option buttons |
| ← → | pick an option button |
| Enter on an option | send that option |
| PgUp / PgDn, mouse wheel | scroll the conversation |
| Ctrl+Y | copy the last reply to the clipboard |
| F1 | this help |
| Esc | leave options, close help, or quit |

Replies are shown exactly as the backend sent them. Failed requests add
nothing to the conversation; details go to the log file.
`

// renderHelp renders the key reference for the current width
func (m Model) renderHelp() string {
	opts := render.DefaultOptions().WithStyle(m.opts.HelpStyle)
	if m.width > 8 {
		opts = opts.WithWidth(m.width - 8)
	}
	out, err := render.Markdown(helpText, opts)
	if err != nil {
		return helpText
	}
	return out
}
