package models

// Button is an inline keyboard button carrying callback data.
type Button struct {
	Text string
	Data string
}

// ActionButton builds a button for a decoded action.
func ActionButton(text string, a Action) Button {
	return Button{Text: text, Data: a.Encode()}
}

// Reply is what the bot sends back. At most one of Inline and Keyboard should
// be set; Keyboard is a persistent reply keyboard of plain labels.
type Reply struct {
	Text     string
	Inline   [][]Button
	Keyboard [][]string
}

// TextReply is a reply without buttons.
func TextReply(text string) Reply {
	return Reply{Text: text}
}

// Main reply-keyboard labels. Each maps to a top-level command.
const (
	LabelInfo  = "ℹ️ Info"
	LabelBook  = "📅 Book Appointment"
	LabelOrder = "🛍️ Order"
	LabelHelp  = "❓ Help"
)

// MainKeyboard is the persistent menu shown after /start and after a flow ends.
func MainKeyboard() [][]string {
	return [][]string{
		{LabelInfo, LabelBook},
		{LabelOrder, LabelHelp},
	}
}

// MainMenuReply is a text reply that restores the main keyboard.
func MainMenuReply(text string) Reply {
	return Reply{Text: text, Keyboard: MainKeyboard()}
}
