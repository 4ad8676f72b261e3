package bot

// Reply is a message to show in a chat, independent of the transport.
type Reply struct {
	ChatID int64

	// EditID, when set, replaces the text of that message instead of
	// sending a new one.
	EditID int

	Text      string
	HTML      bool
	NoPreview bool

	// Keyboard is inline buttons, one inner slice per row.
	Keyboard [][]Button
}

// Button is an inline keyboard button carrying either callback data or a URL.
type Button struct {
	Text string
	Data string
	URL  string
}

func row(buttons ...Button) []Button { return buttons }

func data(text, payload string) Button { return Button{Text: text, Data: payload} }
