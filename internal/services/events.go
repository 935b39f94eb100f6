package services

// Event is one normalized inbound interaction from the chat platform. Exactly
// one of Text or Button is set: Text for a typed message (commands included),
// Button for an inline-keyboard press carrying its callback payload.
type Event struct {
	UserID    int64
	Username  string
	FirstName string
	Text      string
	Button    string
}

// IsButton reports whether the event is a keyboard press.
func (e Event) IsButton() bool { return e.Button != "" }

// Button is one inline-keyboard entry. Data and URL are mutually exclusive:
// Data round-trips as the callback payload, URL opens externally.
type Button struct {
	Label string
	Data  string
	URL   string
}

// Reply is one outbound message with an optional inline keyboard, laid out
// as rows.
type Reply struct {
	Text     string
	Keyboard [][]Button

	// Edit asks the transport to render this reply in place of the message
	// whose button was pressed, instead of appending a new one.
	Edit bool
}

// btn builds a callback button.
func btn(label, data string) Button { return Button{Label: label, Data: data} }

// urlBtn builds a link button.
func urlBtn(label, url string) Button { return Button{Label: label, URL: url} }

// row groups buttons into one keyboard row.
func row(buttons ...Button) []Button { return buttons }
