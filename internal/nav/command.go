package nav

// Command is a navigation action produced by the axis debouncer or the
// button edge detector and executed by the Dispatcher.
type Command int

const (
	ScrollUp Command = iota + 1
	ScrollDown
	PreviousChapter
	NextChapter
)

func (c Command) String() string {
	switch c {
	case ScrollUp:
		return "scroll_up"
	case ScrollDown:
		return "scroll_down"
	case PreviousChapter:
		return "previous_chapter"
	case NextChapter:
		return "next_chapter"
	default:
		return "unknown"
	}
}
