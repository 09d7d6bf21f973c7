package viewmodel

// Layout captures shared chrome metadata (titles, navigation state, auth flags).
type Layout struct {
	Title           string
	PageTitle       string
	CurrentPage     string
	IsAuthenticated bool
	Username        string
}

// LayoutProvider exposes layout metadata for renderer utilities.
type LayoutProvider interface {
	LayoutData() *Layout
}

// LayoutData lets a Layout satisfy LayoutProvider directly.
func (l *Layout) LayoutData() *Layout { return l }
