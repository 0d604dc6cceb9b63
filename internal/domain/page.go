package domain

// Page is one page of a todo listing, newest first.
type Page struct {
	Items   []Todo
	Page    int
	PerPage int
	Total   int
}

// LastPage returns the number of the final page (at least 1).
func (p Page) LastPage() int {
	if p.Total == 0 || p.PerPage == 0 {
		return 1
	}
	n := (p.Total + p.PerPage - 1) / p.PerPage
	if n < 1 {
		n = 1
	}
	return n
}
