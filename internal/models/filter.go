package models

// FilterState is the console's current list filter. An empty Text means no
// free-text filtering; an empty Organization means "all organizations".
type FilterState struct {
	Text         string
	Organization string
}

// Empty reports whether no filtering is requested at all.
func (f FilterState) Empty() bool {
	return f.Text == "" && f.Organization == ""
}
