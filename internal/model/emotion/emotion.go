package emotion

// Label identifies an emotion category of the catalog.
type Label string

// None is the classification outcome when no keyword matched.
const None Label = "none"

// Entry captures one recognized emotion and its candidate content.
type Entry struct {
	Label     Label    `json:"label" yaml:"label"`
	Keywords  []string `json:"keywords" yaml:"keywords"`
	Responses []string `json:"responses" yaml:"responses"`
	Exercises []string `json:"exercises,omitempty" yaml:"exercises"`
	Quotes    []string `json:"quotes,omitempty" yaml:"quotes"`
}

func (e Entry) clone() Entry {
	return Entry{
		Label:     e.Label,
		Keywords:  append([]string(nil), e.Keywords...),
		Responses: append([]string(nil), e.Responses...),
		Exercises: append([]string(nil), e.Exercises...),
		Quotes:    append([]string(nil), e.Quotes...),
	}
}
