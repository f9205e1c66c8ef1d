package model

// TooltipLine is one row of the tooltip panel.
type TooltipLine struct {
	Category       string  `json:"category"`
	Color          string  `json:"color"`
	Value          float64 `json:"value"`
	FormattedValue string  `json:"formattedValue,omitempty"`
	HasValue       bool    `json:"hasValue"`
	Emphasized     bool    `json:"emphasized"`
}

// TooltipState is the content of the tooltip panel for a single interaction event.
// It is rebuilt from scratch on every event.
type TooltipState struct {
	Visible bool          `json:"visible"`
	Date    string        `json:"date,omitempty"`
	Lines   []TooltipLine `json:"lines"`
}

// Emphasized returns the emphasized line, if any.
func (s TooltipState) Emphasized() (TooltipLine, bool) {
	for _, line := range s.Lines {
		if line.Emphasized {
			return line, true
		}
	}
	return TooltipLine{}, false
}
