// pattern: Functional Core

package tui

// Region defines a rectangular area within the terminal.
type Region struct {
	X      int // Left position (0-indexed)
	Y      int // Top position (0-indexed)
	Width  int // Width in cells
	Height int // Height in lines
}

// Layout holds computed regions for all UI components.
type Layout struct {
	Header    Region // Title + subtitle
	Body      Region // Log tail or snapshot
	Gauges    Region // Metrics panel, zero height when hidden
	StatusBar Region // Latest problem + key help, taller while full help is shown
}

// Fixed heights for chrome elements
const (
	headerHeight  = 2
	gaugeChrome   = 2 // panel border
	minBodyHeight = 3
)

// ComputeLayout splits the terminal top to bottom. gaugeRows is the number of
// visible gauge rows; zero hides the panel entirely.
func ComputeLayout(width, height, gaugeRows, statusLines int) Layout {
	statusBarHeight := max(1, statusLines)
	gaugeHeight := 0
	if gaugeRows > 0 {
		gaugeHeight = gaugeRows + gaugeChrome
	}

	bodyHeight := height - headerHeight - statusBarHeight - gaugeHeight
	if bodyHeight < minBodyHeight {
		bodyHeight = minBodyHeight
	}

	y := 0
	header := Region{X: 0, Y: y, Width: width, Height: headerHeight}
	y += headerHeight

	body := Region{X: 0, Y: y, Width: width, Height: bodyHeight}
	y += bodyHeight

	gauges := Region{X: 0, Y: y, Width: width, Height: gaugeHeight}
	y += gaugeHeight

	status := Region{X: 0, Y: y, Width: width, Height: statusBarHeight}

	return Layout{
		Header:    header,
		Body:      body,
		Gauges:    gauges,
		StatusBar: status,
	}
}
