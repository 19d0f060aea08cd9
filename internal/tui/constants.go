package tui

// UI Layout Constants

const (
	// Panel borders take one cell on each side
	PanelBorderWidth = 2

	// MinPanelWidth keeps the side-by-side layout readable
	MinPanelWidth = 40

	// StatusPanelHeight is the inner height of the API status panel
	StatusPanelHeight = 8

	// StatusBarHeight covers the status line and the help line
	StatusBarHeight = 2

	// PanelHeaderLines covers a panel's title and summary lines
	PanelHeaderLines = 2

	// MaxStatusLength truncates long status messages in the footer
	MaxStatusLength = 100
)

const (
	// Modal Dimensions - Standard margins for modal dialogs
	ModalWidthMargin  = 6 // Standard horizontal margin (m.width - 6)
	ModalHeightMargin = 3 // Standard vertical margin (m.height - 3)
)
