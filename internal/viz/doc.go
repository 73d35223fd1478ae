// Package viz renders tank simulations in the terminal.
//
//   - [RenderTank]: a coloured column of layer temperatures (lipgloss)
//   - [PlotLayers]: temperature curves over time (asciigraph)
//   - [Model]: an animated bubbletea view stepping a simulation live
//
// # Key Bindings
//
//	Space - Pause/Resume simulation
//	R     - Reset to initial state
//	T     - Cycle color themes
//	+/-   - Simulation speed
//	Tab   - Select tank parameter
//	↑/↓   - Tune selected parameter (±5%)
//	?     - Show help overlay
package viz
