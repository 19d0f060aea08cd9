/*
Package tui implements the interactive view of shopdemo.

# Architecture

The view follows the Bubble Tea Model-Update-View pattern:
  - Model: focus, input modes and the three controllers it renders
  - Update: routes keys through the keybinds registry and applies fetch results
  - View: products and users side by side, API status below, status bar last

# Panels

  - Products: catalog controller, cart toggling, fuzzy jump to a title
  - Users: directory controller, live search, gender filter, add and remove
  - API Status: connectivity probe with the highlighted payload

Remote fetches and probes run as tea.Cmd. Their completion messages only
trigger a re-render; results are applied by the controllers, which discard
completions of superseded source switches.

# Logging

The terminal belongs to the view, so diagnostics go to config.LogFile.
*/
package tui
