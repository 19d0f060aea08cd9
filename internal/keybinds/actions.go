package keybinds

// Action represents a user action that can be triggered by a keybinding
type Action string

// Context represents the context in which keybindings are active
type Context string

const (
	// Contexts define where keybindings are active
	ContextGlobal   Context = "global"   // Available everywhere except text inputs
	ContextProducts Context = "products" // Products panel focused
	ContextUsers    Context = "users"    // Users panel focused
	ContextStatus   Context = "status"   // API status panel focused
	ContextInput    Context = "input"    // Single-line input (jump, search)
	ContextForm     Context = "form"     // Add-user form
	ContextStats    Context = "stats"    // Call log overlay
)

const (
	// Global actions
	ActionQuit      Action = "quit"       // Quit application
	ActionQuitForce Action = "quit_force" // Force quit (ctrl+c)
	ActionNextPanel Action = "next_panel" // Focus the next panel
	ActionPrevPanel Action = "prev_panel" // Focus the previous panel
	ActionCopy      Action = "copy"       // Copy the focused panel summary
	ActionShowStats Action = "show_stats" // Open the call log overlay
	ActionHelp      Action = "help"       // Toggle the key help line

	// Navigation actions
	ActionNavigateUp   Action = "navigate_up"
	ActionNavigateDown Action = "navigate_down"
	ActionGoToTop      Action = "go_to_top"
	ActionGoToBottom   Action = "go_to_bottom"

	// Source switching (products and users)
	ActionSourceLocal  Action = "source_local"
	ActionSourceRemote Action = "source_remote"

	// Products
	ActionToggleCart Action = "toggle_cart"
	ActionJump       Action = "jump" // Fuzzy jump to a title

	// Users
	ActionSearch      Action = "search"
	ActionCycleGender Action = "cycle_gender"
	ActionAddUser     Action = "add_user"
	ActionRemoveUser  Action = "remove_user"

	// Status
	ActionProbe Action = "probe"

	// Inputs and forms
	ActionConfirm   Action = "confirm"
	ActionCancel    Action = "cancel"
	ActionNextField Action = "next_field"
	ActionPrevField Action = "prev_field"

	// Stats overlay
	ActionClearStats Action = "clear_stats"
)

// knownActions lists every action a config file may bind
var knownActions = map[Action]bool{
	ActionQuit: true, ActionQuitForce: true, ActionNextPanel: true, ActionPrevPanel: true,
	ActionCopy: true, ActionShowStats: true, ActionHelp: true,
	ActionNavigateUp: true, ActionNavigateDown: true, ActionGoToTop: true, ActionGoToBottom: true,
	ActionSourceLocal: true, ActionSourceRemote: true,
	ActionToggleCart: true, ActionJump: true,
	ActionSearch: true, ActionCycleGender: true, ActionAddUser: true, ActionRemoveUser: true,
	ActionProbe: true,
	ActionConfirm: true, ActionCancel: true, ActionNextField: true, ActionPrevField: true,
	ActionClearStats: true,
}

// IsKnown reports whether a is a defined action
func (a Action) IsKnown() bool {
	return knownActions[a]
}
