package keybinds

// NewDefaultRegistry creates a registry with all default keybindings
func NewDefaultRegistry() *Registry {
	r := NewRegistry()

	registerGlobalBindings(r)
	registerProductBindings(r)
	registerUserBindings(r)
	registerStatusBindings(r)
	registerInputBindings(r)
	registerFormBindings(r)
	registerStatsBindings(r)

	return r
}

// registerGlobalBindings sets up bindings shared by the three panels
func registerGlobalBindings(r *Registry) {
	r.Register(ContextGlobal, "ctrl+c", ActionQuitForce)
	r.Register(ContextGlobal, "q", ActionQuit)
	r.Register(ContextGlobal, "tab", ActionNextPanel)
	r.Register(ContextGlobal, "shift+tab", ActionPrevPanel)
	r.Register(ContextGlobal, "y", ActionCopy)
	r.Register(ContextGlobal, "s", ActionShowStats)
	r.Register(ContextGlobal, "?", ActionHelp)
	r.RegisterMultiple(ContextGlobal, []string{"up", "k"}, ActionNavigateUp)
	r.RegisterMultiple(ContextGlobal, []string{"down", "j"}, ActionNavigateDown)
	r.Register(ContextGlobal, "home", ActionGoToTop)
	r.RegisterMultiple(ContextGlobal, []string{"end", "G"}, ActionGoToBottom)
}

func registerProductBindings(r *Registry) {
	r.Register(ContextProducts, "l", ActionSourceLocal)
	r.Register(ContextProducts, "r", ActionSourceRemote)
	r.RegisterMultiple(ContextProducts, []string{"enter", " "}, ActionToggleCart)
	r.Register(ContextProducts, "/", ActionJump)
}

func registerUserBindings(r *Registry) {
	r.Register(ContextUsers, "l", ActionSourceLocal)
	r.Register(ContextUsers, "r", ActionSourceRemote)
	r.Register(ContextUsers, "/", ActionSearch)
	r.Register(ContextUsers, "g", ActionCycleGender)
	r.Register(ContextUsers, "a", ActionAddUser)
	r.Register(ContextUsers, "d", ActionRemoveUser)
}

func registerStatusBindings(r *Registry) {
	r.RegisterMultiple(ContextStatus, []string{"t", "enter"}, ActionProbe)
}

func registerInputBindings(r *Registry) {
	r.Register(ContextInput, "enter", ActionConfirm)
	r.Register(ContextInput, "esc", ActionCancel)
	r.Register(ContextInput, "up", ActionNavigateUp)
	r.Register(ContextInput, "down", ActionNavigateDown)
}

func registerFormBindings(r *Registry) {
	r.Register(ContextForm, "enter", ActionConfirm)
	r.Register(ContextForm, "esc", ActionCancel)
	r.RegisterMultiple(ContextForm, []string{"tab", "down"}, ActionNextField)
	r.RegisterMultiple(ContextForm, []string{"shift+tab", "up"}, ActionPrevField)
}

func registerStatsBindings(r *Registry) {
	r.RegisterMultiple(ContextStats, []string{"esc", "s", "q"}, ActionCancel)
	r.Register(ContextStats, "C", ActionClearStats)
}
