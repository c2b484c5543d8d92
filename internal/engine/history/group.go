package history

import "go.uber.org/multierr"

// GroupScope provides a convenient way to group commands using defer.
//
//	defer h.GroupScope("Indent").End()
type GroupScope struct {
	history *History
	active  bool
}

// GroupScope starts a new group scope. Inside an open group the scope is
// inert and the commands join the outer group.
func (h *History) GroupScope(name string) *GroupScope {
	if h.grouping {
		return &GroupScope{history: h}
	}
	h.BeginGroup(name)
	return &GroupScope{history: h, active: true}
}

// End ends the group scope. Only the first call has effect.
func (g *GroupScope) End() {
	if g.active {
		g.history.EndGroup()
		g.active = false
	}
}

// Cancel drops the scope's commands from history without undoing them and
// returns them, oldest first.
func (g *GroupScope) Cancel() []Command {
	if !g.active {
		return nil
	}
	cmds := g.history.groupCmds
	g.history.CancelGroup()
	g.active = false
	return cmds
}

// Transaction runs fn as one undo unit named name. When fn fails, the
// commands it pushed are undone against t in reverse order and nothing is
// recorded. Inside an open group fn's commands join that group and are
// not rolled back.
func (h *History) Transaction(name string, t Target, fn func() error) error {
	scope := h.GroupScope(name)
	err := fn()
	if err == nil {
		scope.End()
		return nil
	}
	cmds := scope.Cancel()
	for i := len(cmds) - 1; i >= 0; i-- {
		err = multierr.Append(err, cmds[i].Undo(t))
	}
	return err
}
