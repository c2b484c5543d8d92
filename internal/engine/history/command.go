package history

import (
	"fmt"
	"strings"
)

// Target is the document a command edits. ApplyEdit replaces characters
// [start, end) with text styled by styles without recording history.
type Target interface {
	ApplyEdit(start, end int, text string, styles []byte) error
}

// Command represents an edit that can be executed and undone.
type Command interface {
	Execute(t Target) error
	Undo(t Target) error
	Description() string
	CharsDelta() int
}

// EditCommand wraps a single Operation.
type EditCommand struct {
	Op *Operation
}

// NewEditCommand creates a command for op.
func NewEditCommand(op *Operation) *EditCommand {
	return &EditCommand{Op: op}
}

// Execute applies the operation.
func (c *EditCommand) Execute(t Target) error {
	return c.Op.Apply(t)
}

// Undo applies the inverse of the operation.
func (c *EditCommand) Undo(t Target) error {
	return c.Op.Invert().Apply(t)
}

// CharsDelta returns the change in document length.
func (c *EditCommand) CharsDelta() int {
	return c.Op.CharsDelta()
}

// Description returns a human-readable description.
func (c *EditCommand) Description() string {
	switch {
	case c.Op.IsInsert():
		return fmt.Sprintf("Insert %q", abbreviate(c.Op.NewText))
	case c.Op.IsDelete():
		return fmt.Sprintf("Delete %q", abbreviate(c.Op.OldText))
	case c.Op.IsReplace():
		return fmt.Sprintf("Replace %q", abbreviate(c.Op.OldText))
	}
	return "No-op"
}

func abbreviate(s string) string {
	const limit = 20
	s = strings.ReplaceAll(s, "\n", "⏎")
	r := []rune(s)
	if len(r) > limit {
		return string(r[:limit-1]) + "…"
	}
	return s
}

// CompoundCommand groups multiple commands as one undo unit.
type CompoundCommand struct {
	Name     string
	Commands []Command
}

// NewCompoundCommand creates a new compound command.
func NewCompoundCommand(name string, commands ...Command) *CompoundCommand {
	return &CompoundCommand{Name: name, Commands: commands}
}

// Execute runs all commands in order.
func (c *CompoundCommand) Execute(t Target) error {
	for i, cmd := range c.Commands {
		if err := cmd.Execute(t); err != nil {
			// roll back the ones that succeeded
			for j := i - 1; j >= 0; j-- {
				_ = c.Commands[j].Undo(t)
			}
			return err
		}
	}
	return nil
}

// Undo reverses all commands in reverse order.
func (c *CompoundCommand) Undo(t Target) error {
	for i := len(c.Commands) - 1; i >= 0; i-- {
		if err := c.Commands[i].Undo(t); err != nil {
			return err
		}
	}
	return nil
}

// CharsDelta returns the total change in document length.
func (c *CompoundCommand) CharsDelta() int {
	total := 0
	for _, cmd := range c.Commands {
		total += cmd.CharsDelta()
	}
	return total
}

// Description returns the compound command's name.
func (c *CompoundCommand) Description() string {
	if c.Name != "" {
		return c.Name
	}
	if len(c.Commands) == 1 {
		return c.Commands[0].Description()
	}
	return fmt.Sprintf("%d edits", len(c.Commands))
}

// Add adds a command to the compound command.
func (c *CompoundCommand) Add(cmd Command) {
	c.Commands = append(c.Commands, cmd)
}

// IsEmpty returns true if the compound command has no commands.
func (c *CompoundCommand) IsEmpty() bool {
	return len(c.Commands) == 0
}
