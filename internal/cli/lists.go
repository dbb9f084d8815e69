package cli

import (
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/lexfields/pkg/fields"
	"github.com/mesh-intelligence/lexfields/pkg/types"
)

// listCmd builds a command that resolves <object> <field> and applies op to
// the remaining arguments before printing the selection.
func (a *app) listCmd(use, short string, nargs cobra.PositionalArgs, op func(*fields.ListEditor, types.Object, int, []string) error) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  nargs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withAccessor(func(acc *fields.Accessor) error {
				obj, fd, err := target(acc, args[0], args[1])
				if err != nil {
					return err
				}
				if op != nil {
					if err := op(acc.Lists(), obj, fd.ID, args[2:]); err != nil {
						return err
					}
				}
				items, err := acc.Lists().GetSelected(obj, fd.ID)
				if err != nil {
					return err
				}
				return a.emitValue(cmd, acc, obj, fd, items)
			})
		},
	}
}

func (a *app) newSelectCmd() *cobra.Command {
	return a.listCmd("select <object> <field> <item>", "Set the item of a select field", cobra.ExactArgs(3),
		func(e *fields.ListEditor, obj types.Object, id int, items []string) error {
			return e.SetSingle(obj, id, items[0])
		})
}

func (a *app) newUnselectCmd() *cobra.Command {
	return a.listCmd("unselect <object> <field>", "Clear a select field", cobra.ExactArgs(2),
		func(e *fields.ListEditor, obj types.Object, id int, _ []string) error {
			return e.ClearSingle(obj, id)
		})
}

func (a *app) newSelectedCmd() *cobra.Command {
	return a.listCmd("selected <object> <field>", "List the items selected in a select or tags field", cobra.ExactArgs(2), nil)
}

func (a *app) newTagCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tag",
		Short: "Add or remove items of a tags field",
	}
	cmd.AddCommand(
		a.listCmd("add <object> <field> <item>...", "Add items to a tags field", cobra.MinimumNArgs(3),
			func(e *fields.ListEditor, obj types.Object, id int, items []string) error {
				for _, it := range items {
					if err := e.AddTag(obj, id, it); err != nil {
						return err
					}
				}
				return nil
			}),
		a.listCmd("remove <object> <field> <item>...", "Remove items from a tags field", cobra.MinimumNArgs(3),
			func(e *fields.ListEditor, obj types.Object, id int, items []string) error {
				for _, it := range items {
					if err := e.RemoveTag(obj, id, it); err != nil {
						return err
					}
				}
				return nil
			}),
	)
	return cmd
}
