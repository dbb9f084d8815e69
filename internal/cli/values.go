package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/lexfields/pkg/fields"
	"github.com/mesh-intelligence/lexfields/pkg/types"
)

// target resolves the object id and field reference arguments.
func target(acc *fields.Accessor, objArg, fieldArg string) (types.Object, types.FieldDescriptor, error) {
	id, err := strconv.ParseInt(objArg, 10, 64)
	if err != nil {
		return types.Object{}, types.FieldDescriptor{}, fmt.Errorf("object id %q is not a number", objArg)
	}
	obj, err := acc.Object(id)
	if err != nil {
		return types.Object{}, types.FieldDescriptor{}, err
	}
	fd, err := acc.Field(obj, fieldArg)
	return obj, fd, err
}

// wsRef turns the --ws flag into a writing-system reference. Empty means the
// field's default.
func wsRef(tag string) any {
	if tag == "" {
		return nil
	}
	return tag
}

// show prints the current value of fd. Multitext fields print one alternative
// unless all is set.
func (a *app) show(cmd *cobra.Command, acc *fields.Accessor, obj types.Object, fd types.FieldDescriptor, ws string, all bool) error {
	m := acc.Marshaller()
	if fd.Category != types.CategoryMultilingualText {
		if ws != "" {
			return fmt.Errorf("--ws on %s field %s: %w", fd.Category, fd.QualifiedName(), types.ErrCategoryMismatch)
		}
		v, err := m.Read(obj, fd.ID)
		if err != nil {
			return err
		}
		return a.emitValue(cmd, acc, obj, fd, v)
	}
	if all {
		v, err := m.ReadAllMultiString(obj, fd.ID)
		if err != nil {
			return err
		}
		return a.emitValue(cmd, acc, obj, fd, v)
	}
	text, err := m.ReadMultiString(obj, fd.ID, wsRef(ws))
	if err != nil {
		return err
	}
	return a.emitValue(cmd, acc, obj, fd, text)
}

func (a *app) newGetCmd() *cobra.Command {
	var (
		ws  string
		all bool
	)
	cmd := &cobra.Command{
		Use:   "get <object> <field>",
		Short: "Read a field value",
		Long: `Get reads the value of a field on an object. The field is "Class.Name" or a
bare name looked up on the object's class.

Example:
  lexfields get 1 Dialect
  lexfields get 1 Entry.Note --ws en
  lexfields get 1 Note --all`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withAccessor(func(acc *fields.Accessor) error {
				obj, fd, err := target(acc, args[0], args[1])
				if err != nil {
					return err
				}
				return a.show(cmd, acc, obj, fd, ws, all)
			})
		},
	}
	cmd.Flags().StringVar(&ws, "ws", "", "writing system of a multitext field")
	cmd.Flags().BoolVar(&all, "all", false, "print every alternative of a multitext field")
	return cmd
}

func (a *app) newSetCmd() *cobra.Command {
	var (
		ws        string
		precision string
	)
	cmd := &cobra.Command{
		Use:   "set <object> <field> <value>...",
		Short: "Write a field value",
		Long: `Set writes a value into a field and prints the stored value. Text values
are taken as given, integers in decimal, dates as YYYY-MM-DD qualified by
--precision, and select and tags fields take item ids, names or
abbreviations. Only tags fields take more than one value.

Example:
  lexfields set 1 Dialect "Northern"
  lexfields set 1 Note "a bird" --ws en
  lexfields set 1 Recorded 1998-03-01 --precision approximate
  lexfields set 10 Domains Animals Birds`,
		Args: cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withAccessor(func(acc *fields.Accessor) error {
				obj, fd, err := target(acc, args[0], args[1])
				if err != nil {
					return err
				}
				values := args[2:]
				if len(values) > 1 && fd.Category != types.CategoryMultiSelect {
					return fmt.Errorf("%s field %s takes one value, got %d", fd.Category, fd.QualifiedName(), len(values))
				}
				if ws != "" && fd.Category != types.CategoryMultilingualText {
					return fmt.Errorf("--ws on %s field %s: %w", fd.Category, fd.QualifiedName(), types.ErrCategoryMismatch)
				}
				if err := write(acc, obj, fd, values, ws, precision); err != nil {
					return err
				}
				return a.show(cmd, acc, obj, fd, ws, false)
			})
		},
	}
	cmd.Flags().StringVar(&ws, "ws", "", "writing system of a multitext field")
	cmd.Flags().StringVar(&precision, "precision", types.PrecisionExact.String(), "precision of a date: unknown, exact, approximate, before or after")
	return cmd
}

func write(acc *fields.Accessor, obj types.Object, fd types.FieldDescriptor, values []string, ws, precision string) error {
	m := acc.Marshaller()
	value := values[0]
	switch fd.Category {
	case types.CategoryScalarText:
		return m.WriteString(obj, fd.ID, value)
	case types.CategoryMultilingualText:
		return m.WriteMultiString(obj, fd.ID, wsRef(ws), value)
	case types.CategoryInteger:
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmt.Errorf("%s: %q is not an integer", fd.QualifiedName(), value)
		}
		return m.WriteInteger(obj, fd.ID, n)
	case types.CategoryDate:
		p, err := types.ParsePrecision(precision)
		if err != nil {
			return err
		}
		if value == "" {
			return m.WriteDate(obj, fd.ID, types.GenDate{Precision: p})
		}
		d, err := types.ParseGenDate(value, p)
		if err != nil {
			return err
		}
		return m.WriteDate(obj, fd.ID, d)
	case types.CategorySingleSelect:
		return acc.Lists().SetSingle(obj, fd.ID, value)
	case types.CategoryMultiSelect:
		refs := make([]any, len(values))
		for i, v := range values {
			refs[i] = v
		}
		return acc.Lists().SetTags(obj, fd.ID, refs...)
	default:
		return fmt.Errorf("%s: %w", fd.QualifiedName(), types.ErrInvalidCategory)
	}
}

func (a *app) newClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear <object> <field>",
		Short: "Reset a field to its empty value",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withAccessor(func(acc *fields.Accessor) error {
				obj, fd, err := target(acc, args[0], args[1])
				if err != nil {
					return err
				}
				if err := acc.Marshaller().Clear(obj, fd.ID); err != nil {
					return err
				}
				return a.show(cmd, acc, obj, fd, "", true)
			})
		},
	}
}

func (a *app) newBestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "best <object> <field>",
		Short: "Print the best available text of a field",
		Long: `Best prints the first non-empty alternative of a multitext field, trying the
analysis writing systems in order and then the vernacular ones.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withAccessor(func(acc *fields.Accessor) error {
				obj, fd, err := target(acc, args[0], args[1])
				if err != nil {
					return err
				}
				text, err := acc.Marshaller().BestString(obj, fd.ID)
				if err != nil {
					return err
				}
				view := valueView{Object: obj.ID, Field: fd.QualifiedName(), Category: fd.Category.String(), Value: text}
				return a.emit(cmd, view, func(w io.Writer) {
					fmt.Fprintln(w, text)
				})
			})
		},
	}
}
