package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/lexfields/pkg/fields"
	"github.com/mesh-intelligence/lexfields/pkg/types"
)

func (a *app) newFieldsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fields [class]",
		Short: "List the fields of the project or of one class",
		Long: `Fields lists field descriptors. With a class argument it lists every field
an object of that class can carry, inherited fields first.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withAccessor(func(acc *fields.Accessor) error {
				catalog := acc.Catalog()
				var list []types.FieldDescriptor
				if len(args) == 1 {
					if !catalog.HasClass(args[0]) {
						return fmt.Errorf("class %q: %w", args[0], types.ErrUnknownClass)
					}
					list = catalog.AllFieldsForClass(args[0])
				} else {
					for _, ci := range catalog.Classes() {
						list = append(list, catalog.FieldsForClass(ci.Name)...)
					}
				}

				views := make([]fieldView, 0, len(list))
				for _, fd := range list {
					views = append(views, newFieldView(fd))
				}
				return a.emit(cmd, views, func(w io.Writer) {
					tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
					fmt.Fprintln(tw, "ID\tFIELD\tCATEGORY\tROLE\tLIST")
					for _, v := range views {
						fmt.Fprintf(tw, "%d\t%s.%s\t%s\t%s\t%s\n", v.ID, v.Class, v.Name, v.Category, v.Role, v.List)
					}
					tw.Flush()
				})
			})
		},
	}
}

func (a *app) newWSCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ws",
		Short: "List the writing systems of the project",
		Long: `Ws lists the vernacular and analysis writing systems in order. The first
of each list is the default for fields of that role.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withAccessor(func(acc *fields.Accessor) error {
				r := acc.Resolver()
				view := struct {
					Vernacular []wsView `json:"vernacular"`
					Analysis   []wsView `json:"analysis"`
				}{
					Vernacular: wsViews(r.Vernacular()),
					Analysis:   wsViews(r.Analysis()),
				}
				return a.emit(cmd, view, func(w io.Writer) {
					for i, ws := range view.Vernacular {
						printWS(w, "vernacular", ws, i == 0)
					}
					for i, ws := range view.Analysis {
						printWS(w, "analysis", ws, i == 0)
					}
				})
			})
		},
	}
}

func wsViews(list []types.WritingSystem) []wsView {
	out := make([]wsView, 0, len(list))
	for _, ws := range list {
		out = append(out, wsView{Handle: ws.Handle, Tag: ws.Tag})
	}
	return out
}

func printWS(w io.Writer, kind string, ws wsView, isDefault bool) {
	mark := ""
	if isDefault {
		mark = "\t(default)"
	}
	fmt.Fprintf(w, "%s\t%d\t%s%s\n", kind, ws.Handle, ws.Tag, mark)
}

func (a *app) newNewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "new <class>",
		Short: "Create an object of a class",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withAccessor(func(acc *fields.Accessor) error {
				obj, err := acc.CreateObject(args[0])
				if err != nil {
					return err
				}
				view := struct {
					ID    int64  `json:"id"`
					Class string `json:"class"`
				}{obj.ID, obj.Class}
				return a.emit(cmd, view, func(w io.Writer) {
					fmt.Fprintln(w, obj.ID)
				})
			})
		},
	}
}
