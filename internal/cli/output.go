package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/lexfields/pkg/fields"
	"github.com/mesh-intelligence/lexfields/pkg/types"
)

// emit writes v as indented JSON in --json mode and calls text otherwise.
func (a *app) emit(cmd *cobra.Command, v any, text func(w io.Writer)) error {
	w := cmd.OutOrStdout()
	if !a.flags.jsonMode {
		text(w)
		return nil
	}
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return sysErr(fmt.Errorf("marshal JSON: %w", err))
	}
	fmt.Fprintln(w, string(out))
	return nil
}

type fieldView struct {
	ID          int    `json:"id"`
	Class       string `json:"class"`
	Name        string `json:"name"`
	Category    string `json:"category"`
	Custom      bool   `json:"custom"`
	Role        string `json:"role,omitempty"`
	List        string `json:"list,omitempty"`
	Description string `json:"description,omitempty"`
}

func newFieldView(fd types.FieldDescriptor) fieldView {
	return fieldView{
		ID:          fd.ID,
		Class:       fd.OwningClass,
		Name:        fd.Name,
		Category:    fd.Category.String(),
		Custom:      fd.IsCustom,
		Role:        fd.Role.String(),
		List:        fd.ListID,
		Description: fd.Description,
	}
}

type itemView struct {
	ID           string `json:"id"`
	Name         string `json:"name,omitempty"`
	Abbreviation string `json:"abbreviation,omitempty"`
}

func newItemViews(items []types.PossibilityItem) []itemView {
	out := make([]itemView, 0, len(items))
	for _, it := range items {
		out = append(out, itemView{ID: it.ID, Name: it.Name, Abbreviation: it.Abbreviation})
	}
	return out
}

type wsView struct {
	Handle int    `json:"handle"`
	Tag    string `json:"tag"`
}

type dateView struct {
	Date      string `json:"date,omitempty"`
	Precision string `json:"precision"`
}

// valueView is the JSON form of one field value.
type valueView struct {
	Object   int64  `json:"object"`
	Field    string `json:"field"`
	Category string `json:"category"`
	Value    any    `json:"value"`
}

func jsonValue(v any) any {
	switch x := v.(type) {
	case types.GenDate:
		d := dateView{Precision: x.Precision.String()}
		if !x.Date.IsZero() {
			d.Date = x.Date.Format(types.DateLayout)
		}
		return d
	case []types.PossibilityItem:
		return newItemViews(x)
	case types.MultilingualValue:
		if x == nil {
			return types.MultilingualValue{}
		}
		return x
	default:
		return v
	}
}

// emitValue prints a value read from fd on obj.
func (a *app) emitValue(cmd *cobra.Command, acc *fields.Accessor, obj types.Object, fd types.FieldDescriptor, v any) error {
	view := valueView{Object: obj.ID, Field: fd.QualifiedName(), Category: fd.Category.String(), Value: jsonValue(v)}
	return a.emit(cmd, view, func(w io.Writer) {
		switch x := v.(type) {
		case string:
			fmt.Fprintln(w, x)
		case int64:
			fmt.Fprintln(w, strconv.FormatInt(x, 10))
		case types.GenDate:
			fmt.Fprintln(w, x.String())
		case types.MultilingualValue:
			for _, ws := range acc.Resolver().All() {
				if text := x.Get(ws.Tag); text != "" {
					fmt.Fprintf(w, "%s\t%s\n", ws.Tag, text)
				}
			}
		case []types.PossibilityItem:
			printItems(w, x)
		}
	})
}

func printItems(w io.Writer, items []types.PossibilityItem) {
	for _, it := range items {
		name := it.Name
		if name == "" {
			name = "(missing)"
		}
		fmt.Fprintf(w, "%s\t%s\n", it.ID, name)
	}
}
