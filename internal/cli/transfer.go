package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/lexfields/internal/jsonl"
	"github.com/mesh-intelligence/lexfields/pkg/fields"
)

func (a *app) newExportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export <file>",
		Short: "Write every field value to a JSONL file",
		Long: `Export writes one JSON record per non-empty field value. Select and tags
values are written as item names so the file can be imported into another
copy of the project.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			return a.withAccessor(func(acc *fields.Accessor) error {
				records, err := acc.Export()
				if err != nil {
					return err
				}
				lines, err := jsonl.Marshal(records)
				if err != nil {
					return sysErr(err)
				}
				if err := jsonl.Write(path, lines); err != nil {
					return sysErr(err)
				}
				zap.L().Info("exported", zap.String("file", path), zap.Int("records", len(records)))
				return a.emit(cmd, countView{File: path, Records: len(records)}, func(w io.Writer) {
					fmt.Fprintf(w, "exported %d values to %s\n", len(records), path)
				})
			})
		},
	}
}

func (a *app) newImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Write field values from a JSONL file",
		Long: `Import reads records written by export. Every record is checked before the
first value is written, so a bad record leaves the project unchanged.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			lines, err := jsonl.Read(path)
			if err != nil {
				return sysErr(err)
			}
			if lines == nil {
				return fmt.Errorf("import %s: file not found or empty", path)
			}
			records := jsonl.Unmarshal[fields.Record](lines)
			return a.withAccessor(func(acc *fields.Accessor) error {
				n, err := acc.Import(records)
				if err != nil {
					return err
				}
				zap.L().Info("imported", zap.String("file", path), zap.Int("records", n))
				return a.emit(cmd, countView{File: path, Records: n}, func(w io.Writer) {
					fmt.Fprintf(w, "imported %d values from %s\n", n, path)
				})
			})
		},
	}
}

type countView struct {
	File    string `json:"file"`
	Records int    `json:"records"`
}
