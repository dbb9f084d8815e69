package fields

import (
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/lexfields/pkg/types"
)

// Record is one non-empty field value in the interchange format. Value holds
// a string for text, an object keyed by writing-system tag for multitext, a
// number for integer, {"date", "precision"} for date, and an array of item
// names for select and tags.
type Record struct {
	Object   int64           `json:"object"`
	Class    string          `json:"class"`
	Field    string          `json:"field"`
	Category string          `json:"category"`
	Value    json.RawMessage `json:"value"`
}

type dateValue struct {
	Date      string `json:"date"`
	Precision string `json:"precision"`
}

// Export returns a record for every non-empty value on every object of the
// session, ordered by object and then by field declaration.
func (m *Marshaller) Export() ([]Record, error) {
	objects, err := m.session.Objects()
	if err != nil {
		return nil, fmt.Errorf("enumerating objects: %w", err)
	}
	var out []Record
	for _, obj := range objects {
		for _, fd := range m.catalog.AllFieldsForClass(obj.Class) {
			v, err := m.Read(obj, fd.ID)
			if err != nil {
				return nil, err
			}
			raw, ok, err := encodeValue(v)
			if err != nil {
				return nil, fmt.Errorf("encoding %s on object %d: %w", fd.QualifiedName(), obj.ID, err)
			}
			if !ok {
				continue
			}
			out = append(out, Record{
				Object:   obj.ID,
				Class:    obj.Class,
				Field:    fd.QualifiedName(),
				Category: fd.Category.String(),
				Value:    raw,
			})
		}
	}
	zap.L().Info("exported field values", zap.Int("objects", len(objects)), zap.Int("records", len(out)))
	return out, nil
}

// encodeValue reports false for empty values.
func encodeValue(v any) (json.RawMessage, bool, error) {
	var enc any
	switch x := v.(type) {
	case string:
		if x == "" {
			return nil, false, nil
		}
		enc = x
	case types.MultilingualValue:
		if len(x) == 0 {
			return nil, false, nil
		}
		enc = x
	case int64:
		if x == 0 {
			return nil, false, nil
		}
		enc = x
	case types.GenDate:
		if x.IsZero() {
			return nil, false, nil
		}
		enc = dateValue{Date: x.Date.Format(types.DateLayout), Precision: x.Precision.String()}
	case []types.PossibilityItem:
		if len(x) == 0 {
			return nil, false, nil
		}
		refs := make([]string, len(x))
		for i, it := range x {
			refs[i] = it.Name
			if refs[i] == "" {
				refs[i] = it.ID
			}
		}
		enc = refs
	default:
		return nil, false, fmt.Errorf("unsupported value type %T", v)
	}
	b, err := json.Marshal(enc)
	if err != nil {
		return nil, false, err
	}
	return b, true, nil
}

// pendingWrite is a decoded record ready to be written.
type pendingWrite struct {
	obj   types.Object
	field types.FieldDescriptor
	value any
}

// Import writes records back through the marshaller. Every record is decoded
// and checked against the catalog before the first write; the number of
// values written is returned.
func (m *Marshaller) Import(records []Record) (int, error) {
	const op = "import"
	if !m.session.OpenForWrite() {
		return 0, &types.FieldError{Op: op, Err: types.ErrReadOnlyProject}
	}
	pending := make([]pendingWrite, 0, len(records))
	for i, rec := range records {
		pw, err := m.decodeRecord(rec)
		if err != nil {
			return 0, fmt.Errorf("record %d: %w", i+1, err)
		}
		pending = append(pending, pw)
	}
	for i, pw := range pending {
		if err := m.Write(pw.obj, pw.field.ID, pw.value); err != nil {
			return i, err
		}
	}
	zap.L().Info("imported field values", zap.Int("records", len(pending)))
	return len(pending), nil
}

func (m *Marshaller) decodeRecord(rec Record) (pendingWrite, error) {
	obj, err := m.Object(rec.Object)
	if err != nil {
		return pendingWrite{}, err
	}
	class, name, ok := strings.Cut(rec.Field, ".")
	if !ok {
		class, name = obj.Class, rec.Field
	}
	fd, err := m.catalog.ResolveField(class, name)
	if err != nil {
		return pendingWrite{}, err
	}
	if !m.catalog.IsA(obj.Class, fd.OwningClass) {
		return pendingWrite{}, fmt.Errorf("%s on object %d (%s): %w", fd.QualifiedName(), obj.ID, obj.Class, types.ErrWrongObjectClass)
	}
	if rec.Category != "" && rec.Category != fd.Category.String() {
		return pendingWrite{}, fmt.Errorf("%s is %s, record is %s: %w", fd.QualifiedName(), fd.Category, rec.Category, types.ErrCategoryMismatch)
	}
	value, err := decodeValue(fd.Category, rec.Value)
	if err != nil {
		return pendingWrite{}, fmt.Errorf("%s: %w", fd.QualifiedName(), err)
	}
	if err := m.checkValue("import", fd, value); err != nil {
		return pendingWrite{}, err
	}
	return pendingWrite{obj: obj, field: fd, value: value}, nil
}

// checkValue makes the value checks the write path would make, so that a bad
// record is found before any record is written.
func (m *Marshaller) checkValue(op string, fd types.FieldDescriptor, value any) error {
	switch v := value.(type) {
	case types.MultilingualValue:
		_, err := m.alternatives(op, fd, v)
		return err
	case types.GenDate:
		return checkDate(op, fd, v)
	case string:
		if fd.Category != types.CategorySingleSelect {
			return nil
		}
		return m.checkItems(op, fd, []string{v})
	case []string:
		return m.checkItems(op, fd, v)
	}
	return nil
}

func (m *Marshaller) checkItems(op string, fd types.FieldDescriptor, refs []string) error {
	list, err := m.lists.list(op, fd)
	if err != nil {
		return err
	}
	for _, ref := range refs {
		if _, err := m.lists.resolveItem(op, fd, list, ref); err != nil {
			return err
		}
	}
	return nil
}

func decodeValue(cat types.Category, raw json.RawMessage) (any, error) {
	switch cat {
	case types.CategoryScalarText:
		var s string
		err := json.Unmarshal(raw, &s)
		return s, err
	case types.CategoryMultilingualText:
		var v types.MultilingualValue
		err := json.Unmarshal(raw, &v)
		return v, err
	case types.CategoryInteger:
		var n int64
		err := json.Unmarshal(raw, &n)
		return n, err
	case types.CategoryDate:
		var dv dateValue
		if err := json.Unmarshal(raw, &dv); err != nil {
			return nil, err
		}
		p, err := types.ParsePrecision(dv.Precision)
		if err != nil {
			return nil, err
		}
		return types.ParseGenDate(dv.Date, p)
	case types.CategorySingleSelect:
		var refs []string
		if err := json.Unmarshal(raw, &refs); err != nil {
			return nil, err
		}
		if len(refs) == 0 {
			return nil, nil
		}
		if len(refs) > 1 {
			return nil, fmt.Errorf("%d items for a select field: %w", len(refs), types.ErrCategoryMismatch)
		}
		return refs[0], nil
	case types.CategoryMultiSelect:
		var refs []string
		err := json.Unmarshal(raw, &refs)
		return refs, err
	default:
		return nil, types.ErrInvalidCategory
	}
}
