package fields

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/lexfields/pkg/types"
)

// ReadInteger returns the value of an integer field, 0 when unset.
func (m *Marshaller) ReadInteger(obj types.Object, fieldID int) (int64, error) {
	const op = "read integer"
	fd, err := m.prepare(op, obj, fieldID, readAccess, types.CategoryInteger)
	if err != nil {
		return 0, err
	}
	return m.readInteger(op, obj, fd)
}

func (m *Marshaller) readInteger(op string, obj types.Object, fd types.FieldDescriptor) (int64, error) {
	n, err := m.store.GetInteger(obj.ID, fd.ID)
	if err != nil {
		return 0, storeError(op, fd, err)
	}
	return n, nil
}

// WriteInteger stores the value of an integer field.
func (m *Marshaller) WriteInteger(obj types.Object, fieldID int, value int64) error {
	const op = "write integer"
	fd, err := m.prepare(op, obj, fieldID, writeAccess, types.CategoryInteger)
	if err != nil {
		return err
	}
	return m.writeInteger(op, obj, fd, value)
}

func (m *Marshaller) writeInteger(op string, obj types.Object, fd types.FieldDescriptor, value int64) error {
	if err := m.store.SetInteger(obj.ID, fd.ID, value); err != nil {
		return storeError(op, fd, err)
	}
	logWrite(op, obj, fd, zap.Int64("value", value))
	return nil
}

// ReadDate returns the value of a date field. An unset field reads as the
// zero GenDate, whose precision is unknown.
func (m *Marshaller) ReadDate(obj types.Object, fieldID int) (types.GenDate, error) {
	const op = "read date"
	fd, err := m.prepare(op, obj, fieldID, readAccess, types.CategoryDate)
	if err != nil {
		return types.GenDate{}, err
	}
	return m.readDate(op, obj, fd)
}

func (m *Marshaller) readDate(op string, obj types.Object, fd types.FieldDescriptor) (types.GenDate, error) {
	d, err := m.store.GetDate(obj.ID, fd.ID)
	if err != nil {
		return types.GenDate{}, storeError(op, fd, err)
	}
	return d, nil
}

// WriteDate stores a date and its precision. The date is truncated to the
// day. A precision without a date is rejected; the zero GenDate clears the
// field.
func (m *Marshaller) WriteDate(obj types.Object, fieldID int, value types.GenDate) error {
	const op = "write date"
	fd, err := m.prepare(op, obj, fieldID, writeAccess, types.CategoryDate)
	if err != nil {
		return err
	}
	return m.writeDate(op, obj, fd, value)
}

func (m *Marshaller) writeDate(op string, obj types.Object, fd types.FieldDescriptor, value types.GenDate) error {
	if err := checkDate(op, fd, value); err != nil {
		return err
	}
	value = value.Normalize()
	if err := m.store.SetDate(obj.ID, fd.ID, value); err != nil {
		return storeError(op, fd, err)
	}
	logWrite(op, obj, fd, zap.Stringer("date", value))
	return nil
}

// checkDate rejects an out-of-range precision and a precision without a date.
func checkDate(op string, fd types.FieldDescriptor, value types.GenDate) error {
	if value.Precision < types.PrecisionUnknown || value.Precision > types.PrecisionAfter {
		return &types.FieldError{Op: op, Field: fd.QualifiedName(),
			Err: fmt.Errorf("%v: %w", value.Precision, types.ErrInvalidPrecision)}
	}
	if value.Date.IsZero() && value.Precision != types.PrecisionUnknown {
		return &types.FieldError{Op: op, Field: fd.QualifiedName(),
			Err: fmt.Errorf("%s date without a date: %w", value.Precision, types.ErrNullArgument)}
	}
	return nil
}
