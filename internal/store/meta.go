package store

import (
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/MKhiriev/go-admin-mixins/models"
)

// pkColumn is the primary key column every model must map.
const pkColumn = "id"

// Field describes one mapped column of a model.
type Field struct {
	// Name is the Go struct field name.
	Name string
	// Column is the database column name from the `db` tag.
	Column string
	// JSONName is the key used in serialized dicts and request payloads.
	JSONName string
	// Auto marks database-generated columns that are never written.
	Auto bool
	// Type is the Go type of the struct field.
	Type reflect.Type

	index []int
}

// Nullable reports whether the column may hold NULL, which pointer fields
// map to.
func (f Field) Nullable() bool {
	return f.Type.Kind() == reflect.Pointer
}

// Value returns the field inside the struct value v.
func (f Field) Value(v reflect.Value) reflect.Value {
	return v.FieldByIndex(f.index)
}

// Meta is the table mapping of a model type.
type Meta struct {
	Table       string
	VerboseName string
	Fields      []Field

	byName map[string]int
}

var metaCache sync.Map // reflect.Type -> *Meta

// MetaOf returns the cached table mapping of T.
func MetaOf[T models.Model]() (*Meta, error) {
	var zero T
	t := reflect.TypeOf(zero)
	if t == nil || t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w: %T is not a struct", ErrInvalidModel, zero)
	}

	if cached, ok := metaCache.Load(t); ok {
		return cached.(*Meta), nil
	}

	meta := &Meta{
		Table:       zero.TableName(),
		VerboseName: zero.VerboseName(),
		byName:      make(map[string]int),
	}

	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}

		tag := sf.Tag.Get("db")
		if tag == "" || tag == "-" {
			continue
		}

		column, opts, _ := strings.Cut(tag, ",")
		f := Field{
			Name:     sf.Name,
			Column:   column,
			JSONName: jsonName(sf),
			Auto:     opts == "auto",
			Type:     sf.Type,
			index:    sf.Index,
		}

		pos := len(meta.Fields)
		meta.Fields = append(meta.Fields, f)
		meta.byName[f.Column] = pos
		if f.JSONName != "" {
			meta.byName[f.JSONName] = pos
		}
	}

	if _, ok := meta.byName[pkColumn]; !ok {
		return nil, fmt.Errorf("%w: %s has no %q column", ErrInvalidModel, t.Name(), pkColumn)
	}

	actual, _ := metaCache.LoadOrStore(t, meta)
	return actual.(*Meta), nil
}

// Field resolves a column or JSON name to its field.
func (m *Meta) Field(name string) (Field, bool) {
	pos, ok := m.byName[name]
	if !ok {
		return Field{}, false
	}
	return m.Fields[pos], true
}

// Columns returns all mapped column names in declaration order.
func (m *Meta) Columns() []string {
	columns := make([]string, 0, len(m.Fields))
	for _, f := range m.Fields {
		columns = append(columns, f.Column)
	}
	return columns
}

// writable returns the columns and values INSERT and UPDATE write for v.
func (m *Meta) writable(v reflect.Value) ([]string, []any) {
	columns := make([]string, 0, len(m.Fields))
	values := make([]any, 0, len(m.Fields))
	for _, f := range m.Fields {
		if f.Auto {
			continue
		}
		columns = append(columns, f.Column)
		values = append(values, v.FieldByIndex(f.index).Interface())
	}
	return columns, values
}

// PK returns the primary key of instance, a model value or a pointer to one.
func (m *Meta) PK(instance any) int64 {
	return m.pk(reflect.Indirect(reflect.ValueOf(instance)))
}

// pk reads the primary key of v.
func (m *Meta) pk(v reflect.Value) int64 {
	f, _ := m.Field(pkColumn)
	return v.FieldByIndex(f.index).Int()
}

// setPK writes the primary key of the addressable value v.
func (m *Meta) setPK(v reflect.Value, id int64) {
	f, _ := m.Field(pkColumn)
	v.FieldByIndex(f.index).SetInt(id)
}

// scanTargets returns pointers into the addressable value v for columns.
// Unknown columns are scanned into a discard slot.
func (m *Meta) scanTargets(v reflect.Value, columns []string) []any {
	targets := make([]any, len(columns))
	for i, column := range columns {
		f, ok := m.Field(column)
		if !ok {
			targets[i] = new(any)
			continue
		}
		targets[i] = v.FieldByIndex(f.index).Addr().Interface()
	}
	return targets
}

func jsonName(sf reflect.StructField) string {
	tag := sf.Tag.Get("json")
	if tag == "-" {
		return ""
	}
	name, _, _ := strings.Cut(tag, ",")
	if name == "" {
		return sf.Name
	}
	return name
}
