package datarecording

import (
	"fmt"
	"reflect"

	"github.com/fatih/structs"
)

type column struct {
	name string
	kind reflect.Kind
}

func isAllowedType(kind reflect.Kind) bool {
	switch kind {
	case
		reflect.Bool,
		reflect.Int,
		reflect.Int8,
		reflect.Int16,
		reflect.Int32,
		reflect.Int64,
		reflect.Uint,
		reflect.Uint8,
		reflect.Uint16,
		reflect.Uint32,
		reflect.Uint64,
		reflect.Float32,
		reflect.Float64,
		reflect.String:
		return true
	default:
		return false
	}
}

// columnsOf returns the columns of a table that stores entries shaped like
// sample. Only structs of exported scalar fields can be stored.
func columnsOf(sample any) ([]column, error) {
	t := reflect.TypeOf(sample)
	if t == nil || t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("entry %T is not a struct", sample)
	}

	columns := make([]column, 0, t.NumField())

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)

		if !field.IsExported() {
			return nil, fmt.Errorf("field %s of %T is not exported",
				field.Name, sample)
		}

		if !isAllowedType(field.Type.Kind()) {
			return nil, fmt.Errorf("field %s of %T is not a scalar",
				field.Name, sample)
		}

		columns = append(columns, column{name: field.Name, kind: field.Type.Kind()})
	}

	if len(columns) != len(structs.Values(sample)) {
		return nil, fmt.Errorf("entry %T has fields that cannot be stored",
			sample)
	}

	return columns, nil
}

// valuesOf flattens an entry into the values of its columns, in order.
func valuesOf(entry any) []any {
	return structs.Values(entry)
}

type table struct {
	structType reflect.Type
	columns    []column
	entries    []any
}

func newTable(sample any) (*table, error) {
	columns, err := columnsOf(sample)
	if err != nil {
		return nil, err
	}

	return &table{
		structType: reflect.TypeOf(sample),
		columns:    columns,
	}, nil
}

func (t *table) mustAccept(tableName string, entry any) {
	if reflect.TypeOf(entry) != t.structType {
		panic(fmt.Sprintf("entry of type %T cannot be inserted into table %s",
			entry, tableName))
	}
}
