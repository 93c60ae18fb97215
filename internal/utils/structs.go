package utils

import (
	"fmt"
	"reflect"
)

var ColumnTag = "db"

type column struct {
	name  string
	value reflect.Value
}

// columns walks the exported, tagged fields of a struct or struct pointer.
func columns(input any) []column {
	v := reflect.ValueOf(input)
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}

	if v.Kind() != reflect.Struct {
		panic("input must be a pointer to a struct or a struct")
	}

	t := v.Type()
	out := make([]column, 0, v.NumField())
	for i := 0; i < v.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}

		name := field.Tag.Get(ColumnTag)
		if name == "" || name == "-" {
			continue
		}

		out = append(out, column{name: name, value: v.Field(i)})
	}

	return out
}

// StructTagValues lists the column names of a row type in field order.
func StructTagValues(input any) []string {
	cols := columns(input)
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = c.name
	}
	return out
}

// StructToMap maps column names to field values for squirrel SetMap.
func StructToMap(input any) map[string]any {
	cols := columns(input)
	out := make(map[string]any, len(cols))
	for _, c := range cols {
		out[c.name] = c.value.Interface()
	}
	return out
}

func ErrorWrapOrNil(err error, msg string) error {
	if err == nil {
		return nil
	}

	if msg == "" {
		return err
	}

	return fmt.Errorf("%s: %w", msg, err)
}
