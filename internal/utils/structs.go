package utils

import (
	"fmt"
	"reflect"
	"slices"
)

var ColumnTag = "db"

// StructTagValues lists the column names declared on a struct through
// ColumnTag, in field order.
func StructTagValues(input any) []string {
	result := make([]string, 0)
	eachTaggedField(input, func(column string, _ reflect.Value) {
		result = append(result, column)
	})
	return result
}

// StructToMap maps column name to field value. Columns listed in omit are
// skipped.
func StructToMap(input any, omit ...string) map[string]any {
	result := make(map[string]any)
	eachTaggedField(input, func(column string, value reflect.Value) {
		if slices.Contains(omit, column) {
			return
		}
		result[column] = value.Interface()
	})
	return result
}

func eachTaggedField(input any, fn func(column string, value reflect.Value)) {
	itemValue := reflect.ValueOf(input)
	if itemValue.Kind() == reflect.Ptr {
		itemValue = itemValue.Elem()
	}

	if itemValue.Kind() != reflect.Struct {
		panic("input must be a pointer to a struct or a struct")
	}

	itemType := itemValue.Type()
	for i := 0; i < itemValue.NumField(); i++ {
		field := itemType.Field(i)
		if field.PkgPath != "" {
			continue
		}

		tagValue := field.Tag.Get(ColumnTag)
		if tagValue == "" || tagValue == "-" {
			continue
		}

		fn(tagValue, itemValue.Field(i))
	}
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
