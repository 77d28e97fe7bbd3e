package shared

import (
	"reflect"
	"strconv"
	"strings"
	"tasklist/shared/constant"
	"tasklist/shared/dto"
	"tasklist/shared/optional"
	"tasklist/shared/timezone"
)

// TransformFields converts the db-tagged fields of a struct into a column map for an update.
// Plain fields are always written; optional.Field values only when they were supplied.
func TransformFields(data any, username string) map[string]any {
	val := reflect.ValueOf(data)
	typ := reflect.TypeOf(data)

	updatedFields := make(map[string]any)

	for index := range val.NumField() {
		fieldName := typ.Field(index).Tag.Get("db")
		if fieldName == "" {
			continue
		}

		field := val.Field(index).Interface()

		if supplied, ok := field.(optional.Supplied); ok {
			if !supplied.IsSet() {
				continue
			}

			field = supplied.Any()
		}

		updatedFields[fieldName] = field
	}

	updatedFields[constant.FieldModifiedAt] = timezone.Now()
	updatedFields[constant.FieldModifiedBy] = username

	return updatedFields
}

func FilterByField(value any, field, table string) dto.FilterGroup {
	return dto.FilterGroup{
		Filters: []any{
			dto.Filter{
				Field:    field,
				Value:    value,
				Operator: dto.FilterOperatorEq,
				Table:    table,
			},
		},
	}
}

// FilterByOwner scopes a lookup to one row of one owner. Both keys always travel together.
func FilterByOwner(id, ownerID int64, fieldID, fieldOwner, table string) dto.FilterGroup {
	return dto.FilterGroup{
		Operator: dto.FilterGroupOperatorAnd,
		Filters: []any{
			dto.Filter{
				Field:    fieldID,
				Value:    id,
				Operator: dto.FilterOperatorEq,
				Table:    table,
			},
			dto.Filter{
				Field:    fieldOwner,
				Value:    ownerID,
				Operator: dto.FilterOperatorEq,
				Table:    table,
			},
		},
	}
}

func BuildCacheKey(parts ...string) string {
	return strings.Join(parts, ":")
}

func FormatID(id int64) string {
	return strconv.FormatInt(id, 10)
}
