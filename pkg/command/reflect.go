package command

import "reflect"

// reflectTypeName returns the unqualified type name of cmd, for log fields.
func reflectTypeName(cmd any) string {
	t := reflect.TypeOf(cmd)
	if t == nil {
		return "<nil>"
	}
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}
