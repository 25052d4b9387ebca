package media

import (
	"reflect"
	"strings"

	"github.com/pkg/errors"
)

// Kind is the value shape of a record field.
type Kind int

const (
	KindString Kind = iota
	KindInt
	KindFloat
	KindBool
	KindStrings
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindBool:
		return "bool"
	case KindStrings:
		return "[]string"
	}
	return "unknown"
}

var stringsType = reflect.TypeOf([]string(nil))

// Field is a handle on one declared field of a record. It stays bound to the
// record it was taken from.
type Field struct {
	Name string
	Kind Kind

	v reflect.Value
}

// Value returns the current value. Sequences are copied and never nil.
func (f Field) Value() any {
	if f.Kind == KindStrings {
		if f.v.IsNil() {
			return []string{}
		}
		return cloneStrings(f.v.Interface().([]string))
	}
	return f.v.Interface()
}

// Set assigns v, which must have exactly the Go type of the field.
func (f Field) Set(v any) error {
	rv := reflect.ValueOf(v)
	if !rv.IsValid() || rv.Type() != f.v.Type() {
		return errors.Errorf("field %q expects %s, got %T", f.Name, f.Kind, v)
	}
	if f.Kind == KindStrings {
		s := rv.Interface().([]string)
		if s == nil {
			s = []string{}
		}
		rv = reflect.ValueOf(cloneStrings(s))
	}
	f.v.Set(rv)
	return nil
}

// Fields returns the base and variant fields of r in declaration order.
func Fields(r Record) []Field {
	v, ok := recordValue(r)
	if !ok {
		return nil
	}
	return structFields(v)
}

// UserDataFields returns the user-controlled fields of r in declaration order.
func UserDataFields(r Record) []Field {
	v, ok := recordValue(r)
	if !ok {
		return nil
	}
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		if fieldName(t.Field(i)) == UserDataKey {
			return structFields(v.Field(i))
		}
	}
	return nil
}

func allFields(r Record) []Field {
	return append(Fields(r), UserDataFields(r)...)
}

func recordValue(r Record) (reflect.Value, bool) {
	if r == nil {
		return reflect.Value{}, false
	}
	v := reflect.ValueOf(r)
	if v.Kind() != reflect.Pointer || v.IsNil() || v.Elem().Kind() != reflect.Struct {
		return reflect.Value{}, false
	}
	return v.Elem(), true
}

func structFields(v reflect.Value) []Field {
	var fields []Field
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}
		if sf.Anonymous && sf.Type.Kind() == reflect.Struct {
			fields = append(fields, structFields(v.Field(i))...)
			continue
		}
		name := fieldName(sf)
		if name == "" || name == UserDataKey {
			continue
		}
		kind, ok := kindOf(sf.Type)
		if !ok {
			continue
		}
		fields = append(fields, Field{Name: name, Kind: kind, v: v.Field(i)})
	}
	return fields
}

func fieldName(sf reflect.StructField) string {
	tag := sf.Tag.Get("json")
	if tag == "-" {
		return ""
	}
	if name, _, _ := strings.Cut(tag, ","); name != "" {
		return name
	}
	return sf.Name
}

func kindOf(t reflect.Type) (Kind, bool) {
	switch t.Kind() {
	case reflect.String:
		return KindString, true
	case reflect.Int:
		return KindInt, true
	case reflect.Float64:
		return KindFloat, true
	case reflect.Bool:
		return KindBool, true
	case reflect.Slice:
		if t == stringsType {
			return KindStrings, true
		}
	}
	return 0, false
}
