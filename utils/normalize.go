package utils

import (
	"reflect"
	"strings"
)

// NormalizePtrDTO walks a pointer-to-struct patch DTO and cleans its set
// fields in place: *string values are whitespace-trimmed, *float64 values
// rounded to cents. Nil pointers are left alone, which is what keeps
// "field absent from the request" distinct from "field set to empty".
func NormalizePtrDTO(dto any) {
	s := structValue(dto)
	if !s.IsValid() {
		return
	}
	for i := 0; i < s.NumField(); i++ {
		f := s.Field(i)
		if f.Kind() != reflect.Ptr || f.IsNil() {
			continue
		}
		cleanField(f.Elem())
	}
}

// NormalizeDTO is the plain-field counterpart for create DTOs, where every
// field is always present: strings are trimmed, float64 amounts rounded to
// cents.
func NormalizeDTO(dto any) {
	s := structValue(dto)
	if !s.IsValid() {
		return
	}
	for i := 0; i < s.NumField(); i++ {
		cleanField(s.Field(i))
	}
}

func structValue(dto any) reflect.Value {
	v := reflect.ValueOf(dto)
	if v.Kind() != reflect.Ptr || v.Elem().Kind() != reflect.Struct {
		return reflect.Value{}
	}
	return v.Elem()
}

func cleanField(f reflect.Value) {
	if !f.CanSet() {
		return
	}
	switch f.Kind() {
	case reflect.String:
		f.SetString(strings.TrimSpace(f.String()))
	case reflect.Float64:
		f.SetFloat(Round2(f.Float()))
	}
}
