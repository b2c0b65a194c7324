package descriptor

import (
	"fmt"
	"reflect"
	"slices"
	"strings"
)

// Validate runs the full check pipeline on a tagged raw descriptor and returns
// the typed Descriptor. The raw value is never modified; the derived
// classification lives only on the returned Descriptor.
func Validate(raw Raw) (Descriptor, error) {
	name, _ := raw[FieldName].(string)
	if name == "" {
		return Descriptor{}, schemaErr(ErrSchemaLayout, "descriptor", FieldName, -1, "missing descriptor kind tag")
	}
	kind := Kind(name)
	isParam := kind == ParameterKind

	if err := checkLayout(name, isParam, raw); err != nil {
		return Descriptor{}, err
	}

	fields, err := checkContainers(name, raw)
	if err != nil {
		return Descriptor{}, err
	}

	n, err := checkLengths(name, isParam, fields)
	if err != nil {
		return Descriptor{}, err
	}

	d := Descriptor{Kind: kind}
	if d.ElementTypes, err = checkElementTypes(name, fields[FieldElementTypes]); err != nil {
		return Descriptor{}, err
	}
	if d.Dimensions, d.NumberOfDimensions, err = checkDimensions(name, fields[FieldDimensions]); err != nil {
		return Descriptor{}, err
	}
	if d.Names, err = checkNames(name, fields[FieldNames]); err != nil {
		return Descriptor{}, err
	}
	if isParam {
		d.DefaultValues = make([]Value, n)
		for i, v := range fields[FieldDefaultValues] {
			if d.DefaultValues[i], err = checkDefault(name, i, v, d.ElementTypes[i], d.Dimensions[i], d.NumberOfDimensions[i]); err != nil {
				return Descriptor{}, err
			}
		}
	}
	return d, nil
}

func checkLayout(desc string, isParam bool, raw Raw) error {
	keys := make([]string, 0, len(raw))
	for key := range raw {
		keys = append(keys, key)
	}
	slices.Sort(keys)

	for _, key := range keys {
		if !slices.Contains(allowedFields, key) {
			msg := fmt.Sprintf("'%s' key is not allowed", key)
			if hint := Suggest(key, allowedFields); hint != "" {
				msg += fmt.Sprintf("; did you mean '%s'?", hint)
			}
			return schemaErr(ErrSchemaLayout, desc, key, -1, "%s", msg)
		}
		if key == FieldDefaultValues && !isParam {
			return schemaErr(ErrSchemaLayout, desc, key, -1, "'%s' key is allowed only in %s", FieldDefaultValues, ParameterKind)
		}
	}
	return nil
}

// checkContainers unpacks every sequence field. Absent required fields are
// treated as empty sequences so that the length check reports them.
func checkContainers(desc string, raw Raw) (map[string][]any, error) {
	fields := make(map[string][]any, len(raw))
	for _, key := range allowedFields {
		if key == FieldName {
			continue
		}
		v, present := raw[key]
		if !present {
			continue
		}
		items, ok := sequence(v)
		if !ok {
			return nil, schemaErr(ErrSchemaType, desc, key, -1, "must be an ordered sequence, got %s", describeValue(v))
		}
		fields[key] = items
	}
	return fields, nil
}

func checkLengths(desc string, isParam bool, fields map[string][]any) (int, error) {
	required := []string{FieldElementTypes, FieldDimensions, FieldNames}
	if isParam {
		required = append(required, FieldDefaultValues)
	}
	counted := required
	if _, ok := fields[FieldNumberOfDimensions]; ok {
		counted = append(counted, FieldNumberOfDimensions)
	}

	n := len(fields[FieldElementTypes])
	var parts []string
	mismatch := false
	for _, key := range counted {
		l := len(fields[key])
		parts = append(parts, fmt.Sprintf("%s=%d", key, l))
		if l != n {
			mismatch = true
		}
	}
	if mismatch {
		return 0, schemaErr(ErrSchemaCountMismatch, desc, "", -1,
			"keys have different number of elements (%s); all keys must contain the same number of elements", strings.Join(parts, ", "))
	}
	return n, nil
}

func checkElementTypes(desc string, entries []any) ([]ElementType, error) {
	types := make([]ElementType, len(entries))
	for i, e := range entries {
		switch t := e.(type) {
		case ElementType:
			if !t.Valid() {
				return nil, schemaErr(ErrSchemaType, desc, FieldElementTypes, i, "unsupported element type %s", t)
			}
			types[i] = t
		case reflect.Type:
			et, ok := ElementTypeOf(t)
			if !ok {
				return nil, schemaErr(ErrSchemaType, desc, FieldElementTypes, i, "unsupported element type %s; supported types are %s", t, strings.Join(SupportedTypes(), ", "))
			}
			types[i] = et
		default:
			return nil, schemaErr(ErrSchemaType, desc, FieldElementTypes, i, "contains a non-type value %s", describeValue(e))
		}
	}
	return types, nil
}

func checkDimensions(desc string, entries []any) ([]Shape, []Classification, error) {
	shapes := make([]Shape, len(entries))
	classes := make([]Classification, len(entries))
	for i, e := range entries {
		pair, ok := sequence(e)
		if !ok {
			return nil, nil, schemaErr(ErrSchemaDimension, desc, FieldDimensions, i, "must be a sequence, got %s", describeValue(e))
		}
		if len(pair) != 2 {
			return nil, nil, schemaErr(ErrSchemaDimension, desc, FieldDimensions, i, "must be a 1x2 sequence, got %d entries", len(pair))
		}
		var extent [2]int
		for j, v := range pair {
			x, ok := integer(v)
			if !ok {
				return nil, nil, schemaErr(ErrSchemaDimension, desc, FieldDimensions, i, "entries must be integers, got %s", describeValue(v))
			}
			extent[j] = x
		}
		shapes[i] = Shape{Rows: extent[0], Cols: extent[1]}
		c, ok := Classify(shapes[i])
		if !ok {
			return nil, nil, schemaErr(ErrSchemaDimension, desc, FieldDimensions, i, "entries must be equal or greater than 1, got %s", shapes[i])
		}
		classes[i] = c
	}
	return shapes, classes, nil
}

func checkNames(desc string, entries []any) ([]string, error) {
	names := make([]string, len(entries))
	seen := make(map[string]int, len(entries))
	for i, e := range entries {
		s, ok := e.(string)
		if !ok {
			return nil, schemaErr(ErrSchemaType, desc, FieldNames, i, "entries must be strings, got %s", describeValue(e))
		}
		if strings.TrimSpace(s) == "" {
			return nil, schemaErr(ErrSchemaType, desc, FieldNames, i, "entries must not be empty")
		}
		if first, dup := seen[s]; dup {
			return nil, schemaErr(ErrSchemaLayout, desc, FieldNames, i, "'%s' is already declared at index %d", s, first)
		}
		seen[s] = i
		names[i] = s
	}
	return names, nil
}

// integer accepts any Go integer kind that fits in an int.
func integer(v any) (int, bool) {
	if v == nil {
		return 0, false
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return int(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		u := rv.Uint()
		if u > uint64(^uint(0)>>1) {
			return 0, false
		}
		return int(u), true
	default:
		return 0, false
	}
}

func describeValue(v any) string {
	if v == nil {
		return "nil"
	}
	return fmt.Sprintf("%v (%T)", v, v)
}
