package resolve

import (
	"reflect"
	"strconv"
	"strings"
	"sync"

	"recordforge/field"
	"recordforge/internal/common"
	"recordforge/internal/diagnostic"
)

// Struct tag keys recognized on record prototypes.
const (
	TagRecord  = "record"  // comma-separated behavior options
	TagDefault = "default" // literal default value
	TagRename  = "rename"  // serialized key override
	TagAlias   = "alias"   // extra accepted keys, | separated
)

// tables caches one Table per struct type. Population is idempotent: a
// racing duplicate build produces an identical table and either writer may
// win.
var tables sync.Map // reflect.Type -> *Table

// TableOf returns the cached field table for a struct type, building it on
// first use. Diagnostics are only collected by the goroutine that builds
// the table; cache hits report none.
func TableOf(t reflect.Type, diags *diagnostic.Diagnostics) (*Table, error) {
	if t.Kind() != reflect.Struct {
		return nil, NewError(CodeNotStruct, "", "record prototype must be a struct type, got %s", t.Kind())
	}

	if cached, ok := tables.Load(t); ok {
		return cached.(*Table), nil
	}

	tbl, err := buildTable(t, diags)
	if err != nil {
		return nil, err
	}

	actual, _ := tables.LoadOrStore(t, tbl)

	return actual.(*Table), nil
}

func buildTable(t reflect.Type, diags *diagnostic.Diagnostics) (*Table, error) {
	tbl := &Table{
		Type:   t,
		Fields: map[string]*field.Spec{},
	}

	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)

		// Embedded structs form the ancestor chain.
		if sf.Anonymous && sf.Type.Kind() == reflect.Struct {
			parent, err := TableOf(sf.Type, diags)
			if err != nil {
				return nil, err
			}

			tbl.Parents = append(tbl.Parents, parent)

			continue
		}

		if !sf.IsExported() {
			diags.AddInfo("unexported_field",
				"unexported fields are not part of the record", t.String(), sf.Name)

			continue
		}

		if sf.Tag.Get(TagRecord) == "-" {
			// A pure override cancelling an inherited field, not a field.
			if !common.Contains(tbl.Cancels, sf.Name) {
				tbl.Cancels = append(tbl.Cancels, sf.Name)
			}

			continue
		}

		spec, err := parseField(t, sf, diags)
		if err != nil {
			return nil, err
		}

		if _, ok := tbl.Fields[sf.Name]; !ok {
			tbl.Order = append(tbl.Order, sf.Name)
		}

		tbl.Fields[sf.Name] = spec
	}

	return tbl, nil
}

// parseField builds the field spec declared by one struct field, applying
// record-tag options and the literal default tag.
func parseField(owner reflect.Type, sf reflect.StructField, diags *diagnostic.Diagnostics) (*field.Spec, error) {
	spec := field.NewSpec(sf.Name, sf.Type)

	if tag, ok := sf.Tag.Lookup(TagRecord); ok && tag != "" {
		for _, opt := range strings.Split(tag, ",") {
			switch strings.TrimSpace(opt) {
			case "noinit":
				spec.Init = false
			case "norepr":
				spec.Repr = false
			case "nohash":
				spec.Hash = false
			case "nocompare":
				spec.Compare = false
			case "kwonly":
				spec.KwOnly = true
			case "frozen":
				spec.Frozen = true
			case "initonly":
				spec.Category = field.CategoryInitOnly
			case "":
			default:
				diags.AddWarning("unknown_tag_option",
					"unknown record tag option "+strconv.Quote(opt), owner.String(), sf.Name)
			}
		}
	}

	if raw, ok := sf.Tag.Lookup(TagDefault); ok {
		def, err := parseDefault(raw, sf.Type)
		if err != nil {
			return nil, NewError(CodeBadDefault, sf.Name,
				"cannot parse default %q as %s: %v", raw, sf.Type, err)
		}

		spec.Default = def
		spec.HasDefault = true
	}

	if rename, ok := sf.Tag.Lookup(TagRename); ok && rename != "" {
		spec.Metadata[field.MetaRename] = rename
	}

	if alias, ok := sf.Tag.Lookup(TagAlias); ok && alias != "" {
		spec.Metadata[field.MetaAliases] = strings.Split(alias, "|")
	}

	return spec, nil
}

// parseDefault interprets a `default` tag literal for scalar field types.
func parseDefault(raw string, t reflect.Type) (any, error) {
	switch t.Kind() {
	case reflect.String:
		return raw, nil
	case reflect.Bool:
		return strconv.ParseBool(raw)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, err
		}

		return reflect.ValueOf(n).Convert(t).Interface(), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return nil, err
		}

		return reflect.ValueOf(n).Convert(t).Interface(), nil
	case reflect.Float32, reflect.Float64:
		n, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, err
		}

		return reflect.ValueOf(n).Convert(t).Interface(), nil
	default:
		return nil, NewError(CodeBadDefault, "", "default tags support scalar types only; use a field descriptor for %s", t)
	}
}
