// Package serializer turns model instances into plain dictionaries.
package serializer

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/MKhiriev/go-admin-mixins/models"
)

var ErrUnsupportedType = errors.New("serializer: instance is not a struct")

// URLResolver maps a stored file name to its public URL.
type URLResolver interface {
	URL(name string) string
}

var fieldFileType = reflect.TypeOf(models.FieldFile{})

// ModelToDict returns the exported fields of instance keyed by their JSON
// names. Fields tagged `json:"-"` are never included.
//
// A non-empty fields list limits the result to those keys, exclude removes
// keys. [models.FieldFile] values become the URL resolved by urls, or nil
// when no file is attached or urls is nil.
func ModelToDict(instance any, fields, exclude []string, urls URLResolver) (models.Dict, error) {
	v := reflect.Indirect(reflect.ValueOf(instance))
	if !v.IsValid() || v.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedType, instance)
	}

	include := toSet(fields)
	skip := toSet(exclude)

	t := v.Type()
	out := make(models.Dict, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}

		name, ok := jsonName(sf)
		if !ok {
			continue
		}
		if include != nil {
			if _, wanted := include[name]; !wanted {
				continue
			}
		}
		if _, skipped := skip[name]; skipped {
			continue
		}

		out[name] = value(v.Field(i), urls)
	}

	return out, nil
}

func value(fv reflect.Value, urls URLResolver) any {
	if fv.Type() == fieldFileType {
		file := fv.Interface().(models.FieldFile)
		if file.IsZero() || urls == nil {
			return nil
		}
		return urls.URL(file.Name)
	}
	return fv.Interface()
}

func jsonName(sf reflect.StructField) (string, bool) {
	tag := sf.Tag.Get("json")
	if tag == "-" {
		return "", false
	}
	name, _, _ := strings.Cut(tag, ",")
	if name == "" {
		name = sf.Name
	}
	return name, true
}

func toSet(names []string) map[string]struct{} {
	if len(names) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[n] = struct{}{}
	}
	return set
}
