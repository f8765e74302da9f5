package forms

import (
	"errors"
	"math"
	"reflect"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
)

// decode copies input onto dst, a pointer to a struct, matching keys against
// `json` tags. Form-encoded strings are converted to the field types.
func decode(dst any, input map[string]any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		Result:           dst,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			checkboxHook,
			timeHook,
			wholeNumberHook,
		),
	})
	if err != nil {
		return err
	}
	return dec.Decode(input)
}

// checkboxHook accepts the values browsers submit for checkboxes.
func checkboxHook(from, to reflect.Type, data any) (any, error) {
	if from.Kind() != reflect.String || to.Kind() != reflect.Bool {
		return data, nil
	}
	switch strings.ToLower(strings.TrimSpace(data.(string))) {
	case "on", "yes":
		return true, nil
	case "off", "no", "":
		return false, nil
	}
	return data, nil
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	time.DateOnly,
}

// timeHook parses timestamps in the layouts HTML date and datetime-local
// inputs produce, besides RFC 3339.
func timeHook(from, to reflect.Type, data any) (any, error) {
	if from.Kind() != reflect.String || to != reflect.TypeOf(time.Time{}) {
		return data, nil
	}

	s := strings.TrimSpace(data.(string))
	var err error
	for _, layout := range timeLayouts {
		var t time.Time
		if t, err = time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return nil, err
}

var errNotWholeNumber = errors.New("not a whole number")

// wholeNumberHook rejects JSON numbers that an integer field cannot hold
// exactly instead of letting them be truncated.
func wholeNumberHook(from, to reflect.Type, data any) (any, error) {
	if !isInteger(to) {
		return data, nil
	}
	if from.Kind() != reflect.Float32 && from.Kind() != reflect.Float64 {
		return data, nil
	}

	f := reflect.ValueOf(data).Float()
	if f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 {
		return nil, errNotWholeNumber
	}
	if isUnsigned(to) && f < 0 {
		return nil, errNotWholeNumber
	}
	return int64(f), nil
}

func indirect(t reflect.Type) reflect.Type {
	if t.Kind() == reflect.Pointer {
		return t.Elem()
	}
	return t
}

func isInteger(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return true
	}
	return isUnsigned(t)
}

func isUnsigned(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return true
	}
	return false
}
