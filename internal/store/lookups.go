package store

import (
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
)

// Lookups maps "field" or "field__lookup" keys to values. A bare field name
// means an exact match.
//
// Supported lookups: exact, iexact, contains, icontains, startswith,
// istartswith, endswith, iendswith, in, gt, gte, lt, lte, isnull.
type Lookups map[string]any

const lookupSep = "__"

const (
	lookupExact       = "exact"
	lookupIExact      = "iexact"
	lookupContains    = "contains"
	lookupIContains   = "icontains"
	lookupStartsWith  = "startswith"
	lookupIStartsWith = "istartswith"
	lookupEndsWith    = "endswith"
	lookupIEndsWith   = "iendswith"
	lookupIn          = "in"
	lookupGt          = "gt"
	lookupGte         = "gte"
	lookupLt          = "lt"
	lookupLte         = "lte"
	lookupIsNull      = "isnull"
)

var knownLookups = map[string]struct{}{
	lookupExact: {}, lookupIExact: {},
	lookupContains: {}, lookupIContains: {},
	lookupStartsWith: {}, lookupIStartsWith: {},
	lookupEndsWith: {}, lookupIEndsWith: {},
	lookupIn: {},
	lookupGt: {}, lookupGte: {}, lookupLt: {}, lookupLte: {},
	lookupIsNull: {},
}

// Keys returns the lookup keys in sorted order.
func (l Lookups) Keys() []string {
	keys := make([]string, 0, len(l))
	for k := range l {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// where compiles the lookups into a single AND condition over meta's
// columns. Keys are applied in sorted order so the generated SQL is stable.
func (l Lookups) where(meta *Meta) (sq.And, error) {
	conds := make(sq.And, 0, len(l))
	for _, key := range l.Keys() {
		cond, err := compileLookup(meta, key, l[key])
		if err != nil {
			return nil, err
		}
		conds = append(conds, cond)
	}
	return conds, nil
}

// excludeWhere compiles the lookups for Exclude. A condition on a nullable
// column also requires the column to be set, so the negated condition keeps
// rows where it is NULL.
func (l Lookups) excludeWhere(meta *Meta) (sq.And, error) {
	conds := make(sq.And, 0, len(l))
	for _, key := range l.Keys() {
		cond, err := compileLookup(meta, key, l[key])
		if err != nil {
			return nil, err
		}

		field, lookup, _ := resolveLookup(meta, key)
		if lookup != lookupIsNull && field.Nullable() {
			cond = sq.And{cond, sq.NotEq{field.Column: nil}}
		}
		conds = append(conds, cond)
	}
	return conds, nil
}

// resolveLookup splits key into the model field and the lookup name.
func resolveLookup(meta *Meta, key string) (Field, string, error) {
	name, lookup := key, lookupExact
	if i := strings.LastIndex(key, lookupSep); i > 0 {
		if _, ok := knownLookups[key[i+len(lookupSep):]]; ok {
			name, lookup = key[:i], key[i+len(lookupSep):]
		}
	}

	field, ok := meta.Field(name)
	if !ok || field.JSONName == "" {
		return Field{}, "", fmt.Errorf("%w: unknown field %q on %s", ErrInvalidLookup, name, meta.VerboseName)
	}
	return field, lookup, nil
}

func compileLookup(meta *Meta, key string, value any) (sq.Sqlizer, error) {
	field, lookup, err := resolveLookup(meta, key)
	if err != nil {
		return nil, err
	}
	column := field.Column

	switch lookup {
	case lookupIsNull:
		isNull, err := toBool(value)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrInvalidLookup, key, err)
		}
		if isNull {
			return sq.Eq{column: nil}, nil
		}
		return sq.NotEq{column: nil}, nil

	case lookupIn:
		values, err := coerceList(field.Type, value)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrInvalidLookup, key, err)
		}
		if len(values) == 0 {
			// IN () matches nothing
			return sq.Expr("1 = 0"), nil
		}
		return sq.Eq{column: values}, nil

	case lookupContains, lookupIContains, lookupStartsWith, lookupIStartsWith, lookupEndsWith, lookupIEndsWith:
		text := fmt.Sprint(value)
		return likeExpr{
			column:  column,
			pattern: likePattern(lookup, text),
			fold:    lookup[0] == 'i',
		}, nil
	}

	v, err := coerce(field.Type, value)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidLookup, key, err)
	}

	switch lookup {
	case lookupIExact:
		return sq.Expr("LOWER("+column+") = LOWER(?)", v), nil
	case lookupGt:
		return sq.Gt{column: v}, nil
	case lookupGte:
		return sq.GtOrEq{column: v}, nil
	case lookupLt:
		return sq.Lt{column: v}, nil
	case lookupLte:
		return sq.LtOrEq{column: v}, nil
	}

	return sq.Eq{column: v}, nil
}

// likeExpr renders a LIKE comparison with an explicit escape character so
// that "%" and "_" in user input match literally.
type likeExpr struct {
	column  string
	pattern string
	fold    bool
}

func (e likeExpr) ToSql() (string, []any, error) {
	if e.fold {
		return "LOWER(" + e.column + ") LIKE LOWER(?) ESCAPE '\\'", []any{e.pattern}, nil
	}
	return e.column + " LIKE ? ESCAPE '\\'", []any{e.pattern}, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func likePattern(lookup, text string) string {
	text = likeEscaper.Replace(text)
	switch lookup {
	case lookupStartsWith, lookupIStartsWith:
		return text + "%"
	case lookupEndsWith, lookupIEndsWith:
		return "%" + text
	}
	return "%" + text + "%"
}

// notExpr negates a condition.
type notExpr struct {
	cond sq.Sqlizer
}

func (e notExpr) ToSql() (string, []any, error) {
	sql, args, err := e.cond.ToSql()
	if err != nil {
		return "", nil, err
	}
	return "NOT (" + sql + ")", args, nil
}

// coerce converts a lookup value to the field's Go type. Strings coming
// from query parameters are parsed; values already of a compatible kind are
// passed through.
func coerce(t reflect.Type, value any) (any, error) {
	s, isString := value.(string)
	if !isString {
		return value, nil
	}

	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	if t == reflect.TypeOf(time.Time{}) {
		return parseTime(s)
	}

	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.ParseUint(strings.TrimSpace(s), 10, 64)
	case reflect.Float32, reflect.Float64:
		return strconv.ParseFloat(strings.TrimSpace(s), 64)
	case reflect.Bool:
		return toBool(s)
	}

	return s, nil
}

func coerceList(t reflect.Type, value any) ([]any, error) {
	if s, ok := value.(string); ok {
		if s == "" {
			return nil, nil
		}
		parts := strings.Split(s, ",")
		out := make([]any, 0, len(parts))
		for _, p := range parts {
			v, err := coerce(t, strings.TrimSpace(p))
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil
	}

	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, fmt.Errorf("expected a list, got %T", value)
	}

	out := make([]any, 0, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		v, err := coerce(t, rv.Index(i).Interface())
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func toBool(value any) (bool, error) {
	switch v := value.(type) {
	case bool:
		return v, nil
	case string:
		return strconv.ParseBool(strings.TrimSpace(v))
	}
	return false, fmt.Errorf("expected a boolean, got %T", value)
}

var timeLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02 15:04:05", time.DateOnly}

func parseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse %q as a time", s)
}
