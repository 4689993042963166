package config

import (
	"fmt"
	"maps"
	"reflect"
	"slices"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"

	infraconfig "github.com/jonesrussell/north-cloud/field-usage/infrastructure/config"
)

// Override applies values keyed by dotted YAML path, such as
// "elasticsearch.hosts" or "output.suffix", onto cfg. Keys are applied in
// sorted order. An unknown key or a value of the wrong type yields a
// *ConfigurationError and leaves later keys unapplied.
func Override(cfg *Config, values map[string]any) error {
	root := reflect.ValueOf(cfg).Elem()
	for _, key := range slices.Sorted(maps.Keys(values)) {
		field, ok := lookupField(root, strings.Split(key, "."))
		if !ok {
			return &ConfigurationError{Key: key, Message: "unknown option"}
		}
		if err := decodeInto(field, values[key]); err != nil {
			return &ConfigurationError{Key: key, Message: err.Error()}
		}
	}
	return nil
}

// Keys lists every settable dotted key, sorted.
func Keys() []string {
	var keys []string
	collectKeys(reflect.TypeFor[Config](), "", &keys)
	slices.Sort(keys)
	return keys
}

func collectKeys(t reflect.Type, prefix string, keys *[]string) {
	for i := range t.NumField() {
		f := t.Field(i)
		name := yamlName(f)
		if name == "" {
			continue
		}
		key := prefix + name
		if f.Type.Kind() == reflect.Struct && f.Type != reflect.TypeFor[time.Time]() {
			collectKeys(f.Type, key+".", keys)
			continue
		}
		*keys = append(*keys, key)
	}
}

func lookupField(v reflect.Value, segments []string) (reflect.Value, bool) {
	for _, segment := range segments {
		if v.Kind() != reflect.Struct {
			return reflect.Value{}, false
		}
		next, ok := fieldByYAMLName(v, segment)
		if !ok {
			return reflect.Value{}, false
		}
		v = next
	}
	return v, true
}

func fieldByYAMLName(v reflect.Value, name string) (reflect.Value, bool) {
	t := v.Type()
	for i := range t.NumField() {
		if yamlName(t.Field(i)) == name {
			return v.Field(i), true
		}
	}
	return reflect.Value{}, false
}

func yamlName(f reflect.StructField) string {
	if !f.IsExported() {
		return ""
	}
	name, _, _ := strings.Cut(f.Tag.Get("yaml"), ",")
	if name == "-" {
		return ""
	}
	return name
}

// decodeInto replaces non-struct values wholesale and merges into structs.
func decodeInto(field reflect.Value, value any) error {
	target := field
	if field.Kind() != reflect.Struct {
		target = reflect.New(field.Type()).Elem()
	}
	if err := decode(target, value); err != nil {
		return err
	}
	field.Set(target)
	return nil
}

func decode(target reflect.Value, value any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "yaml",
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			durationHook,
			mapstructure.StringToSliceHookFunc(","),
		),
		Result: target.Addr().Interface(),
	})
	if err != nil {
		return err
	}
	return decoder.Decode(value)
}

// durationHook reads strings with infraconfig.ParseDuration and bare
// numbers as seconds.
func durationHook(from, to reflect.Type, data any) (any, error) {
	if to != reflect.TypeFor[time.Duration]() {
		return data, nil
	}
	switch v := data.(type) {
	case string:
		d, err := infraconfig.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("invalid duration %q", v)
		}
		return d, nil
	case time.Duration:
		return v, nil
	case int:
		return time.Duration(v) * time.Second, nil
	case int64:
		return time.Duration(v) * time.Second, nil
	case float64:
		return time.Duration(v * float64(time.Second)), nil
	}
	return data, nil
}
