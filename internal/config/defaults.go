package config

import (
	"fmt"
	"reflect"

	"dario.cat/mergo"
)

// Default values applied under the user configuration.
const (
	DefaultName          = "app"
	DefaultWebroot       = "./www"
	DefaultBuild         = "./build"
	DefaultTemp          = "./temp"
	DefaultSrc           = "./www/src"
	DefaultTemplates     = "templates"
	DefaultSassBinary    = "sass"
	DefaultReleaseBranch = "master"
)

// Defaults returns the built-in configuration.
func Defaults() RawConfig {
	return RawConfig{
		Name:      Literal(DefaultName),
		Webroot:   Literal(DefaultWebroot),
		Build:     Literal(DefaultBuild),
		Temp:      Literal(DefaultTemp),
		Src:       ValueList{Literal(DefaultSrc)},
		Templates: Literal(DefaultTemplates),
		Sass:      SassConfig{Binary: DefaultSassBinary},
		Release:   ReleaseConfig{Branch: DefaultReleaseBranch, Repository: "."},
	}
}

// Merge lays user over the defaults. Nested mappings combine key by key,
// scalars set by the user overwrite the default, lists replace the default list.
func Merge(user RawConfig) (RawConfig, error) {
	merged := Defaults()
	if err := mergo.Merge(&merged, user, mergo.WithOverride, mergo.WithTransformers(valueTransformer{})); err != nil {
		return RawConfig{}, fmt.Errorf("merge defaults: %w", err)
	}
	return merged, nil
}

// valueTransformer merges Value as an atomic scalar; its fields are unexported
// and must not be merged one by one.
type valueTransformer struct{}

var valueType = reflect.TypeOf(Value{})

func (valueTransformer) Transformer(t reflect.Type) func(dst, src reflect.Value) error {
	if t != valueType {
		return nil
	}
	return func(dst, src reflect.Value) error {
		if v, ok := src.Interface().(Value); ok && !v.IsZero() && dst.CanSet() {
			dst.Set(src)
		}
		return nil
	}
}
