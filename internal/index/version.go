package index

import (
	"fmt"
	"log/slog"

	"git.home.luguber.info/inful/assetbuilder/internal/files"
	ferrors "git.home.luguber.info/inful/assetbuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/assetbuilder/internal/logfields"
)

// VersionAuto reads the version from the project descriptor.
const VersionAuto = "auto"

const defaultVersion = "0"

// ResolveVersion returns the version string placed in the render context.
// "auto" takes the version field of the descriptor at descriptorPath, any
// other value is used as is, and an empty result becomes "0".
func ResolveVersion(option, descriptorPath string, fs files.FileSystem, logger *slog.Logger) (string, error) {
	if option != VersionAuto {
		if option == "" {
			return defaultVersion, nil
		}
		return option, nil
	}

	if !fs.Exists(descriptorPath) {
		logger.Warn("Project descriptor not found, using default version",
			logfields.Path(descriptorPath))
		return defaultVersion, nil
	}

	var descriptor struct {
		Version any `json:"version"`
	}
	if err := fs.ReadJSON(descriptorPath, &descriptor); err != nil {
		return "", ferrors.WrapError(err, ferrors.CategoryConfig, "Cannot read project descriptor: "+descriptorPath).
			WithContext(logfields.KeyPath, descriptorPath).
			Fatal().
			Build()
	}
	switch v := descriptor.Version.(type) {
	case nil:
		return defaultVersion, nil
	case bool:
		if !v {
			return defaultVersion, nil
		}
		return fmt.Sprint(v), nil
	case string:
		if v == "" {
			return defaultVersion, nil
		}
		return v, nil
	case float64:
		if v == 0 {
			return defaultVersion, nil
		}
		return fmt.Sprint(v), nil
	default:
		return "", ferrors.ConfigError("Project descriptor version is not a scalar: "+descriptorPath).
			WithContext(logfields.KeyPath, descriptorPath).
			WithContext(logfields.KeyKind, kindOf(v)).
			Fatal().
			Build()
	}
}

// ToObject returns v as a render context mapping. nil is an empty mapping.
func ToObject(v any) (map[string]any, error) {
	switch t := v.(type) {
	case nil:
		return map[string]any{}, nil
	case map[string]any:
		return t, nil
	default:
		return nil, ferrors.DataTypeError("index.data was not an object. Value is ignored.").
			WithContext(logfields.KeyKind, kindOf(v)).
			Build()
	}
}

func kindOf(v any) string {
	switch v.(type) {
	case string:
		return "string"
	case bool:
		return "bool"
	case int, int64, float64:
		return "number"
	case []any:
		return "list"
	case map[string]any:
		return "object"
	default:
		return "unknown"
	}
}
