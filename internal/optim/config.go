package optim

import (
	"encoding/json"

	"github.com/pkg/errors"
)

// Config is a serializable optimizer configuration.
//
// The shape mirrors the usual {class_name, config} convention: ClassName
// selects the registered factory and Params holds its keyword parameters.
// Wrappers nest the wrapped optimizer's Config under the "optimizer" key.
type Config struct {
	ClassName string         `json:"class_name"`
	Params    map[string]any `json:"config"`
}

// Serialize returns the optimizer's configuration.
func Serialize(o Optimizer) Config {
	return o.Config()
}

// Deserialize reconstructs an optimizer from its configuration, resolving
// the class name through the registry.
func Deserialize(cfg Config) (Optimizer, error) {
	factory, err := lookup(cfg.ClassName)
	if err != nil {
		return nil, err
	}
	return factory(cfg.Params)
}

// floatParam reads a float parameter, tolerating the numeric types JSON
// decoding produces. Returns def when the key is absent.
func floatParam(params map[string]any, key string, def float64) (float64, error) {
	raw, ok := params[key]
	if !ok {
		return def, nil
	}
	switch v := raw.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case json.Number:
		f, err := v.Float64()
		return f, errors.Wrapf(err, "param %q", key)
	default:
		return 0, errors.WithStack(&TypeError{Argument: key, Value: raw, Expected: "number"})
	}
}

// intParam reads an integer parameter.
func intParam(params map[string]any, key string, def int64) (int64, error) {
	raw, ok := params[key]
	if !ok {
		return def, nil
	}
	switch v := raw.(type) {
	case int:
		return int64(v), nil
	case int64:
		return v, nil
	case float64:
		return int64(v), nil
	case json.Number:
		n, err := v.Int64()
		return n, errors.Wrapf(err, "param %q", key)
	default:
		return 0, errors.WithStack(&TypeError{Argument: key, Value: raw, Expected: "integer"})
	}
}

// boolParam reads a boolean parameter.
func boolParam(params map[string]any, key string, def bool) (bool, error) {
	raw, ok := params[key]
	if !ok {
		return def, nil
	}
	v, ok := raw.(bool)
	if !ok {
		return false, errors.WithStack(&TypeError{Argument: key, Value: raw, Expected: "bool"})
	}
	return v, nil
}

// stringParam reads a string parameter.
func stringParam(params map[string]any, key string, def string) (string, error) {
	raw, ok := params[key]
	if !ok {
		return def, nil
	}
	v, ok := raw.(string)
	if !ok {
		return "", errors.WithStack(&TypeError{Argument: key, Value: raw, Expected: "string"})
	}
	return v, nil
}

// nestedOptimizer reads a nested optimizer config parameter and
// reconstructs the optimizer. The value may be an in-memory Config or the
// map a JSON round-trip produces. A missing key falls back to a default
// optimizer resolved by name.
func nestedOptimizer(params map[string]any, key, defName string) (Optimizer, error) {
	raw, ok := params[key]
	if !ok {
		return Get(defName)
	}
	switch v := raw.(type) {
	case Config:
		return Deserialize(v)
	case map[string]any:
		cfg, err := configFromMap(v)
		if err != nil {
			return nil, errors.Wrapf(err, "param %q", key)
		}
		return Deserialize(cfg)
	case Optimizer:
		return v, nil
	case string:
		return Get(v)
	default:
		return nil, errors.WithStack(&TypeError{
			Argument: key,
			Value:    raw,
			Expected: "optim.Config, map, optimizer or name string",
		})
	}
}

func configFromMap(m map[string]any) (Config, error) {
	name, ok := m["class_name"].(string)
	if !ok {
		return Config{}, errors.WithStack(&TypeError{
			Argument: "class_name",
			Value:    m["class_name"],
			Expected: "string",
		})
	}
	params, _ := m["config"].(map[string]any)
	return Config{ClassName: name, Params: params}, nil
}
