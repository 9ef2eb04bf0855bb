package peg

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/goccy/go-yaml"
)

var (
	ErrUnknownSetting = errors.New("unknown setting")
	ErrSettingType    = errors.New("wrong setting type")
)

type Config map[string]*cfgVal

// NewConfig creates a new configuration object primed with all the
// default values expected by the input loaders, the parse entry
// points and the command line tool.
func NewConfig() *Config {
	m := make(Config)
	// map files into memory instead of reading them
	m.SetBool("input.mmap", false)
	// encoding of the input files, transcoded to utf-8 before
	// parsing.  One of utf-8, utf-16, utf-16le or utf-16be
	m.SetString("input.encoding", "utf-8")
	// log every observable rule while parsing
	m.SetBool("parse.trace", false)
	// name of the rule parsing starts from when the grammar doesn't
	// say otherwise
	m.SetString("parse.start", "")
	// print the rules that are fine along with the problems found
	m.SetBool("analysis.verbose", false)
	// stop printing problems after this many, zero prints them all
	m.SetInt("analysis.max_findings", 0)
	// one of trace, debug, info, warn or error
	m.SetString("log.level", "info")
	// colored terminal output
	m.SetBool("output.color", true)
	return &m
}

// LoadYAML merges the settings of the YAML file at `path` into the
// configuration
func (c *Config) LoadYAML(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := c.MergeYAML(data); err != nil {
		return fmt.Errorf("failed to load config file %s: %w", path, err)
	}
	return nil
}

// MergeYAML merges settings from a YAML document.  Nested mappings
// make up the dotted names of the settings, so `{log: {level: debug}}`
// sets `log.level`.  Settings must already exist and keep their types.
func (c *Config) MergeYAML(data []byte) error {
	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}
	flat := map[string]any{}
	flatten("", doc, flat)

	keys := make([]string, 0, len(flat))
	for k := range flat {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		if err := c.merge(k, flat[k]); err != nil {
			return err
		}
	}
	return nil
}

func flatten(prefix string, doc map[string]any, out map[string]any) {
	for k, v := range doc {
		if prefix != "" {
			k = prefix + "." + k
		}
		if m, ok := v.(map[string]any); ok {
			flatten(k, m, out)
			continue
		}
		out[k] = v
	}
}

func (c *Config) merge(path string, v any) error {
	val, ok := (*c)[path]
	if !ok {
		return fmt.Errorf("%w: `%s`", ErrUnknownSetting, path)
	}
	switch val.typ {
	case cfgValType_Bool:
		if b, ok := v.(bool); ok {
			c.SetBool(path, b)
			return nil
		}
	case cfgValType_Int:
		if i, ok := asInt(v); ok {
			c.SetInt(path, i)
			return nil
		}
	case cfgValType_String:
		if s, ok := v.(string); ok {
			c.SetString(path, s)
			return nil
		}
	}
	return fmt.Errorf("%w: `%s` expects %s, got %v", ErrSettingType, path, val.typ, v)
}

func asInt(v any) (int, bool) {
	switch i := v.(type) {
	case int:
		return i, true
	case int64:
		return int(i), true
	case uint64:
		return int(i), true
	}
	return 0, false
}

// Debug writes every setting to `w`, sorted by name
func (c *Config) Debug(w io.Writer) {
	fmt.Fprintln(w, "Configuration")

	keys := make([]string, 0, len(*c))
	width := 0
	for k := range *c {
		keys = append(keys, k)
		width = max(width, len(k))
	}
	sort.Strings(keys)

	for _, k := range keys {
		fmt.Fprintf(w, "%-*s : %s\n", width, k, (*c)[k])
	}
}

type cfgValType int

const (
	cfgValType_Undefined cfgValType = iota
	cfgValType_Bool
	cfgValType_Int
	cfgValType_String
)

func (vt cfgValType) String() string {
	return map[cfgValType]string{
		cfgValType_Undefined: "undefined",
		cfgValType_Bool:      "bool",
		cfgValType_Int:       "int",
		cfgValType_String:    "string",
	}[vt]
}

type cfgVal struct {
	typ      cfgValType
	asBool   bool
	asInt    int
	asString string
}

// assignType is mostly for preventing programming errors, it panics
// when a setting changes type
func (v *cfgVal) assignType(vt cfgValType) {
	if v.typ != vt && v.typ != cfgValType_Undefined {
		panic(fmt.Sprintf("Can't assign `%s` to type `%s`", vt, v.typ))
	}
	v.typ = vt
}

func (v *cfgVal) checkType(vt cfgValType) {
	if v.typ != vt {
		panic(fmt.Sprintf("Can't retrieve `%s` from `%s` variable", vt, v.typ))
	}
}

func (v *cfgVal) String() string {
	switch v.typ {
	case cfgValType_Bool:
		return fmt.Sprintf("%t (bool)", v.asBool)
	case cfgValType_Int:
		return fmt.Sprintf("%d (int)", v.asInt)
	case cfgValType_String:
		return fmt.Sprintf("%s (string)", v.asString)
	case cfgValType_Undefined:
		return "(undefined)"
	default:
		panic(fmt.Sprintf("unknown cfgVal type: %v", v.typ))
	}
}

// value returns the setting at `path`, creating it when it's new
func (c *Config) value(path string) *cfgVal {
	if val, ok := (*c)[path]; ok {
		return val
	}
	val := &cfgVal{}
	(*c)[path] = val
	return val
}

func (c *Config) SetBool(path string, v bool) {
	val := c.value(path)
	val.assignType(cfgValType_Bool)
	val.asBool = v
}

func (c *Config) SetInt(path string, v int) {
	val := c.value(path)
	val.assignType(cfgValType_Int)
	val.asInt = v
}

func (c *Config) SetString(path string, v string) {
	val := c.value(path)
	val.assignType(cfgValType_String)
	val.asString = v
}

func (c *Config) GetBool(path string) bool {
	if val, ok := (*c)[path]; ok {
		val.checkType(cfgValType_Bool)
		return val.asBool
	}
	panic(fmt.Sprintf("Bool setting `%s` does not exist", path))
}

func (c *Config) GetInt(path string) int {
	if val, ok := (*c)[path]; ok {
		val.checkType(cfgValType_Int)
		return val.asInt
	}
	panic(fmt.Sprintf("Int setting `%s` does not exist", path))
}

func (c *Config) GetString(path string) string {
	if val, ok := (*c)[path]; ok {
		val.checkType(cfgValType_String)
		return val.asString
	}
	panic(fmt.Sprintf("String setting `%s` does not exist", path))
}
