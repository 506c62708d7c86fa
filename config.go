package peg

import (
	"fmt"
	"io"
	"sort"
	"strings"
)

type Config map[string]*cfgVal

// NewConfig creates a new configuration object primed with the
// default values expected by the grammar builder and the parser.
func NewConfig() *Config {
	m := make(Config)
	// pattern skipped after every terminal, must match empty
	m.SetString("grammar.whitespace", `\s*`)
	// memoize every rule that isn't left recursive
	m.SetBool("grammar.memoize", true)
	// literals match regardless of case
	m.SetBool("grammar.case_insensitive", true)
	// reject inputs longer than this many bytes, 0 disables
	// the check
	m.SetInt("parser.max_input", 0)
	// log every rule attempt at debug level
	m.SetBool("parser.trace", false)
	return &m
}

// Keys returns the configuration keys in order
func (c *Config) Keys() []string {
	keys := make([]string, 0, len(*c))
	for k := range *c {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Debug writes one `key : value (type)` line per setting
func (c *Config) Debug(w io.Writer) {
	keys := c.Keys()
	width := 0
	for _, k := range keys {
		width = max(width, len(k))
	}
	for _, k := range keys {
		fmt.Fprintf(w, "%s%s : %s\n", k, strings.Repeat(" ", width-len(k)), (*c)[k])
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

// checkType catches programming errors like reading a bool setting
// as an int
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
		return fmt.Sprintf("%q (string)", v.asString)
	case cfgValType_Undefined:
		return "(undefined)"
	default:
		panic(fmt.Sprintf("unknown cfgVal type: %v", v.typ))
	}
}

// set refuses to change the type of an existing setting
func (c *Config) set(path string, v *cfgVal) {
	if old, ok := (*c)[path]; ok && old.typ != v.typ {
		panic(fmt.Sprintf("Can't assign `%s` to `%s` setting `%s`", v.typ, old.typ, path))
	}
	(*c)[path] = v
}

func (c *Config) SetBool(path string, v bool) {
	c.set(path, &cfgVal{typ: cfgValType_Bool, asBool: v})
}

func (c *Config) SetInt(path string, v int) {
	c.set(path, &cfgVal{typ: cfgValType_Int, asInt: v})
}

func (c *Config) SetString(path string, v string) {
	c.set(path, &cfgVal{typ: cfgValType_String, asString: v})
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
