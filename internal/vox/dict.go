package vox

import (
	"strconv"
	"strings"
)

// Dict is the generic key/value sub-protocol used by node, material, layer
// and camera chunks. Values are decoded once as strings; consumers apply
// the typed getters below for the keys they know.
type Dict map[string]string

func (d Dict) Has(key string) bool {
	_, ok := d[key]
	return ok
}

func (d Dict) String(key, def string) string {
	if v, ok := d[key]; ok {
		return v
	}
	return def
}

func (d Dict) Int(key string, def int) int {
	v, ok := d[key]
	if !ok {
		return def
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return def
	}
	return n
}

func (d Dict) Float(key string, def float64) float64 {
	v, ok := d[key]
	if !ok {
		return def
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return def
	}
	return f
}

// Bool reads "0"/"1" flags such as _hidden.
func (d Dict) Bool(key string, def bool) bool {
	v, ok := d[key]
	if !ok {
		return def
	}
	return v == "1" || v == "true"
}

// Vec3 parses a whitespace-separated integer triple such as the _t
// translation value "4 -2 10".
func (d Dict) Vec3(key string, def [3]int) [3]int {
	v, ok := d[key]
	if !ok {
		return def
	}
	parts := strings.Fields(v)
	if len(parts) != 3 {
		return def
	}
	var out [3]int
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return def
		}
		out[i] = n
	}
	return out
}
