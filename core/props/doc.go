// Package props parses flat key/value property bags.
//
// A bag maps property keys to raw string values. Values hold either a single
// scalar, a comma separated list ("a, b, c") or comma separated pairs
// ("name:=value, other:=value"). Bags are read from YAML files and from
// "key=value" assignments on the command line.
package props
