// seehuhn.de/go/printraster - convert rendered document pages to printer formats
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package printraster

import (
	"errors"
	"strings"
)

// Options holds job options as name/value pairs, using the IPP
// attribute names ("media", "print-quality", "sides", ...).  Values
// of collection attributes such as "media-col" are kept as unparsed
// option strings and can be fed back into ParseOptions.
type Options map[string]string

// Get returns the value of the named option, or "" if unset.
func (o Options) Get(name string) string {
	return o[name]
}

// Set stores an option value.
func (o Options) Set(name, value string) {
	o[name] = value
}

var errBadOption = errors.New("malformed option string")

// ParseOptions parses a string of space-separated "name=value" pairs.
// Values may be quoted with single or double quotes, and collection
// values are enclosed in braces:
//
//	media-col={media-size={x-dimension=21000 y-dimension=29700} media-top-margin=0}
//
// A brace-enclosed value is stored without the outer braces.  A name
// without a value is stored as "true", or as "false" when the name
// starts with "no".
func ParseOptions(s string) (Options, error) {
	opts := make(Options)
	for {
		s = strings.TrimLeft(s, " \t")
		if s == "" {
			return opts, nil
		}

		i := 0
		for i < len(s) && s[i] != '=' && s[i] != ' ' && s[i] != '\t' {
			i++
		}
		name := s[:i]
		if name == "" {
			return nil, errBadOption
		}
		s = s[i:]

		if s == "" || s[0] != '=' {
			if strings.HasPrefix(name, "no") {
				opts[name[2:]] = "false"
			} else {
				opts[name] = "true"
			}
			continue
		}
		s = s[1:]

		value, rest, err := parseOptionValue(s)
		if err != nil {
			return nil, err
		}
		opts[name] = value
		s = rest
	}
}

func parseOptionValue(s string) (value, rest string, err error) {
	if s == "" {
		return "", "", errBadOption
	}
	switch s[0] {
	case '{':
		depth := 0
		for i := 0; i < len(s); i++ {
			switch s[i] {
			case '{':
				depth++
			case '}':
				depth--
				if depth == 0 {
					return s[1:i], s[i+1:], nil
				}
			}
		}
		return "", "", errBadOption
	case '\'', '"':
		quote := s[0]
		for i := 1; i < len(s); i++ {
			if s[i] == quote {
				return s[1:i], s[i+1:], nil
			}
		}
		return "", "", errBadOption
	default:
		i := 0
		for i < len(s) && s[i] != ' ' && s[i] != '\t' {
			i++
		}
		return s[:i], s[i:], nil
	}
}
