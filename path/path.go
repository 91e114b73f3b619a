/*
 * Copyright 2019 The Kythe Authors. All rights reserved.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *   http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package path implements the slash-normalized path manipulation Cedro's
// unparser needs to resolve #include {path} and #include "header" against
// the current source's directory and a configured include-path list.
package path

import (
	"os"
	"path/filepath"
	"strings"
)

// Path is a slice of string segments, representing a filesystem path.
type Path []string

// New cleans and splits the system-delimited filesystem path.
func New(s string) Path {
	if s == "" {
		return nil
	}
	s = filepath.ToSlash(filepath.Clean(s))
	switch {
	case len(s) == 0:
		return nil
	case s == "/":
		return Path{"/"}
	case s[0] == '/':
		return append(Path{"/"}, strings.Split(s[1:], "/")...)
	default:
		return strings.Split(s, "/")
	}
}

// ToPaths cleans and splits each of the system-delimited filesystem paths.
func ToPaths(paths []string) []Path {
	split := make([]Path, len(paths))
	for i, p := range paths {
		split[i] = New(p)
	}
	return split
}

// String returns the properly platform-delimited form of the path.
func (p Path) String() string {
	return filepath.Join([]string(p)...)
}

// Append appends additional elements to the end of path.
func (p *Path) Append(elem ...Path) {
	for _, e := range elem {
		*p = append(*p, e...)
	}
}

// AppendString appends additional string elements to the end of path.
func (p *Path) AppendString(elem ...string) {
	p.Append(ToPaths(elem)...)
}

// Join joins path and any number of additional elements, returning the result.
func (p Path) Join(elem ...Path) Path {
	root := append(Path{}, p...)
	root.Append(elem...)
	return root
}

// JoinString joins path and any number of additional string elements, returning the result.
func (p Path) JoinString(elem ...string) Path {
	return p.Join(ToPaths(elem)...)
}

// Dir returns the path with its final segment removed, i.e. the directory
// containing it. Used to resolve an #include {relative/path} or bare
// #include "header" relative to the source file that contains it.
func (p Path) Dir() Path {
	if len(p) == 0 {
		return nil
	}
	return p[:len(p)-1]
}

// Join joins any number of paths and returns the result.
func Join(elem ...Path) Path {
	if len(elem) == 0 {
		return nil
	}
	return elem[0].Join(elem[1:]...)
}

// Resolve finds path p, interpreted as relative, against dir first and then
// each of searchDirs in order, returning the first candidate that exists on
// disk. Returns (nil, false) if none exists.
func Resolve(p Path, dir Path, searchDirs []Path) (Path, bool) {
	candidates := append([]Path{dir}, searchDirs...)
	for _, base := range candidates {
		candidate := base.Join(p)
		if _, err := os.Stat(candidate.String()); err == nil {
			return candidate, true
		}
	}
	return nil, false
}
