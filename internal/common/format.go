/**
 * Copyright 2025-present Coinbase Global, Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *  http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package common

import (
	"fmt"
	"io"
	"strings"
)

// Report writes the boxed console layout used by the command line tools
type Report struct {
	out   io.Writer
	width int
}

func NewReport(out io.Writer, width int) *Report {
	return &Report{out: out, width: width}
}

// Header prints a title between two rules
func (r *Report) Header(title string) {
	fmt.Fprintln(r.out, "\n"+strings.Repeat("=", r.width))
	fmt.Fprintln(r.out, title)
	fmt.Fprintln(r.out, strings.Repeat("=", r.width))
}

// Footer prints a closing message between two rules
func (r *Report) Footer(message string) {
	fmt.Fprintln(r.out, "\n"+strings.Repeat("=", r.width))
	fmt.Fprintln(r.out, message)
	fmt.Fprintln(r.out, strings.Repeat("=", r.width)+"\n")
}

// Section prints a sub-section label with a box-drawing rule
func (r *Report) Section(label string) {
	fmt.Fprintln(r.out, "├"+strings.Repeat("─", r.width-1))
	fmt.Fprintln(r.out, "│ "+label)
}

// Line prints one key/value line; the last item of a section closes the box
func (r *Report) Line(label, value string, isLast bool) {
	fmt.Fprintf(r.out, "%s%-28s %s\n", BoxPrefix(isLast), label, value)
}

// Detail prints an indented line under the previous item
func (r *Report) Detail(text string, isLast bool) {
	fmt.Fprintf(r.out, "%s   %s\n", BoxDetailPrefix(isLast), text)
}

// Empty prints a placeholder for a section with no rows
func (r *Report) Empty(text string) {
	fmt.Fprintf(r.out, "%s(%s)\n", BoxPrefix(true), text)
}

// BoxPrefix returns the appropriate box-drawing prefix for list items
func BoxPrefix(isLast bool) string {
	if isLast {
		return "└  "
	}
	return "│  "
}

// BoxDetailPrefix returns the prefix for detail lines under list items
func BoxDetailPrefix(isLast bool) string {
	if isLast {
		return "   "
	}
	return "│  "
}
