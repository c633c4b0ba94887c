// Copyright 2020 PingCAP, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// See the License for the specific language governing permissions and
// limitations under the License.

package tui

import (
	"bytes"
	"strings"
	"unicode/utf8"

	"github.com/AstroProfundis/tabby"
	"github.com/juju/ansiterm"
)

// RenderTable renders a matrix of strings as an ASCII table. The first row is
// used as the header if header is set.
func RenderTable(rows [][]string, header bool) string {
	var buf bytes.Buffer
	t := tabby.NewCustom(ansiterm.NewTabWriter(&buf, 0, 0, 2, ' ', 0))
	if header && len(rows) > 0 {
		addRow(t, rows[0], header)
		rows = rows[1:]
	}
	for _, row := range rows {
		addRow(t, row, false)
	}
	t.Print()
	return buf.String()
}

func addRow(t *tabby.Tabby, rawLine []string, header bool) {
	// Convert []string to []interface{}
	row := make([]any, len(rawLine))
	for i, v := range rawLine {
		row[i] = v
	}

	// Add line to the table
	if header {
		t.AddHeader(row...)
	} else {
		t.AddLine(row...)
	}
}

const (
	boxWidth       = 50
	separatorWidth = 60
)

// CmdBox draws text in a double lined box, every line of the box shifted
// right by indent spaces.
func CmdBox(text string, indent int) string {
	width := boxWidth
	if n := utf8.RuneCountInString(text) + 3; n > width {
		width = n
	}
	pad := strings.Repeat(" ", indent)
	top := pad + "╔" + strings.Repeat("═", width-2) + "╗"
	middle := pad + "║ " + text + strings.Repeat(" ", width-3-utf8.RuneCountInString(text)) + "║"
	bottom := pad + "╚" + strings.Repeat("═", width-2) + "╝"
	return strings.Join([]string{top, middle, bottom}, "\n")
}

// SeparatorLine returns a horizontal double line
func SeparatorLine() string {
	return strings.Repeat("═", separatorWidth)
}
