/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package parser

import (
	"testing"

	"gopkg.in/yaml.v3"
)

func TestPosition(t *testing.T) {
	tests := []struct {
		name     string
		node     yaml.Node
		wantLine uint32
		wantChar uint32
	}{
		{"first line", yaml.Node{Line: 1, Column: 1}, 0, 0},
		{"offset", yaml.Node{Line: 12, Column: 7}, 11, 6},
		{"unset", yaml.Node{}, 0, 0},
		{"negative", yaml.Node{Line: -3, Column: -1}, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			line, char := position(&tt.node)
			if line != tt.wantLine || char != tt.wantChar {
				t.Errorf("expected %d:%d, got %d:%d", tt.wantLine, tt.wantChar, line, char)
			}
		})
	}
}
