/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Command dtref resolves references between design tokens.
package main

import (
	"os"

	"bennypowers.dev/dtref/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
