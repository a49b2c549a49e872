// SPDX-License-Identifier: MPL-2.0

package main

import cmd "bumpwise-cli/cmd/bumpwise"

func main() {
	cmd.Execute()
}
