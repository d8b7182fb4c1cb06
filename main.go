// Copyright © 2026 The tempchart Authors

package main

import "github.com/grifmax/tempchart/cmd"

func main() {
	cmd.Execute()
}
