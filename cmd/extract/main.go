package main

import "github.com/finnishtransportagency/raita-sub002/cmd"

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// main start the extract cli
func main() {
	cmd.Run(version, commit, date)
}
