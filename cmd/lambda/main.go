package main

import "github.com/finnishtransportagency/raita-sub002/cmd"

// main starts the Lambda function that relays archives of S3 notifications
func main() {
	cmd.RunLambda()
}
