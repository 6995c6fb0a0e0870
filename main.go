package main

import "github.com/mj1618/wsbar/cmd"

func main() {
	cmd.Execute()
}
