package main

import "tablecompare/cmd"

func main() {
	cmd.Execute()
}
