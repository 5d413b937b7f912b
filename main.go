package main

import "github.com/ronreiter/license-crawler/cmd"

func main() {
	cmd.Execute()
}
