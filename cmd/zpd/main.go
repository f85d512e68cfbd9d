package main

import "github.com/OpenTraceLab/svgzpd/cmd/zpd/cmd"

func main() {
	cmd.Execute()
}
