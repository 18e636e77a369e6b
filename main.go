package main

import "github.com/brand-zz/markdown-summarizer/cmd"

func main() {
	cmd.Execute()
}
