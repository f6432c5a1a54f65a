package main

import "github.com/rreidmcg/guildfit/cmd/gf/root"

func main() {
	root.Execute()
}
