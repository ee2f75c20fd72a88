package main

import api "github.com/giovaniif/item-store/cmd/api"

func main() {
	api.StartServer()
}
