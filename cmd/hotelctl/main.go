// Command hotelctl reads and administers a hotel CMS server from the
// command line.
package main

import "hotelcms/cmd/hotelctl/commands"

func main() {
	commands.Execute()
}
