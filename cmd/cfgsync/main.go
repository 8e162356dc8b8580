// Command cfgsync tracks text configuration files across named versions.
package main

import "github.com/mesh-intelligence/cfgsync/internal/cli"

func main() {
	cli.Execute()
}
