// Command shipwright renders Dockerfiles and build scripts from config files.
package main

import "github.com/cameronsjo/shipwright/internal/cmd"

func main() {
	cmd.Execute()
}
