// Command degreeplan checks degree plans for scheduling warnings and audits
// them against major requirements.
package main

import "github.com/papapumpkin/degreeplan/cmd"

func main() {
	cmd.Execute()
}
