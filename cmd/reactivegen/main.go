// Command reactivegen generates change-notifying properties for the marked
// fields of C# classes.
package main

import "github.com/reactiveobject/reactivegen/internal/command"

func main() {
	command.Execute()
}
