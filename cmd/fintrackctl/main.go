// Command fintrackctl administers budgets against the configured store.
package main

func main() {
	Execute()
}
