// Command segctl inspects segment storage and cell layout on this machine.
package main

func main() {
	execute()
}
