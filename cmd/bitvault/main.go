// Command bitvault is the CLI surface for the bitvault key-value store.
// It operates on the current working directory as the engine's data
// directory and exposes exactly three subcommands: get, set, rm.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/arvikram/bitvault/pkg/bitvault"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: bitvault <get|set|rm> ...")
		os.Exit(1)
	}

	dir, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	db, err := bitvault.Open(dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := execute(db, os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// execute dispatches a single CLI invocation. Each subcommand owns its
// own exit-status and stdout contract. On success main returns normally
// and the deferred db.Close runs; rm's "key not found" path closes the DB
// and exits inside runRemove; on any other error main calls os.Exit,
// which skips the deferred db.Close.
func execute(db *bitvault.DB, args []string) error {
	command := strings.ToLower(args[0])

	switch command {
	case "get":
		if len(args) != 2 {
			return fmt.Errorf("usage: get <KEY>")
		}
		return runGet(db, args[1])

	case "set":
		if len(args) != 3 {
			return fmt.Errorf("usage: set <KEY> <VALUE>")
		}
		return db.Set(args[1], args[2])

	case "rm":
		if len(args) != 2 {
			return fmt.Errorf("usage: rm <KEY>")
		}
		return runRemove(db, args[1])

	default:
		return fmt.Errorf("unknown command %q, expected get, set, or rm", command)
	}
}

// runGet prints the value and exits 0 on a hit; on a miss it prints
// "Key not found" and still exits 0 — get never errors on a missing key.
func runGet(db *bitvault.DB, key string) error {
	value, ok, err := db.Get(key)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Println("Key not found")
		return nil
	}
	fmt.Println(value)
	return nil
}

// runRemove exits 1 with "Key not found" on a miss, distinguishing it
// from every other error by printing to stdout rather than stderr and
// calling os.Exit directly — rm's contract intentionally differs from
// get's.
func runRemove(db *bitvault.DB, key string) error {
	if err := db.Remove(key); err != nil {
		if err == bitvault.ErrKeyNotFound {
			fmt.Println("Key not found")
			db.Close()
			os.Exit(1)
		}
		return err
	}
	return nil
}
