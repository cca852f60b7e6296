// A small program to point peek at while trying it out. It has locals worth
// watching, a goroutine, and output on both streams.
package main

import (
	"fmt"
	"os"
	"sync"
)

func fib(n int) int {
	if n < 2 {
		return n
	}
	return fib(n-1) + fib(n-2)
}

func main() {
	total := 0
	label := "fibonacci"

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		fmt.Fprintln(os.Stderr, "worker started")
	}()

	for i := 0; i < 15; i++ {
		value := fib(i)
		total += value
		fmt.Printf("%s(%d) = %d\n", label, i, value)
	}

	wg.Wait()

	if total > 500 {
		fmt.Println("total is big:", total)
	}
	fmt.Println("done, total =", total)
}
