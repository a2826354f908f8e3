package main

import (
	"fmt"
	"os"

	"github.com/ostafen/fwunpack/cmd/cmd"
	"github.com/ostafen/fwunpack/internal/env"
)

func main() {
	PrintLogo()

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func PrintLogo() {
	fmt.Println("  __                                 _    ")
	fmt.Println(" / _|_      ___   _ _ __  _ __   __ _| | __")
	fmt.Println("| |_\\ \\ /\\ / / | | | '_ \\| '_ \\ / _` | |/ /")
	fmt.Println("|  _|\\ V  V /| |_| | | | | |_) | (_| |   < ")
	fmt.Println("|_|   \\_/\\_/  \\__,_|_| |_| .__/ \\__,_|_|\\_\\")
	fmt.Println("                         |_|               ")
	fmt.Println()
	fmt.Println("Recursive firmware image unpacker")
	fmt.Println()
	fmt.Printf("Version:   %s\n", env.Version)
	fmt.Printf("Commit:    %s\n", env.CommitHash)
	fmt.Printf("Build Time: %s\n", env.BuildTime)
	fmt.Println(" ")
}
