//go:build mage

package main

import (
	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Build compiles the ankivoice binary.
func Build() error {
	return sh.RunV("go", "build", "-o", "ankivoice", "./cmd/ankivoice")
}

// Test runs all tests.
func Test() error {
	return sh.RunV("go", "test", "./...")
}

// Vet runs go vet over the module.
func Vet() error {
	return sh.RunV("go", "vet", "./...")
}

// Check runs vet and tests.
func Check() {
	mg.SerialDeps(Vet, Test)
}

// Install installs the binary into GOBIN.
func Install() error {
	return sh.RunV("go", "install", "./cmd/ankivoice")
}

// Clean removes build artifacts.
func Clean() error {
	return sh.Rm("ankivoice")
}
