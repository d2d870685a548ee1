//go:build stave

package main

import (
	"bytes"
	"cmp"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/yaklabco/stave/pkg/sh"
	"github.com/yaklabco/stave/pkg/st"
	"github.com/yaklabco/stave/pkg/target"
)

const (
	binary  = "bin/gomddeep"
	mainPkg = "./cmd/gomddeep"
)

var Default = Build

var Aliases = map[string]any{
	"b":    Build,
	"t":    Test.Default,
	"l":    Lint.Default,
	"c":    Check,
	"i":    Install,
	"fmt":  Lint.Fmt,
	"cmp":  Bench.Compare,
	"cmpf": Bench.Fast,
	"s":    Bench.Sample,
}

type (
	Test  st.Namespace
	Lint  st.Namespace
	CI    st.Namespace
	Bench st.Namespace
)

// Build compiles bin/gomddeep when any source changed since the last build.
func Build() error {
	stale, err := target.Dir(binary, "cmd/", "pkg/", "internal/", "go.mod", "go.sum")
	if err != nil {
		return err
	}
	if !stale {
		fmt.Println(binary, "is up to date")
		return nil
	}
	fmt.Println("Building", binary)
	return sh.RunV("go", "build", "-ldflags", ldflags(), "-o", binary, mainPkg)
}

// Check formats, lints and tests.
func Check() {
	st.SerialDeps(Lint.Fmt, Lint.Default, Test.Default)
}

func Clean() error {
	for _, path := range []string{"bin", "coverage.out", "coverage.html"} {
		if err := sh.Rm(path); err != nil {
			return err
		}
	}
	return nil
}

func Install() error {
	return sh.RunV("go", "install", "-ldflags", ldflags(), mainPkg)
}

// Uninstall removes the binary that Install placed in GOBIN.
func Uninstall() error {
	path := filepath.Join(goBin(), "gomddeep")
	switch err := os.Remove(path); {
	case errors.Is(err, fs.ErrNotExist):
		fmt.Println("gomddeep is not installed")
		return nil
	case err != nil:
		return fmt.Errorf("remove binary: %w", err)
	}
	fmt.Println("Removed", path)
	return nil
}

func Deps() error {
	if err := sh.RunV("go", "mod", "download"); err != nil {
		return err
	}
	return sh.RunV("go", "mod", "tidy")
}

// Coverage writes coverage.html from a full test run.
func Coverage() error {
	st.Deps(Test.Default)
	return sh.RunV("go", "tool", "cover", "-html=coverage.out", "-o", "coverage.html")
}

// Default runs the suite under the race detector with coverage.
func (Test) Default() error {
	return gotestsum("pkgname-and-test-fails")
}

// Verbose is Default with every test name printed.
func (Test) Verbose() error {
	return gotestsum("standard-verbose")
}

// Default runs golangci-lint and applies its fixes.
func (Lint) Default() error {
	return sh.RunV("golangci-lint", "run", "--fix", "./...")
}

// CI runs golangci-lint without touching files.
func (Lint) CI() error {
	return sh.RunV("golangci-lint", "run", "./...")
}

func (Lint) Fmt() error {
	return sh.RunV("gofmt", "-w", ".")
}

// FmtCheck fails when gofmt would rewrite any file.
func (Lint) FmtCheck() error {
	out, err := sh.Output("gofmt", "-l", ".")
	if err != nil {
		return fmt.Errorf("gofmt: %w", err)
	}
	if out != "" {
		return fmt.Errorf("unformatted files:\n%s\nrun 'stave lint:fmt'", out)
	}
	return nil
}

func (Lint) Vet() error {
	return sh.RunV("go", "vet", "./...")
}

// Gate runs every check CI runs, in order.
func (CI) Gate() {
	st.SerialDeps(Lint.FmtCheck, Lint.Vet, Lint.CI, Build, Test.Default, CI.ModTidy, CI.Cross)
}

// ModTidy fails when go mod tidy changes go.mod or go.sum.
func (CI) ModTidy() error {
	before, err := readAll("go.mod", "go.sum")
	if err != nil {
		return err
	}
	if err := sh.RunV("go", "mod", "tidy"); err != nil {
		return err
	}
	after, err := readAll("go.mod", "go.sum")
	if err != nil {
		return err
	}
	if !bytes.Equal(before, after) {
		return errors.New("go mod tidy changed go.mod or go.sum; commit the result")
	}
	return nil
}

// Cross builds the binary for each release platform.
func (CI) Cross() error {
	platforms := []string{
		"linux/amd64", "linux/arm64",
		"darwin/amd64", "darwin/arm64",
		"windows/amd64", "windows/arm64",
		"freebsd/amd64",
	}
	for _, platform := range platforms {
		goos, goarch, _ := strings.Cut(platform, "/")
		fmt.Println("  building", platform)
		env := map[string]string{"GOOS": goos, "GOARCH": goarch, "CGO_ENABLED": "0"}
		if err := sh.RunWith(env, "go", "build", "-o", os.DevNull, mainPkg); err != nil {
			return fmt.Errorf("build %s: %w", platform, err)
		}
	}
	return nil
}

// Default runs every benchmark in the module.
func (Bench) Default() error {
	return sh.RunV("go", "test", "-run=^$", "-bench=.", "-benchmem", "./...")
}

// Compare benchmarks the deep engine against both goldmark dialects,
// BENCH_RUNS times (default 5).
func (Bench) Compare() error {
	return engineBench(cmp.Or(os.Getenv("BENCH_RUNS"), "5"))
}

// Fast is a single round of Compare.
func (Bench) Fast() error {
	return engineBench("1")
}

// Sample converts testdata with the freshly built binary without writing.
func (Bench) Sample() error {
	st.Deps(Build)
	if info, err := os.Stat("testdata"); err != nil || !info.IsDir() {
		return errors.New("testdata directory not found; run from the repository root")
	}
	return sh.RunV(binary, "convert", "--dry-run", "--format", "summary", "testdata")
}

func gotestsum(format string) error {
	procs := cmp.Or(os.Getenv("STAVE_NUM_PROCESSORS"), "4")
	return sh.RunV("go", "tool", "gotestsum", "-f", format, "--",
		"-race", "-p", procs, "-parallel", procs,
		"-coverprofile=coverage.out", "-covermode=atomic",
		"./...")
}

func engineBench(count string) error {
	return sh.RunV("go", "test", "-run=^$", "-bench=.", "-benchmem", "-count", count, "./pkg/engine")
}

func readAll(paths ...string) ([]byte, error) {
	var buf bytes.Buffer
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		buf.Write(data)
	}
	return buf.Bytes(), nil
}

func gitOutput(args ...string) string {
	out, err := sh.Output("git", args...)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(out)
}

// ldflags stamps version, commit and build date into main.
func ldflags() string {
	return fmt.Sprintf("-X main.version=%s -X main.commit=%s -X main.date=%s",
		cmp.Or(gitOutput("describe", "--tags", "--always", "--dirty"), "dev"),
		cmp.Or(gitOutput("rev-parse", "--short", "HEAD"), "none"),
		time.Now().UTC().Format(time.RFC3339))
}

func goBin() string {
	if gobin := os.Getenv("GOBIN"); gobin != "" {
		return gobin
	}
	if gopath := os.Getenv("GOPATH"); gopath != "" {
		return filepath.Join(gopath, "bin")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, "go", "bin")
}
