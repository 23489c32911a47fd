// Package main provides a generator that extracts CLI, configuration, and
// check metadata from LeapProse source code and generates markdown documentation.
//
// Usage:
//
//	go run ./scripts/gendocs -gen=cli -outdir=docs/cli
//	go run ./scripts/gendocs -gen=config -outdir=docs/concepts
//	go run ./scripts/gendocs -gen=checks -outdir=docs/checks
//	go run ./scripts/gendocs -gen=all
package main

import (
	"flag"
	"log"
	"os"
	"path/filepath"
)

var (
	genFlag    = flag.String("gen", "all", "what to generate: cli, config, checks, all")
	outDirFlag = flag.String("outdir", "", "output directory (defaults based on gen type)")
)

// generator writes one documentation section into outDir.
type generator struct {
	defaultDir string
	run        func(outDir string) error
}

var generators = map[string]generator{
	"cli":    {defaultDir: "cli", run: generateCLIDocs},
	"config": {defaultDir: "concepts", run: generateConfigDocs},
	"checks": {defaultDir: "checks", run: generateCheckDocs},
}

func main() {
	flag.Parse()

	if _, ok := generators[*genFlag]; !ok && *genFlag != "all" {
		log.Fatalf("unknown -gen value: %s (use: cli, config, checks, all)", *genFlag)
	}

	// Find project root (where go.mod is)
	projectRoot, err := findProjectRoot()
	if err != nil {
		log.Fatalf("failed to find project root: %v", err)
	}
	log.Printf("Project root: %s", projectRoot)

	if *genFlag == "all" {
		for _, name := range []string{"cli", "config", "checks"} {
			g := generators[name]
			if err := g.run(filepath.Join(projectRoot, "docs", g.defaultDir)); err != nil {
				log.Fatalf("failed to generate %s docs: %v", name, err)
			}
		}
		log.Println("Done!")
		return
	}

	g := generators[*genFlag]
	outDir := *outDirFlag
	if outDir == "" {
		outDir = filepath.Join(projectRoot, "docs", g.defaultDir)
	}
	if err := g.run(outDir); err != nil {
		log.Fatalf("failed to generate %s docs: %v", *genFlag, err)
	}
	log.Println("Done!")
}

// findProjectRoot walks up from current directory to find go.mod.
func findProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", os.ErrNotExist
		}
		dir = parent
	}
}
