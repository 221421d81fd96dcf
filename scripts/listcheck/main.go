// Command listcheck validates list files and, given a sample body, shows what
// a list's transforms would produce without fetching anything.
//
//	go run ./scripts/listcheck -root configs
//	go run ./scripts/listcheck -root configs/lists.yml -list trancos -sample top.csv
package main

import (
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"lister/internal/config"
	"lister/internal/pipeline"
)

func isListFile(path string) bool {
	base := filepath.Base(path)
	return base == "lists.yml" || strings.HasSuffix(base, ".lists.yml")
}

func checkFile(w io.Writer, path string) error {
	f, _, err := config.LoadListFile(path)
	if err != nil {
		return err
	}
	for _, l := range f.Lists {
		steps := make([]string, len(l.Transforms))
		for i, s := range l.Transforms {
			steps[i] = s.String()
		}
		fmt.Fprintf(w, "%s\t%s\t[%s]\n", path, l.Name, strings.Join(steps, " | "))
	}
	return nil
}

func sample(w io.Writer, path, list, body string) error {
	f, _, err := config.LoadListFile(path)
	if err != nil {
		return err
	}
	l, ok := f.List(list)
	if !ok {
		return fmt.Errorf("%s: no list %q", path, list)
	}
	entries, err := pipeline.Evaluate(l.Transforms, body)
	if err != nil {
		return err
	}
	for _, e := range entries {
		fmt.Fprintln(w, e)
	}
	fmt.Fprintf(w, "# %d entries\n", len(entries))
	return nil
}

func main() {
	root := flag.String("root", ".", "list file or directory to scan")
	list := flag.String("list", "", "list to evaluate against -sample")
	samplePath := flag.String("sample", "", "local file used as the fetched body")
	flag.Parse()

	if *samplePath != "" {
		body, err := os.ReadFile(*samplePath)
		if err == nil {
			err = sample(os.Stdout, *root, *list, string(body))
		}
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		return
	}

	var files []string
	err := filepath.WalkDir(*root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			base := filepath.Base(path)
			if path != *root && (strings.HasPrefix(base, ".") || strings.HasPrefix(base, "_")) {
				return filepath.SkipDir
			}
			return nil
		}
		if path == *root || isListFile(path) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, "walk:", err)
		os.Exit(1)
	}
	failed := false
	for _, p := range files {
		if err := checkFile(os.Stdout, p); err != nil {
			fmt.Fprintln(os.Stderr, err)
			failed = true
		}
	}
	if failed {
		os.Exit(1)
	}
}
