package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// resolveNames returns the names to check, taken either from positional
// arguments or from namesFile ("-" reads stdin). Positional names are used
// verbatim, so an empty argument reaches the resolver and is reported as a
// per-name failure.
func resolveNames(positional []string, namesFile string, stdin io.Reader) ([]string, error) {
	path := strings.TrimSpace(namesFile)
	if path == "" {
		return positional, nil
	}
	if len(positional) > 0 {
		return nil, fmt.Errorf("cannot combine positional names with --names-file")
	}

	if path == "-" {
		return readNames(stdin)
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close() // nolint:errcheck
	return readNames(file)
}

// readNames reads one name per line. Blank lines and lines starting with #
// are skipped; surrounding whitespace is trimmed.
func readNames(reader io.Reader) ([]string, error) {
	if reader == nil {
		return nil, nil
	}

	var names []string
	scanner := bufio.NewScanner(reader)
	for scanner.Scan() {
		raw := strings.TrimSpace(scanner.Text())
		if raw == "" || strings.HasPrefix(raw, "#") {
			continue
		}
		names = append(names, raw)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return names, nil
}
