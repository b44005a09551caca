package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// maxInputLine bounds a single line of --file input.
const maxInputLine = 1 << 20

// resolveInputs returns the identifiers to check from positional arguments
// or from inputFile. Identifiers are passed through unmodified; trimming and
// length limits are applied by the input policy so that rejections are
// reported per identifier.
func resolveInputs(positional []string, inputFile string, stdin io.Reader) ([]string, error) {
	trimmed := strings.TrimSpace(inputFile)
	if trimmed != "" {
		if len(positional) > 0 {
			return nil, fmt.Errorf("cannot combine positional identifiers with --file")
		}
		return readInputFile(trimmed, stdin)
	}

	if len(positional) == 0 {
		return nil, fmt.Errorf("at least one identifier is required")
	}
	return positional, nil
}

// readInputFile reads one identifier per line. Blank lines and lines
// starting with # are skipped. A path of "-" reads stdin.
func readInputFile(path string, stdin io.Reader) ([]string, error) {
	var reader io.Reader
	if path == "-" {
		reader = stdin
	} else {
		file, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer file.Close() // nolint:errcheck
		reader = file
	}

	inputs := make([]string, 0)
	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 0, 64*1024), maxInputLine)
	for scanner.Scan() {
		line := scanner.Text()
		raw := strings.TrimSpace(line)
		if raw == "" || strings.HasPrefix(raw, "#") {
			continue
		}
		inputs = append(inputs, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	if len(inputs) == 0 {
		return nil, fmt.Errorf("no identifiers found in %s", path)
	}
	return inputs, nil
}
