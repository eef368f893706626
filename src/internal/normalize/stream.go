package normalize

import (
	"bufio"
	"errors"
	"io"
	"iter"
	"os"
	"strings"

	"github.com/blocklistproject/blocklist-builder/src/internal/log"
	"github.com/blocklistproject/blocklist-builder/src/internal/merge"
	"github.com/blocklistproject/blocklist-builder/src/internal/utils"
)

// maxLineSize bounds a single line. Longer lines cannot hold an entry and
// are skipped whole.
const maxLineSize = 64 * 1024

// scanLines yields lines of r with invalid UTF-8 sequences dropped.
// Lines longer than maxLineSize are skipped.
func scanLines(r io.Reader, yield func(string) bool) error {
	reader := bufio.NewReaderSize(r, maxLineSize)
	for {
		line, isPrefix, err := reader.ReadLine()
		if err != nil {
			return readErr(err)
		}
		if isPrefix {
			skipped := len(line)
			for isPrefix {
				line, isPrefix, err = reader.ReadLine()
				if err != nil {
					return readErr(err)
				}
				skipped += len(line)
			}
			log.Debugf("Skipping line of %d bytes", skipped)
			continue
		}
		if !yield(strings.ToValidUTF8(string(line), "")) {
			return nil
		}
	}
}

func readErr(err error) error {
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

func domains(r io.Reader, yield func(string) bool) error {
	return scanLines(r, func(line string) bool {
		if domain, ok := Line(line); ok {
			return yield(domain)
		}
		return true
	})
}

// Reader yields the domains of r in input order, duplicates included.
// The sequence consumes r and can be iterated once.
func Reader(r io.Reader) iter.Seq[string] {
	return func(yield func(string) bool) {
		if err := domains(r, yield); err != nil {
			log.Warnf("Stopped reading list: %v", err)
		}
	}
}

// Content yields the domains of s. The sequence may be iterated repeatedly.
func Content(s string) iter.Seq[string] {
	return func(yield func(string) bool) {
		_ = domains(strings.NewReader(s), yield)
	}
}

// File yields the domains of the file at path, reopening it on every
// iteration. Unreadable files yield nothing.
func File(path string) iter.Seq[string] {
	return func(yield func(string) bool) {
		file, err := os.Open(path)
		if err != nil {
			log.Warnf("Could not open list file %s: %v", path, err)
			return
		}
		defer utils.CloseOrWarn(file)

		if err := domains(file, yield); err != nil {
			log.Warnf("Stopped reading %s: %v", path, err)
		}
	}
}

// ParseFile returns the unique domains of the file at path.
func ParseFile(path string) (merge.Set, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer utils.CloseOrWarn(file)

	set := make(merge.Set)
	err = domains(file, func(domain string) bool {
		set.Add(domain)
		return true
	})
	if err != nil {
		return nil, err
	}
	return set, nil
}

// ParseContent returns the unique domains of s.
func ParseContent(s string) merge.Set {
	return merge.Deduplicate(Content(s))
}
