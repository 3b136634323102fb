// Package wordlist provides the candidate labels probed by the scheduler:
// the built-in list with its permutations, or labels loaded from a file.
package wordlist

import (
	"bufio"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/submap/submap/pkg/defaults"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// BuiltinName is reported as the wordlist name when no file is given.
const BuiltinName = "builtin"

// permutationSuffixes are appended to the first built-in words.
var permutationSuffixes = []string{"-api", "-web", "01", "02"}

// Wordlist is an ordered, de-duplicated set of candidate labels.
// Words is shared read-only by every probe once loaded.
type Wordlist struct {
	Name  string
	Path  string
	Words []string
}

// Size returns the number of labels.
func (w *Wordlist) Size() int {
	if w == nil {
		return 0
	}
	return len(w.Words)
}

// Builtin returns the built-in list followed by suffix permutations of its
// first defaults.PermutationSeeds entries.
func Builtin() *Wordlist {
	words := make([]string, 0, len(builtinWords)+defaults.PermutationSeeds*len(permutationSuffixes))
	words = append(words, builtinWords...)
	words = append(words, Permutations(builtinWords, defaults.PermutationSeeds)...)
	return &Wordlist{
		Name:  BuiltinName,
		Words: deduplicate(words),
	}
}

// Permutations derives "<word>-api", "<word>-web", "<word>01" and "<word>02"
// for the first n words.
func Permutations(words []string, n int) []string {
	if n > len(words) {
		n = len(words)
	}
	out := make([]string, 0, n*len(permutationSuffixes))
	for _, w := range words[:n] {
		for _, s := range permutationSuffixes {
			out = append(out, w+s)
		}
	}
	return out
}

// Load reads labels from path, one per line. Blank lines and lines starting
// with '#' are skipped. Files ending in .gz are decompressed transparently.
func Load(path string) (*Wordlist, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("wordlist: open %s: %w", path, err)
	}
	defer file.Close()

	var reader io.Reader = file
	if strings.HasSuffix(path, ".gz") {
		gzReader, err := gzip.NewReader(file)
		if err != nil {
			return nil, fmt.Errorf("wordlist: gzip reader: %w", err)
		}
		defer gzReader.Close()
		reader = gzReader
	}

	words, err := ReadLabels(reader)
	if err != nil {
		return nil, fmt.Errorf("wordlist: read %s: %w", path, err)
	}
	if len(words) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmpty, path)
	}

	return &Wordlist{
		Name:  filepath.Base(path),
		Path:  path,
		Words: words,
	}, nil
}

// ReadLabels scans r line by line, trimming whitespace, dropping comments
// and blanks, lowercasing and de-duplicating in first-seen order.
func ReadLabels(r io.Reader) ([]string, error) {
	lower := cases.Lower(language.Und)
	var words []string

	scanner := bufio.NewScanner(r)
	buf := make([]byte, 64*1024)
	scanner.Buffer(buf, 1024*1024)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		words = append(words, lower.String(line))
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return deduplicate(words), nil
}

func deduplicate(words []string) []string {
	seen := make(map[string]struct{}, len(words))
	result := make([]string, 0, len(words))

	for _, word := range words {
		if _, ok := seen[word]; !ok {
			seen[word] = struct{}{}
			result = append(result, word)
		}
	}

	return result
}
