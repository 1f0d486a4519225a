package consolidation

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"slices"
	"strings"
)

// StaticServiceList is a fixed set of known service ids.
type StaticServiceList []string

var _ KnownServiceSource = StaticServiceList(nil)

// ServiceIDs returns the sorted, de-duplicated, non-empty ids of the list.
func (l StaticServiceList) ServiceIDs(context.Context) ([]string, error) {
	ids := make([]string, 0, len(l))

	for _, id := range l {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}

	slices.Sort(ids)

	return slices.Compact(ids), nil
}

// LoadServiceListFile reads one service id per line. Blank lines and lines
// starting with '#' are ignored.
func LoadServiceListFile(path string) (StaticServiceList, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open known services file: %w", err)
	}
	defer func() { _ = f.Close() }()

	var list StaticServiceList

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		list = append(list, line)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read known services file: %w", err)
	}

	return list, nil
}
