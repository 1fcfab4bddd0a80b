package ingest

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"soda-game/internal/domain"
)

// RawFile identifies one exported game table, e.g. "2024 - Game 3 - orders.csv".
type RawFile struct {
	Path    string
	Year    string
	GameNum int
	Metric  domain.Metric
}

var (
	rawFilePattern = regexp.MustCompile(`(\w+) - [Gg]ame (\d+) - (orders|inventory|surplus|supply_chain_cost)\.csv$`)

	// legacy exports sit in a per-year folder: "<year>/raw/Game 3 - Supply Chain Cost.csv"
	legacyFilePattern = regexp.MustCompile(`^Game (\d+) - (Orders|Inventory|Surplus|Supply Chain Cost)\.csv$`)
)

// ParseFileName matches a raw export file name. yearHint supplies the year for
// legacy names that do not carry one; ok is false for anything else.
func ParseFileName(path, yearHint string) (RawFile, bool) {
	base := filepath.Base(path)

	if m := rawFilePattern.FindStringSubmatch(base); m != nil {
		game, err := strconv.Atoi(m[2])
		if err != nil {
			return RawFile{}, false
		}
		return RawFile{Path: path, Year: m[1], GameNum: game, Metric: domain.Metric(m[3])}, true
	}

	if m := legacyFilePattern.FindStringSubmatch(base); m != nil && yearHint != "" {
		game, err := strconv.Atoi(m[1])
		if err != nil {
			return RawFile{}, false
		}
		metric := domain.Metric(strings.ReplaceAll(strings.ToLower(m[2]), " ", "_"))
		return RawFile{Path: path, Year: yearHint, GameNum: game, Metric: metric}, true
	}

	return RawFile{}, false
}

func (f RawFile) String() string {
	return fmt.Sprintf("%s game %d %s", f.Year, f.GameNum, f.Metric)
}
