// Package journal locates the game's active journal file and tails it across
// rotation, forwarding each decoded record to a configured sink.
package journal

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"

	"github.com/bmatcuk/doublestar/v4"
)

// journalGlob matches the rotating journal naming convention.
const journalGlob = "Journal.*.log"

// journalNameRe splits a journal filename into its creation stamp and
// sequence number. Both the legacy compact stamp and the newer ISO-style
// stamp sort lexicographically within their own convention.
var journalNameRe = regexp.MustCompile(`^Journal\.(.+)\.(\d+)\.log$`)

// journalFile identifies one journal file by its embedded (stamp, seq) pair.
type journalFile struct {
	path  string
	stamp string
	seq   int
}

// newer reports whether f was created after other.
func (f journalFile) newer(other journalFile) bool {
	if f.stamp != other.stamp {
		return f.stamp > other.stamp
	}
	return f.seq > other.seq
}

// discoverActive scans dir for journal files and returns the one with the
// greatest (stamp, seq) pair. Returns false if no journal file exists.
func discoverActive(dir string) (journalFile, bool, error) {
	matches, err := doublestar.FilepathGlob(filepath.Join(dir, journalGlob), doublestar.WithFilesOnly())
	if err != nil {
		return journalFile{}, false, fmt.Errorf("scanning journal directory: %w", err)
	}

	var best journalFile
	found := false
	for _, m := range matches {
		jf, ok := parseJournalName(m)
		if !ok {
			continue
		}
		if !found || jf.newer(best) {
			best = jf
			found = true
		}
	}
	return best, found, nil
}

// parseJournalName extracts the (stamp, seq) pair from a journal path.
func parseJournalName(path string) (journalFile, bool) {
	m := journalNameRe.FindStringSubmatch(filepath.Base(path))
	if m == nil {
		return journalFile{}, false
	}
	seq, err := strconv.Atoi(m[2])
	if err != nil {
		return journalFile{}, false
	}
	return journalFile{path: path, stamp: m[1], seq: seq}, true
}
