package domain

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Backup filenames carry three structural fields: the sheet's base
// name, a 3-digit sequence number scoped to that base, and a
// write-time suffix. The date layout is pinned so names sort and parse
// the same on every machine.
const (
	backupDateLayout = "01-02-2006"
	backupTimeLayout = "15h-04m"
)

var backupNameRe = regexp.MustCompile(`^(.+)-(\d{3})-(\d{2}-\d{2}-\d{4})-(\d{2})h-(\d{2})m$`)

// BackupName is a parsed backup filename.
type BackupName struct {
	Base     string
	Sequence int
	Stamp    time.Time // date plus hour and minute; seconds are not recorded
	Ext      string
}

// FormatBackupName builds the filename for one backup revision.
func FormatBackupName(base string, sequence int, ts time.Time, ext string) string {
	return fmt.Sprintf("%s-%03d-%s-%s%s",
		base, sequence, ts.Format(backupDateLayout), ts.Format(backupTimeLayout), ext)
}

// ParseBackupName splits a backup filename into its structural fields.
// Names that do not follow the backup layout are rejected.
func ParseBackupName(name string) (BackupName, bool) {
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)

	m := backupNameRe.FindStringSubmatch(stem)
	if m == nil {
		return BackupName{}, false
	}

	seq, err := strconv.Atoi(m[2])
	if err != nil {
		return BackupName{}, false
	}
	stamp, err := time.Parse(backupDateLayout+"-"+backupTimeLayout, m[3]+"-"+m[4]+"h-"+m[5]+"m")
	if err != nil {
		return BackupName{}, false
	}

	return BackupName{Base: m[1], Sequence: seq, Stamp: stamp, Ext: ext}, true
}

// LatestBackup returns the highest-sequence backup filename for base
// among the given directory entries. It is a pure function of the
// listing: repeated calls with the same contents give the same answer.
func LatestBackup(names []string, base string) (name string, sequence int, ok bool) {
	sequence = -1
	for _, n := range names {
		parsed, valid := ParseBackupName(n)
		if !valid || parsed.Base != base {
			continue
		}
		if parsed.Sequence > sequence {
			sequence = parsed.Sequence
			name = n
		}
	}
	return name, sequence, sequence >= 0
}

// NextSequence returns the sequence number a fresh backup of base
// should take given the current directory listing: one past the
// highest existing number, or zero when none exist.
func NextSequence(names []string, base string) int {
	_, seq, ok := LatestBackup(names, base)
	if !ok {
		return 0
	}
	return seq + 1
}

// BaseName strips the directory and extension from a sheet file path.
func BaseName(sheetPath string) string {
	name := filepath.Base(sheetPath)
	return strings.TrimSuffix(name, filepath.Ext(name))
}
