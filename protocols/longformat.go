package protocols

import (
	"fmt"
	"time"
)

// longFormat renders one directory entry the way `ls -l` does, with the year
// always present in the date.
func longFormat(mode string, links uint64, owner, group string, size int64, modTime time.Time, name string) string {
	if owner == "" {
		owner = "-"
	}
	if group == "" {
		group = "-"
	}
	return fmt.Sprintf("%s %d %s %s %d %s %s",
		mode, links, owner, group, size, modTime.Format("Jan 2 2006"), name)
}
