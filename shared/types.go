package shared

import "strconv"

type Record int32

// RunID names a run file. Ids are handed out once and never reused.
type RunID int

func (id RunID) String() string {
	return strconv.Itoa(int(id))
}

func CompareRecords(r1, r2 Record) int {
	if r1 < r2 {
		return -1
	} else if r1 > r2 {
		return 1
	}
	return 0
}
