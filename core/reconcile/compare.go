package reconcile

// comparator compares aligned rows column by column, by column name.
type comparator struct {
	// columns are the compared column names, in left schema order.
	columns  []string
	leftIdx  []int
	rightIdx []int

	// mismatches lists the columns only one schema declares.
	mismatches []SchemaMismatchError
}

// newComparator matches the two schemas by column name. Key columns and
// ignored columns are not compared; ignored columns are not reported as
// schema mismatches either.
func newComparator(left, right, keyColumns, ignore []string) *comparator {
	skip := make(map[string]struct{}, len(keyColumns)+len(ignore))
	for _, name := range keyColumns {
		skip[name] = struct{}{}
	}
	ignored := make(map[string]struct{}, len(ignore))
	for _, name := range ignore {
		skip[name] = struct{}{}
		ignored[name] = struct{}{}
	}

	rightPos := indexColumns(right)
	leftPos := indexColumns(left)

	c := &comparator{}
	seen := make(map[string]struct{}, len(left))
	for i, name := range left {
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}

		j, ok := rightPos[name]
		if !ok {
			if _, ign := ignored[name]; !ign {
				c.mismatches = append(c.mismatches, SchemaMismatchError{Column: name, Side: SideLeft})
			}
			continue
		}
		if _, s := skip[name]; s {
			continue
		}
		c.columns = append(c.columns, name)
		c.leftIdx = append(c.leftIdx, i)
		c.rightIdx = append(c.rightIdx, j)
	}

	for _, name := range right {
		if _, ok := leftPos[name]; ok {
			continue
		}
		if _, ign := ignored[name]; ign {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		c.mismatches = append(c.mismatches, SchemaMismatchError{Column: name, Side: SideRight})
	}

	return c
}

// indexColumns maps each column name to its first position.
func indexColumns(columns []string) map[string]int {
	pos := make(map[string]int, len(columns))
	for i, name := range columns {
		if _, ok := pos[name]; !ok {
			pos[name] = i
		}
	}
	return pos
}

// compare returns the indices (into c.columns) of the columns whose values
// differ. An empty result means the rows match.
func (c *comparator) compare(left, right []string) []int {
	var diffs []int
	for i := range c.columns {
		if left[c.leftIdx[i]] != right[c.rightIdx[i]] {
			diffs = append(diffs, i)
		}
	}
	return diffs
}

// fieldDiffs renders the differing columns of a mismatched pair.
func (c *comparator) fieldDiffs(left, right []string, diffs []int) []FieldDiff {
	out := make([]FieldDiff, 0, len(diffs))
	for _, i := range diffs {
		out = append(out, FieldDiff{
			Column: c.columns[i],
			Left:   left[c.leftIdx[i]],
			Right:  right[c.rightIdx[i]],
		})
	}
	return out
}
