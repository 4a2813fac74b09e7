package repositories

import (
	"math"
	"sort"

	"navhub/internal/common"
	"navhub/internal/models"
)

// orderRow is the ordering-relevant projection of a category or link.
type orderRow struct {
	ID        int64
	Scope     *int64
	SortOrder int
}

// planReorder merges a drag-and-drop result into the current ordering and
// returns the new sort_order of every row whose value changes.
//
// Submitted values replace current ones; each scope is then renumbered from 0.
// Ties are broken by position in the request, then by id, so a client that
// sends one global index across all scopes still gets per-scope sequences.
func planReorder(rows []orderRow, items []models.OrderItem, resource string) (map[int64]int, error) {
	known := make(map[int64]struct{}, len(rows))
	for _, r := range rows {
		known[r.ID] = struct{}{}
	}

	submitted := make(map[int64]int, len(items))
	listedAt := make(map[int64]int, len(items))
	for i, item := range items {
		if _, ok := known[item.ID]; !ok {
			return nil, common.NewError(common.ErrValidation, "unknown %s id %d", resource, item.ID)
		}
		if _, dup := submitted[item.ID]; dup {
			return nil, common.NewError(common.ErrValidation, "duplicate %s id %d", resource, item.ID)
		}
		if item.SortOrder < 0 {
			return nil, common.NewError(common.ErrValidation, "sort_order must not be negative")
		}
		submitted[item.ID] = item.SortOrder
		listedAt[item.ID] = i
	}

	type entry struct {
		row    orderRow
		order  int
		listed int
	}

	// Scope ids are positive, so 0 stands for the NULL scope.
	groups := make(map[int64][]entry)
	for _, r := range rows {
		e := entry{row: r, order: r.SortOrder, listed: math.MaxInt}
		if v, ok := submitted[r.ID]; ok {
			e.order = v
			e.listed = listedAt[r.ID]
		}
		var key int64
		if r.Scope != nil {
			key = *r.Scope
		}
		groups[key] = append(groups[key], e)
	}

	changes := make(map[int64]int)
	for _, group := range groups {
		sort.SliceStable(group, func(i, j int) bool {
			a, b := group[i], group[j]
			if a.order != b.order {
				return a.order < b.order
			}
			if a.listed != b.listed {
				return a.listed < b.listed
			}
			return a.row.ID < b.row.ID
		})
		for pos, e := range group {
			if e.row.SortOrder != pos {
				changes[e.row.ID] = pos
			}
		}
	}
	return changes, nil
}
