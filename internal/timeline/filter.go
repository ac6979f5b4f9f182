package timeline

import (
	"sort"
	"strings"

	"planboard/internal/models"
)

// FilterAll disables a predicate; AssigneeUnassigned matches tasks whose
// assignee id resolves to no known team member, which covers both empty
// and stale references.
const (
	FilterAll          = "all"
	AssigneeUnassigned = "unassigned"
)

type Filter struct {
	Search   string
	Status   string
	Assignee string
}

type SortKey string

const (
	SortByStartDate SortKey = "startDate"
	SortByEndDate   SortKey = "endDate"
	SortByName      SortKey = "name"
	SortByPriority  SortKey = "priority"
	SortByProgress  SortKey = "progress"
	SortByStatus    SortKey = "status"
)

type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

type SortState struct {
	Key       SortKey
	Direction SortDirection
}

// Toggle flips the direction when key is already active and resets to
// ascending when a new key is selected.
func (s SortState) Toggle(key SortKey) SortState {
	if s.Key == key {
		if s.Direction == SortAsc {
			return SortState{Key: key, Direction: SortDesc}
		}
		return SortState{Key: key, Direction: SortAsc}
	}
	return SortState{Key: key, Direction: SortAsc}
}

// Priority ranks low below high; status ranks overdue first and completed
// last. The status order is a domain ordering, not alphabetical.
var (
	priorityRank = map[string]int{
		models.TaskPriorityLow:    1,
		models.TaskPriorityMedium: 2,
		models.TaskPriorityHigh:   3,
	}
	statusRank = map[string]int{
		models.TaskStatusOverdue:    1,
		models.TaskStatusNotStarted: 2,
		models.TaskStatusInProgress: 3,
		models.TaskStatusCompleted:  4,
	}
)

// Apply filters tasks by the predicates and sorts the survivors. The input
// slice is treated as an immutable snapshot; the returned slice is new.
// Equal sort keys keep their input order.
func Apply(tasks []models.Task, members []models.TeamMember, filter Filter, state SortState) []models.Task {
	known := make(map[string]bool, len(members))
	for _, m := range members {
		known[m.ID] = true
	}

	search := strings.ToLower(strings.TrimSpace(filter.Search))

	filtered := make([]models.Task, 0, len(tasks))
	for _, task := range tasks {
		if search != "" &&
			!strings.Contains(strings.ToLower(task.Name), search) &&
			!strings.Contains(strings.ToLower(task.Description), search) {
			continue
		}
		if filter.Status != "" && filter.Status != FilterAll && task.Status != filter.Status {
			continue
		}
		if filter.Assignee != "" && filter.Assignee != FilterAll {
			if filter.Assignee == AssigneeUnassigned {
				if known[task.Assignee] {
					continue
				}
			} else if task.Assignee != filter.Assignee {
				continue
			}
		}
		filtered = append(filtered, task)
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		less, equal := compare(filtered[i], filtered[j], state.Key)
		if equal {
			return false
		}
		if state.Direction == SortDesc {
			return !less
		}
		return less
	})

	return filtered
}

func compare(a, b models.Task, key SortKey) (less, equal bool) {
	switch key {
	case SortByStartDate:
		return a.StartDate < b.StartDate, a.StartDate == b.StartDate
	case SortByEndDate:
		return a.EndDate < b.EndDate, a.EndDate == b.EndDate
	case SortByName:
		an, bn := strings.ToLower(a.Name), strings.ToLower(b.Name)
		return an < bn, an == bn
	case SortByPriority:
		ar, br := priorityRank[a.Priority], priorityRank[b.Priority]
		return ar < br, ar == br
	case SortByProgress:
		return a.Progress < b.Progress, a.Progress == b.Progress
	case SortByStatus:
		ar, br := statusRank[a.Status], statusRank[b.Status]
		return ar < br, ar == br
	}
	return false, true
}
