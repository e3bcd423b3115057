package leaderboard

import (
	"sort"

	"github.com/dukerupert/earnlearn/internal/model"
)

type Entry struct {
	Rank           int    `json:"rank"`
	ChildID        int64  `json:"child_id"`
	Name           string `json:"name"`
	AvatarEmoji    string `json:"avatar_emoji"`
	EarnedPoints   int    `json:"earned_points"`
	CompletedTasks int    `json:"completed_tasks"`
	CurrentPoints  int    `json:"current_points"`
}

// Rank orders children by points earned from completed tasks, then by
// completed count, then by name. Tied children share a rank and the next
// rank is skipped (1, 1, 3).
func Rank(children []model.Child, tasks []model.Task) []Entry {
	byChild := make(map[int64]*Entry, len(children))
	entries := make([]Entry, 0, len(children))
	for _, c := range children {
		entries = append(entries, Entry{
			ChildID:       c.ID,
			Name:          c.Name,
			AvatarEmoji:   c.AvatarEmoji,
			CurrentPoints: c.CurrentPoints,
		})
	}
	for i := range entries {
		byChild[entries[i].ChildID] = &entries[i]
	}

	for _, t := range tasks {
		if t.Status != model.TaskCompleted {
			continue
		}
		e, ok := byChild[t.AssignedTo]
		if !ok {
			continue
		}
		e.EarnedPoints += t.Points
		e.CompletedTasks++
	}

	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.EarnedPoints != b.EarnedPoints {
			return a.EarnedPoints > b.EarnedPoints
		}
		if a.CompletedTasks != b.CompletedTasks {
			return a.CompletedTasks > b.CompletedTasks
		}
		return a.Name < b.Name
	})

	for i := range entries {
		if i > 0 && tied(entries[i-1], entries[i]) {
			entries[i].Rank = entries[i-1].Rank
			continue
		}
		entries[i].Rank = i + 1
	}
	return entries
}

func tied(a, b Entry) bool {
	return a.EarnedPoints == b.EarnedPoints && a.CompletedTasks == b.CompletedTasks
}
