package performance

import (
	"math"
	"sort"
)

// SubjectScore is one subject's score inside a ranking row, listed in
// the order the subject was first recorded.
type SubjectScore struct {
	Subject string  `json:"subject"`
	Score   float64 `json:"score"`
}

// RankRow is a single line of a class ranking table.
type RankRow struct {
	Rank            int            `json:"rank"`
	StudentID       string         `json:"student_id"`
	Name            string         `json:"name"`
	AdmissionNumber string         `json:"admission_number"`
	Average         float64        `json:"average"` // rounded to 2 decimals
	Subjects        []SubjectScore `json:"subjects"`
}

// Rank aggregates raw scores into a ranking table. Scores are grouped
// per student preserving first-appearance order, averaged across all of
// a student's entries, then sorted by average descending. The sort is
// stable, so students with equal averages keep their first-appearance
// order and still get distinct consecutive ranks.
func Rank(scores []Performance) []RankRow {
	byStudent := make(map[string]*RankRow, len(scores))
	order := make([]string, 0, len(scores))
	totals := make(map[string]float64, len(scores))

	for _, p := range scores {
		row, ok := byStudent[p.StudentID]
		if !ok {
			row = &RankRow{StudentID: p.StudentID}
			byStudent[p.StudentID] = row
			order = append(order, p.StudentID)
		}
		row.Subjects = append(row.Subjects, SubjectScore{Subject: p.Subject, Score: p.Score})
		totals[p.StudentID] += p.Score
	}

	rows := make([]RankRow, 0, len(order))
	for _, id := range order {
		row := byStudent[id]
		row.Average = round2(totals[id] / float64(len(row.Subjects)))
		rows = append(rows, *row)
	}

	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Average > rows[j].Average })
	for i := range rows {
		rows[i].Rank = i + 1
	}
	return rows
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
