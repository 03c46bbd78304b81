package performance

import (
	"testing"
)

func score(studentID, subject string, score float64) Performance {
	return Performance{StudentID: studentID, Subject: subject, Score: score}
}

func TestRank(t *testing.T) {
	scores := []Performance{
		score("STU-a", "Math", 60),
		score("STU-b", "Math", 90),
		score("STU-a", "English", 80),
	}

	rows := Rank(scores)
	if len(rows) != 2 {
		t.Fatalf("len(rows) = %d, want 2", len(rows))
	}

	if rows[0].StudentID != "STU-b" || rows[0].Rank != 1 || rows[0].Average != 90 {
		t.Errorf("rows[0] = %+v, want STU-b rank 1 avg 90", rows[0])
	}
	if rows[1].StudentID != "STU-a" || rows[1].Rank != 2 || rows[1].Average != 70 {
		t.Errorf("rows[1] = %+v, want STU-a rank 2 avg 70", rows[1])
	}

	// subjects keep encounter order
	subs := rows[1].Subjects
	if len(subs) != 2 || subs[0].Subject != "Math" || subs[1].Subject != "English" {
		t.Errorf("Subjects = %+v, want [Math English]", subs)
	}
}

func TestRank_deterministic(t *testing.T) {
	scores := []Performance{
		score("STU-a", "Math", 60),
		score("STU-b", "Math", 90),
		score("STU-a", "English", 80),
	}

	first := Rank(scores)
	for i := 0; i < 50; i++ {
		again := Rank(scores)
		for j := range first {
			if first[j].StudentID != again[j].StudentID || first[j].Rank != again[j].Rank {
				t.Fatalf("run %d: rows diverged: %+v vs %+v", i, first[j], again[j])
			}
		}
	}
}

// Equal averages keep first-appearance order and still get distinct ranks.
func TestRank_ties(t *testing.T) {
	scores := []Performance{
		score("STU-a", "Math", 75),
		score("STU-b", "Math", 75),
		score("STU-c", "Math", 50),
	}

	rows := Rank(scores)
	if rows[0].StudentID != "STU-a" || rows[0].Rank != 1 {
		t.Errorf("rows[0] = %+v, want STU-a rank 1", rows[0])
	}
	if rows[1].StudentID != "STU-b" || rows[1].Rank != 2 {
		t.Errorf("rows[1] = %+v, want STU-b rank 2", rows[1])
	}
	if rows[2].StudentID != "STU-c" || rows[2].Rank != 3 {
		t.Errorf("rows[2] = %+v, want STU-c rank 3", rows[2])
	}
}

func TestRank_roundsAverages(t *testing.T) {
	scores := []Performance{
		score("STU-a", "Math", 70),
		score("STU-a", "English", 65),
		score("STU-a", "Science", 71),
	}

	rows := Rank(scores)
	if want := 68.67; rows[0].Average != want {
		t.Errorf("Average = %v, want %v", rows[0].Average, want)
	}
}

func TestRank_empty(t *testing.T) {
	if rows := Rank(nil); len(rows) != 0 {
		t.Errorf("Rank(nil) = %+v, want empty", rows)
	}
}
