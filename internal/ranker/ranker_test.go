package ranker

import (
	"context"
	"errors"
	"testing"
	"time"

	"gorm.io/datatypes"

	"github.com/JLORep/ProjectTrench-sub004/internal/models"
)

var testDay = time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)

func completedSignal(id string, ts time.Time, confidence, runner float64, matches ...string) models.Signal {
	return models.Signal{
		ID:              id,
		RawMessage:      "$TEST entry 1.0",
		Channel:         "alpha-calls",
		Timestamp:       ts,
		ConfidenceScore: confidence,
		RiskScore:       100 - confidence,
		RunnerPotential: runner,
		StrategyMatches: datatypes.NewJSONSlice(matches),
		Status:          models.StatusCompleted,
	}
}

func seed(t *testing.T, repo *stubRepo, signals ...models.Signal) {
	t.Helper()
	for i := range signals {
		if err := repo.CreateSignal(context.Background(), &signals[i]); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
}

func TestRunForDayFiltersAndOrders(t *testing.T) {
	repo := newStubRepo()
	failed := completedSignal("s-failed", testDay.Add(8*time.Hour), 90, 72)
	failed.Status = models.StatusFailed
	seed(t, repo,
		completedSignal("s-80", testDay.Add(10*time.Hour), 80, 64, "runner_profile"),
		completedSignal("s-70", testDay.Add(11*time.Hour), 70, 56, "established_mover"),
		completedSignal("s-60", testDay.Add(12*time.Hour), 60, 48, "runner_profile"),
		completedSignal("s-55", testDay.Add(9*time.Hour), 55, 44, "micro_cap_surge"),
		// The cut is strict: exactly 50 is out, barely above is in.
		completedSignal("s-50", testDay.Add(13*time.Hour), 50, 40, "runner_profile"),
		completedSignal("s-edge", testDay.Add(16*time.Hour), 50.0001, 40.00008, "holder_growth"),
		completedSignal("s-45", testDay.Add(14*time.Hour), 45, 36, "runner_profile"),
		failed,
	)

	r := &Ranker{Repo: repo, TopN: 5, MinConfidence: 50}
	// Mid-day timestamp must rank the same day as midnight.
	board, err := r.RunForDay(context.Background(), testDay.Add(15*time.Hour+4*time.Minute))
	if err != nil {
		t.Fatalf("err=%v", err)
	}

	wantOrder := []string{"s-80", "s-70", "s-60", "s-55", "s-edge"}
	if len(board) != len(wantOrder) {
		t.Fatalf("board=%d rows want=%d", len(board), len(wantOrder))
	}
	for i, want := range wantOrder {
		if board[i].SignalID != want {
			t.Fatalf("rank %d signal=%s want=%s", i+1, board[i].SignalID, want)
		}
		if board[i].Rank != i+1 {
			t.Fatalf("rank=%d want=%d", board[i].Rank, i+1)
		}
	}
	if board[0].FinalScore != 64 {
		t.Fatalf("final score=%v want=64", board[0].FinalScore)
	}
	if board[0].StrategySummary != "runner_profile" {
		t.Fatalf("summary=%q", board[0].StrategySummary)
	}
}

func TestRunForDayMixedConfidenceBoard(t *testing.T) {
	repo := newStubRepo()
	// Runner potential follows confidence here, so the 81-pair ties on both
	// ranking keys and falls through to receipt order.
	seed(t, repo,
		completedSignal("c-92", testDay.Add(1*time.Hour), 92, 73.6, "runner_profile"),
		completedSignal("c-81-t1", testDay.Add(2*time.Hour), 81, 64.8, "runner_profile"),
		completedSignal("c-81-t2", testDay.Add(3*time.Hour), 81, 64.8, "micro_cap_surge"),
		completedSignal("c-40", testDay.Add(4*time.Hour), 40, 32, "holder_growth"),
		completedSignal("c-88", testDay.Add(5*time.Hour), 88, 70.4, "established_mover"),
	)

	r := &Ranker{Repo: repo, TopN: 5, MinConfidence: 50}
	board, err := r.RunForDay(context.Background(), testDay)
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	want := []string{"c-92", "c-88", "c-81-t1", "c-81-t2"}
	got := boardIDs(board)
	if len(got) != len(want) {
		t.Fatalf("board=%v want=%v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order=%v want=%v", got, want)
		}
	}
}

func TestRunForDayCapsAtTopN(t *testing.T) {
	repo := newStubRepo()
	for i := 0; i < 7; i++ {
		conf := float64(95 - i*5)
		seed(t, repo, completedSignal(
			string(rune('a'+i)), testDay.Add(time.Duration(i)*time.Hour), conf, conf*0.8, "runner_profile"))
	}

	r := &Ranker{Repo: repo, TopN: 5, MinConfidence: 50}
	board, err := r.RunForDay(context.Background(), testDay)
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	if len(board) != 5 {
		t.Fatalf("board=%d want=5", len(board))
	}
	if board[0].SignalID != "a" || board[4].SignalID != "e" {
		t.Fatalf("board order=%v", boardIDs(board))
	}
}

func TestRunForDayTieBreaks(t *testing.T) {
	repo := newStubRepo()
	seed(t, repo,
		// Same runner potential: higher confidence wins.
		completedSignal("conf-85", testDay.Add(2*time.Hour), 85, 60, "runner_profile"),
		completedSignal("conf-90", testDay.Add(3*time.Hour), 90, 60, "runner_profile"),
		// Same runner and confidence: earlier receipt wins.
		completedSignal("late", testDay.Add(6*time.Hour), 70, 52, "runner_profile"),
		completedSignal("early", testDay.Add(5*time.Hour), 70, 52, "runner_profile"),
	)

	r := &Ranker{Repo: repo, TopN: 5, MinConfidence: 50}
	board, err := r.RunForDay(context.Background(), testDay)
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	want := []string{"conf-90", "conf-85", "early", "late"}
	got := boardIDs(board)
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order=%v want=%v", got, want)
		}
	}
}

func TestRunForDayIdempotent(t *testing.T) {
	repo := newStubRepo()
	seed(t, repo,
		completedSignal("s1", testDay.Add(time.Hour), 80, 64, "runner_profile"),
		completedSignal("s2", testDay.Add(2*time.Hour), 70, 56, "established_mover"),
	)

	r := &Ranker{Repo: repo, TopN: 5, MinConfidence: 50}
	first, err := r.RunForDay(context.Background(), testDay)
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	second, err := r.RunForDay(context.Background(), testDay)
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	if repo.replaceCalls != 2 {
		t.Fatalf("replace calls=%d want=2", repo.replaceCalls)
	}
	if len(first) != len(second) {
		t.Fatalf("rerun changed board size: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].SignalID != second[i].SignalID || first[i].Rank != second[i].Rank {
			t.Fatalf("rerun changed board at %d: %+v vs %+v", i, first[i], second[i])
		}
	}
	stored, _ := repo.ListDailyRankings(context.Background(), testDay)
	if len(stored) != 2 {
		t.Fatalf("stored=%d want=2, rerun must replace not append", len(stored))
	}
}

func TestRunForDayClearsStaleBoard(t *testing.T) {
	repo := newStubRepo()
	stale := []models.DailyRanking{{Day: datatypes.Date(testDay), Rank: 1, SignalID: "gone", FinalScore: 60}}
	if err := repo.ReplaceDailyRankings(context.Background(), testDay, stale); err != nil {
		t.Fatalf("seed stale board: %v", err)
	}

	r := &Ranker{Repo: repo, TopN: 5, MinConfidence: 50}
	board, err := r.RunForDay(context.Background(), testDay)
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	if len(board) != 0 {
		t.Fatalf("board=%d want=0", len(board))
	}
	stored, _ := repo.ListDailyRankings(context.Background(), testDay)
	if len(stored) != 0 {
		t.Fatalf("stale board not cleared: %v", boardIDs(stored))
	}
}

func TestRunForDayScopedToDay(t *testing.T) {
	repo := newStubRepo()
	seed(t, repo,
		completedSignal("today", testDay.Add(time.Hour), 80, 64, "runner_profile"),
		completedSignal("tomorrow", testDay.Add(25*time.Hour), 90, 72, "runner_profile"),
	)

	r := &Ranker{Repo: repo, TopN: 5, MinConfidence: 50}
	board, err := r.RunForDay(context.Background(), testDay)
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	if len(board) != 1 || board[0].SignalID != "today" {
		t.Fatalf("board=%v want only today's signal", boardIDs(board))
	}
	next, _ := repo.ListDailyRankings(context.Background(), testDay.Add(24*time.Hour))
	if len(next) != 0 {
		t.Fatalf("next day board=%v want untouched", boardIDs(next))
	}
}

func TestRunOnceRanksYesterday(t *testing.T) {
	repo := newStubRepo()
	yesterday := time.Now().UTC().AddDate(0, 0, -1)
	seed(t, repo, completedSignal("y1", dayStart(yesterday).Add(3*time.Hour), 80, 64, "runner_profile"))

	r := &Ranker{Repo: repo, TopN: 5, MinConfidence: 50}
	if err := r.RunOnce(context.Background()); err != nil {
		t.Fatalf("err=%v", err)
	}
	board, _ := repo.ListDailyRankings(context.Background(), yesterday)
	if len(board) != 1 || board[0].SignalID != "y1" {
		t.Fatalf("board=%v want=[y1]", boardIDs(board))
	}
}

func TestRunForDayReplaceError(t *testing.T) {
	repo := newStubRepo()
	repo.replaceErr = errors.New("db down")
	seed(t, repo, completedSignal("s1", testDay.Add(time.Hour), 80, 64, "runner_profile"))

	r := &Ranker{Repo: repo, TopN: 5, MinConfidence: 50}
	if _, err := r.RunForDay(context.Background(), testDay); err == nil {
		t.Fatalf("want error when replace fails")
	}
}

func boardIDs(board []models.DailyRanking) []string {
	ids := make([]string, 0, len(board))
	for _, row := range board {
		ids = append(ids, row.SignalID)
	}
	return ids
}
