package repository

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/pasarantar/admin-console/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupSubmissionLogRepositoryTest(t *testing.T) *GormSubmissionLogRepository {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := models.AutoMigrate(db); err != nil {
		t.Fatalf("migrate submission logs failed: %v", err)
	}
	return NewSubmissionLogRepository(db)
}

func createSubmissionLog(t *testing.T, repo *GormSubmissionLogRepository, sessionID, entity, outcome string, at time.Time) {
	t.Helper()
	log := &models.SubmissionLog{
		SessionID: sessionID,
		Entity:    entity,
		Action:    "create",
		Outcome:   outcome,
		Message:   "Produk berhasil ditambahkan.",
		CreatedAt: at,
	}
	if err := repo.Create(log); err != nil {
		t.Fatalf("create submission log failed: %v", err)
	}
}

func TestSubmissionLogListFiltersAndOrders(t *testing.T) {
	repo := setupSubmissionLogRepositoryTest(t)
	now := time.Now()
	createSubmissionLog(t, repo, "s1", "product", "succeeded", now.Add(-3*time.Minute))
	createSubmissionLog(t, repo, "s1", "category", "failed", now.Add(-2*time.Minute))
	createSubmissionLog(t, repo, "s2", "product", "invalid", now.Add(-time.Minute))
	createSubmissionLog(t, repo, "s1", "product", "failed", now)

	logs, total, err := repo.List(SubmissionLogFilter{SessionID: "s1", Entity: "product", Page: 1, PageSize: 10})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if total != 2 || len(logs) != 2 {
		t.Fatalf("want 2 logs, got total=%d len=%d", total, len(logs))
	}
	if logs[0].Outcome != "failed" || logs[1].Outcome != "succeeded" {
		t.Fatalf("want newest first, got %s then %s", logs[0].Outcome, logs[1].Outcome)
	}

	logs, total, err = repo.List(SubmissionLogFilter{Page: 2, PageSize: 3})
	if err != nil {
		t.Fatalf("list page 2 failed: %v", err)
	}
	if total != 4 || len(logs) != 1 {
		t.Fatalf("want 1 log on page 2 of 4, got total=%d len=%d", total, len(logs))
	}
}

func TestSubmissionLogCountByOutcome(t *testing.T) {
	repo := setupSubmissionLogRepositoryTest(t)
	now := time.Now()
	createSubmissionLog(t, repo, "s1", "product", "succeeded", now)
	createSubmissionLog(t, repo, "s1", "product", "failed", now)
	createSubmissionLog(t, repo, "s1", "unit", "failed", now)
	createSubmissionLog(t, repo, "s2", "tag", "succeeded", now)

	rows, err := repo.CountByOutcome("s1")
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("want 2 outcome rows, got %+v", rows)
	}
	if rows[0].Outcome != "failed" || rows[0].Total != 2 {
		t.Fatalf("unexpected failed row: %+v", rows[0])
	}
	if rows[1].Outcome != "succeeded" || rows[1].Total != 1 {
		t.Fatalf("unexpected succeeded row: %+v", rows[1])
	}
}

func TestSubmissionLogDeleteBefore(t *testing.T) {
	repo := setupSubmissionLogRepositoryTest(t)
	now := time.Now()
	createSubmissionLog(t, repo, "s1", "product", "succeeded", now.Add(-48*time.Hour))
	createSubmissionLog(t, repo, "s1", "product", "succeeded", now)

	removed, err := repo.DeleteBefore(now.Add(-24 * time.Hour))
	if err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if removed != 1 {
		t.Fatalf("want 1 removed, got %d", removed)
	}
	_, total, err := repo.List(SubmissionLogFilter{})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if total != 1 {
		t.Fatalf("want 1 remaining, got %d", total)
	}
}
