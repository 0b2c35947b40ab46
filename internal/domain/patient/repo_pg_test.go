package patient

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ehr/patients/internal/platform/db"
)

// newTestPGRepo migrates a throwaway schema on the database named by
// PATIENTS_TEST_DATABASE_URL and returns a repository bound to it.
func newTestPGRepo(t *testing.T) (Repository, *pgxpool.Pool) {
	t.Helper()
	url := os.Getenv("PATIENTS_TEST_DATABASE_URL")
	if url == "" {
		t.Skip("PATIENTS_TEST_DATABASE_URL not set")
	}
	ctx := context.Background()
	schema := "test_" + uuid.NewString()[:8]

	admin, err := db.NewPool(ctx, url, 2, 0)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(func() {
		admin.Exec(context.Background(), fmt.Sprintf("DROP SCHEMA IF EXISTS %s CASCADE", pgx.Identifier{schema}.Sanitize()))
		admin.Close()
	})
	if _, err := db.NewMigrator(admin, "../../../migrations").Up(ctx, schema); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	cfg, err := pgxpool.ParseConfig(url)
	if err != nil {
		t.Fatalf("parse url: %v", err)
	}
	cfg.ConnConfig.RuntimeParams["search_path"] = schema
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		t.Fatalf("open pool: %v", err)
	}
	t.Cleanup(pool.Close)
	return NewPatientRepoPG(pool), pool
}

func TestPatientRepoPG_EmptyTableLoadsEmpty(t *testing.T) {
	repo, _ := newTestPGRepo(t)
	got, err := repo.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Errorf("expected empty non-nil collection, got %#v", got)
	}
}

func TestPatientRepoPG_SaveRewritesInOrder(t *testing.T) {
	ctx := context.Background()
	repo, pool := newTestPGRepo(t)

	var first []Patient
	for _, id := range []string{"P003", "P001", "P002"} {
		p := samplePatient(id)
		p.Derive()
		first = append(first, p)
	}
	if err := repo.Save(ctx, first); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 records, got %d", len(got))
	}
	for i := range first {
		if got[i] != first[i] {
			t.Errorf("position %d: got %+v, want %+v", i, got[i], first[i])
		}
	}

	// A second save replaces the whole table.
	if err := repo.Save(ctx, first[1:2]); err != nil {
		t.Fatalf("Save: %v", err)
	}
	var count int
	if err := pool.QueryRow(ctx, `SELECT count(*) FROM patient_record`).Scan(&count); err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Errorf("expected 1 row after rewrite, got %d", count)
	}
}

func TestPatientRepoPG_FailedSaveKeepsPreviousRows(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestPGRepo(t)

	p := samplePatient("P001")
	p.Derive()
	if err := repo.Save(ctx, []Patient{p}); err != nil {
		t.Fatalf("Save: %v", err)
	}

	// Duplicate primary keys abort the copy and roll back the delete.
	if err := repo.Save(ctx, []Patient{p, p}); err == nil {
		t.Fatal("expected save with duplicate ids to fail")
	}
	got, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(got) != 1 || got[0] != p {
		t.Errorf("expected the previous collection to survive, got %+v", got)
	}
}
