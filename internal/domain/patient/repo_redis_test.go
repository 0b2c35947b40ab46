package patient

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestRedisRepo(t *testing.T) (Repository, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisRepo(client, "patients"), mr
}

func TestRedisRepo_MissingKeyLoadsEmpty(t *testing.T) {
	repo, _ := newTestRedisRepo(t)
	got, err := repo.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Errorf("expected empty non-nil collection, got %#v", got)
	}
}

func TestRedisRepo_SaveLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo, mr := newTestRedisRepo(t)

	p1 := samplePatient("P001")
	p1.Derive()
	p2 := samplePatient("P002")
	p2.Height = 1.6
	p2.Derive()

	if err := repo.Save(ctx, []Patient{p1, p2}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(got) != 2 || got[0] != p1 || got[1] != p2 {
		t.Errorf("round trip mismatch: %+v", got)
	}

	raw, err := mr.Get("patients")
	if err != nil {
		t.Fatalf("key not written: %v", err)
	}
	if raw[0] != '[' {
		t.Errorf("expected a JSON array under the key, got %q", raw)
	}
}

func TestRedisRepo_SaveReplacesCollection(t *testing.T) {
	ctx := context.Background()
	repo, mr := newTestRedisRepo(t)

	repo.Save(ctx, []Patient{samplePatient("P001"), samplePatient("P002")})
	if err := repo.Save(ctx, nil); err != nil {
		t.Fatalf("Save: %v", err)
	}
	raw, _ := mr.Get("patients")
	if raw != "[]" {
		t.Errorf("expected [], got %q", raw)
	}
}

func TestRedisRepo_CorruptValue(t *testing.T) {
	repo, mr := newTestRedisRepo(t)
	mr.Set("patients", "{not json")
	if _, err := repo.Load(context.Background()); err == nil {
		t.Error("expected decode error")
	}
}

func TestRedisRepo_ServerDown(t *testing.T) {
	repo, mr := newTestRedisRepo(t)
	mr.Close()

	if _, err := repo.Load(context.Background()); err == nil {
		t.Error("expected load error with the server down")
	}
	if err := repo.Save(context.Background(), []Patient{samplePatient("P001")}); err == nil {
		t.Error("expected save error with the server down")
	}
}

func TestStore_OverRedis(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestRedisRepo(t)

	s := newTestStore(t, repo)
	if _, err := s.Insert(ctx, samplePatient("P001")); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	reloaded := newTestStore(t, repo)
	got, err := reloaded.Get(ctx, "P001")
	if err != nil {
		t.Fatalf("Get after reload: %v", err)
	}
	if got.BMI != 27.78 || got.Verdict != VerdictOverweight {
		t.Errorf("unexpected reloaded record: %+v", got)
	}
}
