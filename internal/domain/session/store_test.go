package session

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/golang-jwt/jwt/v5"
)

func TestFileStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session.json")
	store := NewFileStore(path)
	ctx := context.Background()

	token, err := store.Load(ctx)
	if err != nil || token != "" {
		t.Fatalf("missing file should load as empty token, got %q, %v", token, err)
	}

	if err := store.Save(ctx, "abc.def.ghi"); err != nil {
		t.Fatalf("Save: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("file mode: got %o, want 600", perm)
	}

	token, err = store.Load(ctx)
	if err != nil || token != "abc.def.ghi" {
		t.Fatalf("Load: got %q, %v", token, err)
	}

	if err := store.Clear(ctx); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if err := store.Clear(ctx); err != nil {
		t.Fatalf("second Clear should be a no-op: %v", err)
	}
	token, _ = store.Load(ctx)
	if token != "" {
		t.Errorf("token after clear: %q", token)
	}
}

func TestFileStoreCorruptDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	if err := os.WriteFile(path, []byte("{not json"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := NewFileStore(path).Load(context.Background()); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestStateSurvivesRestartWithFileStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	ctx := context.Background()

	first, err := NewState(ctx, NewFileStore(path))
	if err != nil {
		t.Fatal(err)
	}
	if err := first.SetToken(ctx, "durable"); err != nil {
		t.Fatal(err)
	}

	second, err := NewState(ctx, NewFileStore(path))
	if err != nil {
		t.Fatal(err)
	}
	if second.Token() != "durable" || second.Status() != StatusTokenOnly {
		t.Fatalf("restart lost the token: %+v", second.Snapshot())
	}
}

func TestRedisStoreLoad(t *testing.T) {
	db, mock := redismock.NewClientMock()
	store := NewRedisStore(db, "session:")

	mock.ExpectGet("session:auth_token").SetVal("tok-1")
	token, err := store.Load(context.Background())
	if err != nil || token != "tok-1" {
		t.Fatalf("Load: got %q, %v", token, err)
	}

	mock.ExpectGet("session:auth_token").RedisNil()
	token, err = store.Load(context.Background())
	if err != nil || token != "" {
		t.Fatalf("missing key should load as empty token, got %q, %v", token, err)
	}

	mock.ExpectGet("session:auth_token").SetErr(errors.New("connection reset"))
	if _, err := store.Load(context.Background()); err == nil {
		t.Fatal("expected redis error")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestRedisStoreSaveAndClear(t *testing.T) {
	db, mock := redismock.NewClientMock()
	store := NewRedisStore(db, "hf:")

	mock.ExpectSet("hf:auth_token", "tok-2", 0).SetVal("OK")
	if err := store.Save(context.Background(), "tok-2"); err != nil {
		t.Fatalf("Save: %v", err)
	}

	mock.ExpectDel("hf:auth_token").SetVal(1)
	if err := store.Clear(context.Background()); err != nil {
		t.Fatalf("Clear: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestInspectToken(t *testing.T) {
	exp := time.Now().Add(30 * time.Minute).Truncate(time.Second)
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "dana@example.com",
		"exp": exp.Unix(),
	}).SignedString([]byte("any-secret"))
	if err != nil {
		t.Fatal(err)
	}

	info := InspectToken(signed)
	if !info.IsJWT || info.Subject != "dana@example.com" {
		t.Fatalf("unexpected info: %+v", info)
	}
	if !info.ExpiresAt.Equal(exp) {
		t.Errorf("ExpiresAt: got %v, want %v", info.ExpiresAt, exp)
	}
	if info.Expired(time.Now()) {
		t.Error("token should not be expired yet")
	}
	if !info.Expired(exp.Add(time.Second)) {
		t.Error("token should be expired after exp")
	}

	if opaque := InspectToken("not-a-jwt"); opaque.IsJWT {
		t.Error("opaque token must not parse as JWT")
	}
}
