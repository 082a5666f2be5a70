package session

import (
	"errors"
	"testing"
	"time"

	"github.com/bobsantos/likha-app-sub000/internal/model"
)

func TestStore_CreateAndGet(t *testing.T) {
	t.Parallel()

	s := NewStore(time.Minute)
	t.Cleanup(s.Close)

	sess := s.Create(&Session{ContractID: "c1", FileName: "q1.xlsx"})
	if sess.ID == "" {
		t.Fatalf("no id assigned")
	}

	got, err := s.Get(sess.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.ContractID != "c1" || got.FileName != "q1.xlsx" {
		t.Fatalf("unexpected session: %+v", got)
	}
}

func TestStore_UnknownIDExpired(t *testing.T) {
	t.Parallel()

	s := NewStore(time.Minute)
	t.Cleanup(s.Close)

	if _, err := s.Get("nope"); !errors.Is(err, model.ErrSessionExpired) {
		t.Fatalf("err = %v, want ErrSessionExpired", err)
	}
}

func TestStore_TTLExpiry(t *testing.T) {
	t.Parallel()

	s := NewStore(30 * time.Millisecond)
	t.Cleanup(s.Close)

	sess := s.Create(&Session{ContractID: "c1"})
	time.Sleep(60 * time.Millisecond)

	if _, err := s.Get(sess.ID); !errors.Is(err, model.ErrSessionExpired) {
		t.Fatalf("err = %v, want ErrSessionExpired", err)
	}
}

func TestStore_JanitorEvicts(t *testing.T) {
	t.Parallel()

	s := NewStore(50 * time.Millisecond)
	t.Cleanup(s.Close)

	s.Create(&Session{ContractID: "c1"})
	s.Create(&Session{ContractID: "c2"})
	if s.Count() != 2 {
		t.Fatalf("count = %d", s.Count())
	}

	deadline := time.Now().Add(3 * time.Second)
	for s.Count() > 0 {
		if time.Now().After(deadline) {
			t.Fatalf("janitor never evicted, count = %d", s.Count())
		}
		time.Sleep(20 * time.Millisecond)
	}
}

func TestStore_Delete(t *testing.T) {
	t.Parallel()

	s := NewStore(time.Minute)
	t.Cleanup(s.Close)

	sess := s.Create(&Session{ContractID: "c1"})
	s.Delete(sess.ID)
	if _, err := s.Get(sess.ID); err == nil {
		t.Fatalf("deleted session still readable")
	}
	// Unknown id is a no-op.
	s.Delete("nope")
}
