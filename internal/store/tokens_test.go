package store

import (
	"context"
	"errors"
	"testing"
)

const testHash = "5f1a7c3d9e0b2a4c6d8e0f1a2b3c4d5e6f7a8b9c0d1e2f3a4b5c6d7e8f9a0b1c"

func TestResolveToken(t *testing.T) {
	db := newTestStore(t)
	ctx := context.Background()

	if err := db.CreateToken(ctx, testHash, "owner-1", "laptop"); err != nil {
		t.Fatal(err)
	}

	ownerID, err := db.ResolveToken(ctx, testHash)
	if err != nil {
		t.Fatal(err)
	}
	if ownerID != "owner-1" {
		t.Errorf("ownerID = %q, want owner-1", ownerID)
	}
}

func TestResolveToken_Unknown(t *testing.T) {
	db := newTestStore(t)

	_, err := db.ResolveToken(context.Background(), "deadbeef")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestResolveToken_Revoked(t *testing.T) {
	db := newTestStore(t)
	ctx := context.Background()

	if err := db.CreateToken(ctx, testHash, "owner-1", "laptop"); err != nil {
		t.Fatal(err)
	}
	if err := db.RevokeToken(ctx, testHash); err != nil {
		t.Fatal(err)
	}

	_, err := db.ResolveToken(ctx, testHash)
	if !errors.Is(err, ErrTokenRevoked) {
		t.Errorf("err = %v, want ErrTokenRevoked", err)
	}
}

func TestRevokeToken_TwiceReturnsNotFound(t *testing.T) {
	db := newTestStore(t)
	ctx := context.Background()

	if err := db.CreateToken(ctx, testHash, "owner-1", "laptop"); err != nil {
		t.Fatal(err)
	}
	if err := db.RevokeToken(ctx, testHash); err != nil {
		t.Fatal(err)
	}

	if err := db.RevokeToken(ctx, testHash); !errors.Is(err, ErrNotFound) {
		t.Errorf("second revoke err = %v, want ErrNotFound", err)
	}
}

func TestListTokens_IncludesRevoked(t *testing.T) {
	db := newTestStore(t)
	ctx := context.Background()

	if err := db.CreateToken(ctx, testHash, "owner-1", "laptop"); err != nil {
		t.Fatal(err)
	}
	if err := db.CreateToken(ctx, "a"+testHash[1:], "owner-1", "phone"); err != nil {
		t.Fatal(err)
	}
	if err := db.RevokeToken(ctx, testHash); err != nil {
		t.Fatal(err)
	}

	tokens, err := db.ListTokens(ctx, "owner-1")
	if err != nil {
		t.Fatal(err)
	}
	if len(tokens) != 2 {
		t.Fatalf("len = %d, want 2", len(tokens))
	}

	revoked := 0
	for _, tok := range tokens {
		if tok.RevokedAt != nil {
			revoked++
		}
	}
	if revoked != 1 {
		t.Errorf("revoked count = %d, want 1", revoked)
	}
}
