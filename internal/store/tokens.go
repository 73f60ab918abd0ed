package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/focalhq/focal/internal/types"
)

// CreateToken stores a new API token hash for an owner.
func (s *SQLiteStore) CreateToken(ctx context.Context, tokenHash, ownerID, label string) error {
	now := time.Now().UTC()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO api_tokens (token_hash, owner_id, label, created_at)
		VALUES (?, ?, ?, ?)
	`, tokenHash, ownerID, label, formatTime(now))
	if err != nil {
		return fmt.Errorf("insert token: %w", err)
	}
	return nil
}

// ResolveToken maps a token hash to its owner id.
// Returns ErrNotFound for unknown hashes and ErrTokenRevoked for revoked ones.
func (s *SQLiteStore) ResolveToken(ctx context.Context, tokenHash string) (string, error) {
	var ownerID string
	var revokedAt sql.NullString

	err := s.db.QueryRowContext(ctx, `
		SELECT owner_id, revoked_at FROM api_tokens WHERE token_hash = ?
	`, tokenHash).Scan(&ownerID, &revokedAt)
	if err == sql.ErrNoRows {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("resolve token: %w", err)
	}

	if revokedAt.Valid {
		return "", ErrTokenRevoked
	}

	return ownerID, nil
}

// ListTokens returns all tokens issued to an owner, including revoked ones.
func (s *SQLiteStore) ListTokens(ctx context.Context, ownerID string) ([]types.APIToken, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT token_hash, owner_id, label, created_at, revoked_at
		FROM api_tokens
		WHERE owner_id = ?
		ORDER BY created_at DESC
	`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("query tokens: %w", err)
	}
	defer rows.Close()

	var tokens []types.APIToken
	for rows.Next() {
		var t types.APIToken
		var createdAt string
		var revokedAt sql.NullString
		if err := rows.Scan(&t.TokenHash, &t.OwnerID, &t.Label, &createdAt, &revokedAt); err != nil {
			return nil, fmt.Errorf("scan token: %w", err)
		}
		var tp timeParser
		t.CreatedAt = tp.parse(createdAt)
		t.RevokedAt = tp.parsePtr(revokedAt)
		if tp.err != nil {
			return nil, tp.err
		}
		tokens = append(tokens, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tokens: %w", err)
	}

	return tokens, nil
}

// RevokeToken marks a token as revoked. Revoking twice is a no-op.
func (s *SQLiteStore) RevokeToken(ctx context.Context, tokenHash string) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE api_tokens SET revoked_at = ? WHERE token_hash = ? AND revoked_at IS NULL
	`, formatTime(time.Now().UTC()), tokenHash)
	if err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}

	return nil
}
