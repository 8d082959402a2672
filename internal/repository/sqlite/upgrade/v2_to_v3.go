package upgrade

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"
)

// v2ToV3 rebuilds the user table, replacing the legacy plaintext password
// column with a bcrypt hash of its value. Hashing happens here rather than
// in application code so that no plaintext credential survives the upgrade.
func v2ToV3(ctx context.Context, cfg *Config, tx *sql.Tx) error {
	if _, err := tx.ExecContext(ctx, `
		ALTER TABLE user RENAME TO old_user;

		CREATE TABLE user (
		  id INTEGER PRIMARY KEY,
		  username TEXT UNIQUE NOT NULL,
		  password_hash TEXT NOT NULL,
		  created_at INTEGER NOT NULL
		);
	`); err != nil {
		return fmt.Errorf("rebuild user table: %w", err)
	}

	type oldUser struct {
		id        int64
		username  string
		password  string
		createdAt int64
	}

	rows, err := tx.QueryContext(ctx,
		"SELECT id, username, password, created_at FROM old_user")
	if err != nil {
		return fmt.Errorf("read users: %w", err)
	}
	var users []oldUser
	for rows.Next() {
		var u oldUser
		if err := rows.Scan(&u.id, &u.username, &u.password, &u.createdAt); err != nil {
			rows.Close()
			return fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("read users: %w", err)
	}

	for _, u := range users {
		hash, err := bcrypt.GenerateFromPassword([]byte(u.password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("hash password for user %q: %w", u.username, err)
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO user (id, username, password_hash, created_at)
			VALUES (?, ?, ?, ?)`,
			u.id, u.username, string(hash), u.createdAt,
		); err != nil {
			return fmt.Errorf("copy user %q: %w", u.username, err)
		}
		slog.Info("hashed legacy password", "user", u.username)
	}

	if _, err := tx.ExecContext(ctx, "DROP TABLE old_user"); err != nil {
		return fmt.Errorf("finish user rebuild: %w", err)
	}
	return nil
}
