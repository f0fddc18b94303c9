package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/carabineros/intranet/pkg/core/model"
	"github.com/carabineros/intranet/pkg/db"
)

const postColumns = `id, title, content, category, priority, is_private, is_active,
	attachment_url, attachment_name, created_by, created_at`

func scanPost(row pgx.Row) (db.Post, error) {
	var p db.Post
	var priority string
	var attachmentURL, attachmentName *string
	if err := row.Scan(&p.ID, &p.Title, &p.Content, &p.Category, &priority, &p.IsPrivate, &p.IsActive,
		&attachmentURL, &attachmentName, &p.CreatedBy, &p.CreatedAt); err != nil {
		return p, err
	}
	p.Priority = model.Priority(priority)
	p.AttachmentURL = fromNullable(attachmentURL)
	p.AttachmentName = fromNullable(attachmentName)
	return p, nil
}

// GetPosts retrieves every post, newest first
func (d *DB) GetPosts(ctx context.Context) ([]db.Post, error) {
	rows, err := d.pool.Query(ctx, `SELECT `+postColumns+` FROM post ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query posts: %w", err)
	}
	defer rows.Close()

	var posts []db.Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan post: %w", err)
		}
		posts = append(posts, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating posts: %w", err)
	}

	return posts, nil
}

// GetPost retrieves one post by id
func (d *DB) GetPost(ctx context.Context, id string) (*db.Post, error) {
	p, err := scanPost(d.pool.QueryRow(ctx, `SELECT `+postColumns+` FROM post WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("post %s: %w", id, db.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query post: %w", err)
	}
	return &p, nil
}

// InsertPost inserts a post and its recipients in one transaction
func (d *DB) InsertPost(ctx context.Context, post *db.Post, recipientIDs []string) error {
	return d.inTx(ctx, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO post (id, title, content, category, priority, is_private, is_active,
			                  attachment_url, attachment_name, created_by, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		`, post.ID, post.Title, post.Content, post.Category, string(post.Priority), post.IsPrivate, post.IsActive,
			nullable(post.AttachmentURL), nullable(post.AttachmentName), post.CreatedBy, post.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to insert post: %w", err)
		}

		for _, userID := range recipientIDs {
			_, err := tx.Exec(ctx, `
				INSERT INTO post_recipient (post_id, user_id) VALUES ($1, $2)
				ON CONFLICT DO NOTHING
			`, post.ID, userID)
			if err != nil {
				return fmt.Errorf("failed to insert post recipient: %w", err)
			}
		}
		return nil
	})
}

// DeletePost deletes a post with its recipients and read receipts
func (d *DB) DeletePost(ctx context.Context, id string) error {
	return d.inTx(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM post_recipient WHERE post_id = $1`, id); err != nil {
			return fmt.Errorf("failed to delete post recipients: %w", err)
		}
		if _, err := tx.Exec(ctx, `DELETE FROM post_read WHERE post_id = $1`, id); err != nil {
			return fmt.Errorf("failed to delete post reads: %w", err)
		}
		tag, err := tx.Exec(ctx, `DELETE FROM post WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("failed to delete post: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("post %s: %w", id, db.ErrNotFound)
		}
		return nil
	})
}

// GetPostRecipients returns the account ids a private post is addressed to
func (d *DB) GetPostRecipients(ctx context.Context, postID string) ([]string, error) {
	return d.queryIDs(ctx, `SELECT user_id FROM post_recipient WHERE post_id = $1 ORDER BY user_id`, postID)
}

// GetRecipientPostIDs returns the ids of private posts addressed to userID
func (d *DB) GetRecipientPostIDs(ctx context.Context, userID string) ([]string, error) {
	return d.queryIDs(ctx, `SELECT post_id FROM post_recipient WHERE user_id = $1`, userID)
}

func (d *DB) queryIDs(ctx context.Context, query string, arg string) ([]string, error) {
	rows, err := d.pool.Query(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("failed to query post recipients: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan post recipient: %w", err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating post recipients: %w", err)
	}

	return ids, nil
}

// GetPostReads returns the read receipts of a post, oldest first
func (d *DB) GetPostReads(ctx context.Context, postID string) ([]db.PostRead, error) {
	return d.queryReads(ctx, `SELECT post_id, user_id, read_at FROM post_read WHERE post_id = $1 ORDER BY read_at`, postID)
}

// GetUserReads returns every read receipt of a user
func (d *DB) GetUserReads(ctx context.Context, userID string) ([]db.PostRead, error) {
	return d.queryReads(ctx, `SELECT post_id, user_id, read_at FROM post_read WHERE user_id = $1`, userID)
}

func (d *DB) queryReads(ctx context.Context, query string, arg string) ([]db.PostRead, error) {
	rows, err := d.pool.Query(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("failed to query post reads: %w", err)
	}
	defer rows.Close()

	var reads []db.PostRead
	for rows.Next() {
		var r db.PostRead
		if err := rows.Scan(&r.PostID, &r.UserID, &r.ReadAt); err != nil {
			return nil, fmt.Errorf("failed to scan post read: %w", err)
		}
		reads = append(reads, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating post reads: %w", err)
	}

	return reads, nil
}

// InsertPostRead records a read receipt. It reports false when the user had
// already read the post.
func (d *DB) InsertPostRead(ctx context.Context, read *db.PostRead) (bool, error) {
	tag, err := d.pool.Exec(ctx, `
		INSERT INTO post_read (post_id, user_id, read_at) VALUES ($1, $2, $3)
		ON CONFLICT (post_id, user_id) DO NOTHING
	`, read.PostID, read.UserID, read.ReadAt)
	if err != nil {
		return false, fmt.Errorf("failed to insert post read: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}
