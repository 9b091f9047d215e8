package database

import (
	"context"
	"fmt"
	"strings"
)

var _ PostRepository = (*postRepository)(nil)

// postRepository handles database operations for posts
type postRepository struct {
	db *DB
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) GetCandidates(ctx context.Context, circleIDs []string, before *CursorBoundary, limit int) ([]Post, error) {
	if len(circleIDs) == 0 {
		return nil, nil
	}

	var sb strings.Builder
	args := make([]interface{}, 0, len(circleIDs)+3)

	sb.WriteString(`
		SELECT p.id, p.circle_id, p.user_id, COALESCE(u.name, ''),
		       p.media_kind, p.subject_id, p.rating, COALESCE(p.comment, ''),
		       p.created_at
		FROM posts p
		LEFT JOIN users u ON u.id = p.user_id
		WHERE p.circle_id IN (`)
	sb.WriteString(placeholders(len(circleIDs)))
	sb.WriteString(")")
	for _, id := range circleIDs {
		args = append(args, id)
	}

	if before != nil {
		sb.WriteString(" AND (p.created_at < ? OR (p.created_at = ? AND p.id < ?))")
		args = append(args, before.CreatedAt, before.CreatedAt, before.ID)
	}

	sb.WriteString(" ORDER BY p.created_at DESC, p.id DESC LIMIT ?")
	args = append(args, limit)

	rows, err := r.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get candidate posts: %w", err)
	}
	defer rows.Close()

	var posts []Post
	for rows.Next() {
		var post Post
		err := rows.Scan(
			&post.ID, &post.CircleID, &post.UserID, &post.AuthorName,
			&post.MediaKind, &post.SubjectID, &post.Rating, &post.Comment,
			&post.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan post row: %w", err)
		}
		posts = append(posts, post)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating post rows: %w", err)
	}

	return posts, nil
}

func (r *postRepository) GetPostCount(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM posts").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to get post count: %w", err)
	}
	return count, nil
}

// placeholders returns a comma-separated list of n query placeholders.
func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat("?, ", n-1) + "?"
}
