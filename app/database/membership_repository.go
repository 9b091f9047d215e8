package database

import (
	"context"
	"fmt"
)

var _ MembershipRepository = (*membershipRepository)(nil)

// membershipRepository handles database operations for circles and their members
type membershipRepository struct {
	db *DB
}

// NewMembershipRepository creates a new membership repository
func NewMembershipRepository(db *DB) MembershipRepository {
	return &membershipRepository{db: db}
}

func (r *membershipRepository) GetCircleIDs(ctx context.Context, userID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT circle_id FROM circle_members WHERE user_id = ? ORDER BY circle_id
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get circles for user: %w", err)
	}
	defer rows.Close()

	var circleIDs []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan circle id: %w", err)
		}
		circleIDs = append(circleIDs, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating circle rows: %w", err)
	}

	return circleIDs, nil
}

func (r *membershipRepository) GetCircleNames(ctx context.Context, circleIDs []string) (map[string]string, error) {
	names := make(map[string]string)
	if len(circleIDs) == 0 {
		return names, nil
	}

	query := "SELECT id, name FROM circles WHERE id IN (" + placeholders(len(circleIDs)) + ")"
	args := make([]interface{}, len(circleIDs))
	for i, id := range circleIDs {
		args[i] = id
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get circle names: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id, name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, fmt.Errorf("failed to scan circle name: %w", err)
		}
		names[id] = name
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating circle name rows: %w", err)
	}

	return names, nil
}

func (r *membershipRepository) GetMutualCircleCounts(ctx context.Context, circleIDs []string, authorIDs []string) (map[string]int, error) {
	counts := make(map[string]int)
	if len(circleIDs) == 0 || len(authorIDs) == 0 {
		return counts, nil
	}

	query := `
		SELECT user_id, COUNT(*) FROM circle_members
		WHERE circle_id IN (` + placeholders(len(circleIDs)) + `)
		  AND user_id IN (` + placeholders(len(authorIDs)) + `)
		GROUP BY user_id`

	args := make([]interface{}, 0, len(circleIDs)+len(authorIDs))
	for _, id := range circleIDs {
		args = append(args, id)
	}
	for _, id := range authorIDs {
		args = append(args, id)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get mutual circle counts: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var userID string
		var count int
		if err := rows.Scan(&userID, &count); err != nil {
			return nil, fmt.Errorf("failed to scan mutual count: %w", err)
		}
		counts[userID] = count
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating mutual count rows: %w", err)
	}

	return counts, nil
}

func (r *membershipRepository) GetMemberSet(ctx context.Context, circleIDs []string) (map[string]struct{}, error) {
	members := make(map[string]struct{})
	if len(circleIDs) == 0 {
		return members, nil
	}

	query := "SELECT DISTINCT user_id FROM circle_members WHERE circle_id IN (" + placeholders(len(circleIDs)) + ")"
	args := make([]interface{}, len(circleIDs))
	for i, id := range circleIDs {
		args[i] = id
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get member set: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var userID string
		if err := rows.Scan(&userID); err != nil {
			return nil, fmt.Errorf("failed to scan member id: %w", err)
		}
		members[userID] = struct{}{}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating member rows: %w", err)
	}

	return members, nil
}

func (r *membershipRepository) GetUserProviders(ctx context.Context, userID string) (map[string]struct{}, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT provider FROM user_providers WHERE user_id = ?
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user providers: %w", err)
	}
	defer rows.Close()

	providers := make(map[string]struct{})
	for rows.Next() {
		var provider string
		if err := rows.Scan(&provider); err != nil {
			return nil, fmt.Errorf("failed to scan provider: %w", err)
		}
		providers[provider] = struct{}{}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating provider rows: %w", err)
	}

	return providers, nil
}

func (r *membershipRepository) GetUserCount(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM users").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to get user count: %w", err)
	}
	return count, nil
}

func (r *membershipRepository) GetCircleCount(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM circles").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to get circle count: %w", err)
	}
	return count, nil
}
