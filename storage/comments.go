package storage

import (
	"context"
	"fmt"

	"fullpicture/types"

	"github.com/google/uuid"
)

// Comments lists a perspective's comments, newest first
func (s *Store) Comments(ctx context.Context, perspectiveID string) ([]types.Comment, error) {
	var recs []CommentRecord
	err := s.db.WithContext(ctx).
		Where("perspective_id = ?", perspectiveID).
		Order("created_at DESC").Order("id").
		Find(&recs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load comments: %w", err)
	}

	out := make([]types.Comment, 0, len(recs))
	for _, r := range recs {
		out = append(out, r.toComment())
	}
	return out, nil
}

// AddComment stores a new comment. ErrNotFound is returned for an unknown perspective.
func (s *Store) AddComment(ctx context.Context, perspectiveID, content string) (types.Comment, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&PerspectiveRecord{}).Where("id = ?", perspectiveID).Count(&n).Error; err != nil {
		return types.Comment{}, fmt.Errorf("failed to look up perspective: %w", err)
	}
	if n == 0 {
		return types.Comment{}, ErrNotFound
	}

	rec := CommentRecord{
		ID:            uuid.NewString(),
		PerspectiveID: perspectiveID,
		Content:       content,
		CreatedAt:     s.now().UTC(),
	}
	if err := s.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return types.Comment{}, fmt.Errorf("failed to store comment: %w", err)
	}
	return rec.toComment(), nil
}

// CommentCount returns the number of comments on a perspective
func (s *Store) CommentCount(ctx context.Context, perspectiveID string) (int, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&CommentRecord{}).Where("perspective_id = ?", perspectiveID).Count(&n).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count comments: %w", err)
	}
	return int(n), nil
}
