package stock_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"stitchline/internal/core/id"
	"stitchline/internal/domain/stock"
	"stitchline/internal/infrastructure/storage/postgres"
)

const attachmentTable = "stock_attachments"

// AttachmentRepo implements stock.AttachmentRepository.
type AttachmentRepo struct {
	txManager *postgres.TxManager
}

// NewAttachmentRepo creates a new attachment repository.
func NewAttachmentRepo(txManager *postgres.TxManager) *AttachmentRepo {
	return &AttachmentRepo{txManager: txManager}
}

func (r *AttachmentRepo) builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// Add inserts attachment metadata rows.
func (r *AttachmentRepo) Add(ctx context.Context, attachments []*stock.Attachment) error {
	if len(attachments) == 0 {
		return nil
	}

	q := r.builder().
		Insert(attachmentTable).
		Columns("id", "entry_id", "name", "size", "content_type", "storage_path", "created_at")
	for _, a := range attachments {
		q = q.Values(a.ID, a.EntryID, a.Name, a.Size, a.ContentType, a.StoragePath, a.CreatedAt)
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert attachments: %w", err)
	}

	if _, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert attachments: %w", err)
	}
	return nil
}

// ListByEntry returns attachments of one entry, oldest first.
func (r *AttachmentRepo) ListByEntry(ctx context.Context, entryID id.ID) ([]*stock.Attachment, error) {
	q := r.builder().
		Select(postgres.ExtractDBColumns[stock.Attachment]()...).
		From(attachmentTable).
		Where(squirrel.Eq{"entry_id": entryID}).
		OrderBy("created_at")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var attachments []*stock.Attachment
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &attachments, sql, args...); err != nil {
		return nil, fmt.Errorf("list attachments: %w", err)
	}
	return attachments, nil
}
