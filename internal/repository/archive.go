package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/playgrid/tictactoe-backend/internal/entity"
)

type ArchiveRepository interface {
	Save(ctx context.Context, record *entity.GameRecord) error
	ListRecent(ctx context.Context, limit int) ([]*entity.GameRecord, error)
}

type dbArchive struct {
	conn *sql.DB
}

func NewArchiveRepository(conn *sql.DB) ArchiveRepository {
	return &dbArchive{
		conn: conn,
	}
}

func (that *dbArchive) Save(ctx context.Context, record *entity.GameRecord) error {
	query := `INSERT INTO game_archive (game_id, type, winner, score, finished_at) VALUES (?, ?, ?, ?, ?)`

	_, err := that.conn.ExecContext(ctx, query, record.GameID, record.Type, record.Winner, record.Score, record.FinishedAt)
	if err != nil {
		return fmt.Errorf("failed to insert game record: %w", err)
	}

	return nil
}

func (that *dbArchive) ListRecent(ctx context.Context, limit int) ([]*entity.GameRecord, error) {
	query := `SELECT game_id, type, winner, score, finished_at FROM game_archive ORDER BY finished_at DESC LIMIT ?`

	rows, err := that.conn.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query game records: %w", err)
	}
	defer rows.Close()

	records := make([]*entity.GameRecord, 0, limit)
	for rows.Next() {
		var record entity.GameRecord
		if err = rows.Scan(&record.GameID, &record.Type, &record.Winner, &record.Score, &record.FinishedAt); err != nil {
			return nil, fmt.Errorf("failed to scan game record: %w", err)
		}
		records = append(records, &record)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read game records: %w", err)
	}

	return records, nil
}
