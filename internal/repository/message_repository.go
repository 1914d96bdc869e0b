package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/realestate-listing/internal/model"
)

// MessageRepo persists buyer inquiries.
type MessageRepo struct{ db *sql.DB }

func NewMessageRepo(db *sql.DB) *MessageRepo { return &MessageRepo{db: db} }

// Create inserts m and populates m.ID.
func (r *MessageRepo) Create(ctx context.Context, m *model.Message) error {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO messages (message, home_id, realtor_id, buyer_id) VALUES (?, ?, ?, ?)",
		m.Message, m.HomeID, m.RealtorID, m.BuyerID)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	m.ID = uint64(id)
	return nil
}

// ListByHome returns the messages of a home with the buyer's contact details.
func (r *MessageRepo) ListByHome(ctx context.Context, homeID uint64) ([]model.MessageWithBuyer, error) {
	const q = `SELECT m.id, m.message, m.home_id, m.realtor_id, m.buyer_id, m.created_at,
		u.name, u.email, u.phone
		FROM messages m
		JOIN users u ON u.id = m.buyer_id
		WHERE m.home_id = ?
		ORDER BY m.id`
	rows, err := r.db.QueryContext(ctx, q, homeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.MessageWithBuyer{}
	for rows.Next() {
		var m model.MessageWithBuyer
		if err := rows.Scan(&m.ID, &m.Message.Message, &m.HomeID, &m.RealtorID, &m.BuyerID, &m.CreatedAt,
			&m.BuyerName, &m.BuyerEmail, &m.BuyerPhone); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
