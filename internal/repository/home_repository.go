// Package repository contains data access logic separated from HTTP handlers.
// This file defines the home (listing) queries.  Every home belongs to a
// single realtor; FindOwner is the lookup behind the ownership check.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/iliyamo/realestate-listing/internal/model"
)

// HomeFilter narrows the public listing.  Zero values mean "no filter".
type HomeFilter struct {
	City         string
	MinPrice     *float64
	MaxPrice     *float64
	PropertyType model.PropertyType
}

// HomeListItem is a home plus the URL of its first image (empty if none).
type HomeListItem struct {
	model.Home
	Image string
}

// HomeUpdate carries the fields of a partial update.  Nil pointers are left untouched.
type HomeUpdate struct {
	Address           *string
	NumberOfBedrooms  *int
	NumberOfBathrooms *float64
	City              *string
	Price             *float64
	LandSize          *float64
	PropertyType      *model.PropertyType
}

// Empty reports whether the update changes nothing.
func (u HomeUpdate) Empty() bool {
	return u.Address == nil && u.NumberOfBedrooms == nil && u.NumberOfBathrooms == nil &&
		u.City == nil && u.Price == nil && u.LandSize == nil && u.PropertyType == nil
}

// HomeRepo encapsulates all database queries related to homes and their images.
type HomeRepo struct {
	db *sql.DB
}

func NewHomeRepo(db *sql.DB) *HomeRepo {
	return &HomeRepo{db: db}
}

const homeColumns = `h.id, h.address, h.number_of_bedrooms, h.number_of_bathrooms, h.city,
	h.listed_date, h.price, h.land_size, h.property_type, h.realtor_id, h.created_at, h.updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanHome(s rowScanner, extra ...any) (model.Home, error) {
	var (
		h  model.Home
		pt string
	)
	dest := []any{&h.ID, &h.Address, &h.NumberOfBedrooms, &h.NumberOfBathrooms, &h.City,
		&h.ListedDate, &h.Price, &h.LandSize, &pt, &h.RealtorID, &h.CreatedAt, &h.UpdatedAt}
	if err := s.Scan(append(dest, extra...)...); err != nil {
		return model.Home{}, err
	}
	h.PropertyType = model.PropertyType(pt)
	return h, nil
}

// List returns homes matching f ordered by id, each with its first image.
func (r *HomeRepo) List(ctx context.Context, f HomeFilter) ([]HomeListItem, error) {
	where := []string{}
	args := []any{}
	if f.City != "" {
		where = append(where, "h.city = ?")
		args = append(args, f.City)
	}
	if f.MinPrice != nil {
		where = append(where, "h.price >= ?")
		args = append(args, *f.MinPrice)
	}
	if f.MaxPrice != nil {
		where = append(where, "h.price <= ?")
		args = append(args, *f.MaxPrice)
	}
	if f.PropertyType != "" {
		where = append(where, "h.property_type = ?")
		args = append(args, string(f.PropertyType))
	}
	cond := "1=1"
	if len(where) > 0 {
		cond = strings.Join(where, " AND ")
	}

	q := `SELECT ` + homeColumns + `,
		COALESCE((SELECT i.url FROM images i WHERE i.home_id = h.id ORDER BY i.id LIMIT 1), '') AS image
		FROM homes h
		WHERE ` + cond + `
		ORDER BY h.id`
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []HomeListItem
	for rows.Next() {
		var img string
		h, err := scanHome(rows, &img)
		if err != nil {
			return nil, err
		}
		out = append(out, HomeListItem{Home: h, Image: img})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// GetByID fetches a home.  It returns ErrHomeNotFound if no row is found.
func (r *HomeRepo) GetByID(ctx context.Context, id uint64) (model.Home, error) {
	h, err := scanHome(r.db.QueryRowContext(ctx, "SELECT "+homeColumns+" FROM homes h WHERE h.id = ?", id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Home{}, ErrHomeNotFound
		}
		return model.Home{}, err
	}
	return h, nil
}

// Images lists the images of a home ordered by id.
func (r *HomeRepo) Images(ctx context.Context, homeID uint64) ([]model.Image, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT id, url, home_id FROM images WHERE home_id = ? ORDER BY id", homeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Image
	for rows.Next() {
		var img model.Image
		if err := rows.Scan(&img.ID, &img.URL, &img.HomeID); err != nil {
			return nil, err
		}
		out = append(out, img)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// FindOwner returns the realtor id of a home.  The value is read fresh on
// every call.
func (r *HomeRepo) FindOwner(ctx context.Context, homeID uint64) (uint64, error) {
	var owner uint64
	if err := r.db.QueryRowContext(ctx, "SELECT realtor_id FROM homes WHERE id = ?", homeID).Scan(&owner); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrHomeNotFound
		}
		return 0, err
	}
	return owner, nil
}

// Create inserts h and its image urls in one transaction.  h.ID is populated
// on success.
func (r *HomeRepo) Create(ctx context.Context, h *model.Home, imageURLs []string) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO homes (address, number_of_bedrooms, number_of_bathrooms, city, price, land_size, property_type, realtor_id)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		h.Address, h.NumberOfBedrooms, h.NumberOfBathrooms, h.City, h.Price, h.LandSize, string(h.PropertyType), h.RealtorID)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	h.ID = uint64(id)

	for _, url := range imageURLs {
		if _, err = tx.ExecContext(ctx, "INSERT INTO images (url, home_id) VALUES (?, ?)", url, h.ID); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// Update applies the non-nil fields of u.  Callers establish existence
// first (ownership check); MySQL reports changed rather than matched rows,
// so a no-op update affects zero rows and is not an error.
func (r *HomeRepo) Update(ctx context.Context, id uint64, u HomeUpdate) error {
	if u.Empty() {
		if _, err := r.FindOwner(ctx, id); err != nil {
			return err
		}
		return nil
	}
	set := []string{}
	args := []any{}
	if u.Address != nil {
		set = append(set, "address = ?")
		args = append(args, *u.Address)
	}
	if u.NumberOfBedrooms != nil {
		set = append(set, "number_of_bedrooms = ?")
		args = append(args, *u.NumberOfBedrooms)
	}
	if u.NumberOfBathrooms != nil {
		set = append(set, "number_of_bathrooms = ?")
		args = append(args, *u.NumberOfBathrooms)
	}
	if u.City != nil {
		set = append(set, "city = ?")
		args = append(args, *u.City)
	}
	if u.Price != nil {
		set = append(set, "price = ?")
		args = append(args, *u.Price)
	}
	if u.LandSize != nil {
		set = append(set, "land_size = ?")
		args = append(args, *u.LandSize)
	}
	if u.PropertyType != nil {
		set = append(set, "property_type = ?")
		args = append(args, string(*u.PropertyType))
	}
	set = append(set, "updated_at = CURRENT_TIMESTAMP")
	args = append(args, id)

	_, err := r.db.ExecContext(ctx, "UPDATE homes SET "+strings.Join(set, ", ")+" WHERE id = ?", args...)
	return err
}

// Delete removes a home together with its images and messages.
func (r *HomeRepo) Delete(ctx context.Context, id uint64) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()
	if _, err = tx.ExecContext(ctx, "DELETE FROM images WHERE home_id = ?", id); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, "DELETE FROM messages WHERE home_id = ?", id); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, "DELETE FROM homes WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		err = ErrHomeNotFound
		return err
	}
	return tx.Commit()
}
