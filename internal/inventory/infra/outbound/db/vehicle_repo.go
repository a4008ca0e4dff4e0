package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/davicafu/autostock/internal/inventory/domain"
	infraDB "github.com/davicafu/autostock/internal/infra/db"
	sharedDomain "github.com/davicafu/autostock/shared/domain"
	sharedQuery "github.com/davicafu/autostock/shared/platform/query"
)

const selectVehicle = `SELECT id, plate, model, year, mileage, price, store, status,
	documentation_complete, photos_complete, created_at, updated_at FROM vehicles`

// VehicleRepoSQL implementa domain.VehicleRepository (SQLite y Postgres).
type VehicleRepoSQL struct {
	db *infraDB.DB
}

func NewVehicleRepoSQL(db *infraDB.DB) *VehicleRepoSQL {
	return &VehicleRepoSQL{db: db}
}

var _ domain.VehicleRepository = (*VehicleRepoSQL)(nil)

// ------------------ Escritura ------------------

// Create comprueba la unicidad (store, plate) dentro de la transacción para
// devolver el error de dominio sin depender del mensaje del driver.
func (r *VehicleRepoSQL) Create(ctx context.Context, v *domain.Vehicle) error {
	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		var n int
		err := r.db.QueryRowIn(ctx, tx,
			`SELECT COUNT(*) FROM vehicles WHERE store = ? AND plate = ?`,
			string(v.Store), v.Plate,
		).Scan(&n)
		if err != nil {
			return fmt.Errorf("db error: %w", err)
		}
		if n > 0 {
			return domain.ErrVehicleAlreadyExists
		}

		_, err = r.db.ExecIn(ctx, tx,
			`INSERT INTO vehicles (id, plate, model, year, mileage, price, store, status,
				documentation_complete, photos_complete, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			v.ID, v.Plate, v.Model, v.Year, v.Mileage, v.Price, string(v.Store), string(v.Status),
			v.DocumentationComplete, v.PhotosComplete, v.CreatedAt, v.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("db error: %w", err)
		}
		return nil
	})
}

func (r *VehicleRepoSQL) Update(ctx context.Context, v *domain.Vehicle) error {
	res, err := r.db.ExecIn(ctx, r.db,
		`UPDATE vehicles SET model = ?, year = ?, mileage = ?, price = ?, status = ?,
			documentation_complete = ?, photos_complete = ?, updated_at = ?
		 WHERE id = ?`,
		v.Model, v.Year, v.Mileage, v.Price, string(v.Status),
		v.DocumentationComplete, v.PhotosComplete, v.UpdatedAt, v.ID,
	)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	rows, _ := res.RowsAffected()
	if rows == 0 {
		return domain.ErrVehicleNotFound
	}
	return nil
}

// RecordSale marca el vehículo como vendido, inserta en vendidos y deja el
// evento vehicle.sold en outbox, todo en la misma transacción.
func (r *VehicleRepoSQL) RecordSale(ctx context.Context, v *domain.Vehicle, sale *domain.Sale) error {
	err := r.db.WithTx(ctx, func(tx *sql.Tx) error {
		current, err := r.getByID(ctx, tx, v.ID)
		if err != nil {
			return err
		}
		if current.Status == domain.StatusSold {
			return domain.ErrVehicleAlreadySold
		}

		_, err = r.db.ExecIn(ctx, tx,
			`UPDATE vehicles SET status = ?, updated_at = ? WHERE id = ?`,
			string(domain.StatusSold), sale.SoldAt, v.ID,
		)
		if err != nil {
			return fmt.Errorf("db error: %w", err)
		}

		_, err = r.db.ExecIn(ctx, tx,
			`INSERT INTO vendidos (id, vehicle_id, sale_price, seller_id, sold_at, store)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			sale.ID, sale.VehicleID, sale.SalePrice, sale.SellerID, sale.SoldAt, string(sale.Store),
		)
		if err != nil {
			return fmt.Errorf("db error: %w", err)
		}

		return r.db.InsertOutboxTx(ctx, tx, sale.SoldEvent())
	})
	if err != nil {
		return err
	}
	v.Status = domain.StatusSold
	v.UpdatedAt = sale.SoldAt
	return nil
}

// ------------------ Lectura ------------------

func (r *VehicleRepoSQL) GetByID(ctx context.Context, id string) (*domain.Vehicle, error) {
	return r.getByID(ctx, r.db, id)
}

func (r *VehicleRepoSQL) getByID(ctx context.Context, q infraDB.Querier, id string) (*domain.Vehicle, error) {
	v, err := scanVehicle(r.db.QueryRowIn(ctx, q, selectVehicle+` WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrVehicleNotFound
		}
		return nil, fmt.Errorf("db scan error: %w", err)
	}
	return v, nil
}

func (r *VehicleRepoSQL) ListByCriteria(ctx context.Context, criteria sharedDomain.Criteria, pagination sharedQuery.Pagination, sort sharedQuery.Sort) ([]domain.Vehicle, error) {
	whereSQL, args := r.db.ApplyCriteria(criteria)

	query := selectVehicle
	if whereSQL != "" {
		query += " WHERE " + whereSQL
	}
	orderSQL, pageArgs := infraDB.OrderAndPage(sort, pagination, "created_at",
		"created_at", "updated_at", "price", "year", "mileage", "plate")
	query += orderSQL
	args = append(args, pageArgs...)

	rows, err := r.db.QueryIn(ctx, r.db, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	vehicles := make([]domain.Vehicle, 0)
	for rows.Next() {
		v, err := scanVehicle(rows)
		if err != nil {
			return nil, fmt.Errorf("db scan error: %w", err)
		}
		vehicles = append(vehicles, *v)
	}
	return vehicles, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanVehicle(s rowScanner) (*domain.Vehicle, error) {
	var v domain.Vehicle
	var store, status string
	err := s.Scan(&v.ID, &v.Plate, &v.Model, &v.Year, &v.Mileage, &v.Price, &store, &status,
		&v.DocumentationComplete, &v.PhotosComplete, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		return nil, err
	}
	v.Store = sharedDomain.Store(store)
	v.Status = domain.VehicleStatus(status)
	v.CreatedAt = v.CreatedAt.UTC()
	v.UpdatedAt = v.UpdatedAt.UTC()
	return &v, nil
}
