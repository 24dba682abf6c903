package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"denti-directory/internal/domain/clinics"

	"github.com/doug-martin/goqu/v9"
	"github.com/jmoiron/sqlx"
)

const clinicsTable = "clinics"

var clinicColumns = []any{
	"id", "name", "address", "phone", "email", "website",
	"services_offered", "operating_hours", "description",
	"lat", "lng", "created_by_user_id", "created_at", "updated_at",
}

type clinicRow struct {
	ID              string    `db:"id"`
	Name            string    `db:"name"`
	Address         string    `db:"address"`
	Phone           string    `db:"phone"`
	Email           string    `db:"email"`
	Website         string    `db:"website"`
	ServicesOffered []byte    `db:"services_offered"`
	OperatingHours  string    `db:"operating_hours"`
	Description     string    `db:"description"`
	Lat             float64   `db:"lat"`
	Lng             float64   `db:"lng"`
	CreatedByUserID string    `db:"created_by_user_id"`
	CreatedAt       time.Time `db:"created_at"`
	UpdatedAt       time.Time `db:"updated_at"`
}

func (r clinicRow) toDomain() (clinics.Clinic, error) {
	services := []string{}
	if len(r.ServicesOffered) > 0 {
		if err := json.Unmarshal(r.ServicesOffered, &services); err != nil {
			return clinics.Clinic{}, fmt.Errorf("decode services_offered: %w", err)
		}
	}
	return clinics.Clinic{
		ID:              r.ID,
		Name:            r.Name,
		Address:         r.Address,
		Phone:           r.Phone,
		Email:           r.Email,
		Website:         r.Website,
		ServicesOffered: services,
		OperatingHours:  r.OperatingHours,
		Description:     r.Description,
		Location:        clinics.Location{Lat: r.Lat, Lng: r.Lng},
		CreatedByUserID: r.CreatedByUserID,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}, nil
}

type ClinicsRepo struct {
	db *sqlx.DB
}

func NewClinicsRepo(db *sqlx.DB) *ClinicsRepo {
	return &ClinicsRepo{db: db}
}

var _ clinics.Repository = (*ClinicsRepo)(nil)

func (r *ClinicsRepo) Create(ctx context.Context, c clinics.Clinic) error {
	services, err := encodeServices(c.ServicesOffered)
	if err != nil {
		return err
	}

	query, args, err := dialect.Insert(clinicsTable).Prepared(true).Rows(goqu.Record{
		"id":                 c.ID,
		"name":               c.Name,
		"address":            c.Address,
		"phone":              c.Phone,
		"email":              c.Email,
		"website":            c.Website,
		"services_offered":   services,
		"operating_hours":    c.OperatingHours,
		"description":        c.Description,
		"lat":                c.Location.Lat,
		"lng":                c.Location.Lng,
		"created_by_user_id": c.CreatedByUserID,
		"created_at":         c.CreatedAt,
		"updated_at":         c.UpdatedAt,
	}).ToSQL()
	if err != nil {
		return fmt.Errorf("build insert clinic: %w", err)
	}

	_, err = r.db.ExecContext(ctx, query, args...)
	return err
}

// Update solo escribe los campos presentes en p. El dueño no es parte del Patch.
func (r *ClinicsRepo) Update(ctx context.Context, id string, p clinics.Patch, updatedAt time.Time) error {
	query, args, err := clinicUpdateSQL(id, p, updatedAt)
	if err != nil {
		return err
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return clinics.ErrNotFound
	}
	return nil
}

func (r *ClinicsRepo) GetByID(ctx context.Context, id string) (clinics.Clinic, error) {
	query, args, err := dialect.From(clinicsTable).Prepared(true).
		Select(clinicColumns...).
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return clinics.Clinic{}, fmt.Errorf("build get clinic: %w", err)
	}

	var row clinicRow
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return clinics.Clinic{}, clinics.ErrNotFound
		}
		return clinics.Clinic{}, err
	}
	return row.toDomain()
}

func (r *ClinicsRepo) List(ctx context.Context) ([]clinics.Clinic, error) {
	return r.list(ctx, nil)
}

func (r *ClinicsRepo) ListByOwner(ctx context.Context, ownerUserID string) ([]clinics.Clinic, error) {
	return r.list(ctx, goqu.Ex{"created_by_user_id": ownerUserID})
}

func (r *ClinicsRepo) list(ctx context.Context, where goqu.Ex) ([]clinics.Clinic, error) {
	ds := dialect.From(clinicsTable).Prepared(true).Select(clinicColumns...)
	if where != nil {
		ds = ds.Where(where)
	}
	query, args, err := ds.Order(goqu.I("created_at").Asc()).ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list clinics: %w", err)
	}

	var rows []clinicRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, err
	}

	out := make([]clinics.Clinic, 0, len(rows))
	for _, row := range rows {
		c, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

// Delete no revisa filas afectadas: borrar algo inexistente no es error.
func (r *ClinicsRepo) Delete(ctx context.Context, id string) error {
	query, args, err := dialect.Delete(clinicsTable).Prepared(true).
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build delete clinic: %w", err)
	}
	_, err = r.db.ExecContext(ctx, query, args...)
	return err
}

func clinicUpdateSQL(id string, p clinics.Patch, updatedAt time.Time) (string, []any, error) {
	rec := goqu.Record{"updated_at": updatedAt}
	setIf(rec, "name", p.Name)
	setIf(rec, "address", p.Address)
	setIf(rec, "phone", p.Phone)
	setIf(rec, "email", p.Email)
	setIf(rec, "website", p.Website)
	setIf(rec, "operating_hours", p.OperatingHours)
	setIf(rec, "description", p.Description)
	if p.ServicesOffered != nil {
		services, err := encodeServices(*p.ServicesOffered)
		if err != nil {
			return "", nil, err
		}
		rec["services_offered"] = services
	}
	if p.Location != nil {
		rec["lat"] = p.Location.Lat
		rec["lng"] = p.Location.Lng
	}

	query, args, err := dialect.Update(clinicsTable).Prepared(true).
		Set(rec).
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return "", nil, fmt.Errorf("build update clinic: %w", err)
	}
	return query, args, nil
}

func encodeServices(services []string) (string, error) {
	if services == nil {
		services = []string{}
	}
	b, err := json.Marshal(services)
	if err != nil {
		return "", fmt.Errorf("encode services_offered: %w", err)
	}
	return string(b), nil
}

func setIf(rec goqu.Record, col string, v *string) {
	if v != nil {
		rec[col] = *v
	}
}
