package patient

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type patientRepoPG struct {
	pool *pgxpool.Pool
}

// NewPatientRepoPG stores the collection in the patient_record table created by
// migrations/001_patient_record.sql.
func NewPatientRepoPG(pool *pgxpool.Pool) Repository {
	return &patientRepoPG{pool: pool}
}

const patientCols = `id, name, city, age, gender, height, weight, bmi, verdict`

var copyCols = []string{"position", "id", "name", "city", "age", "gender", "height", "weight", "bmi", "verdict"}

func (r *patientRepoPG) Load(ctx context.Context) ([]Patient, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+patientCols+` FROM patient_record ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("query patient_record: %w", err)
	}
	defer rows.Close()

	patients := []Patient{}
	for rows.Next() {
		p, err := scanPatientRows(rows)
		if err != nil {
			return nil, err
		}
		patients = append(patients, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate patient_record: %w", err)
	}
	return patients, nil
}

// Save rewrites the table inside one transaction, so readers never see a
// partially written collection.
func (r *patientRepoPG) Save(ctx context.Context, patients []Patient) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // no-op after commit

	if _, err := tx.Exec(ctx, `DELETE FROM patient_record`); err != nil {
		return fmt.Errorf("clear patient_record: %w", err)
	}

	rows := make([][]interface{}, len(patients))
	for i, p := range patients {
		rows[i] = []interface{}{
			i, p.ID, p.Name, p.City, p.Age, string(p.Gender), p.Height, p.Weight, p.BMI, string(p.Verdict),
		}
	}
	if _, err := tx.CopyFrom(ctx, pgx.Identifier{"patient_record"}, copyCols, pgx.CopyFromRows(rows)); err != nil {
		return fmt.Errorf("copy patient_record: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func scanPatientRows(rows pgx.Rows) (Patient, error) {
	var (
		p       Patient
		gender  string
		verdict string
	)
	err := rows.Scan(&p.ID, &p.Name, &p.City, &p.Age, &gender, &p.Height, &p.Weight, &p.BMI, &verdict)
	if err != nil {
		return Patient{}, fmt.Errorf("scan patient_record: %w", err)
	}
	p.Gender = Gender(gender)
	p.Verdict = Verdict(verdict)
	return p, nil
}
