package calendar

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type sourcePG struct{ pool *pgxpool.Pool }

// NewSourcePG reads appointments from the appointment table. The table is
// owned elsewhere; this source only selects from it.
func NewSourcePG(pool *pgxpool.Pool) AppointmentSource { return &sourcePG{pool: pool} }

const apptCols = `id, to_char(appt_date, 'YYYY-MM-DD'), appt_type, appt_time, doctor, location`

func (r *sourcePG) scanAppointment(row pgx.Row) (string, Appointment, error) {
	var key string
	var a Appointment
	err := row.Scan(&a.ID, &key, &a.Type, &a.Time, &a.Doctor, &a.Location)
	return key, a, err
}

func (r *sourcePG) ListRange(ctx context.Context, from, to string) (Index, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+apptCols+` FROM appointment
		WHERE appt_date BETWEEN $1::date AND $2::date
		ORDER BY appt_date, sort_order, id`, from, to)
	if err != nil {
		return nil, fmt.Errorf("query appointments %s..%s: %w", from, to, err)
	}
	defer rows.Close()

	index := make(Index)
	for rows.Next() {
		key, a, err := r.scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan appointment: %w", err)
		}
		index[key] = append(index[key], a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return index, nil
}
