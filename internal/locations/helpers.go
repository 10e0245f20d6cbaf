package locations

import (
	"database/sql"
	"errors"
	"time"
)

const locationColumns = "id, latitude, longitude, altitude, accuracy, speed, bearing, recorded_at, provider, sync_status, is_rejected, idempotency_key, user_invoked, activity_type_id, notes, server_confirmed, created_at"

func scanLocation(scanner interface{ Scan(dest ...any) error }) (*Location, error) {
	var (
		id             int64
		latitude       float64
		longitude      float64
		altitude       sql.NullFloat64
		accuracy       sql.NullFloat64
		speed          sql.NullFloat64
		bearing        sql.NullFloat64
		recordedRaw    string
		provider       sql.NullString
		statusStr      string
		rejected       sql.NullInt64
		idempotencyKey string
		userInvoked    sql.NullInt64
		activityTypeID sql.NullInt64
		notes          sql.NullString
		confirmed      sql.NullInt64
		createdRaw     sql.NullString
	)

	if err := scanner.Scan(
		&id,
		&latitude,
		&longitude,
		&altitude,
		&accuracy,
		&speed,
		&bearing,
		&recordedRaw,
		&provider,
		&statusStr,
		&rejected,
		&idempotencyKey,
		&userInvoked,
		&activityTypeID,
		&notes,
		&confirmed,
		&createdRaw,
	); err != nil {
		return nil, err
	}

	loc := &Location{
		ID:              id,
		Latitude:        latitude,
		Longitude:       longitude,
		Altitude:        nullableFloat(altitude),
		Accuracy:        nullableFloat(accuracy),
		Speed:           nullableFloat(speed),
		Bearing:         nullableFloat(bearing),
		Provider:        provider.String,
		Status:          Status(statusStr),
		Rejected:        rejected.Valid && rejected.Int64 != 0,
		IdempotencyKey:  idempotencyKey,
		UserInvoked:     userInvoked.Valid && userInvoked.Int64 != 0,
		Notes:           notes.String,
		ServerConfirmed: confirmed.Valid && confirmed.Int64 != 0,
	}
	if activityTypeID.Valid {
		v := activityTypeID.Int64
		loc.ActivityTypeID = &v
	}

	if recorded, err := parseTimeString(recordedRaw); err == nil {
		loc.RecordedAt = recorded
	}
	if created, err := parseTimeString(createdRaw.String); err == nil {
		loc.CreatedAt = created
	}
	return loc, nil
}

func nullableFloat(value sql.NullFloat64) *float64 {
	if !value.Valid {
		return nil
	}
	v := value.Float64
	return &v
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func nullableInt64(value *int64) any {
	if value == nil {
		return nil
	}
	return *value
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}

func parseTimeString(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("empty")
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02 15:04:05", value)
}

func makePlaceholders(count int) string {
	if count <= 0 {
		return ""
	}
	placeholders := make([]byte, 0, count*2)
	for i := 0; i < count; i++ {
		if i > 0 {
			placeholders = append(placeholders, ',')
		}
		placeholders = append(placeholders, '?')
	}
	return string(placeholders)
}

func idArgs(ids []int64) []any {
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	return args
}
