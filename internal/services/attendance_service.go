package services

import (
	"database/sql"

	"github.com/clmgranada/intensivo-be/internal/models"
	"github.com/google/uuid"
)

// AttendanceServiceProvider defines the interface for attendance services.
type AttendanceServiceProvider interface {
	CheckIn(userID, qrCode, notes string) (models.Attendance, error)
	CheckOut(userID string) (models.Attendance, error)
	ListForUser(userID string, limit int) ([]models.Attendance, error)
	CloseOpenRecords() (int64, error)
}

// AttendanceService provides business logic for class attendance.
type AttendanceService struct {
	db *sql.DB
}

// NewAttendanceService creates a new AttendanceService.
func NewAttendanceService(db *sql.DB) *AttendanceService {
	return &AttendanceService{db: db}
}

// CheckIn opens a new attendance record for the user. A user with an open
// record keeps it; check-in is idempotent per open session.
func (s *AttendanceService) CheckIn(userID, qrCode, notes string) (models.Attendance, error) {
	if open, err := s.openRecord(userID); err == nil {
		return open, nil
	} else if err != ErrNotFound {
		return models.Attendance{}, err
	}

	id := uuid.New().String()
	_, err := s.db.Exec(
		"INSERT INTO attendance (id, user_id, qr_code, notes) VALUES (?, ?, ?, ?)",
		id, userID, qrCode, notes)
	if err != nil {
		return models.Attendance{}, err
	}
	return s.getByID(id)
}

// CheckOut stamps the user's open attendance record.
func (s *AttendanceService) CheckOut(userID string) (models.Attendance, error) {
	open, err := s.openRecord(userID)
	if err != nil {
		return models.Attendance{}, err
	}
	_, err = s.db.Exec("UPDATE attendance SET check_out_time = CURRENT_TIMESTAMP WHERE id = ?", open.ID)
	if err != nil {
		return models.Attendance{}, err
	}
	return s.getByID(open.ID)
}

// ListForUser returns the user's most recent attendance records.
func (s *AttendanceService) ListForUser(userID string, limit int) ([]models.Attendance, error) {
	if limit <= 0 {
		limit = 30
	}
	rows, err := s.db.Query(
		`SELECT id, user_id, check_in_time, check_out_time, qr_code, status, notes
		 FROM attendance WHERE user_id = ? ORDER BY check_in_time DESC LIMIT ?`,
		userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []models.Attendance
	for rows.Next() {
		record, err := scanAttendance(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

// CloseOpenRecords checks out every attendance record still open. Run by
// the housekeeping scheduler at the end of the class day.
func (s *AttendanceService) CloseOpenRecords() (int64, error) {
	res, err := s.db.Exec("UPDATE attendance SET check_out_time = CURRENT_TIMESTAMP WHERE check_out_time IS NULL")
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *AttendanceService) getByID(id string) (models.Attendance, error) {
	row := s.db.QueryRow(
		`SELECT id, user_id, check_in_time, check_out_time, qr_code, status, notes
		 FROM attendance WHERE id = ?`, id)
	return scanAttendance(row)
}

func (s *AttendanceService) openRecord(userID string) (models.Attendance, error) {
	row := s.db.QueryRow(
		`SELECT id, user_id, check_in_time, check_out_time, qr_code, status, notes
		 FROM attendance WHERE user_id = ? AND check_out_time IS NULL
		 ORDER BY check_in_time DESC LIMIT 1`, userID)
	return scanAttendance(row)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAttendance(row rowScanner) (models.Attendance, error) {
	var record models.Attendance
	var checkOut sql.NullTime
	err := row.Scan(&record.ID, &record.UserID, &record.CheckInTime, &checkOut,
		&record.QRCode, &record.Status, &record.Notes)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.Attendance{}, ErrNotFound
		}
		return models.Attendance{}, err
	}
	if checkOut.Valid {
		record.CheckOutTime = &checkOut.Time
	}
	return record, nil
}
