package session

import (
	"context"
	"database/sql"
	"fmt"
)

// Schema for the two sample tables. Creation is guarded so that initialize
// and reset can share the same path.
const (
	createStudentsSQL = `CREATE TABLE IF NOT EXISTS students (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		age INTEGER NOT NULL,
		grade INTEGER NOT NULL CHECK (grade BETWEEN 0 AND 100)
	)`

	createCoursesSQL = `CREATE TABLE IF NOT EXISTS courses (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		instructor TEXT NOT NULL,
		credits INTEGER NOT NULL
	)`
)

type studentSeed struct {
	name  string
	age   int
	grade int
}

type courseSeed struct {
	name       string
	instructor string
	credits    int
}

// Fixed sample data. IDs are assigned by the database on insert.
var (
	studentSeeds = []studentSeed{
		{"Alice Johnson", 20, 85},
		{"Bob Smith", 21, 92},
		{"Carol Davis", 19, 78},
		{"David Wilson", 22, 88},
		{"Emma Brown", 20, 90},
		{"Frank Miller", 23, 75},
		{"Grace Lee", 19, 89},
		{"Henry Moore", 21, 94},
	}

	courseSeeds = []courseSeed{
		{"Introduction to SQL", "Dr. Codd", 4},
		{"Web Development", "Prof. Berners", 3},
		{"Database Design", "Dr. Chen", 4},
		{"Data Structures", "Prof. Hopper", 3},
		{"Computer Networks", "Dr. Cerf", 3},
	}
)

// createAndSeed creates both tables and inserts the sample rows inside a
// single transaction. Values are bound positionally through prepared
// statements, never concatenated into the SQL text.
func createAndSeed(ctx context.Context, db *sql.DB) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin seed transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, stmt := range []string{createStudentsSQL, createCoursesSQL} {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("create table: %w", err)
		}
	}

	if err := seedStudents(ctx, tx); err != nil {
		return err
	}
	if err := seedCourses(ctx, tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit seed transaction: %w", err)
	}
	return nil
}

// seedFailure marks errors from the insert phase so Initialize can report
// StageSeed rather than StageSchema.
type seedFailure struct {
	err error
}

func (e *seedFailure) Error() string { return e.err.Error() }

func (e *seedFailure) Unwrap() error { return e.err }

func seedStudents(ctx context.Context, tx *sql.Tx) error {
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO students (name, age, grade) VALUES (?, ?, ?)`)
	if err != nil {
		return &seedFailure{err: fmt.Errorf("prepare student insert: %w", err)}
	}
	defer func() { _ = stmt.Close() }()

	for _, s := range studentSeeds {
		if _, err := stmt.ExecContext(ctx, s.name, s.age, s.grade); err != nil {
			return &seedFailure{err: fmt.Errorf("insert student %q: %w", s.name, err)}
		}
	}
	return nil
}

func seedCourses(ctx context.Context, tx *sql.Tx) error {
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO courses (name, instructor, credits) VALUES (?, ?, ?)`)
	if err != nil {
		return &seedFailure{err: fmt.Errorf("prepare course insert: %w", err)}
	}
	defer func() { _ = stmt.Close() }()

	for _, c := range courseSeeds {
		if _, err := stmt.ExecContext(ctx, c.name, c.instructor, c.credits); err != nil {
			return &seedFailure{err: fmt.Errorf("insert course %q: %w", c.name, err)}
		}
	}
	return nil
}
