package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// EnsureSchema creates the gradebook tables. Safe to call on every start.
func EnsureSchema(ctx context.Context, db *sqlx.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

const schema = `
CREATE TABLE IF NOT EXISTS students (
	id              BIGSERIAL PRIMARY KEY,
	first_name      TEXT NOT NULL,
	last_name       TEXT NOT NULL,
	email           TEXT NOT NULL,
	phone           TEXT NOT NULL DEFAULT '',
	grade_level     INTEGER NOT NULL CHECK (grade_level BETWEEN 9 AND 12),
	date_of_birth   DATE,
	enrollment_date DATE NOT NULL,
	status          TEXT NOT NULL DEFAULT 'active',
	created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at      TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_students_status ON students(status);
CREATE INDEX IF NOT EXISTS idx_students_grade_level ON students(grade_level);

CREATE TABLE IF NOT EXISTS classes (
	id         BIGSERIAL PRIMARY KEY,
	name       TEXT NOT NULL,
	subject    TEXT NOT NULL,
	period     TEXT NOT NULL DEFAULT '',
	room       TEXT NOT NULL DEFAULT '',
	year       INTEGER NOT NULL,
	semester   TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS assignments (
	id           BIGSERIAL PRIMARY KEY,
	name         TEXT NOT NULL,
	class_id     BIGINT NOT NULL REFERENCES classes(id) ON DELETE CASCADE,
	category     TEXT NOT NULL DEFAULT '',
	weight       DOUBLE PRECISION NOT NULL DEFAULT 0,
	due_date     DATE,
	total_points DOUBLE PRECISION NOT NULL,
	created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_assignments_class_id ON assignments(class_id);

CREATE TABLE IF NOT EXISTS grades (
	id            BIGSERIAL PRIMARY KEY,
	student_id    BIGINT NOT NULL REFERENCES students(id) ON DELETE CASCADE,
	class_id      BIGINT NOT NULL REFERENCES classes(id) ON DELETE CASCADE,
	assignment_id BIGINT REFERENCES assignments(id) ON DELETE SET NULL,
	score         DOUBLE PRECISION NOT NULL,
	max_score     DOUBLE PRECISION NOT NULL,
	percentage    INTEGER NOT NULL,
	letter_grade  TEXT NOT NULL,
	date_recorded DATE NOT NULL,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_grades_student_id ON grades(student_id);
CREATE INDEX IF NOT EXISTS idx_grades_class_id ON grades(class_id);

CREATE TABLE IF NOT EXISTS attendance (
	id         BIGSERIAL PRIMARY KEY,
	student_id BIGINT NOT NULL REFERENCES students(id) ON DELETE CASCADE,
	class_id   BIGINT NOT NULL REFERENCES classes(id) ON DELETE CASCADE,
	date       DATE NOT NULL,
	status     TEXT NOT NULL,
	notes      TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	CONSTRAINT uq_attendance_student_class_date UNIQUE (student_id, class_id, date)
);

CREATE INDEX IF NOT EXISTS idx_attendance_class_date ON attendance(class_id, date);
`
