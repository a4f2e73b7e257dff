package seed

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/emrekoc/registrar/internal/db"
	"github.com/emrekoc/registrar/internal/pkg/logger"
)

// seedLockKey is the advisory lock key guarding the check-and-populate
// step when multiple instances start at once.
const seedLockKey = 774421

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

type seedStudent struct {
	lastName   string
	firstName  string
	enrollment time.Time
}

type seedInstructor struct {
	lastName  string
	firstName string
	hireDate  time.Time
	office    string // empty means no office assignment
}

type seedDepartment struct {
	name          string
	budget        float64
	startDate     time.Time
	administrator string // instructor last name, empty for none
}

type seedCourse struct {
	id          int32
	title       string
	credits     int32
	department  string
	instructors []string // instructor last names
}

type seedEnrollment struct {
	student string // last name
	course  int32
	grade   string // empty means pending
}

var students = []seedStudent{
	{"Alexander", "Carson", date(2019, time.September, 1)},
	{"Alonso", "Meredith", date(2017, time.September, 1)},
	{"Anand", "Arturo", date(2018, time.September, 1)},
	{"Barzdukas", "Gytis", date(2017, time.September, 1)},
	{"Li", "Yan", date(2017, time.September, 1)},
	{"Justice", "Peggy", date(2016, time.September, 1)},
	{"Norman", "Laura", date(2018, time.September, 1)},
	{"Olivetto", "Nino", date(2019, time.September, 1)},
}

var instructors = []seedInstructor{
	{"Abercrombie", "Kim", date(1995, time.March, 11), ""},
	{"Fakhouri", "Fadi", date(2002, time.July, 6), "Smith 17"},
	{"Harui", "Roger", date(1998, time.July, 1), "Gowan 27"},
	{"Kapoor", "Candace", date(2001, time.January, 15), "Thompson 304"},
	{"Zheng", "Roger", date(2004, time.February, 12), ""},
}

var departments = []seedDepartment{
	{"English", 350000, date(2007, time.September, 1), "Abercrombie"},
	{"Mathematics", 100000, date(2007, time.September, 1), "Fakhouri"},
	{"Engineering", 350000, date(2007, time.September, 1), "Harui"},
	{"Economics", 100000, date(2007, time.September, 1), "Kapoor"},
}

var courses = []seedCourse{
	{1050, "Chemistry", 3, "Engineering", []string{"Kapoor", "Harui"}},
	{4022, "Microeconomics", 3, "Economics", []string{"Zheng"}},
	{4041, "Macroeconomics", 3, "Economics", []string{"Zheng"}},
	{1045, "Calculus", 4, "Mathematics", []string{"Fakhouri"}},
	{3141, "Trigonometry", 4, "Mathematics", []string{"Harui"}},
	{2021, "Composition", 3, "English", []string{"Abercrombie"}},
	{2042, "Literature", 4, "English", []string{"Abercrombie"}},
}

var enrollments = []seedEnrollment{
	{"Alexander", 1050, "A"},
	{"Alexander", 4022, "C"},
	{"Alexander", 4041, "B"},
	{"Alonso", 1045, "B"},
	{"Alonso", 3141, "B"},
	{"Alonso", 2021, "B"},
	{"Anand", 1050, ""},
	{"Anand", 4022, "B"},
	{"Barzdukas", 1050, "B"},
	{"Li", 2021, "B"},
	{"Justice", 2042, "B"},
}

// CreateDefaultData populates an empty store with the bootstrap dataset.
// The students table is the anchor: if it has rows the whole step is a
// no-op. Everything runs in one transaction under an advisory lock, so
// concurrent starters serialize and re-runs never duplicate.
func CreateDefaultData(ctx context.Context, dbPool *pgxpool.Pool) error {
	return db.WithTx(ctx, dbPool, populate)
}

// populate holds the check-and-populate step. It must run inside a
// transaction: the advisory lock serializes concurrent starters and the
// student count decides whether anything is inserted.
func populate(ctx context.Context, tx pgx.Tx) error {
	if _, err := tx.Exec(ctx, "SELECT pg_advisory_xact_lock($1)", seedLockKey); err != nil {
		return fmt.Errorf("acquiring seed lock: %w", err)
	}

	var count int64
	if err := tx.QueryRow(ctx, "SELECT COUNT(*) FROM students").Scan(&count); err != nil {
		return fmt.Errorf("checking seed anchor: %w", err)
	}
	if count > 0 {
		logger.Debug().Msg("Store already seeded, skipping")
		return nil
	}

	logger.Info().Msg("Seeding initial dataset")

	studentIDs := make(map[string]int64, len(students))
	for _, s := range students {
		var id int64
		err := tx.QueryRow(ctx,
			"INSERT INTO students (last_name, first_name, enrollment_date) VALUES ($1, $2, $3) RETURNING id",
			s.lastName, s.firstName, s.enrollment).Scan(&id)
		if err != nil {
			return fmt.Errorf("seeding student %s: %w", s.lastName, err)
		}
		studentIDs[s.lastName] = id
	}

	instructorIDs := make(map[string]int64, len(instructors))
	for _, ins := range instructors {
		var id int64
		err := tx.QueryRow(ctx,
			"INSERT INTO instructors (last_name, first_name, hire_date) VALUES ($1, $2, $3) RETURNING id",
			ins.lastName, ins.firstName, ins.hireDate).Scan(&id)
		if err != nil {
			return fmt.Errorf("seeding instructor %s: %w", ins.lastName, err)
		}
		instructorIDs[ins.lastName] = id

		if ins.office != "" {
			_, err = tx.Exec(ctx,
				"INSERT INTO office_assignments (instructor_id, location) VALUES ($1, $2)",
				id, ins.office)
			if err != nil {
				return fmt.Errorf("seeding office for %s: %w", ins.lastName, err)
			}
		}
	}

	departmentIDs := make(map[string]int64, len(departments))
	for _, d := range departments {
		var adminID *int64
		if d.administrator != "" {
			id := instructorIDs[d.administrator]
			adminID = &id
		}
		var id int64
		err := tx.QueryRow(ctx,
			"INSERT INTO departments (name, budget, start_date, instructor_id, row_version) VALUES ($1, $2, $3, $4, $5) RETURNING id",
			d.name, d.budget, d.startDate, adminID, uuid.New()).Scan(&id)
		if err != nil {
			return fmt.Errorf("seeding department %s: %w", d.name, err)
		}
		departmentIDs[d.name] = id
	}

	for _, c := range courses {
		_, err := tx.Exec(ctx,
			"INSERT INTO courses (id, title, credits, department_id) VALUES ($1, $2, $3, $4)",
			c.id, c.title, c.credits, departmentIDs[c.department])
		if err != nil {
			return fmt.Errorf("seeding course %s: %w", c.title, err)
		}
		for _, name := range c.instructors {
			_, err := tx.Exec(ctx,
				"INSERT INTO course_instructors (course_id, instructor_id) VALUES ($1, $2)",
				c.id, instructorIDs[name])
			if err != nil {
				return fmt.Errorf("seeding course assignment %s/%s: %w", c.title, name, err)
			}
		}
	}

	for _, e := range enrollments {
		var grade *string
		if e.grade != "" {
			g := e.grade
			grade = &g
		}
		_, err := tx.Exec(ctx,
			"INSERT INTO enrollments (course_id, student_id, grade) VALUES ($1, $2, $3)",
			e.course, studentIDs[e.student], grade)
		if err != nil {
			return fmt.Errorf("seeding enrollment %s/%d: %w", e.student, e.course, err)
		}
	}

	logger.Info().
		Int("students", len(students)).
		Int("instructors", len(instructors)).
		Int("departments", len(departments)).
		Int("courses", len(courses)).
		Int("enrollments", len(enrollments)).
		Msg("Initial dataset seeded")
	return nil
}
