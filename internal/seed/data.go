package seed

import (
	"fmt"
	"time"

	"github.com/yigit/greenfield/internal/app/models"
	"github.com/yigit/greenfield/internal/pkg/roleid"
)

// DefaultPassword is the password of every seeded account
const DefaultPassword = "password123"

type person struct {
	email, first, last string
	role               models.Role
}

var samplePeople = []person{
	{"admin@greenfield.edu", "System", "Administrator", models.RoleAdmin},
	{"registrar@greenfield.edu", "Academic", "Registrar", models.RoleAdmin},

	{"math.prof@greenfield.edu", "Robert", "Thompson", models.RoleFaculty},
	{"physics.prof@greenfield.edu", "Maria", "Rodriguez", models.RoleFaculty},
	{"cs.prof@greenfield.edu", "James", "Wilson", models.RoleFaculty},
	{"biology.prof@greenfield.edu", "Sarah", "Chen", models.RoleFaculty},
	{"chemistry.prof@greenfield.edu", "David", "Kumar", models.RoleFaculty},

	{"emma.davis@student.greenfield.edu", "Emma", "Davis", models.RoleStudent},
	{"alex.wang@student.greenfield.edu", "Alex", "Wang", models.RoleStudent},
	{"sophia.patel@student.greenfield.edu", "Sophia", "Patel", models.RoleStudent},
	{"marcus.brown@student.greenfield.edu", "Marcus", "Brown", models.RoleStudent},
	{"isabella.garcia@student.greenfield.edu", "Isabella", "Garcia", models.RoleStudent},
}

// sampleUsers builds the seeded accounts. Role IDs come from counters so
// that several people sharing initials get distinct sequence numbers.
func sampleUsers(counters roleid.Counters, year int, passwordHash string) ([]models.User, error) {
	users := make([]models.User, 0, len(samplePeople))
	for _, p := range samplePeople {
		id, err := counters.Next(p.role, p.first, p.last, year)
		if err != nil {
			return nil, err
		}
		users = append(users, models.User{
			Email:     p.email,
			Password:  passwordHash,
			FirstName: p.first,
			LastName:  p.last,
			Role:      p.role,
			RoleID:    id,
			IsActive:  true,
		})
	}
	return users, nil
}

// sampleCourses are assigned to the seeded faculty in order.
var sampleCourses = []models.Course{
	{Code: "MATH201", Name: "Calculus I", Credits: 4,
		Description: "Introduction to differential and integral calculus of functions of one variable."},
	{Code: "PHYS101", Name: "Introduction to Physics", Credits: 4,
		Description: "Fundamental concepts of physics including mechanics, waves, and thermodynamics."},
	{Code: "CS150", Name: "Programming Fundamentals", Credits: 3,
		Description: "Introduction to programming concepts, including data structures and algorithms."},
	{Code: "BIO101", Name: "General Biology", Credits: 3,
		Description: "Basic principles of biology including cell structure, genetics, and evolution."},
	{Code: "CHEM201", Name: "Organic Chemistry", Credits: 4,
		Description: "Study of structure, properties, and reactions of organic compounds."},
}

// enrolledPerCourse is how many of the seeded students join every course
const enrolledPerCourse = 3

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }

func datePtr(y, m, d int) *time.Time {
	t := time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
	return &t
}

func sampleApplications() []models.Application {
	return []models.Application{
		{
			Type: models.ApplicationUndergraduate, Status: models.ApplicationSubmitted, SubmittedAt: datePtr(2026, 1, 15),
			FirstName: "John", LastName: "Smith", Email: "john.smith@example.com", PhoneNumber: "123-456-7890",
			DateOfBirth: datePtr(2008, 5, 15), Address: "123 Main St", City: "Springfield", State: "IL",
			Country: "USA", PostalCode: "62701", GPA: floatPtr(3.8),
			Scores:          models.UndergraduateScores{SAT: intPtr(1400), ACT: intPtr(30)},
			IntendedMajor:   "Computer Science", StartTerm: "Fall 2026",
			PreviousSchools: []models.PreviousSchool{{Name: "Springfield High School", Location: "Springfield, IL", StartDate: "2022-09-01", EndDate: "2026-05-30"}},
			Documents:       []models.Document{{Type: "transcript", Status: models.DocumentPending}},
			Essay:           "I am passionate about technology and its impact on society...",
		},
		{
			Type: models.ApplicationGraduate, Status: models.ApplicationUnderReview, SubmittedAt: datePtr(2026, 1, 20),
			FirstName: "Emily", LastName: "Johnson", Email: "emily.johnson@example.com", PhoneNumber: "234-567-8901",
			DateOfBirth: datePtr(2001, 8, 22), Address: "456 Oak Ave", City: "Boston", State: "MA",
			Country: "USA", PostalCode: "02108", GPA: floatPtr(3.9),
			Scores:          models.GraduateScores{},
			IntendedMajor:   "Biotechnology", StartTerm: "Fall 2026",
			PreviousSchools: []models.PreviousSchool{{Name: "Boston University", Location: "Boston, MA", StartDate: "2019-09-01", EndDate: "2023-05-30", Degree: "Bachelor of Science in Biology"}},
			Documents:       []models.Document{},
			Essay:           "My research experience in molecular biology has prepared me...",
		},
		{
			Type: models.ApplicationTransfer, Status: models.ApplicationSubmitted, SubmittedAt: datePtr(2026, 1, 25),
			FirstName: "Michael", LastName: "Chen", Email: "michael.chen@example.com", PhoneNumber: "345-678-9012",
			DateOfBirth: datePtr(2005, 3, 10), Address: "789 Pine St", City: "San Jose", State: "CA",
			Country: "USA", PostalCode: "95110", GPA: floatPtr(3.7),
			Scores:          models.TransferScores{},
			IntendedMajor:   "Software Engineering", StartTerm: "Spring 2027",
			PreviousSchools: []models.PreviousSchool{{Name: "San Jose City College", Location: "San Jose, CA", StartDate: "2024-09-01", EndDate: "2026-05-30", Degree: "Associate in Computer Science"}},
			Documents:       []models.Document{},
			Essay:           "My experience at community college has strengthened my desire...",
		},
		{
			Type: models.ApplicationInternational, Status: models.ApplicationSubmitted, SubmittedAt: datePtr(2026, 1, 30),
			FirstName: "Sofia", LastName: "Martinez", Email: "sofia.martinez@example.com", PhoneNumber: "+34 612 345 678",
			DateOfBirth: datePtr(2007, 11, 28), Address: "Calle Mayor 123", City: "Madrid",
			Country: "Spain", PostalCode: "28013", GPA: floatPtr(3.6),
			Scores:          models.InternationalScores{TOEFL: intPtr(105), IELTS: floatPtr(7.5)},
			IntendedMajor:   "International Business", StartTerm: "Fall 2026",
			PreviousSchools: []models.PreviousSchool{{Name: "Instituto San Isidro", Location: "Madrid, Spain", StartDate: "2022-09-01", EndDate: "2026-06-30"}},
			Documents:       []models.Document{{Type: "passport", Status: models.DocumentPending}},
			Essay:           "My international perspective and multicultural background...",
		},
	}
}

func sampleRoom(i int) string {
	return fmt.Sprintf("Room %d", 101+i*100)
}
