package models

import (
	"time"

	"skillbook/internal/core/domain"

	"gorm.io/gorm"
)

// ============================================================
// Users
// ============================================================

// User represents users table
type User struct {
	ID               uint        `gorm:"primaryKey" json:"id"`
	Username         string      `gorm:"uniqueIndex;size:50;not null" json:"username"`
	Email            string      `gorm:"index;size:100;not null" json:"email"`
	Password         string      `gorm:"size:255;not null" json:"-"`
	Role             domain.Role `gorm:"size:20;not null;default:'LEARNER'" json:"role"`
	FirstName        string      `gorm:"column:first_name;size:100" json:"firstName"`
	LastName         string      `gorm:"column:last_name;size:100" json:"lastName"`
	PhotoKey         string      `gorm:"size:255" json:"-"`
	PhotoContentType string      `gorm:"size:100" json:"-"`
	CreatedAt        time.Time   `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt        time.Time   `gorm:"autoUpdateTime" json:"updatedAt"`

	// Read-only projection of course_enrollments
	EnrolledCourses []Course `gorm:"many2many:course_enrollments;" json:"-"`
}

func (User) TableName() string {
	return "users"
}

// HasPhoto reports whether a profile photo was uploaded
func (u *User) HasPhoto() bool {
	return u.PhotoKey != ""
}

// Principal returns the authenticated identity of u
func (u *User) Principal() *domain.Principal {
	return &domain.Principal{
		UserID:   u.ID,
		Username: u.Username,
		Role:     u.Role,
	}
}

// UserResponse DTO
type UserResponse struct {
	ID              uint              `json:"id"`
	Username        string            `json:"username"`
	Email           string            `json:"email"`
	Role            domain.Role       `json:"role"`
	FirstName       string            `json:"firstName"`
	LastName        string            `json:"lastName"`
	HasPhoto        bool              `json:"hasPhoto"`
	EnrolledCourses []*CourseResponse `json:"enrolledCourses"`
}

func (u *User) ToResponse() *UserResponse {
	courses := make([]*CourseResponse, 0, len(u.EnrolledCourses))
	for i := range u.EnrolledCourses {
		courses = append(courses, u.EnrolledCourses[i].ToResponse())
	}

	return &UserResponse{
		ID:              u.ID,
		Username:        u.Username,
		Email:           u.Email,
		Role:            u.Role,
		FirstName:       u.FirstName,
		LastName:        u.LastName,
		HasPhoto:        u.HasPhoto(),
		EnrolledCourses: courses,
	}
}

// UserSummary is the public view of a user, as shown for instructors and rosters
type UserSummary struct {
	ID        uint   `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
}

func (u *User) ToSummary() *UserSummary {
	return &UserSummary{
		ID:        u.ID,
		Username:  u.Username,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
	}
}

// UserPhoto stores profile photos when no object storage is configured
type UserPhoto struct {
	Key         string    `gorm:"column:object_key;primaryKey;size:255"`
	UserID      uint      `gorm:"index;not null"`
	ContentType string    `gorm:"size:100;not null"`
	Data        []byte    `gorm:"not null"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
}

func (UserPhoto) TableName() string {
	return "user_photos"
}

// ============================================================
// Courses
// ============================================================

// Course represents courses table
type Course struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	Title           string    `gorm:"size:200;not null" json:"title"`
	Description     string    `gorm:"type:text;not null" json:"description"`
	LongDescription string    `gorm:"type:text" json:"longDescription"`
	Category        string    `gorm:"size:100;not null;index" json:"category"`
	StartTime       time.Time `gorm:"not null;index" json:"startTime"`
	DurationMinutes int       `gorm:"not null;check:chk_courses_duration_minutes,duration_minutes >= 1" json:"durationMinutes"`
	InstructorID    *uint     `gorm:"index" json:"instructorId"`
	CreatedAt       time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime" json:"updatedAt"`

	// Relations
	Instructor *User `gorm:"foreignKey:InstructorID" json:"instructor,omitempty"`

	// Read-only projection of course_enrollments
	EnrolledUsers []User `gorm:"many2many:course_enrollments;" json:"-"`

	// Filled by the service on single-course reads
	EnrolledCount *int64 `gorm:"-" json:"-"`
}

func (Course) TableName() string {
	return "courses"
}

// EndTime returns the course end
func (c *Course) EndTime() time.Time {
	return c.StartTime.Add(time.Duration(c.DurationMinutes) * time.Minute)
}

// CourseResponse DTO
type CourseResponse struct {
	ID              uint         `json:"id"`
	Title           string       `json:"title"`
	Description     string       `json:"description"`
	LongDescription string       `json:"longDescription,omitempty"`
	Category        string       `json:"category"`
	StartTime       time.Time    `json:"startTime"`
	EndTime         time.Time    `json:"endTime"`
	DurationMinutes int          `json:"durationMinutes"`
	InstructorID    *uint        `json:"instructorId"`
	Instructor      *UserSummary `json:"instructor"`
	EnrolledCount   *int64       `json:"enrolledCount,omitempty"`
}

func (c *Course) ToResponse() *CourseResponse {
	resp := &CourseResponse{
		ID:              c.ID,
		Title:           c.Title,
		Description:     c.Description,
		LongDescription: c.LongDescription,
		Category:        c.Category,
		StartTime:       c.StartTime,
		EndTime:         c.EndTime(),
		DurationMinutes: c.DurationMinutes,
		InstructorID:    c.InstructorID,
		EnrolledCount:   c.EnrolledCount,
	}
	if c.Instructor != nil {
		resp.Instructor = c.Instructor.ToSummary()
	}
	return resp
}

// ============================================================
// Enrollment
// ============================================================

// CourseEnrollment is the single source of truth for who is enrolled where.
// Presence of the (user, course) pair is the only state.
type CourseEnrollment struct {
	UserID   uint `gorm:"primaryKey;autoIncrement:false"`
	CourseID uint `gorm:"primaryKey;autoIncrement:false;index"`

	// Foreign keys only; rows are never written through these
	User   User   `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Course Course `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

func (CourseEnrollment) TableName() string {
	return "course_enrollments"
}

// ============================================================
// Auto Migration
// ============================================================

// AutoMigrate runs auto migration for all tables
func AutoMigrate(db *gorm.DB) error {
	if err := db.SetupJoinTable(&User{}, "EnrolledCourses", &CourseEnrollment{}); err != nil {
		return err
	}
	if err := db.SetupJoinTable(&Course{}, "EnrolledUsers", &CourseEnrollment{}); err != nil {
		return err
	}
	return db.AutoMigrate(
		&User{},
		&UserPhoto{},
		&Course{},
		&CourseEnrollment{},
	)
}
