package models

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/schema"
)

func TestCourseEnrollment_ForeignKeysCascade(t *testing.T) {
	s, err := schema.Parse(&CourseEnrollment{}, &sync.Map{}, schema.NamingStrategy{})
	require.NoError(t, err)

	tests := []struct {
		relation   string
		foreignKey string
		references string
	}{
		{"User", "user_id", "users"},
		{"Course", "course_id", "courses"},
	}

	for _, tt := range tests {
		rel, ok := s.Relationships.Relations[tt.relation]
		require.True(t, ok, tt.relation)

		constraint := rel.ParseConstraint()
		require.NotNil(t, constraint, tt.relation)
		assert.Equal(t, "CASCADE", constraint.OnDelete, tt.relation)
		require.Len(t, constraint.ForeignKeys, 1)
		assert.Equal(t, tt.foreignKey, constraint.ForeignKeys[0].DBName)
		assert.Equal(t, tt.references, constraint.ReferenceSchema.Table)
	}
}

func TestCourse_ToResponse(t *testing.T) {
	start := time.Date(2030, 5, 15, 16, 0, 0, 0, time.UTC)
	instructorID := uint(3)
	count := int64(4)
	course := &Course{
		ID:              1,
		Title:           "Go",
		StartTime:       start,
		DurationMinutes: 90,
		InstructorID:    &instructorID,
		Instructor:      &User{ID: 3, Username: "ivan"},
		EnrolledCount:   &count,
	}

	resp := course.ToResponse()
	assert.Equal(t, start.Add(90*time.Minute), resp.EndTime)
	assert.Equal(t, &count, resp.EnrolledCount)
	require.NotNil(t, resp.Instructor)
	assert.Equal(t, "ivan", resp.Instructor.Username)

	course.EnrolledCount = nil
	assert.Nil(t, course.ToResponse().EnrolledCount)
}
