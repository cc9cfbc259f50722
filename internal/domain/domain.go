// Package domain holds the typed shapes exchanged with the culinary
// academy platform API. Field names mirror the JSON the backend emits.
package domain

import (
	"fmt"
	"time"
)

type Role string

const (
	RoleStudent    Role = "student"
	RoleInstructor Role = "instructor"
	RoleAdmin      Role = "admin"
	RoleStaff      Role = "staff"
)

func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleStudent, RoleInstructor, RoleAdmin, RoleStaff:
		return Role(s), nil
	}
	return "", fmt.Errorf("unknown role: %q", s)
}

// User is the authenticated principal as returned by /auth/me and the
// user endpoints.
type User struct {
	ID             int       `json:"id"`
	Email          string    `json:"email"`
	FirstName      string    `json:"first_name"`
	LastName       string    `json:"last_name"`
	Role           Role      `json:"role"`
	IsActive       bool      `json:"is_active"`
	Phone          string    `json:"phone,omitempty"`
	Address        string    `json:"address,omitempty"`
	ProfilePicture string    `json:"profile_picture,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (u User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// UserCreate is the registration payload. Password policy is enforced
// server-side; the client sends it verbatim.
type UserCreate struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Role      Role   `json:"role,omitempty"`
	Phone     string `json:"phone,omitempty"`
	Address   string `json:"address,omitempty"`
}

// UserUpdate carries the optional fields of a profile edit. Nil fields
// are omitted from the request body.
type UserUpdate struct {
	Email     *string `json:"email,omitempty"`
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
	Password  *string `json:"password,omitempty"`
	Phone     *string `json:"phone,omitempty"`
	Address   *string `json:"address,omitempty"`
}

// Token is the response of the OAuth2 password-form login endpoint.
type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type Course struct {
	ID           int       `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	InstructorID int       `json:"instructor_id"`
	Price        float64   `json:"price"`
	Capacity     int       `json:"capacity"`
	StartDate    time.Time `json:"start_date"`
	EndDate      time.Time `json:"end_date"`
	IsPublished  bool      `json:"is_published"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type CourseCreate struct {
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	InstructorID int       `json:"instructor_id"`
	Price        float64   `json:"price"`
	Capacity     int       `json:"capacity"`
	StartDate    time.Time `json:"start_date"`
	EndDate      time.Time `json:"end_date"`
	IsPublished  bool      `json:"is_published"`
}

type CourseUpdate struct {
	Title       *string    `json:"title,omitempty"`
	Description *string    `json:"description,omitempty"`
	Price       *float64   `json:"price,omitempty"`
	Capacity    *int       `json:"capacity,omitempty"`
	StartDate   *time.Time `json:"start_date,omitempty"`
	EndDate     *time.Time `json:"end_date,omitempty"`
	IsPublished *bool      `json:"is_published,omitempty"`
}

type EnrollmentStatus string

const (
	EnrollmentPending   EnrollmentStatus = "pending"
	EnrollmentActive    EnrollmentStatus = "active"
	EnrollmentCompleted EnrollmentStatus = "completed"
	EnrollmentCancelled EnrollmentStatus = "cancelled"
)

type Enrollment struct {
	ID             int              `json:"id"`
	StudentID      int              `json:"student_id"`
	CourseID       int              `json:"course_id"`
	Status         EnrollmentStatus `json:"status"`
	PaymentStatus  PaymentStatus    `json:"payment_status"`
	Notes          string           `json:"notes,omitempty"`
	EnrollmentDate time.Time        `json:"enrollment_date"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
}

// EnrollmentCreate is the enrollment request body. Status fields left
// empty default to pending server-side.
type EnrollmentCreate struct {
	StudentID     int              `json:"student_id"`
	CourseID      int              `json:"course_id"`
	Notes         string           `json:"notes,omitempty"`
	Status        EnrollmentStatus `json:"status,omitempty"`
	PaymentStatus PaymentStatus    `json:"payment_status,omitempty"`
}

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
	PaymentRefunded  PaymentStatus = "refunded"
)

type Payment struct {
	ID            int           `json:"id"`
	EnrollmentID  int           `json:"enrollment_id"`
	Amount        float64       `json:"amount"`
	Status        PaymentStatus `json:"status"`
	PaymentMethod string        `json:"payment_method"`
	TransactionID string        `json:"transaction_id,omitempty"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

type PaymentCreate struct {
	EnrollmentID  int     `json:"enrollment_id"`
	Amount        float64 `json:"amount"`
	PaymentMethod string  `json:"payment_method"`
}

type DocumentType string

const (
	DocumentIDProof       DocumentType = "id_proof"
	DocumentCertification DocumentType = "certification"
	DocumentResume        DocumentType = "resume"
	DocumentTranscript    DocumentType = "transcript"
)

type Document struct {
	ID          int          `json:"id"`
	UserID      int          `json:"user_id"`
	Type        DocumentType `json:"document_type"`
	Description string       `json:"description,omitempty"`
	FileName    string       `json:"file_name"`
	FilePath    string       `json:"file_path"`
	FileType    string       `json:"file_type,omitempty"`
	FileSize    int64        `json:"file_size,omitempty"`
	UploadDate  time.Time    `json:"upload_date"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

type Schedule struct {
	ID        int       `json:"id"`
	CourseID  int       `json:"course_id"`
	DayOfWeek string    `json:"day_of_week"`
	StartTime string    `json:"start_time"`
	EndTime   string    `json:"end_time"`
	Location  string    `json:"location"`
	CreatedAt time.Time `json:"created_at"`
}

type Notification struct {
	ID        int       `json:"id"`
	UserID    int       `json:"user_id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}

// Page groups one slice of a list endpoint with the parameters that
// produced it. The platform's list endpoints emit a bare JSON array, so
// the envelope is assembled client-side and Total counts the items of
// this page.
type Page[T any] struct {
	Items []T
	Total int
	Skip  int
	Limit int
}

// PageParams selects a slice of a list endpoint. Zero values mean the
// server defaults.
type PageParams struct {
	Skip  int
	Limit int
}
