package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"

	"github.com/firasabed78/culinary--academy/internal/domain"
)

// Enrollments

func (c *Client) ListMyEnrollments(ctx context.Context, p domain.PageParams) (domain.Page[domain.Enrollment], error) {
	return listPage[domain.Enrollment](ctx, c, "/enrollments", pageQuery(p), p)
}

// CreateEnrollment enrolls a student into a course. The server defaults
// the enrollment and payment status to pending when the body leaves
// them empty.
func (c *Client) CreateEnrollment(ctx context.Context, in domain.EnrollmentCreate) (domain.Enrollment, error) {
	var enrollment domain.Enrollment
	err := c.do(ctx, request{method: http.MethodPost, path: "/enrollments", body: in}, &enrollment)
	if err != nil {
		return domain.Enrollment{}, err
	}
	return enrollment, nil
}

func (c *Client) GetEnrollment(ctx context.Context, id int) (domain.Enrollment, error) {
	var enrollment domain.Enrollment
	err := c.do(ctx, request{method: http.MethodGet, path: fmt.Sprintf("/enrollments/%d", id)}, &enrollment)
	if err != nil {
		return domain.Enrollment{}, err
	}
	return enrollment, nil
}

func (c *Client) UpdateEnrollmentStatus(ctx context.Context, id int, status domain.EnrollmentStatus) (domain.Enrollment, error) {
	body := struct {
		Status domain.EnrollmentStatus `json:"status"`
	}{Status: status}

	var enrollment domain.Enrollment
	err := c.do(ctx, request{method: http.MethodPut, path: fmt.Sprintf("/enrollments/%d", id), body: body}, &enrollment)
	if err != nil {
		return domain.Enrollment{}, err
	}
	return enrollment, nil
}

// CancelEnrollment is a status update: the platform has no delete route
// for enrollments, a cancellation is PUT with status cancelled.
func (c *Client) CancelEnrollment(ctx context.Context, id int) error {
	_, err := c.UpdateEnrollmentStatus(ctx, id, domain.EnrollmentCancelled)
	return err
}

// Payments

func (c *Client) ListPayments(ctx context.Context, p domain.PageParams) (domain.Page[domain.Payment], error) {
	return listPage[domain.Payment](ctx, c, "/payments", pageQuery(p), p)
}

func (c *Client) GetPayment(ctx context.Context, id int) (domain.Payment, error) {
	var payment domain.Payment
	err := c.do(ctx, request{method: http.MethodGet, path: fmt.Sprintf("/payments/%d", id)}, &payment)
	if err != nil {
		return domain.Payment{}, err
	}
	return payment, nil
}

func (c *Client) CreatePayment(ctx context.Context, in domain.PaymentCreate) (domain.Payment, error) {
	var payment domain.Payment
	err := c.do(ctx, request{method: http.MethodPost, path: "/payments", body: in}, &payment)
	if err != nil {
		return domain.Payment{}, err
	}
	return payment, nil
}

// Documents

func (c *Client) ListDocuments(ctx context.Context, p domain.PageParams) (domain.Page[domain.Document], error) {
	return listPage[domain.Document](ctx, c, "/documents", pageQuery(p), p)
}

func (c *Client) GetDocument(ctx context.Context, id int) (domain.Document, error) {
	var doc domain.Document
	err := c.do(ctx, request{method: http.MethodGet, path: fmt.Sprintf("/documents/%d", id)}, &doc)
	if err != nil {
		return domain.Document{}, err
	}
	return doc, nil
}

// DocumentUpload carries a file upload. The type and description travel
// as query parameters, the content as the multipart "file" part.
type DocumentUpload struct {
	Type        domain.DocumentType
	Description string
	FileName    string
	Content     io.Reader
}

func (c *Client) UploadDocument(ctx context.Context, in DocumentUpload) (domain.Document, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", in.FileName)
	if err != nil {
		return domain.Document{}, fmt.Errorf("creating multipart body: %w", err)
	}
	if _, err := io.Copy(part, in.Content); err != nil {
		return domain.Document{}, fmt.Errorf("reading upload content: %w", err)
	}
	if err := mw.Close(); err != nil {
		return domain.Document{}, fmt.Errorf("finishing multipart body: %w", err)
	}

	q := url.Values{}
	q.Set("document_type", string(in.Type))
	if in.Description != "" {
		q.Set("description", in.Description)
	}

	var doc domain.Document
	err = c.do(ctx, request{
		method:      http.MethodPost,
		path:        "/documents",
		query:       q,
		raw:         &buf,
		contentType: mw.FormDataContentType(),
	}, &doc)
	if err != nil {
		return domain.Document{}, err
	}
	return doc, nil
}

func (c *Client) DeleteDocument(ctx context.Context, id int) error {
	return c.do(ctx, request{method: http.MethodDelete, path: fmt.Sprintf("/documents/%d", id)}, nil)
}

// Schedules

func (c *Client) ListCourseSchedules(ctx context.Context, courseID int) ([]domain.Schedule, error) {
	q := url.Values{}
	q.Set("course_id", strconv.Itoa(courseID))

	var schedules []domain.Schedule
	if err := c.do(ctx, request{method: http.MethodGet, path: "/schedules", query: q}, &schedules); err != nil {
		return nil, err
	}
	return schedules, nil
}

// Notifications

func (c *Client) ListNotifications(ctx context.Context, unreadOnly bool, p domain.PageParams) (domain.Page[domain.Notification], error) {
	q := pageQuery(p)
	if unreadOnly {
		q.Set("unread_only", "true")
	}
	return listPage[domain.Notification](ctx, c, "/notifications", q, p)
}

func (c *Client) UnreadNotificationCount(ctx context.Context) (int, error) {
	var out struct {
		Count int `json:"count"`
	}
	if err := c.do(ctx, request{method: http.MethodGet, path: "/notifications/unread-count"}, &out); err != nil {
		return 0, err
	}
	return out.Count, nil
}

func (c *Client) MarkNotificationRead(ctx context.Context, id int) error {
	return c.do(ctx, request{method: http.MethodPut, path: fmt.Sprintf("/notifications/%d/read", id)}, nil)
}

func (c *Client) MarkAllNotificationsRead(ctx context.Context) error {
	return c.do(ctx, request{method: http.MethodPut, path: "/notifications/read-all"}, nil)
}

// Users

func (c *Client) GetUser(ctx context.Context, id int) (domain.User, error) {
	var user domain.User
	err := c.do(ctx, request{method: http.MethodGet, path: fmt.Sprintf("/users/%d", id)}, &user)
	if err != nil {
		return domain.User{}, err
	}
	return user, nil
}

// UpdateMe edits the current user's profile and returns the updated
// principal.
func (c *Client) UpdateMe(ctx context.Context, in domain.UserUpdate) (domain.User, error) {
	var user domain.User
	err := c.do(ctx, request{method: http.MethodPut, path: "/users/me", body: in}, &user)
	if err != nil {
		return domain.User{}, err
	}
	return user, nil
}
