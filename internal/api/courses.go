package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/firasabed78/culinary--academy/internal/domain"
)

const courseListCacheKey = "courses"

// ListCourses returns a page of courses. Unpaginated first-page reads
// are served from a short-lived cache to keep repeated listings cheap.
func (c *Client) ListCourses(ctx context.Context, p domain.PageParams) (domain.Page[domain.Course], error) {
	cacheable := p.Skip == 0 && p.Limit == 0
	if cacheable {
		if cached, ok := c.courses.Get(courseListCacheKey); ok {
			return cached.(domain.Page[domain.Course]), nil
		}
	}

	page, err := listPage[domain.Course](ctx, c, "/courses", pageQuery(p), p)
	if err != nil {
		return domain.Page[domain.Course]{}, err
	}
	if cacheable {
		c.courses.SetDefault(courseListCacheKey, page)
	}
	return page, nil
}

func (c *Client) GetCourse(ctx context.Context, id int) (domain.Course, error) {
	var course domain.Course
	err := c.do(ctx, request{method: http.MethodGet, path: fmt.Sprintf("/courses/%d", id)}, &course)
	if err != nil {
		return domain.Course{}, err
	}
	return course, nil
}

func (c *Client) CreateCourse(ctx context.Context, in domain.CourseCreate) (domain.Course, error) {
	var course domain.Course
	err := c.do(ctx, request{method: http.MethodPost, path: "/courses", body: in}, &course)
	if err != nil {
		return domain.Course{}, err
	}
	c.courses.Delete(courseListCacheKey)
	return course, nil
}

func (c *Client) UpdateCourse(ctx context.Context, id int, in domain.CourseUpdate) (domain.Course, error) {
	var course domain.Course
	err := c.do(ctx, request{method: http.MethodPut, path: fmt.Sprintf("/courses/%d", id), body: in}, &course)
	if err != nil {
		return domain.Course{}, err
	}
	c.courses.Delete(courseListCacheKey)
	return course, nil
}

func (c *Client) DeleteCourse(ctx context.Context, id int) error {
	if err := c.do(ctx, request{method: http.MethodDelete, path: fmt.Sprintf("/courses/%d", id)}, nil); err != nil {
		return err
	}
	c.courses.Delete(courseListCacheKey)
	return nil
}
