package helpers

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestCalculateOffsetLimit(t *testing.T) {
	cases := []struct {
		page, size int
		offset     uint64
		limit      int
	}{
		{1, 10, 0, 10},
		{3, 20, 40, 20},
		{0, 5, 0, 5},
		{2, 0, 10, DefaultPageSize},
		{2, MaxPageSize + 1, 10, DefaultPageSize},
	}
	for _, tc := range cases {
		offset, limit := CalculateOffsetLimit(tc.page, tc.size)
		if offset != tc.offset || limit != tc.limit {
			t.Errorf("CalculateOffsetLimit(%d, %d) = %d, %d; want %d, %d", tc.page, tc.size, offset, limit, tc.offset, tc.limit)
		}
	}
}

func TestNewPaginationInfo(t *testing.T) {
	info := NewPaginationInfo(25, 2, 10)
	if info.TotalPages != 3 || info.CurrentPage != 2 || info.TotalItems != 25 {
		t.Fatalf("info = %+v", info)
	}

	empty := NewPaginationInfo(0, 1, 10)
	if empty.TotalPages != 1 || empty.CurrentPage != 1 {
		t.Fatalf("empty = %+v", empty)
	}

	past := NewPaginationInfo(5, 9, 10)
	if past.CurrentPage != 1 {
		t.Fatalf("page past the end = %+v", past)
	}
}

func TestParsePaginationParams(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/students?page=3&size=500", nil)

	page, size := ParsePaginationParams(c)
	if page != 3 || size != DefaultPageSize {
		t.Fatalf("got page=%d size=%d", page, size)
	}
}

func TestParseIDParam(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	c.Params = gin.Params{{Key: "id", Value: "42"}}
	if id, err := ParseIDParam(c, "id"); err != nil || id != 42 {
		t.Fatalf("ParseIDParam(42) = %d, %v", id, err)
	}

	for _, bad := range []string{"0", "-3", "abc", ""} {
		c.Params = gin.Params{{Key: "id", Value: bad}}
		if _, err := ParseIDParam(c, "id"); err == nil {
			t.Errorf("ParseIDParam(%q) accepted", bad)
		}
	}
}
