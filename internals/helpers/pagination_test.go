package helper

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseVia(t *testing.T, target string) PageParams {
	t.Helper()

	var got PageParams
	app := fiber.New()
	app.Get("/x", func(c *fiber.Ctx) error {
		got = ParsePagination(c, "created_at", "desc")
		return c.SendStatus(fiber.StatusOK)
	})

	resp, err := app.Test(httptest.NewRequest("GET", target, nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	return got
}

func TestParsePagination(t *testing.T) {
	tests := []struct {
		name   string
		target string
		want   PageParams
	}{
		{
			name:   "default",
			target: "/x",
			want:   PageParams{Page: 1, PerPage: 25, SortBy: "created_at", SortOrder: "desc"},
		},
		{
			name:   "eksplisit",
			target: "/x?page=3&per_page=10&sort_by=name&sort=asc",
			want:   PageParams{Page: 3, PerPage: 10, SortBy: "name", SortOrder: "asc"},
		},
		{
			name:   "per_page dibatasi plafon",
			target: "/x?per_page=9999",
			want:   PageParams{Page: 1, PerPage: 200, SortBy: "created_at", SortOrder: "desc"},
		},
		{
			name:   "nilai rusak jatuh ke default",
			target: "/x?page=abc&per_page=-1&sort=upside",
			want:   PageParams{Page: 1, PerPage: 25, SortBy: "created_at", SortOrder: "desc"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, parseVia(t, tc.target))
		})
	}
}

func TestSafeOrderClause(t *testing.T) {
	allowed := map[string]string{
		"name":       "lab_name",
		"created_at": "lab_created_at",
	}

	tests := []struct {
		name   string
		params PageParams
		want   string
	}{
		{
			name:   "key dari whitelist dipetakan ke kolom asli",
			params: PageParams{SortBy: "name", SortOrder: "asc"},
			want:   "lab_name ASC",
		},
		{
			name:   "key kosong pakai default",
			params: PageParams{SortOrder: "desc"},
			want:   "lab_created_at DESC",
		},
		{
			name:   "key di luar whitelist jatuh ke default",
			params: PageParams{SortBy: "lab_location", SortOrder: "asc"},
			want:   "lab_created_at ASC",
		},
		{
			name:   "subquery di sort_by tidak pernah sampai ke ORDER BY",
			params: PageParams{SortBy: "(SELECT pg_sleep(10))--", SortOrder: "asc"},
			want:   "lab_created_at ASC",
		},
		{
			name:   "arah selain asc selalu DESC",
			params: PageParams{SortBy: "name", SortOrder: "asc; drop table labs"},
			want:   "lab_name DESC",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := tc.params.SafeOrderClause(allowed, "created_at")
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestSafeOrderClauseTanpaDefaultValid(t *testing.T) {
	p := PageParams{SortBy: "anything"}
	_, err := p.SafeOrderClause(map[string]string{}, "missing")
	assert.Error(t, err)
}

func TestPageParamsOffsetLimit(t *testing.T) {
	p := PageParams{Page: 3, PerPage: 10}
	assert.Equal(t, 20, p.Offset())
	assert.Equal(t, 10, p.Limit())
}
