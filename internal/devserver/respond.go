package devserver

import (
	"net/http"
	"sort"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/blackwell-systems/perpusctl/internal/api"
)

// envelope is the response wrapper every endpoint uses.
type envelope struct {
	Status  int    `json:"status"`
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func ok(c *gin.Context, msg string, data any) {
	c.JSON(http.StatusOK, envelope{Status: http.StatusOK, Success: true, Message: msg, Data: data})
}

func fail(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, envelope{Status: status, Success: false, Message: msg})
}

func failErr(c *gin.Context, err error) {
	fail(c, statusOf(err), err.Error())
}

// bindQuery reads a find-all body. An empty body is the first page.
func bindQuery(c *gin.Context) api.Query {
	var q api.Query
	_ = c.ShouldBindJSON(&q)
	if q.PageNumber < 1 {
		q.PageNumber = 1
	}
	if q.PageSize <= 0 {
		q.PageSize = 10
	}
	return q
}

// paginate slices items for the 1-based page in q.
func paginate[T any](items []T, q api.Query) api.Page[T] {
	total := len(items)
	pages := (total + q.PageSize - 1) / q.PageSize
	start := (q.PageNumber - 1) * q.PageSize
	if start > total {
		start = total
	}
	end := start + q.PageSize
	if end > total {
		end = total
	}
	content := make([]T, end-start)
	copy(content, items[start:end])
	return api.Page[T]{
		Content:       content,
		TotalElements: total,
		TotalPages:    pages,
		Size:          q.PageSize,
		Number:        q.PageNumber - 1,
	}
}

// sortBy orders items by the string key named in q. Unknown columns keep
// insertion order.
func sortBy[T any](items []T, q api.Query, keys map[string]func(T) string) {
	key, found := keys[q.SortColumn]
	if !found {
		return
	}
	desc := strings.EqualFold(q.SortColumnDir, api.SortDesc)
	sort.SliceStable(items, func(i, j int) bool {
		a, b := strings.ToLower(key(items[i])), strings.ToLower(key(items[j]))
		if desc {
			return a > b
		}
		return a < b
	})
}

func contains(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}
