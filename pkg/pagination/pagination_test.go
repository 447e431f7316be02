package pagination

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func paramsFor(t *testing.T, query string) Params {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/?"+query, nil)
	rec := httptest.NewRecorder()
	return FromContext(e.NewContext(req, rec))
}

func TestFromContext(t *testing.T) {
	tests := []struct {
		query      string
		wantLimit  int
		wantOffset int
	}{
		{"", DefaultLimit, 0},
		{"limit=5&offset=10", 5, 10},
		{"limit=500", MaxLimit, 0},
		{"limit=-1&offset=-3", DefaultLimit, 0},
		{"limit=abc", DefaultLimit, 0},
	}
	for _, tt := range tests {
		p := paramsFor(t, tt.query)
		if p.Limit != tt.wantLimit || p.Offset != tt.wantOffset {
			t.Errorf("query %q: got limit=%d offset=%d, want limit=%d offset=%d",
				tt.query, p.Limit, p.Offset, tt.wantLimit, tt.wantOffset)
		}
	}
}

func TestResponseHasMore(t *testing.T) {
	resp := NewResponse([]int{1, 2, 3}, 10, 3, 0)
	if !resp.HasMore {
		t.Errorf("expected HasMore for total=10 limit=3 offset=0")
	}
	if resp.NextOffset == nil || *resp.NextOffset != 3 {
		t.Errorf("next offset = %v, want 3", resp.NextOffset)
	}

	resp = NewResponse([]int{1}, 10, 3, 9)
	if resp.HasMore {
		t.Errorf("did not expect HasMore for total=10 limit=3 offset=9")
	}
	if resp.NextOffset != nil {
		t.Errorf("next offset should be absent on the last page, got %d", *resp.NextOffset)
	}
}
