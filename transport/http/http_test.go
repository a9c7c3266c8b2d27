package http_test

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/autom8ter/allpaths"
	"github.com/autom8ter/allpaths/internal/testutil"
	transport "github.com/autom8ter/allpaths/transport/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func post(t *testing.T, h http.Handler, path string, body string) (int, string) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	bits, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	return rec.Code, string(bits)
}

func TestHandler(t *testing.T) {
	planner, err := allpaths.New()
	require.NoError(t, err)
	h := transport.Handler(planner, testutil.Catalog, nil)

	t.Run("explain", func(t *testing.T) {
		code, body := post(t, h, "/explain", `{"request": {"filter": {"tags": "a"}, "limit": 2}}`)
		require.Equal(t, http.StatusOK, code, body)
		assert.NotEmpty(t, gjson.Get(body, "id").String())
		solutions := gjson.Get(body, "solutions").Array()
		require.Len(t, solutions, 1)
		assert.Equal(t, "LIMIT", solutions[0].Get("stage").String())
	})
	t.Run("explain with a catalog", func(t *testing.T) {
		code, body := post(t, h, "/explain", `{
			"request": {"filter": {"x": 1}},
			"catalog": [{"name": "x", "keyPattern": {"x": 1}}]
		}`)
		require.Equal(t, http.StatusOK, code, body)
		assert.Len(t, gjson.Get(body, "solutions").Array(), 1)
	})
	t.Run("missing hint", func(t *testing.T) {
		code, body := post(t, h, "/explain", `{"request": {"filter": {"x": 1}, "hint": "missing"}}`)
		assert.Equal(t, http.StatusPreconditionFailed, code, body)
		assert.Equal(t, int64(http.StatusPreconditionFailed), gjson.Get(body, "code").Int())
	})
	t.Run("malformed body", func(t *testing.T) {
		code, body := post(t, h, "/explain", `{"request": `)
		assert.Equal(t, http.StatusBadRequest, code, body)
	})
	t.Run("batch", func(t *testing.T) {
		code, body := post(t, h, "/batch", `{"requests": [{"filter": {"age": 30}}, {"filter": {"email": "a@b.c"}}]}`)
		require.Equal(t, http.StatusOK, code, body)
		results := gjson.Parse(body).Array()
		require.Len(t, results, 2)
		for _, res := range results {
			assert.NotEmpty(t, res.Get("solutions").Array())
		}
	})
	t.Run("catalog", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/catalog", nil))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Len(t, gjson.Get(rec.Body.String(), "indexes").Array(), len(testutil.Catalog))
	})
	t.Run("method not allowed", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/explain", nil))
		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	})
}
