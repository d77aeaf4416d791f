package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/robinjoseph08/golib/pointerutil"
	"github.com/segmentio/encoding/json"
	"github.com/shishobooks/circulation/pkg/auth"
	"github.com/shishobooks/circulation/pkg/config"
	"github.com/shishobooks/circulation/pkg/models"
	"github.com/shishobooks/circulation/pkg/testutils"
	"github.com/shishobooks/circulation/pkg/visits"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type errorBody struct {
	Error struct {
		Code       string `json:"code"`
		Message    string `json:"message"`
		StatusCode int    `json:"status_code"`
	} `json:"error"`
}

type testServer struct {
	handler http.Handler
	tokens  map[string]string
}

func (ts *testServer) do(t *testing.T, method, path, as, ctype, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if ctype != "" {
		req.Header.Set("Content-Type", ctype)
	}
	if as != "" {
		req.AddCookie(&http.Cookie{Name: auth.CookieName, Value: ts.tokens[as]})
	}
	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)
	return rr
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) errorBody {
	t.Helper()

	var body errorBody
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	return body
}

// The server is built once because New sets echo's package level
// NotFoundHandler.
func TestServer(t *testing.T) {
	cfg := config.NewForTest()
	db := testutils.NewDB(t)
	ctx := context.Background()

	srv, err := New(cfg, db, visits.NewCounter())
	require.NoError(t, err)

	authService := auth.NewService(db, cfg.JWTSecret)
	librarian := testutils.CreateUser(ctx, t, db, "librarian", models.RoleLibrarian)
	member := testutils.CreateUser(ctx, t, db, "member", models.RoleMember)
	ts := &testServer{handler: srv.Handler, tokens: map[string]string{}}
	for _, user := range []*models.User{librarian, member} {
		token, err := authService.GenerateToken(user)
		require.NoError(t, err)
		ts.tokens[user.Username] = token
	}

	book := testutils.CreateBook(ctx, t, db, "Beloved")
	onLoan := testutils.CreateCopy(ctx, t, db, book, member, models.LoanStatusOnLoan, pointerutil.Time(testutils.Days(5)))

	t.Run("home counts visits", func(t *testing.T) {
		for want := 0; want < 2; want++ {
			rr := ts.do(t, http.MethodGet, "/", "", "", "")
			require.Equal(t, http.StatusOK, rr.Code)
			var body struct {
				NumBooks  int `json:"num_books"`
				NumVisits int `json:"num_visits"`
			}
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
			assert.Equal(t, 1, body.NumBooks)
			assert.Equal(t, want, body.NumVisits)
		}
	})

	t.Run("unknown route", func(t *testing.T) {
		rr := ts.do(t, http.MethodGet, "/nope", "", "", "")
		assert.Equal(t, http.StatusNotFound, rr.Code)
		assert.Equal(t, "not_found", decodeError(t, rr).Error.Code)
	})

	t.Run("catalog reads are public and writes are gated", func(t *testing.T) {
		rr := ts.do(t, http.MethodGet, "/books", "", "", "")
		assert.Equal(t, http.StatusOK, rr.Code)

		body := `{"first_name":"Toni","last_name":"Morrison"}`
		rr = ts.do(t, http.MethodPost, "/authors", "", "application/json", body)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)

		rr = ts.do(t, http.MethodPost, "/authors", "member", "application/json", body)
		assert.Equal(t, http.StatusForbidden, rr.Code)

		rr = ts.do(t, http.MethodPost, "/authors", "librarian", "application/json", body)
		assert.Equal(t, http.StatusCreated, rr.Code)
	})

	t.Run("copy maintenance needs the capability", func(t *testing.T) {
		rr := ts.do(t, http.MethodGet, "/copies", "member", "", "")
		assert.Equal(t, http.StatusForbidden, rr.Code)

		rr = ts.do(t, http.MethodGet, "/copies/"+onLoan.ID, "librarian", "", "")
		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("loans", func(t *testing.T) {
		rr := ts.do(t, http.MethodGet, "/loans/mine", "", "", "")
		assert.Equal(t, http.StatusUnauthorized, rr.Code)

		rr = ts.do(t, http.MethodGet, "/loans/mine", "member", "", "")
		require.Equal(t, http.StatusOK, rr.Code)
		var loans []struct {
			ID string `json:"id"`
		}
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &loans))
		require.Len(t, loans, 1)
		assert.Equal(t, onLoan.ID, loans[0].ID)

		rr = ts.do(t, http.MethodGet, "/loans", "member", "", "")
		assert.Equal(t, http.StatusForbidden, rr.Code)

		rr = ts.do(t, http.MethodGet, "/loans", "librarian", "", "")
		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("renew", func(t *testing.T) {
		form := func(d string) string {
			return url.Values{"renewal_date": {d}}.Encode()
		}
		ctype := "application/x-www-form-urlencoded"
		valid := testutils.Days(14).Format(models.DateLayout)

		rr := ts.do(t, http.MethodPost, "/copies/00000000-0000-4000-8000-000000000000/renew", "member", ctype, form(valid))
		assert.Equal(t, http.StatusNotFound, rr.Code)
		assert.Equal(t, "Book instance not found.", decodeError(t, rr).Error.Message)

		rr = ts.do(t, http.MethodPost, "/copies/"+onLoan.ID+"/renew", "member", ctype, form(valid))
		assert.Equal(t, http.StatusForbidden, rr.Code)

		rr = ts.do(t, http.MethodPost, "/copies/"+onLoan.ID+"/renew", "librarian", ctype, form("2000-01-01"))
		assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
		body := decodeError(t, rr)
		assert.Equal(t, "validation_error", body.Error.Code)
		assert.Equal(t, "Invalid date - renewal in past", body.Error.Message)

		rr = ts.do(t, http.MethodGet, "/copies/"+onLoan.ID+"/renew", "librarian", "", "")
		require.Equal(t, http.StatusOK, rr.Code)
		var renewal struct {
			RenewalDate string `json:"renewal_date"`
		}
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &renewal))
		proposed, err := models.ParseDate(renewal.RenewalDate)
		require.NoError(t, err)

		rr = ts.do(t, http.MethodPost, "/copies/"+onLoan.ID+"/renew", "librarian", ctype, form(renewal.RenewalDate))
		assert.Equal(t, http.StatusSeeOther, rr.Code)
		assert.Equal(t, "/loans", rr.Header().Get("Location"))

		stored := &models.BookInstance{}
		require.NoError(t, db.NewSelect().Model(stored).Where("bi.id = ?", onLoan.ID).Scan(ctx))
		assert.True(t, proposed.Equal(*stored.DueBack))
		assert.Equal(t, models.LoanStatusOnLoan, stored.Status)
	})

	t.Run("mark returned", func(t *testing.T) {
		rr := ts.do(t, http.MethodPost, "/copies/"+onLoan.ID+"/status", "librarian", "application/json", `{"status":"a"}`)
		require.Equal(t, http.StatusOK, rr.Code)

		rr = ts.do(t, http.MethodGet, "/loans/mine", "member", "", "")
		assert.JSONEq(t, `[]`, rr.Body.String())
	})
}
