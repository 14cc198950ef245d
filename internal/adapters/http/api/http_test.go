package api_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/okian/rarepour/internal/adapters/http/api"
	"github.com/okian/rarepour/internal/adapters/repository"
	"github.com/okian/rarepour/internal/domain/model"
	"github.com/okian/rarepour/internal/domain/preferences"
	"github.com/okian/rarepour/internal/domain/types"
	"github.com/okian/rarepour/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

type mockDependencies struct {
	openings  types.Openings
	openErr   error
	houses    []string
	classes   []model.MasterClass
	refErr    error
	lastQuery url.Values
	lastReqID string
}

func (m *mockDependencies) NextOpenings(ctx context.Context, q url.Values) (types.Openings, error) {
	m.lastQuery = q
	m.lastReqID = api.RequestID(ctx)
	return m.openings, m.openErr
}

func (m *mockDependencies) Houses(context.Context) ([]string, error) {
	return m.houses, m.refErr
}

func (m *mockDependencies) MasterClasses(context.Context) ([]model.MasterClass, error) {
	return m.classes, m.refErr
}

type mockStatsProvider struct {
	stats map[string]interface{}
}

func (m *mockStatsProvider) GetStats() map[string]interface{} {
	return m.stats
}

func newMux(deps *mockDependencies) *http.ServeMux {
	server := api.NewServer(deps, &mockStatsProvider{stats: map[string]interface{}{"started": true}}, logger.Nop())
	mux := http.NewServeMux()
	server.Register(context.Background(), mux)
	return mux
}

func do(mux *http.ServeMux, method, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, http.NoBody)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	return w
}

func TestServer_Register(t *testing.T) {
	Convey("Given a registered API server", t, func() {
		mux := newMux(&mockDependencies{})

		Convey("Then the health endpoint serves metrics", func() {
			w := do(mux, http.MethodGet, "/healthz")
			So(w.Code, ShouldEqual, http.StatusOK)
		})

		Convey("Then the stats endpoint serves JSON", func() {
			w := do(mux, http.MethodGet, "/stats")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, `"started":true`)
		})

		Convey("Then registering on a nil mux panics", func() {
			server := api.NewServer(&mockDependencies{}, &mockStatsProvider{}, nil)
			So(func() { server.Register(context.Background(), nil) }, ShouldPanic)
		})
	})
}

func TestNextOpening(t *testing.T) {
	Convey("Given a server with two recommendations", t, func() {
		price := "45"
		at := time.Date(2025, 4, 25, 18, 0, 0, 0, time.UTC)
		deps := &mockDependencies{openings: types.Openings{Recommendations: []types.Recommendation{
			{Name: "Bollinger R.D. 2007", Time: at, Stand: "12", GlassPrice: &price, PreferenceScore: 3},
			{Name: "Salon 2012", Time: at.Add(time.Hour), Stand: "9", PreferenceScore: 2},
		}}}
		mux := newMux(deps)

		Convey("When requesting with preferences", func() {
			w := do(mux, http.MethodGet, "/api/next-opening?house=Bollinger&house=Krug&size=magnum")

			Convey("Then the array is returned and the query forwarded", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Header().Get("Content-Type"), ShouldEqual, "application/json; charset=utf-8")

				var got []map[string]any
				So(json.Unmarshal(w.Body.Bytes(), &got), ShouldBeNil)
				So(got, ShouldHaveLength, 2)
				So(got[0]["name"], ShouldEqual, "Bollinger R.D. 2007")
				So(got[0]["glass_price"], ShouldEqual, "45")
				So(got[0]["preference_score"], ShouldEqual, float64(3))
				So(got[1]["glass_price"], ShouldBeNil)

				So(deps.lastQuery["house"], ShouldResemble, []string{"Bollinger", "Krug"})
				So(deps.lastQuery.Get("size"), ShouldEqual, "magnum")
			})

			Convey("Then a request id is assigned and echoed", func() {
				So(w.Header().Get(api.RequestIDHeader), ShouldNotBeEmpty)
				So(deps.lastReqID, ShouldEqual, w.Header().Get(api.RequestIDHeader))
			})
		})

		Convey("When the caller sends its own request id", func() {
			req := httptest.NewRequest(http.MethodGet, "/api/next-opening", http.NoBody)
			req.Header.Set(api.RequestIDHeader, "abc-123")
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			Convey("Then it is kept", func() {
				So(w.Header().Get(api.RequestIDHeader), ShouldEqual, "abc-123")
				So(deps.lastReqID, ShouldEqual, "abc-123")
			})
		})

		Convey("When using another method", func() {
			w := do(mux, http.MethodPost, "/api/next-opening")

			Convey("Then it is not found", func() {
				So(w.Code, ShouldEqual, http.StatusNotFound)
			})
		})

		Convey("When the query string is malformed", func() {
			w := do(mux, http.MethodGet, "/api/next-opening?house=%zz")

			Convey("Then it is a bad request", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
			})
		})
	})

	Convey("Given a server where nothing qualifies", t, func() {
		for _, applied := range []bool{false, true} {
			deps := &mockDependencies{openings: types.Openings{PreferencesApplied: applied}}
			w := do(newMux(deps), http.MethodGet, "/api/next-opening")

			Convey(fmt.Sprintf("Then a message is returned (preferences applied: %v)", applied), func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				var got map[string]string
				So(json.Unmarshal(w.Body.Bytes(), &got), ShouldBeNil)
				So(got["message"], ShouldEqual, types.NoOpeningsMessage(applied))
			})
		}
	})

	Convey("Given failing dependencies", t, func() {
		cases := []struct {
			name   string
			err    error
			status int
			code   string
		}{
			{"invalid preference", fmt.Errorf("%w: older_than_year must be a year", preferences.ErrInvalidPreference), http.StatusBadRequest, "invalid_preference"},
			{"missing data", fmt.Errorf("%w: source file missing: /srv/rarepour/schedule.json", repository.ErrDataUnavailable), http.StatusServiceUnavailable, "data_unavailable"},
			{"unexpected failure", errors.New("boom"), http.StatusInternalServerError, "internal_error"},
		}
		for _, tc := range cases {
			w := do(newMux(&mockDependencies{openErr: tc.err}), http.MethodGet, "/api/next-opening")

			Convey("Then "+tc.name+" maps to its status", func() {
				So(w.Code, ShouldEqual, tc.status)
				var got map[string]string
				So(json.Unmarshal(w.Body.Bytes(), &got), ShouldBeNil)
				So(got["code"], ShouldEqual, tc.code)
				if tc.status < http.StatusInternalServerError {
					So(got["message"], ShouldEqual, tc.err.Error())
				} else {
					So(got["message"], ShouldEqual, http.StatusText(tc.status))
					So(got["message"], ShouldNotContainSubstring, "/srv/rarepour")
				}
			})
		}
	})
}

func TestReferenceEndpoints(t *testing.T) {
	Convey("Given a server with reference data", t, func() {
		deps := &mockDependencies{
			houses:  []string{"Bollinger", "Krug"},
			classes: []model.MasterClass{{ID: "mc-1", Title: "Krug Vertical", Wines: []string{"Krug 1996"}}},
		}
		mux := newMux(deps)

		Convey("When listing houses", func() {
			w := do(mux, http.MethodGet, "/api/houses")

			Convey("Then they are returned", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Body.String(), ShouldStartWith, `["Bollinger","Krug"]`)
			})
		})

		Convey("When listing master classes", func() {
			w := do(mux, http.MethodGet, "/api/master-classes")

			Convey("Then they are returned", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				var got []map[string]any
				So(json.Unmarshal(w.Body.Bytes(), &got), ShouldBeNil)
				So(got, ShouldHaveLength, 1)
				So(got[0]["id"], ShouldEqual, "mc-1")
			})
		})
	})

	Convey("Given a server with no reference data", t, func() {
		mux := newMux(&mockDependencies{})

		Convey("Then empty lists are encoded as arrays", func() {
			So(do(mux, http.MethodGet, "/api/houses").Body.String(), ShouldStartWith, "[]")
			So(do(mux, http.MethodGet, "/api/master-classes").Body.String(), ShouldStartWith, "[]")
		})
	})

	Convey("Given reference data that cannot be loaded", t, func() {
		mux := newMux(&mockDependencies{refErr: repository.ErrDataUnavailable})

		Convey("Then the lists are unavailable", func() {
			So(do(mux, http.MethodGet, "/api/houses").Code, ShouldEqual, http.StatusServiceUnavailable)
			So(do(mux, http.MethodGet, "/api/master-classes").Code, ShouldEqual, http.StatusServiceUnavailable)
		})
	})
}

func TestErrorKinds(t *testing.T) {
	Convey("Given API errors", t, func() {
		cause := errors.New("bad year")

		Convey("Then kind and cause are both matchable", func() {
			err := api.WrapKind("api.op", api.ErrBadRequest, cause)
			So(errors.Is(err, api.ErrBadRequest), ShouldBeTrue)
			So(errors.Is(err, cause), ShouldBeTrue)
			So(err.Error(), ShouldEqual, "api.op: bad request: bad year")
		})

		Convey("Then NewKind carries no cause", func() {
			err := api.NewKind("api.op", api.ErrDataUnavailable)
			So(errors.Is(err, api.ErrDataUnavailable), ShouldBeTrue)
			So(err.Error(), ShouldEqual, "api.op: data unavailable")
		})

		Convey("Then Wrap marks unexpected errors as internal", func() {
			So(errors.Is(api.Wrap("api.op", cause), api.ErrInternal), ShouldBeTrue)
			So(api.Wrap("api.op", nil), ShouldBeNil)
		})
	})
}
