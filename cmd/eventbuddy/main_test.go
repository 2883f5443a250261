package main

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/smartystreets/goconvey/convey"

	service "github.com/okian/eventbuddy/internal/app"
	"github.com/okian/eventbuddy/internal/config"
	"github.com/okian/eventbuddy/pkg/logger"
)

const testSeed = `users:
  - id: u1
    name: Ada
    interests: [music, jazz]
    bio: I love live music
  - id: u2
    interests: [running]
events:
  - id: e1
    topics: [music]
    title: Jazz Night
    description: Live jazz music downtown
    attributes:
      date: "2025-06-01"
  - id: e2
    topics: [sports]
    title: City Marathon
    description: Running the city
  - id: e3
    topics: [art]
    title: Gallery Opening
`

func writeSeed(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "seed.yaml")
	if err := os.WriteFile(path, []byte(testSeed), 0o600); err != nil {
		t.Fatalf("write seed: %v", err)
	}
	return path
}

func run(args ...string) (string, error) {
	root := newRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRootCommand(t *testing.T) {
	convey.Convey("Given the root command", t, func() {
		root := newRootCmd()

		convey.Convey("Then it exposes serve, suggest and seed", func() {
			names := make([]string, 0, len(root.Commands()))
			for _, c := range root.Commands() {
				names = append(names, c.Name())
			}
			convey.So(names, convey.ShouldContain, "serve")
			convey.So(names, convey.ShouldContain, "suggest")
			convey.So(names, convey.ShouldContain, "seed")
		})

		convey.Convey("Then suggest requires exactly one user id", func() {
			_, err := run("suggest")
			convey.So(err, convey.ShouldNotBeNil)
		})
	})
}

func TestSuggestCommand(t *testing.T) {
	t.Setenv(config.EnvPrefix+"SEED_FILE", writeSeed(t))

	convey.Convey("Given a memory store seeded from a file", t, func() {
		convey.Convey("When suggesting for a known user", func() {
			out, err := run("suggest", "u1", "--log-level", "error")

			convey.Convey("Then the ranking is printed as JSON", func() {
				convey.So(err, convey.ShouldBeNil)
				var body struct {
					User      string           `json:"user"`
					Suggested []map[string]any `json:"suggested_events"`
				}
				convey.So(json.Unmarshal([]byte(out), &body), convey.ShouldBeNil)
				convey.So(body.User, convey.ShouldEqual, "u1")
				convey.So(body.Suggested, convey.ShouldHaveLength, 3)
				convey.So(body.Suggested[0]["id"], convey.ShouldEqual, "e1")
				convey.So(body.Suggested[0]["date"], convey.ShouldEqual, "2025-06-01")
			})
		})

		convey.Convey("When suggesting for an unknown user", func() {
			_, err := run("suggest", "ghost", "--log-level", "error")

			convey.Convey("Then the not-found error is returned", func() {
				convey.So(errors.Is(err, service.ErrUserNotFound), convey.ShouldBeTrue)
			})
		})
	})
}

func TestSeedCommand(t *testing.T) {
	seedPath := writeSeed(t)

	convey.Convey("Given the memory driver", t, func() {
		convey.Convey("Then seeding is refused", func() {
			_, err := run("seed", seedPath)
			convey.So(errors.Is(err, ErrEphemeralStore), convey.ShouldBeTrue)
		})
	})

	t.Setenv(config.EnvPrefix+"STORE_DRIVER", config.DriverBadger)
	t.Setenv(config.EnvPrefix+"BADGER_DIR", t.TempDir())

	convey.Convey("Given a badger store", t, func() {
		convey.Convey("When a catalog is seeded and then queried", func() {
			out, err := run("seed", seedPath, "--log-level", "error")
			convey.So(err, convey.ShouldBeNil)
			convey.So(out, convey.ShouldContainSubstring, "imported 2 users and 3 events")

			out, err = run("suggest", "u2", "--log-level", "error")

			convey.Convey("Then the persisted data is ranked", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(out, convey.ShouldContainSubstring, `"id": "e2"`)
			})
		})
	})
}

func TestHandler(t *testing.T) {
	convey.Convey("Given a CLI with default config", t, func() {
		cfg := config.New()
		cfg.SeedFile = writeSeed(t)
		c := &cli{cfg: cfg, log: logger.Nop()}

		svc, cleanup, err := c.newService(context.Background())
		convey.So(err, convey.ShouldBeNil)
		defer cleanup()

		h := c.newHandler(svc)

		for _, path := range []string{"/", "/api-docs", "/openapi.yaml", "/healthz", "/stats", "/metrics", "/api/events", "/ai_suggest_events/u1"} {
			convey.Convey("Then "+path+" is served", func() {
				w := httptest.NewRecorder()
				h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, http.NoBody))
				convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
			})
		}
	})

	convey.Convey("Given an unknown stop word list", t, func() {
		cfg := config.New()
		cfg.StopWords = "klingon"
		c := &cli{cfg: cfg, log: logger.Nop()}

		convey.Convey("Then the service is not built", func() {
			_, _, err := c.newService(context.Background())
			convey.So(err, convey.ShouldNotBeNil)
		})
	})
}

func TestUpdateSystemMetrics(t *testing.T) {
	convey.Convey("Given the system metrics updater", t, func() {
		convey.So(updateSystemMetrics, convey.ShouldNotPanic)
	})
}
