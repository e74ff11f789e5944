package auth

import (
	"net/http/httptest"
	"testing"
	"time"

	"agency-backend/internal/access"
	"agency-backend/internal/config"
	"agency-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{JWTSecret: "0123456789abcdef0123456789abcdef"}
}

func testApp(cfg *config.Config) *fiber.App {
	app := fiber.New()
	protected := app.Group("", JWTMiddleware(cfg))

	ok := func(c *fiber.Ctx) error { return c.SendString("ok") }
	protected.Get("/tasks", RequireSection(access.SectionTasks), ok)
	protected.Get("/finance", RequireSection(access.SectionFinance), ok)
	protected.Get("/leads", RequireSection(access.SectionLeads), ok)
	protected.Get("/manage-users", RequireAction(access.ActionManageUsers), ok)
	protected.Get("/team", RequireSection(access.SectionTeam), ok)
	return app
}

func tokenFor(t *testing.T, cfg *config.Config, role models.Role, ttl time.Duration) string {
	t.Helper()
	token, err := GenerateToken(cfg.JWTSecret, ttl, &models.User{
		ID:    "user-1",
		Name:  "Test User",
		Email: "test@example.com",
		Role:  role,
	})
	require.NoError(t, err)
	return token
}

func doRequest(t *testing.T, app *fiber.App, path, token, viewAs string) int {
	t.Helper()
	req := httptest.NewRequest("GET", path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if viewAs != "" {
		req.Header.Set(ViewAsHeader, viewAs)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp.StatusCode
}

func TestJWTMiddleware_RejectsMissingAndExpiredTokens(t *testing.T) {
	cfg := testConfig()
	app := testApp(cfg)

	require.Equal(t, fiber.StatusUnauthorized, doRequest(t, app, "/tasks", "", ""))

	expired := tokenFor(t, cfg, models.RoleCTO, -time.Hour)
	require.Equal(t, fiber.StatusUnauthorized, doRequest(t, app, "/tasks", expired, ""))
}

func TestRequireSection_FollowsEffectiveRole(t *testing.T) {
	cfg := testConfig()
	app := testApp(cfg)

	cto := tokenFor(t, cfg, models.RoleCTO, time.Hour)
	cfo := tokenFor(t, cfg, models.RoleCFO, time.Hour)

	require.Equal(t, fiber.StatusOK, doRequest(t, app, "/tasks", cto, ""))
	require.Equal(t, fiber.StatusForbidden, doRequest(t, app, "/finance", cto, ""))
	require.Equal(t, fiber.StatusOK, doRequest(t, app, "/finance", cfo, ""))

	// viewing as developer really does hide the leads section from the CTO
	require.Equal(t, fiber.StatusOK, doRequest(t, app, "/leads", cto, ""))
	require.Equal(t, fiber.StatusForbidden, doRequest(t, app, "/leads", cto, "developer"))
	require.Equal(t, fiber.StatusOK, doRequest(t, app, "/tasks", cto, "developer"))
}

func TestViewAs_EscalationRejected(t *testing.T) {
	cfg := testConfig()
	app := testApp(cfg)

	cto := tokenFor(t, cfg, models.RoleCTO, time.Hour)
	developer := tokenFor(t, cfg, models.RoleDeveloper, time.Hour)

	require.Equal(t, fiber.StatusForbidden, doRequest(t, app, "/tasks", cto, "founder"))
	require.Equal(t, fiber.StatusForbidden, doRequest(t, app, "/tasks", developer, "cto"))
	require.Equal(t, fiber.StatusForbidden, doRequest(t, app, "/tasks", developer, "developer"))
	require.Equal(t, fiber.StatusForbidden, doRequest(t, app, "/tasks", cto, "not-a-role"))
}

func TestRequireAction_OriginalRoleSurvivesViewAs(t *testing.T) {
	cfg := testConfig()
	app := testApp(cfg)

	cto := tokenFor(t, cfg, models.RoleCTO, time.Hour)
	sales := tokenFor(t, cfg, models.RoleSales, time.Hour)

	// manage_users is checked against the original role, so viewing as a
	// developer does not drop it
	require.Equal(t, fiber.StatusOK, doRequest(t, app, "/manage-users", cto, ""))
	require.Equal(t, fiber.StatusOK, doRequest(t, app, "/manage-users", cto, "developer"))
	require.Equal(t, fiber.StatusForbidden, doRequest(t, app, "/manage-users", sales, ""))
}

func TestRequireSection_TeamOpenToUserManagers(t *testing.T) {
	cfg := testConfig()
	app := testApp(cfg)

	cto := tokenFor(t, cfg, models.RoleCTO, time.Hour)
	cfo := tokenFor(t, cfg, models.RoleCFO, time.Hour)

	require.Equal(t, fiber.StatusOK, doRequest(t, app, "/team", cto, ""))
	require.Equal(t, fiber.StatusForbidden, doRequest(t, app, "/team", cfo, ""))
}
