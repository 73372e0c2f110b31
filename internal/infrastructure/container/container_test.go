package container

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"

	"github.com/snacktrack/assessor/internal/domain/product"
	"github.com/snacktrack/assessor/internal/ports/inbound"
)

func TestModule_Validates(t *testing.T) {
	err := fx.ValidateApp(Module, fx.Supply(ConfigPath("")))
	require.NoError(t, err)
}

func freePort(t *testing.T) int {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()
	return ln.Addr().(*net.TCPAddr).Port
}

func writeConfig(t *testing.T, port int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := fmt.Sprintf(`
app:
  environment: test
  log_level: error
database:
  driver: sqlite
  path: ":memory:"
  log_level: silent
monitoring:
  host: 127.0.0.1
  port: %d
`, port)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestModule_AssessEndToEnd(t *testing.T) {
	port := freePort(t)

	var (
		profiles    inbound.ProfileService
		products    inbound.ProductService
		assessments inbound.AssessmentService
	)
	app := fxtest.New(t,
		fx.NopLogger,
		Module,
		fx.Supply(ConfigPath(writeConfig(t, port))),
		fx.Populate(&profiles, &products, &assessments),
	)
	app.RequireStart()
	defer app.RequireStop()

	ctx := context.Background()
	u, err := profiles.RegisterUser(ctx, inbound.RegisterUserCommand{
		Email: "grace@example.com",
		Name:  "Grace",
		Profile: inbound.HealthProfileInput{
			Age:           30,
			Sex:           "female",
			HeightCm:      165,
			WeightKg:      60,
			ActivityLevel: "light",
			Goal:          "maintain",
			Allergies:     []string{"peanuts"},
		},
	})
	require.NoError(t, err)

	p, err := products.RegisterProduct(ctx, inbound.RegisterProductCommand{
		Name:        "Peanut Bar",
		Ingredients: []string{"peanuts", "sugar"},
		Nutrition: &inbound.NutritionFactsInput{
			Calories: product.Value(250),
			FatG:     product.Value(12),
			SugarG:   product.Value(18),
			SodiumMg: product.Value(150),
		},
	})
	require.NoError(t, err)

	first, err := assessments.Assess(ctx, inbound.AssessCommand{UserID: u.ID, ProductID: p.ID})
	require.NoError(t, err)
	assert.NotEmpty(t, first.AllergyWarnings)

	again, err := assessments.Assess(ctx, inbound.AssessCommand{UserID: u.ID, ProductID: p.ID})
	require.NoError(t, err)
	assert.Equal(t, first.ID, again.ID)

	base := fmt.Sprintf("http://127.0.0.1:%d", port)
	for path, status := range map[string]int{"/health": http.StatusOK, "/ready": http.StatusOK, "/metrics": http.StatusOK} {
		resp, err := http.Get(base + path)
		require.NoError(t, err, path)
		resp.Body.Close()
		assert.Equal(t, status, resp.StatusCode, path)
	}
}
