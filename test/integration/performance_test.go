package integration

import (
	"fmt"
	"testing"
	"time"

	"github.com/iwvelando/sip-calculator/internal/config"
	"github.com/iwvelando/sip-calculator/internal/goal"
	"github.com/iwvelando/sip-calculator/internal/projection"
	"github.com/iwvelando/sip-calculator/pkg/sip"
	"go.uber.org/zap"
)

func manyScenarios(n int) config.Configuration {
	conf := *config.DefaultConfiguration()
	for i := 0; i < n; i++ {
		amount := float64(1000 + i*100)
		increment := float64(i % 15)
		tenure := 10 + i%41
		rate := 6 + float64(i%10)
		conf.Scenarios = append(conf.Scenarios, config.Scenario{
			Name:            fmt.Sprintf("scenario %d", i),
			Active:          true,
			SIPAmount:       &amount,
			AnnualIncrement: &increment,
			Tenure:          &tenure,
			RateOfReturn:    &rate,
		})
	}
	return conf
}

// TestPerformance guards against accidental quadratic behavior in the
// projection and goal paths.
func TestPerformance(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping performance test in short mode")
	}
	logger := zap.NewNop()
	conf := manyScenarios(500)

	start := time.Now()
	results, err := projection.GetProjections(logger, conf, true)
	if err != nil {
		t.Fatalf("GetProjections() error = %v", err)
	}
	projectionTime := time.Since(start)
	if len(results) != 500 {
		t.Fatalf("got %d results, want 500", len(results))
	}

	start = time.Now()
	in := sip.Inputs{SIPAmount: 1000, AnnualIncrement: 10, Tenure: 40, RateOfReturn: 12}
	summary, err := goal.Seek(sip.DefaultPolicy(), in, config.GoalConfig{Target: 50000000})
	if err != nil {
		t.Fatalf("Seek() error = %v", err)
	}
	goalTime := time.Since(start)

	t.Logf("Projections: %v, goal seek: %v (%d iterations)", projectionTime, goalTime, summary.Iterations)

	if projectionTime > 5*time.Second {
		t.Errorf("projections took too long: %v", projectionTime)
	}
	if goalTime > time.Second {
		t.Errorf("goal seek took too long: %v", goalTime)
	}
}

func BenchmarkGetProjections(b *testing.B) {
	logger := zap.NewNop()
	conf := manyScenarios(50)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := projection.GetProjections(logger, conf, false); err != nil {
			b.Fatal(err)
		}
	}
}
