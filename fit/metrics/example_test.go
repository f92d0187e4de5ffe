package metrics_test

import (
	"fmt"

	"github.com/cwbudde/algo-pesfit/dataio"
	"github.com/cwbudde/algo-pesfit/fit/metrics"
)

func ExampleRMSE() {
	truth := dataio.Vector([]float64{0, 0, 0, 0})
	fit := dataio.Vector([]float64{0.3, -0.3, 0.3, -0.3})
	rmse, _ := metrics.RMSE(fit, truth)
	instab, _ := metrics.Instability(fit, truth)
	fmt.Printf("rmse=%.2f instability=%.2f\n", rmse, instab)

	// Output:
	// rmse=0.60 instability=0.09
}
