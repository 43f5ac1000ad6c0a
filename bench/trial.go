// Package bench measures Grover runs over many random oracles.
//
// It replaces the notebook that used to drive the simulator: oracle
// selection, timing, logging and aggregation all live here, outside the
// simulator packages. A trial drives grover.New, Driver.DefineOracle and
// Driver.Run, reads the answer with grover.Answer and the target's final
// probability with Register.Probability.
package bench

import (
	"math/rand"
	"time"

	"go.uber.org/zap/zapcore"

	"qgrover/register"
)

// RandomOracle draws an n-bit target from rng.
func RandomOracle(rng *rand.Rand, n int) string {
	return register.Label(n, rng.Intn(1<<n))
}

// Trial is the outcome of a single Grover run.
type Trial struct {
	RunID             string
	Qubits            int
	Oracle            string
	Answer            string
	Success           bool
	Iterations        int
	TargetProbability float64
	Elapsed           time.Duration
	Strategy          string
}

// Result labels a trial for metrics.
func (t Trial) Result() string {
	if t.Success {
		return "success"
	}
	return "miss"
}

// MarshalLogObject implements zapcore.ObjectMarshaler.
func (t Trial) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddString("run_id", t.RunID)
	enc.AddInt("qubits", t.Qubits)
	enc.AddString("oracle", t.Oracle)
	enc.AddString("answer", t.Answer)
	enc.AddBool("success", t.Success)
	enc.AddInt("iterations", t.Iterations)
	enc.AddFloat64("target_probability", t.TargetProbability)
	enc.AddDuration("elapsed", t.Elapsed)
	enc.AddString("strategy", t.Strategy)
	return nil
}
